package plan

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/smilemakc/callgraph/graph"
)

// ErrNotTransformed is the error the source sentinel fails with when it is
// actually invoked instead of being spliced out by the plan rewriter — a
// sign the registry was never handed to the engine.
var ErrNotTransformed = errors.New("plan: source sentinel invoked directly (registry not applied)")

// The gatherer/unpack builtins are the only Callables the builder itself
// ever installs into a graph; everything else is supplied by the caller.
// They are exported by name (via Name()) so planquery and traceback
// rendering can recognise them as synthetic nodes rather than user calls.

type gatherSequenceFn struct{}

func (gatherSequenceFn) Name() string { return "gather_list" }
func (gatherSequenceFn) Invoke(args []any, _ map[string]any) (any, error) {
	out := make(Sequence, len(args))
	copy(out, args)
	return out, nil
}

type gatherTupleFn struct{}

func (gatherTupleFn) Name() string { return "gather_tuple" }
func (gatherTupleFn) Invoke(args []any, _ map[string]any) (any, error) {
	out := make(Tuple, len(args))
	copy(out, args)
	return out, nil
}

type gatherSetFn struct{}

func (gatherSetFn) Name() string { return "gather_set" }
func (gatherSetFn) Invoke(args []any, _ map[string]any) (any, error) {
	out := make(Set, len(args))
	copy(out, args)
	return out, nil
}

type gatherMappingFn struct{}

func (gatherMappingFn) Name() string { return "gather_mapping" }
func (gatherMappingFn) Invoke(_ []any, kwargs map[string]any) (any, error) {
	out := make(Mapping, len(kwargs))
	for k, v := range kwargs {
		out[k] = v
	}
	return out, nil
}

// sourceFn is the registry's sentinel "source" builtin: invoking it for
// real (rather than having it rewritten away by the plan rewriter) means
// the registry that should have spliced a read in its place was never
// supplied to the engine.
type sourceFn struct{ label string }

func (f sourceFn) Name() string { return "source:" + f.label }
func (sourceFn) Invoke(_ []any, _ map[string]any) (any, error) {
	return nil, ErrNotTransformed
}

// SourceBuiltin returns the sentinel Callable a registry uses to mark a
// node as a source: a Call with no arguments that only ever runs for real
// if the plan rewriter never got a chance to splice a read in its place.
func SourceBuiltin(label string) graph.Callable { return sourceFn{label: label} }

// unpackCheckFn validates that the iterable gathered at build time has
// exactly N elements before any selector reads out of it.
type unpackCheckFn struct{ n int }

func (f unpackCheckFn) Name() string { return fmt.Sprintf("unpack[%d]", f.n) }
func (f unpackCheckFn) Invoke(args []any, _ map[string]any) (any, error) {
	rv := reflect.ValueOf(args[0])
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
	default:
		return nil, fmt.Errorf("plan: unpack target is not a sequence (got %T)", args[0])
	}
	if rv.Len() != f.n {
		return nil, fmt.Errorf("plan: unpack expected length %d, got %d", f.n, rv.Len())
	}
	return args[0], nil
}

// selectFn reads out index i of the unpack-checked sequence.
type selectFn struct{ index int }

func (f selectFn) Name() string { return fmt.Sprintf("select[%d]", f.index) }
func (f selectFn) Invoke(args []any, _ map[string]any) (any, error) {
	rv := reflect.ValueOf(args[0])
	if f.index < 0 || f.index >= rv.Len() {
		return nil, fmt.Errorf("plan: select index %d out of range (len %d)", f.index, rv.Len())
	}
	return rv.Index(f.index).Interface(), nil
}
