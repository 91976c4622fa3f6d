// Package plan implements the append-only plan builder: the user-facing API
// that assembles a graph.Graph of literal and call nodes, with automatic
// gathering of nested containers, symbolic unpack, and scope tracking.
package plan

import (
	"fmt"
	"runtime"

	"github.com/smilemakc/callgraph/graph"
)

// Plan is the logical graph under construction. The zero value is not
// usable; call New.
type Plan struct {
	g          *graph.Graph
	scopeStack graph.Scope
}

// New returns an empty Plan.
func New() *Plan {
	return &Plan{g: graph.New()}
}

// Graph exposes the underlying graph for read-only inspection by the
// transform/planner/engine packages, which operate one level below the
// builder API.
func (p *Plan) Graph() *graph.Graph { return p.g }

// NodeRef is an opaque handle to a node owned by a specific Plan. Builder
// operations accept and return NodeRef rather than a bare graph.NodeID so
// that a reference accidentally passed to a different Plan's operation is
// caught as ErrCrossPlanRef instead of silently resolving to the wrong
// node (or panicking on an out-of-range id).
type NodeRef struct {
	plan *Plan
	id   graph.NodeID
}

// ID returns the underlying graph node id. Used by transform/planner/engine
// code that already holds the owning Plan and just needs the identifier.
func (r NodeRef) ID() graph.NodeID { return r.id }

// IsZero reports whether r is the unset NodeRef.
func (r NodeRef) IsZero() bool { return r.plan == nil }

func (p *Plan) ref(id graph.NodeID) NodeRef { return NodeRef{plan: p, id: id} }

func (p *Plan) own(r NodeRef) error {
	if r.plan != p {
		return ErrCrossPlanRef
	}
	return nil
}

// Owns reports whether r was created by p. Used by package registry to
// validate registrations without needing access to Plan's internals.
func (p *Plan) Owns(r NodeRef) bool { return r.plan == p }

// Lit creates a Literal node carrying value. value must not already be a
// NodeRef (wrapping a node inside a literal is meaningless: a node is
// already a graph reference, not a value to be boxed again).
func (p *Plan) Lit(value any) (NodeRef, error) {
	if _, ok := value.(NodeRef); ok {
		return NodeRef{}, ErrLitOfNode
	}
	id := p.g.AddNode(graph.NewLiteralNode(value, p.currentScope()))
	return p.ref(id), nil
}

func (p *Plan) currentScope() graph.Scope {
	if len(p.scopeStack) == 0 {
		return nil
	}
	return append(graph.Scope(nil), p.scopeStack...)
}

// Arg is one argument to Call: either positional (Pos) or keyword (Kw). Its
// Value may be a NodeRef, a plain value, or a Sequence/Tuple/Set/Mapping
// that gather() will recursively resolve.
type Arg struct {
	name  string
	value any
}

// Pos builds a positional argument.
func Pos(value any) Arg { return Arg{value: value} }

// Kw builds a keyword argument named name.
func Kw(name string, value any) Arg { return Arg{name: name, value: value} }

// Call validates fn is usable, binds args/kwargs to it, captures the
// call-site stack frame, auto-gathers each argument, creates a Call node,
// and adds one argument edge per argument.
func (p *Plan) Call(fn graph.Callable, args ...Arg) (NodeRef, error) {
	if fn == nil {
		return NodeRef{}, ErrNotCallable
	}

	nPositional := 0
	var keywords []string
	for _, a := range args {
		if a.name == "" {
			nPositional++
		} else {
			keywords = append(keywords, a.name)
		}
	}
	if checker, ok := fn.(graph.SignatureChecker); ok {
		if err := checker.CheckBinding(nPositional, keywords); err != nil {
			return NodeRef{}, fmt.Errorf("%w: %v", ErrSignatureMismatch, err)
		}
	}

	frame := captureFrame(3)
	callID := p.g.AddNode(graph.NewCallNode(fn, p.currentScope(), frame))

	posIndex, kwIndex := 0, 0
	for _, a := range args {
		src, err := p.resolveArg(a.value)
		if err != nil {
			p.g.RemoveNode(callID)
			return NodeRef{}, err
		}
		var kind graph.EdgeKind
		if a.name == "" {
			kind = graph.PositionalArg(posIndex)
			posIndex++
		} else {
			kind = graph.KeywordArg(a.name, kwIndex)
			kwIndex++
		}
		if err := p.g.AddEdge(graph.Edge{From: src.id, To: callID, Kind: kind}); err != nil {
			p.g.RemoveNode(callID)
			return NodeRef{}, err
		}
	}
	return p.ref(callID), nil
}

// resolveArg turns an argument value into a NodeRef owned by p, gathering
// containers and wrapping plain values as literals as needed.
func (p *Plan) resolveArg(value any) (NodeRef, error) {
	if ref, ok := value.(NodeRef); ok {
		if err := p.own(ref); err != nil {
			return NodeRef{}, err
		}
		return ref, nil
	}
	return p.Gather(value)
}

// captureFrame walks the native call stack starting `skip` frames up
// (skip=3 from inside Call itself reaches Call's caller) and folds it into
// a symbolic traceback chain via graph.BuildFrameChain.
func captureFrame(skip int) *graph.StackFrame {
	pcs := make([]uintptr, graph.MaxFrameDepth+8)
	n := runtime.Callers(skip, pcs)
	if n == 0 {
		return nil
	}
	iter := runtime.CallersFrames(pcs[:n])
	var frames []graph.FrameInfo
	for {
		fr, more := iter.Next()
		frames = append(frames, graph.FrameInfo{Name: fr.Function, Path: fr.File, Line: fr.Line})
		if !more {
			break
		}
	}
	return graph.BuildFrameChain(frames)
}

// AddDependency adds an ordering-only Dependency edge from src to dst. Both
// must already belong to p.
func (p *Plan) AddDependency(src, dst NodeRef) error {
	if err := p.own(src); err != nil {
		return err
	}
	if err := p.own(dst); err != nil {
		return err
	}
	return p.g.AddEdge(graph.Edge{From: src.id, To: dst.id, Kind: graph.Dependency})
}

// Copy returns a structural copy of the plan's graph with an empty current
// scope; node ids are preserved so NodeRefs captured before the copy still
// resolve correctly against the copy (the copy is a new Plan, so cross-plan
// validation still treats original refs as foreign to it).
func (p *Plan) Copy() *Plan {
	return &Plan{g: p.g.Copy()}
}
