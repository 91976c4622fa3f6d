package plan

import "github.com/smilemakc/callgraph/graph"

// Gather recursively descends through Sequence/Tuple/Set/Mapping container
// values. If any leaf turns out to already be a node reference, it
// synthesises a Call to the matching gatherer builtin that reconstructs
// that container shape from its arguments; otherwise it wraps value as a
// single Literal. A bare NodeRef is returned unchanged.
func (p *Plan) Gather(value any) (NodeRef, error) {
	if ref, ok := value.(NodeRef); ok {
		if err := p.own(ref); err != nil {
			return NodeRef{}, err
		}
		return ref, nil
	}
	if !containsNodeRef(value) {
		return p.Lit(value)
	}
	switch v := value.(type) {
	case Sequence:
		return p.gatherContainer(gatherSequenceFn{}, v, nil)
	case Tuple:
		return p.gatherContainer(gatherTupleFn{}, v, nil)
	case Set:
		return p.gatherContainer(gatherSetFn{}, v, nil)
	case Mapping:
		keys := make([]string, 0, len(v))
		elems := make([]any, 0, len(v))
		for k, elem := range v {
			keys = append(keys, k)
			elems = append(elems, elem)
		}
		return p.gatherContainer(gatherMappingFn{}, elems, keys)
	default:
		return NodeRef{}, ErrUnknownContainer
	}
}

// gatherContainer resolves each element (recursively gathering nested
// containers) and issues one Call to builtin binding them either
// positionally (keys == nil) or by keyword (keys[i] names elems[i]).
func (p *Plan) gatherContainer(builtin graph.Callable, elems []any, keys []string) (NodeRef, error) {
	args := make([]Arg, len(elems))
	for i, elem := range elems {
		resolved, err := p.Gather(elem)
		if err != nil {
			return NodeRef{}, err
		}
		if keys == nil {
			args[i] = Pos(resolved)
		} else {
			args[i] = Kw(keys[i], resolved)
		}
	}
	return p.Call(builtin, args...)
}
