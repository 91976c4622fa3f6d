package plan

// Unpack synthesises a length-checking Call over iterable plus n
// index-selector Calls, returning their NodeRefs in order. n must be a
// non-negative int (Go's static typing already rules out "not integral";
// only the sign is checked here).
func (p *Plan) Unpack(iterable any, n int) ([]NodeRef, error) {
	if n < 0 {
		return nil, ErrInvalidUnpackLen
	}
	src, err := p.resolveArg(iterable)
	if err != nil {
		return nil, err
	}
	checked, err := p.Call(unpackCheckFn{n: n}, Pos(src))
	if err != nil {
		return nil, err
	}
	out := make([]NodeRef, n)
	for i := 0; i < n; i++ {
		sel, err := p.Call(selectFn{index: i}, Pos(checked))
		if err != nil {
			return nil, err
		}
		out[i] = sel
	}
	return out, nil
}
