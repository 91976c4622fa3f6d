package plan

// The four structural container shapes gather() recognises. User types that
// happen to be iterable (a plain []int, a custom struct) are deliberately
// not traversed: the container set is closed to exactly these four, each
// spelled out as its own named type so gather can switch on it rather than
// guess at reflection over arbitrary slices/maps.
type (
	// Sequence is an ordered, repeatable-element container (a "list").
	Sequence []any
	// Tuple is an ordered, fixed-shape container.
	Tuple []any
	// Set is an unordered container with no duplicate elements; Go has no
	// native set literal, so membership/ordering is insertion order and
	// callers are responsible for not relying on set semantics beyond
	// "same elements, order-independent equality is their concern, not
	// the builder's."
	Set []any
	// Mapping is a string-keyed container.
	Mapping map[string]any
)

// containsNodeRef reports whether value is a NodeRef, or a Sequence/Tuple/
// Set/Mapping that recursively contains one. Anything else (including a
// plain, non-tagged Go slice or map) is treated as an opaque leaf value.
func containsNodeRef(value any) bool {
	switch v := value.(type) {
	case NodeRef:
		return true
	case Sequence:
		return anyContainsNodeRef(v)
	case Tuple:
		return anyContainsNodeRef(v)
	case Set:
		return anyContainsNodeRef(v)
	case Mapping:
		for _, elem := range v {
			if containsNodeRef(elem) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func anyContainsNodeRef(elems []any) bool {
	for _, elem := range elems {
		if containsNodeRef(elem) {
			return true
		}
	}
	return false
}
