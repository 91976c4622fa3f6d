package graph

import "fmt"

// Scope is an ordered tuple of hashable tags identifying the logical
// iteration a node belongs to (e.g. a loop index, a partition key). Two
// scopes are equal iff they have the same length and equal tags in order.
type Scope []any

// Equal reports whether s and other carry the same tags in the same order.
func (s Scope) Equal(other Scope) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Append returns a new scope with tag appended, leaving s untouched.
func (s Scope) Append(tag any) Scope {
	out := make(Scope, len(s)+1)
	copy(out, s)
	out[len(s)] = tag
	return out
}

func (s Scope) String() string {
	return fmt.Sprintf("%v", []any(s))
}
