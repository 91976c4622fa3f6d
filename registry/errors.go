package registry

import "errors"

// ErrDuplicateEntry is returned by Add when a node already has a registry
// entry; a node may be registered against at most one store.
var ErrDuplicateEntry = errors.New("registry: node already registered")

// ErrForeignNode is returned when a NodeRef belongs to a different Plan
// than the one the Registry was built against.
var ErrForeignNode = errors.New("registry: node belongs to a different plan")
