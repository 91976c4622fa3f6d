package graph

import "errors"

// Sentinel errors returned by graph mutation and traversal operations.
var (
	// ErrNodeNotFound is returned when an operation references a node id
	// that is not present in the graph.
	ErrNodeNotFound = errors.New("graph: node not found")

	// ErrHasACycle is returned by topological operations when the graph
	// is not a DAG. It can only arise after add_dependency has introduced
	// a back edge; the builder never produces one on its own.
	ErrHasACycle = errors.New("graph: cycle detected")
)
