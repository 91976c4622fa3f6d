package engine

import (
	"fmt"

	"github.com/smilemakc/callgraph/graph"
	"github.com/smilemakc/callgraph/traceback"
)

// NodeError wraps a single failing node's cause. It is the internal
// failure representation the worker loop raises and records; the engine
// always surfaces it to the caller wrapped one level further as a
// CallError once all in-flight work has quiesced.
type NodeError struct {
	Node graph.NodeID
	Err  error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("engine: node %d failed: %v", e.Node, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }

// CallError is what Run returns on failure: the rendered symbolic
// traceback of the first failing node's call site as the message, with
// the original cause preserved through Unwrap.
type CallError struct {
	Node  graph.NodeID
	Frame *graph.StackFrame
	Err   error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%v\n%s", e.Err, traceback.Render(e.Frame))
}

func (e *CallError) Unwrap() error { return e.Err }
