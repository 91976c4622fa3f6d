package graph

import "github.com/google/uuid"

// NodeID is the stable identifier of a node within one Graph: an arena
// index, not an object address, so nodes can be relabeled, copied, and
// compared cheaply and stay valid across transform passes that rebuild
// adjacency but keep identities.
type NodeID int

// NoNode (-1) never denotes a real node; arena ids start at 0.
const NoNode NodeID = -1

// NodeKind discriminates the two node variants.
type NodeKind int

const (
	// Literal nodes carry a fixed Go value with no inbound argument edges.
	Literal NodeKind = iota
	// Call nodes invoke Fn against values bound from inbound argument
	// edges (positional then keyword); plain argument values are carried
	// by Literal predecessor nodes.
	Call
)

// Callable is anything a Call node can invoke. Name is used for logging and
// symbolic traceback rendering; Invoke receives the fully bound positional
// and keyword arguments (inbound edge values already substituted).
type Callable interface {
	Name() string
	Invoke(args []any, kwargs map[string]any) (any, error)
}

// SignatureChecker is implemented optionally by a Callable that wants the
// builder to validate argument counts/keyword names at Call-construction
// time rather than failing only at execution time.
type SignatureChecker interface {
	CheckBinding(nPositional int, keywords []string) error
}

// Node is one vertex of a Graph: either a Literal value or a Call
// invocation. The zero Node is not meaningful; construct via NewLiteralNode
// / NewCallNode.
type Node struct {
	ID    NodeID
	UUID  uuid.UUID
	Kind  NodeKind
	Scope Scope

	// Literal-only.
	Value any

	// Call-only.
	Fn    Callable
	Frame *StackFrame

	// Registered is set when this node was spliced in by the plan
	// rewriter to read/write/barrier a registry entry; it is never set
	// by the plan builder itself.
	Registered bool
}

// NewLiteralNode constructs an unattached Literal node; ID is assigned by
// Graph.AddNode.
func NewLiteralNode(value any, scope Scope) *Node {
	return &Node{UUID: uuid.New(), Kind: Literal, Value: value, Scope: scope}
}

// NewCallNode constructs an unattached Call node; ID is assigned by
// Graph.AddNode. Argument values are supplied entirely via inbound edges
// added with AddEdge; this constructor only fixes the callable and scope.
func NewCallNode(fn Callable, scope Scope, frame *StackFrame) *Node {
	return &Node{UUID: uuid.New(), Kind: Call, Fn: fn, Scope: scope, Frame: frame}
}

// IsLiteral reports whether n is a Literal node.
func (n *Node) IsLiteral() bool { return n.Kind == Literal }

// IsCall reports whether n is a Call node.
func (n *Node) IsCall() bool { return n.Kind == Call }

// Clone returns a shallow copy of n with a fresh UUID and its ID left unset
// (ID is NoNode; the caller must re-add it to a Graph). Value/Fn/Frame/Scope are
// shared by reference (Scope slices are not mutated in place by this
// package, so sharing is safe).
func (n *Node) Clone() *Node {
	cp := *n
	cp.UUID = uuid.New()
	cp.ID = NoNode
	return &cp
}
