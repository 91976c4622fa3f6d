// Package graph implements the symbolic call-graph data model: a directed
// multigraph of Literal/Call nodes connected by typed, structurally-deduped
// edges, plus the value-store contract nodes are checked against.
package graph

import "fmt"

// Graph is a directed multigraph of Node values. It is not safe for
// concurrent mutation; the execution engine treats a Graph as read-only
// once a Plan has been transformed into a physical plan.
type Graph struct {
	nodes  map[NodeID]*Node
	out    map[NodeID][]Edge
	in     map[NodeID][]Edge
	seen   map[edgeKey]struct{}
	nextID NodeID
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[NodeID]*Node),
		out:   make(map[NodeID][]Edge),
		in:    make(map[NodeID][]Edge),
		seen:  make(map[edgeKey]struct{}),
	}
}

// AddNode assigns n a fresh NodeID, inserts it, and returns the id.
func (g *Graph) AddNode(n *Node) NodeID {
	id := g.nextID
	g.nextID++
	n.ID = id
	g.nodes[id] = n
	return id
}

// Node returns the node at id, or nil if absent.
func (g *Graph) Node(id NodeID) *Node { return g.nodes[id] }

// Len returns the number of nodes currently in the graph.
func (g *Graph) Len() int { return len(g.nodes) }

// NodeIDs returns every node id, in arena (insertion) order.
func (g *Graph) NodeIDs() []NodeID {
	ids := make([]NodeID, 0, len(g.nodes))
	for id := NodeID(0); id < g.nextID; id++ {
		if _, ok := g.nodes[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// AddEdge adds a From->To edge of kind Kind. If an edge with the same
// (from, to, kind) already exists it is a no-op: the multigraph collapses
// structurally-equal parallel edges into one.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return fmt.Errorf("%w: edge source %d", ErrNodeNotFound, e.From)
	}
	if _, ok := g.nodes[e.To]; !ok {
		return fmt.Errorf("%w: edge target %d", ErrNodeNotFound, e.To)
	}
	k := keyOf(e)
	if _, ok := g.seen[k]; ok {
		return nil
	}
	g.seen[k] = struct{}{}
	g.out[e.From] = append(g.out[e.From], e)
	g.in[e.To] = append(g.in[e.To], e)
	return nil
}

// RemoveEdge removes the edge (from, to, kind) if present.
func (g *Graph) RemoveEdge(from, to NodeID, kind EdgeKind) {
	k := edgeKey{from: from, to: to, kind: kind}
	if _, ok := g.seen[k]; !ok {
		return
	}
	delete(g.seen, k)
	g.out[from] = removeEdge(g.out[from], from, to, kind)
	g.in[to] = removeEdge(g.in[to], from, to, kind)
}

func removeEdge(edges []Edge, from, to NodeID, kind EdgeKind) []Edge {
	out := edges[:0]
	for _, e := range edges {
		if e.From == from && e.To == to && e.Kind == kind {
			continue
		}
		out = append(out, e)
	}
	return out
}

// RemoveNode deletes id and every edge incident to it.
func (g *Graph) RemoveNode(id NodeID) {
	for _, e := range append([]Edge(nil), g.out[id]...) {
		g.RemoveEdge(e.From, e.To, e.Kind)
	}
	for _, e := range append([]Edge(nil), g.in[id]...) {
		g.RemoveEdge(e.From, e.To, e.Kind)
	}
	delete(g.out, id)
	delete(g.in, id)
	delete(g.nodes, id)
}

// RelabelNode replaces the Node stored at id with replacement, keeping id
// and every incident edge untouched. Used by the plan rewriter to splice a
// read/write/barrier node in over a node's old identity.
func (g *Graph) RelabelNode(id NodeID, replacement *Node) error {
	if _, ok := g.nodes[id]; !ok {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}
	replacement.ID = id
	g.nodes[id] = replacement
	return nil
}

// OutEdges returns the edges leaving id, in insertion order.
func (g *Graph) OutEdges(id NodeID) []Edge { return append([]Edge(nil), g.out[id]...) }

// InEdges returns the edges entering id, in insertion order.
func (g *Graph) InEdges(id NodeID) []Edge { return append([]Edge(nil), g.in[id]...) }

// Successors returns the distinct node ids reachable by one out-edge from
// id, in first-seen order.
func (g *Graph) Successors(id NodeID) []NodeID {
	seen := make(map[NodeID]struct{})
	var out []NodeID
	for _, e := range g.out[id] {
		if _, ok := seen[e.To]; !ok {
			seen[e.To] = struct{}{}
			out = append(out, e.To)
		}
	}
	return out
}

// Predecessors returns the distinct node ids with an edge into id, in
// first-seen order.
func (g *Graph) Predecessors(id NodeID) []NodeID {
	seen := make(map[NodeID]struct{})
	var out []NodeID
	for _, e := range g.in[id] {
		if _, ok := seen[e.From]; !ok {
			seen[e.From] = struct{}{}
			out = append(out, e.From)
		}
	}
	return out
}

// InDegree counts distinct predecessors of id (not edge count: parallel
// edges of different kinds from the same predecessor count once).
func (g *Graph) InDegree(id NodeID) int { return len(g.Predecessors(id)) }

// Copy returns a deep structural copy: new Node values (same field
// contents, independent identities preserved as the same NodeIDs) and an
// independent edge set, suitable for a transform pass to mutate without
// disturbing the original Graph.
func (g *Graph) Copy() *Graph {
	cp := New()
	cp.nextID = g.nextID
	for id, n := range g.nodes {
		dup := *n
		cp.nodes[id] = &dup
	}
	for id, edges := range g.out {
		cp.out[id] = append([]Edge(nil), edges...)
	}
	for id, edges := range g.in {
		cp.in[id] = append([]Edge(nil), edges...)
	}
	for k := range g.seen {
		cp.seen[k] = struct{}{}
	}
	return cp
}

// TopologicalOrder returns all node ids in a topological order (Kahn's
// algorithm) or ErrHasACycle if the graph is not acyclic. The builder never
// creates a cycle on its own; add_dependency on two already-connected nodes
// is the one operation that can, and it is only detected here.
func (g *Graph) TopologicalOrder() ([]NodeID, error) {
	indeg := make(map[NodeID]int, len(g.nodes))
	for id := range g.nodes {
		indeg[id] = g.InDegree(id)
	}
	var queue []NodeID
	for _, id := range g.NodeIDs() {
		if indeg[id] == 0 {
			queue = append(queue, id)
		}
	}
	order := make([]NodeID, 0, len(g.nodes))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		for _, succ := range g.Successors(id) {
			indeg[succ]--
			if indeg[succ] == 0 {
				queue = append(queue, succ)
			}
		}
	}
	if len(order) != len(g.nodes) {
		return nil, ErrHasACycle
	}
	return order, nil
}

// Waves groups nodes into topological waves: wave 0 has in-degree zero,
// wave k contains every node whose predecessors are all in waves < k. Every
// node in one wave can be processed concurrently; waves themselves must be
// processed in order. Returns ErrHasACycle if the graph is not a DAG.
func (g *Graph) Waves() ([][]NodeID, error) {
	indeg := make(map[NodeID]int, len(g.nodes))
	for id := range g.nodes {
		indeg[id] = g.InDegree(id)
	}
	var waves [][]NodeID
	remaining := len(g.nodes)
	var frontier []NodeID
	for _, id := range g.NodeIDs() {
		if indeg[id] == 0 {
			frontier = append(frontier, id)
		}
	}
	for len(frontier) > 0 {
		waves = append(waves, frontier)
		remaining -= len(frontier)
		var next []NodeID
		for _, id := range frontier {
			for _, succ := range g.Successors(id) {
				indeg[succ]--
				if indeg[succ] == 0 {
					next = append(next, succ)
				}
			}
		}
		frontier = next
	}
	if remaining != 0 {
		return nil, ErrHasACycle
	}
	return waves, nil
}
