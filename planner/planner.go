// Package planner derives a total node ordering from a plan graph that
// approximates the order a human would schedule calls in to keep the
// number of concurrently-live argument values small: callers of the same
// argument chain are kept adjacent, and independent chains are interleaved
// sink-first so a chain's intermediate values can be freed as soon as its
// final consumer runs.
package planner

import (
	"sort"

	"github.com/smilemakc/callgraph/graph"
)

// Priorities maps every node the planner assigned an order to its position
// in that order (lower is scheduled earlier / higher priority). Plan
// assigns every node of the graph it was given; a node absent from the map
// is one that graph did not contain, and is treated as priority -1, ahead
// of every assigned node.
type Priorities map[graph.NodeID]int

// Priority looks up a node's priority, returning -1 for nodes the planner
// never visited (the same value as queue.DonePriority).
func (p Priorities) Priority(id graph.NodeID) int {
	if v, ok := p[id]; ok {
		return v
	}
	return -1
}

// Plan computes the total order described in the package doc:
//
//  1. Build the weak-contraction graph: nodes linked by an argument edge
//     whose source is not a Literal are merged into one contraction group.
//     (A literal's argument out-edges are never followed — a literal may
//     feed many unrelated calls and must not chain them together.)
//  2. The contraction can still contain cycles (a reroute through a
//     Dependency edge, or through a literal, can point back at an earlier
//     group), so its strongly connected components are condensed into a
//     DAG and topologically sorted.
//  3. Pseudo-sinks — nodes all of whose out-edges are Dependency edges,
//     vacuously true for a node with none — are enumerated in that
//     topological order.
//  4. Each pseudo-sink starts a reverse pre-order walk over its
//     argument-edge ancestors (Dependency edges are not followed); the
//     concatenation of these walks, in pseudo-sink order, is the final
//     priority order.
func Plan(g *graph.Graph) Priorities {
	ids := g.NodeIDs()
	uf := newUnionFind(ids)

	for _, id := range ids {
		n := g.Node(id)
		if n == nil || n.IsLiteral() {
			continue
		}
		for _, e := range g.OutEdges(id) {
			if e.Kind.IsDependency() {
				continue
			}
			uf.union(e.From, e.To)
		}
	}

	groupAdj := make(map[graph.NodeID][]graph.NodeID)
	groupMembers := make(map[graph.NodeID][]graph.NodeID)
	var groupIDs []graph.NodeID
	for _, id := range ids {
		root := uf.find(id)
		if _, ok := groupMembers[root]; !ok {
			groupIDs = append(groupIDs, root)
		}
		groupMembers[root] = append(groupMembers[root], id)
	}
	seen := make(map[[2]graph.NodeID]bool)
	for _, id := range ids {
		from := uf.find(id)
		for _, e := range g.OutEdges(id) {
			to := uf.find(e.To)
			if to == from {
				continue
			}
			key := [2]graph.NodeID{from, to}
			if seen[key] {
				continue
			}
			seen[key] = true
			groupAdj[from] = append(groupAdj[from], to)
		}
	}

	components := tarjanSCC(groupIDs, groupAdj)
	// tarjanSCC yields components in reverse topological order of the
	// condensation; reverse to walk sources first.
	for i, j := 0, len(components)-1; i < j; i, j = i+1, j-1 {
		components[i], components[j] = components[j], components[i]
	}

	var orderedNodes []graph.NodeID
	for _, comp := range components {
		var members []graph.NodeID
		for _, groupRoot := range comp {
			members = append(members, groupMembers[groupRoot]...)
		}
		sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
		orderedNodes = append(orderedNodes, members...)
	}

	isPseudoSink := func(id graph.NodeID) bool {
		for _, e := range g.OutEdges(id) {
			if !e.Kind.IsDependency() {
				return false
			}
		}
		return true
	}

	var sinks []graph.NodeID
	for _, id := range orderedNodes {
		if isPseudoSink(id) {
			sinks = append(sinks, id)
		}
	}

	priorities := make(Priorities, len(ids))
	visited := make(map[graph.NodeID]bool, len(ids))
	counter := 0

	var walk func(id graph.NodeID)
	walk = func(id graph.NodeID) {
		if visited[id] {
			return
		}
		visited[id] = true
		priorities[id] = counter
		counter++

		preds := argumentPredecessors(g, id)
		for _, p := range preds {
			walk(p)
		}
	}

	for _, sink := range sinks {
		walk(sink)
	}
	for _, id := range orderedNodes {
		walk(id)
	}

	return priorities
}

// argumentPredecessors returns id's argument-edge predecessors (Dependency
// edges excluded), ordered deterministically by edge kind and index so the
// walk is reproducible across runs.
func argumentPredecessors(g *graph.Graph, id graph.NodeID) []graph.NodeID {
	edges := g.InEdges(id)
	sort.Slice(edges, func(i, j int) bool {
		a, b := edges[i].Kind, edges[j].Kind
		if a.IsKeywordArg() != b.IsKeywordArg() {
			return !a.IsKeywordArg()
		}
		if a.Index() != b.Index() {
			return a.Index() < b.Index()
		}
		return a.Name() < b.Name()
	})
	var preds []graph.NodeID
	for _, e := range edges {
		if e.Kind.IsDependency() {
			continue
		}
		preds = append(preds, e.From)
	}
	return preds
}
