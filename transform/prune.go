// Package transform implements the two logical-to-physical plan passes:
// pruning (component D), staleness analysis (component E), and the plan
// rewriter (component F) that splices value-store reads/writes in.
package transform

import "github.com/smilemakc/callgraph/graph"

// ReachabilityPrune deletes every node not a transitive ancestor of
// required or output: the set of nodes whose computation could possibly
// matter to what the caller asked for.
func ReachabilityPrune(g *graph.Graph, required []graph.NodeID, output graph.NodeID) {
	keep := ancestorClosure(g, required, output)
	for _, id := range g.NodeIDs() {
		if _, ok := keep[id]; !ok {
			g.RemoveNode(id)
		}
	}
}

func ancestorClosure(g *graph.Graph, required []graph.NodeID, output graph.NodeID) map[graph.NodeID]struct{} {
	visited := make(map[graph.NodeID]struct{})
	stack := append([]graph.NodeID(nil), required...)
	if output != graph.NoNode {
		stack = append(stack, output)
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := visited[id]; ok {
			continue
		}
		visited[id] = struct{}{}
		stack = append(stack, g.Predecessors(id)...)
	}
	return visited
}

// TrivialLiteralPrune removes literals whose out-edges are all Dependency
// edges (no argument-edge consumer), when doing so is cheap: the cartesian
// product of synthesised predecessor->successor Dependency edges
// (|pred|*|succ|) must not exceed the edges actually removed
// (|pred|+|succ|, the literal's in- and out-edges). output is exempt even
// if it would otherwise qualify.
func TrivialLiteralPrune(g *graph.Graph, output graph.NodeID) {
	for _, id := range g.NodeIDs() {
		if id == output {
			continue
		}
		n := g.Node(id)
		if n == nil || !n.IsLiteral() {
			continue
		}
		outEdges := g.OutEdges(id)
		if len(outEdges) == 0 || !allDependency(outEdges) {
			continue
		}
		preds := g.Predecessors(id)
		succs := g.Successors(id)
		if len(preds)*len(succs) > len(preds)+len(succs) {
			continue
		}
		for _, p := range preds {
			for _, s := range succs {
				_ = g.AddEdge(graph.Edge{From: p, To: s, Kind: graph.Dependency})
			}
		}
		g.RemoveNode(id)
	}
}

func allDependency(edges []graph.Edge) bool {
	for _, e := range edges {
		if !e.Kind.IsDependency() {
			return false
		}
	}
	return true
}

// SourceLiteralPrune removes literals with no predecessors ("source
// literals" — nothing computed them, they were handed to the plan
// directly). predicate, if non-nil, additionally gates removal: a literal
// is only removed if predicate(node) is true, letting callers exempt e.g.
// registered literals.
func SourceLiteralPrune(g *graph.Graph, predicate func(*graph.Node) bool) {
	for _, id := range g.NodeIDs() {
		n := g.Node(id)
		if n == nil || !n.IsLiteral() {
			continue
		}
		if len(g.Predecessors(id)) != 0 {
			continue
		}
		if predicate != nil && !predicate(n) {
			continue
		}
		g.RemoveNode(id)
	}
}
