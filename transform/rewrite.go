package transform

import (
	"github.com/smilemakc/callgraph/graph"
	"github.com/smilemakc/callgraph/registry"
)

// barrierSentinel is the inert literal value a stale registered source
// node's barrier carries; it is never consumed, only ordered against.
type barrierSentinel struct{}

type readCall struct{ store graph.ValueStore }

func (readCall) Name() string { return "store_read" }
func (c readCall) Invoke(_ []any, _ map[string]any) (any, error) {
	return c.store.Read()
}

type writeCall struct{ store graph.ValueStore }

func (writeCall) Name() string { return "store_write" }
func (c writeCall) Invoke(args []any, _ map[string]any) (any, error) {
	value := args[0]
	if err := c.store.Write(value); err != nil {
		return nil, err
	}
	return value, nil
}

// RewriteResult carries what the reachability prune that follows rewriting
// needs: the set of inserted nodes that must survive even though nothing
// downstream consumes their value, and where the output node moved to (if
// it was itself registered).
type RewriteResult struct {
	Required []graph.NodeID
	Output   graph.NodeID
}

// RewritePlan splices a read (and, for stale nodes, a write or barrier)
// call around every node reg has an entry for, per spec.md §4.F: argument
// out-edges of the original node are rerouted to the read node; dependency
// out-edges are rerouted to the write/barrier node when one was inserted
// (the stale case), or to the read node otherwise. The original node keeps
// its in-edges but loses every out-edge, so a later ReachabilityPrune drops
// it unless something else still needs it.
func RewritePlan(g *graph.Graph, reg *registry.Registry, stale map[graph.NodeID]StaleInfo, output graph.NodeID) (RewriteResult, error) {
	result := RewriteResult{Output: output}

	for _, id := range reg.Nodes() {
		n := g.Node(id)
		if n == nil {
			continue
		}
		entry, _ := reg.Lookup(id)
		info := stale[id]

		readNode := g.AddNode(graph.NewCallNode(readCall{entry.Store}, n.Scope, nil))
		dependencySubstitute := readNode

		if info.Stale {
			if entry.IsSource {
				barrier := g.AddNode(graph.NewLiteralNode(barrierSentinel{}, n.Scope))
				for _, pred := range g.Predecessors(id) {
					if err := g.AddEdge(graph.Edge{From: pred, To: barrier, Kind: graph.Dependency}); err != nil {
						return RewriteResult{}, err
					}
				}
				if err := g.AddEdge(graph.Edge{From: barrier, To: readNode, Kind: graph.Dependency}); err != nil {
					return RewriteResult{}, err
				}
				result.Required = append(result.Required, barrier)
				dependencySubstitute = barrier
			} else {
				writeNode := g.AddNode(graph.NewCallNode(writeCall{entry.Store}, n.Scope, nil))
				if err := g.AddEdge(graph.Edge{From: id, To: writeNode, Kind: graph.PositionalArg(0)}); err != nil {
					return RewriteResult{}, err
				}
				if err := g.AddEdge(graph.Edge{From: writeNode, To: readNode, Kind: graph.Dependency}); err != nil {
					return RewriteResult{}, err
				}
				result.Required = append(result.Required, writeNode)
				dependencySubstitute = writeNode
			}
		}

		for _, e := range g.OutEdges(id) {
			g.RemoveEdge(e.From, e.To, e.Kind)
			from := readNode
			if e.Kind.IsDependency() {
				from = dependencySubstitute
			}
			if err := g.AddEdge(graph.Edge{From: from, To: e.To, Kind: e.Kind}); err != nil {
				return RewriteResult{}, err
			}
		}

		if id == result.Output {
			result.Output = readNode
		}
	}

	return result, nil
}
