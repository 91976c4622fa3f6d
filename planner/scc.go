package planner

import "github.com/smilemakc/callgraph/graph"

// tarjanSCC computes the strongly connected components of a directed graph
// given as an adjacency list keyed by arbitrary comparable ids. It returns
// each component as a slice of ids; components are returned in reverse
// topological order (a Tarjan invariant we rely on directly instead of
// re-sorting afterwards).
func tarjanSCC(nodes []graph.NodeID, adj map[graph.NodeID][]graph.NodeID) [][]graph.NodeID {
	index := 0
	indices := make(map[graph.NodeID]int, len(nodes))
	lowlink := make(map[graph.NodeID]int, len(nodes))
	onStack := make(map[graph.NodeID]bool, len(nodes))
	var stack []graph.NodeID
	var components [][]graph.NodeID

	var strongconnect func(v graph.NodeID)
	strongconnect = func(v graph.NodeID) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range adj[v] {
			if _, seen := indices[w]; !seen {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if indices[w] < lowlink[v] {
					lowlink[v] = indices[w]
				}
			}
		}

		if lowlink[v] == indices[v] {
			var comp []graph.NodeID
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				comp = append(comp, w)
				if w == v {
					break
				}
			}
			components = append(components, comp)
		}
	}

	for _, v := range nodes {
		if _, seen := indices[v]; !seen {
			strongconnect(v)
		}
	}
	return components
}
