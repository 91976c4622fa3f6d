package engine

import (
	"runtime"

	"github.com/smilemakc/callgraph/graph"
	"github.com/smilemakc/callgraph/planner"
	"github.com/smilemakc/callgraph/registry"
	"github.com/smilemakc/callgraph/transform"
)

// DefaultMaxWorkers mirrors spec.md §4.I: min(32, cores + 4).
func DefaultMaxWorkers() int {
	n := runtime.NumCPU() + 4
	if n > 32 {
		n = 32
	}
	if n < 1 {
		n = 1
	}
	return n
}

// buildPhysical runs staleness analysis and plan rewriting (when reg has
// any entries worth acting on — an empty registry is harmless, every node
// is simply reported "not registered" and nothing is rewritten) followed
// by reachability pruning, producing the physical plan graph and its
// redirected output node.
func buildPhysical(opts *Options, staleWorkers int) (*graph.Graph, graph.NodeID, error) {
	reg := opts.Registry
	if reg == nil {
		reg = registry.New(opts.Plan)
	}

	cp, stale, err := transform.AnalyzeStaleness(opts.Plan.Graph(), reg, transform.StalenessOptions{
		MaxWorkers:   staleWorkers,
		Retry:        opts.resolveRetry(),
		FreshTime:    opts.FreshTime,
		HasFreshTime: opts.HasFreshTime,
		Progress:     opts.resolveProgress(),
	})
	if err != nil {
		return nil, graph.NoNode, err
	}

	outputID := graph.NoNode
	if !opts.Output.IsZero() {
		outputID = opts.Output.ID()
	}

	result, err := transform.RewritePlan(cp, reg, stale, outputID)
	if err != nil {
		return nil, graph.NoNode, err
	}

	transform.ReachabilityPrune(cp, result.Required, result.Output)
	transform.TrivialLiteralPrune(cp, result.Output)

	output := result.Output
	if opts.TransformPhysical != nil {
		cp, output = opts.TransformPhysical(cp, output)
	}

	return cp, output, nil
}

// prepState holds everything prep computes once, before any worker starts:
// predecessor counters, priorities, and the initial (in-degree zero) set of
// nodes to submit.
type prepState struct {
	graph       *graph.Graph
	priorities  planner.Priorities
	counters    map[graph.NodeID]*nodeCounter
	sources     []graph.NodeID
}

// nodeCounter tracks a successor's remaining unsatisfied predecessors.
// Multi-parent successors decrement remaining atomically; single-parent
// successors never touch it: their one predecessor's completion submits
// them directly.
type nodeCounter struct {
	remaining int32
	multi     bool
}

func prepare(g *graph.Graph) *prepState {
	state := &prepState{
		graph:      g,
		priorities: planner.Plan(g),
		counters:   make(map[graph.NodeID]*nodeCounter),
	}
	for _, id := range g.NodeIDs() {
		indeg := g.InDegree(id)
		state.counters[id] = &nodeCounter{remaining: int32(indeg), multi: indeg > 1}
		if indeg == 0 {
			state.sources = append(state.sources, id)
		}
	}
	return state
}
