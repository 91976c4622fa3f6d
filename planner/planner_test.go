package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilemakc/callgraph/graph"
	"github.com/smilemakc/callgraph/plan"
)

func sum(args []any, _ map[string]any) (any, error) {
	total := 0
	for _, a := range args {
		total += a.(int)
	}
	return total, nil
}

func TestPlanVisitsEveryNode(t *testing.T) {
	p := plan.New()
	a, err := p.Lit(1)
	require.NoError(t, err)
	b, err := p.Lit(2)
	require.NoError(t, err)
	call, err := p.Call(graph.Func("sum", sum), plan.Pos(a), plan.Pos(b))
	require.NoError(t, err)

	priorities := Plan(p.Graph())
	assert.Len(t, priorities, 3)
	_, ok := priorities[call.ID()]
	assert.True(t, ok)
}

func TestPlanKeepsArgumentChainAdjacent(t *testing.T) {
	p := plan.New()
	lit, err := p.Lit(1)
	require.NoError(t, err)
	inner, err := p.Call(graph.Func("sum", sum), plan.Pos(lit))
	require.NoError(t, err)
	outer, err := p.Call(graph.Func("sum", sum), plan.Pos(inner))
	require.NoError(t, err)

	priorities := Plan(p.Graph())
	// inner feeds outer directly via an argument edge, so they belong to the
	// same contraction group and must be adjacent in the final order; the
	// walk starts at the sink (outer) and works back to inner.
	assert.Equal(t, priorities[outer.ID()]+1, priorities[inner.ID()])
}

func TestPlanPseudoSinkHasNoDependents(t *testing.T) {
	p := plan.New()
	lit, err := p.Lit(1)
	require.NoError(t, err)
	call, err := p.Call(graph.Func("sum", sum), plan.Pos(lit))
	require.NoError(t, err)

	priorities := Plan(p.Graph())
	// the walk starts at the pseudo-sink (call has no out-edges) and only
	// then visits its argument ancestors, so call is assigned before lit.
	assert.Equal(t, 0, priorities[call.ID()])
	assert.Equal(t, 1, priorities[lit.ID()])
}

func TestPriorityUnknownNodeIsNegativeOne(t *testing.T) {
	priorities := Priorities{}
	assert.Equal(t, -1, priorities.Priority(graph.NodeID(99)))
}

func TestPlanHandlesDisjointChains(t *testing.T) {
	p := plan.New()
	a1, err := p.Lit(1)
	require.NoError(t, err)
	a2, err := p.Call(graph.Func("sum", sum), plan.Pos(a1))
	require.NoError(t, err)
	b1, err := p.Lit(2)
	require.NoError(t, err)
	b2, err := p.Call(graph.Func("sum", sum), plan.Pos(b1))
	require.NoError(t, err)

	priorities := Plan(p.Graph())
	assert.Len(t, priorities, 4)
	// each sink is visited before the ancestor that feeds it.
	assert.Equal(t, priorities[a2.ID()]+1, priorities[a1.ID()])
	assert.Equal(t, priorities[b2.ID()]+1, priorities[b1.ID()])
}
