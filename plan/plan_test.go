package plan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilemakc/callgraph/graph"
)

func add(args []any, _ map[string]any) (any, error) {
	return args[0].(int) + args[1].(int), nil
}

func TestCallAddsArgumentEdges(t *testing.T) {
	p := New()
	sum, err := p.Call(graph.Func("add", add), Pos(2), Pos(3))
	require.NoError(t, err)

	node := p.Graph().Node(sum.ID())
	require.NotNil(t, node)
	assert.True(t, node.IsCall())
	assert.Len(t, p.Graph().InEdges(sum.ID()), 2)
}

func TestLitOfNodeRaises(t *testing.T) {
	p := New()
	ref, err := p.Lit(1)
	require.NoError(t, err)

	_, err = p.Lit(ref)
	assert.ErrorIs(t, err, ErrLitOfNode)
}

func TestAddDependencyRequiresBothEndpoints(t *testing.T) {
	p := New()
	a, err := p.Lit(1)
	require.NoError(t, err)

	other := New()
	b, err := other.Lit(2)
	require.NoError(t, err)

	err = p.AddDependency(a, b)
	assert.ErrorIs(t, err, ErrCrossPlanRef)
}

func TestAddDependencySucceedsWithinPlan(t *testing.T) {
	p := New()
	a, err := p.Lit(1)
	require.NoError(t, err)
	b, err := p.Lit(2)
	require.NoError(t, err)

	require.NoError(t, p.AddDependency(a, b))
	edges := p.Graph().InEdges(b.ID())
	require.Len(t, edges, 1)
	assert.True(t, edges[0].Kind.IsDependency())
}

func TestUnpackNegativeLengthRaises(t *testing.T) {
	p := New()
	_, err := p.Unpack([]any{1, 2, 3}, -1)
	assert.ErrorIs(t, err, ErrInvalidUnpackLen)
}

func TestUnpackProducesNSelectors(t *testing.T) {
	p := New()
	refs, err := p.Unpack([]any{7, 8, 9, 10}, 4)
	require.NoError(t, err)
	assert.Len(t, refs, 4)
	for _, r := range refs {
		assert.True(t, p.Graph().Node(r.ID()).IsCall())
	}
}

func TestGatherSequenceWithNodeSynthesisesCall(t *testing.T) {
	p := New()
	a, err := p.Lit(1)
	require.NoError(t, err)

	g, err := p.Gather(Sequence{a, 2, 3})
	require.NoError(t, err)
	assert.True(t, p.Graph().Node(g.ID()).IsCall())
	assert.Equal(t, "gather_list", p.Graph().Node(g.ID()).Fn.Name())
}

func TestGatherSequenceWithoutNodeIsLiteral(t *testing.T) {
	p := New()
	g, err := p.Gather(Sequence{1, 2, 3})
	require.NoError(t, err)
	assert.True(t, p.Graph().Node(g.ID()).IsLiteral())
}

func TestScopeOutOfOrderCloseFails(t *testing.T) {
	p := New()
	outer := p.Scope("a")
	inner := p.Scope("b")

	err := outer.Close()
	assert.ErrorIs(t, err, ErrScopeOutOfOrder)

	require.NoError(t, inner.Close())
	require.NoError(t, outer.Close())
}

func TestScopeIsReentrant(t *testing.T) {
	p := New()
	t1 := p.Scope("a")
	lit1, err := p.Lit(1)
	require.NoError(t, err)

	t2 := p.Scope("b")
	lit2, err := p.Lit(2)
	require.NoError(t, err)
	require.NoError(t, t2.Close())
	require.NoError(t, t1.Close())

	assert.Equal(t, graph.Scope{"a"}, p.Graph().Node(lit1.ID()).Scope)
	assert.Equal(t, graph.Scope{"a", "b"}, p.Graph().Node(lit2.ID()).Scope)
}

func TestCrossPlanCallArgumentRejected(t *testing.T) {
	p := New()
	other := New()
	foreign, err := other.Lit(1)
	require.NoError(t, err)

	_, err = p.Call(graph.Func("add", add), Pos(foreign), Pos(2))
	assert.True(t, errors.Is(err, ErrCrossPlanRef))
}
