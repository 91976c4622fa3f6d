package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopFn struct{ name string }

func (f noopFn) Name() string                                  { return f.name }
func (f noopFn) Invoke(_ []any, _ map[string]any) (any, error) { return nil, nil }

func TestAddEdgeCollapsesDuplicates(t *testing.T) {
	g := New()
	a := g.AddNode(NewLiteralNode(1, nil))
	b := g.AddNode(NewCallNode(noopFn{"f"}, nil, nil))

	require.NoError(t, g.AddEdge(Edge{From: a, To: b, Kind: PositionalArg(0)}))
	require.NoError(t, g.AddEdge(Edge{From: a, To: b, Kind: PositionalArg(0)}))

	assert.Len(t, g.OutEdges(a), 1)
	assert.Len(t, g.InEdges(b), 1)
}

func TestAddEdgeDistinguishesKinds(t *testing.T) {
	g := New()
	a := g.AddNode(NewLiteralNode(1, nil))
	b := g.AddNode(NewCallNode(noopFn{"f"}, nil, nil))

	require.NoError(t, g.AddEdge(Edge{From: a, To: b, Kind: PositionalArg(0)}))
	require.NoError(t, g.AddEdge(Edge{From: a, To: b, Kind: Dependency}))
	require.NoError(t, g.AddEdge(Edge{From: a, To: b, Kind: KeywordArg("x", 0)}))

	assert.Len(t, g.OutEdges(a), 3)
	assert.Equal(t, 1, g.InDegree(b))
}

func TestAddEdgeUnknownNode(t *testing.T) {
	g := New()
	a := g.AddNode(NewLiteralNode(1, nil))
	err := g.AddEdge(Edge{From: a, To: NodeID(99), Kind: Dependency})
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestRemoveNodeDropsIncidentEdges(t *testing.T) {
	g := New()
	a := g.AddNode(NewLiteralNode(1, nil))
	b := g.AddNode(NewCallNode(noopFn{"f"}, nil, nil))
	c := g.AddNode(NewCallNode(noopFn{"g"}, nil, nil))
	require.NoError(t, g.AddEdge(Edge{From: a, To: b, Kind: PositionalArg(0)}))
	require.NoError(t, g.AddEdge(Edge{From: b, To: c, Kind: Dependency}))

	g.RemoveNode(b)

	assert.Nil(t, g.Node(b))
	assert.Empty(t, g.OutEdges(a))
	assert.Empty(t, g.InEdges(c))
}

func TestTopologicalOrderLinearChain(t *testing.T) {
	g := New()
	a := g.AddNode(NewLiteralNode(1, nil))
	b := g.AddNode(NewCallNode(noopFn{"f"}, nil, nil))
	c := g.AddNode(NewCallNode(noopFn{"g"}, nil, nil))
	require.NoError(t, g.AddEdge(Edge{From: a, To: b, Kind: PositionalArg(0)}))
	require.NoError(t, g.AddEdge(Edge{From: b, To: c, Kind: PositionalArg(0)}))

	order, err := g.TopologicalOrder()
	require.NoError(t, err)
	assert.Equal(t, []NodeID{a, b, c}, order)
}

func TestTopologicalOrderDetectsCycle(t *testing.T) {
	g := New()
	a := g.AddNode(NewCallNode(noopFn{"f"}, nil, nil))
	b := g.AddNode(NewCallNode(noopFn{"g"}, nil, nil))
	require.NoError(t, g.AddEdge(Edge{From: a, To: b, Kind: Dependency}))
	require.NoError(t, g.AddEdge(Edge{From: b, To: a, Kind: Dependency}))

	_, err := g.TopologicalOrder()
	assert.True(t, errors.Is(err, ErrHasACycle))
}

func TestCopyIsIndependent(t *testing.T) {
	g := New()
	a := g.AddNode(NewLiteralNode(1, nil))
	b := g.AddNode(NewCallNode(noopFn{"f"}, nil, nil))
	require.NoError(t, g.AddEdge(Edge{From: a, To: b, Kind: PositionalArg(0)}))

	cp := g.Copy()
	cp.RemoveNode(b)

	assert.NotNil(t, g.Node(b))
	assert.Nil(t, cp.Node(b))
}

func TestRelabelNodeKeepsEdges(t *testing.T) {
	g := New()
	a := g.AddNode(NewLiteralNode(1, nil))
	b := g.AddNode(NewCallNode(noopFn{"f"}, nil, nil))
	require.NoError(t, g.AddEdge(Edge{From: a, To: b, Kind: PositionalArg(0)}))

	require.NoError(t, g.RelabelNode(b, NewCallNode(noopFn{"g"}, nil, nil)))

	assert.Equal(t, "g", g.Node(b).Fn.Name())
	assert.Len(t, g.InEdges(b), 1)
}

func TestStackFrameTruncatesBeyondMaxDepth(t *testing.T) {
	var f *StackFrame
	for i := 0; i < maxFrameDepth+5; i++ {
		f = NewStackFrame("fn", "file.go", i, f)
	}
	frames := f.Frames()
	assert.LessOrEqual(t, len(frames), maxFrameDepth)
	assert.True(t, frames[len(frames)-1].Truncated)
}

func TestWavesGroupsIndependentNodes(t *testing.T) {
	g := New()
	a := g.AddNode(NewLiteralNode(1, nil))
	b := g.AddNode(NewLiteralNode(2, nil))
	c := g.AddNode(NewCallNode(noopFn{"f"}, nil, nil))
	require.NoError(t, g.AddEdge(Edge{From: a, To: c, Kind: PositionalArg(0)}))
	require.NoError(t, g.AddEdge(Edge{From: b, To: c, Kind: PositionalArg(1)}))

	waves, err := g.Waves()
	require.NoError(t, err)
	require.Len(t, waves, 2)
	assert.ElementsMatch(t, []NodeID{a, b}, waves[0])
	assert.Equal(t, []NodeID{c}, waves[1])
}

func TestScopeEqual(t *testing.T) {
	assert.True(t, Scope{1, "a"}.Equal(Scope{1, "a"}))
	assert.False(t, Scope{1, "a"}.Equal(Scope{1, "b"}))
	assert.False(t, Scope{1}.Equal(Scope{1, "a"}))
}
