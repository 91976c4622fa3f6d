package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilemakc/callgraph/graph"
)

func TestNewRejectsUnknownPolicy(t *testing.T) {
	_, err := New("bogus")
	assert.ErrorIs(t, err, ErrUnknownPolicy)
}

func TestFIFOPreservesOrder(t *testing.T) {
	q, err := New("cheap")
	require.NoError(t, err)
	q.Put(Node(1, 0))
	q.Put(Node(2, 0))
	q.Put(Node(3, 0))
	assert.Equal(t, Node(1, 0), q.Get())
	assert.Equal(t, Node(2, 0), q.Get())
	assert.Equal(t, Node(3, 0), q.Get())
}

func TestFIFOGetBlocksUntilPut(t *testing.T) {
	q, err := New("cheap")
	require.NoError(t, err)
	done := make(chan Item, 1)
	go func() { done <- q.Get() }()
	time.Sleep(10 * time.Millisecond)
	q.Put(Node(42, 0))
	select {
	case item := <-done:
		assert.Equal(t, Node(42, 0), item)
	case <-time.After(time.Second):
		t.Fatal("Get never returned after Put")
	}
}

func TestRandomQueueReturnsAllPutItems(t *testing.T) {
	q, err := New("random")
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		q.Put(Node(graph.NodeID(i), 0))
	}
	seen := make(map[int]bool)
	for i := 0; i < 20; i++ {
		seen[int(q.Get().Node)] = true
	}
	assert.Len(t, seen, 20)
}

func TestPriorityQueuePopsLowestFirst(t *testing.T) {
	q, err := New("default")
	require.NoError(t, err)
	q.Put(Node(1, 5))
	q.Put(Node(2, 1))
	q.Put(Node(3, 3))
	assert.Equal(t, Node(2, 1), q.Get())
	assert.Equal(t, Node(3, 3), q.Get())
	assert.Equal(t, Node(1, 5), q.Get())
}

func TestPriorityQueueDoneSentinelWinsOverRealPriority(t *testing.T) {
	q, err := New("default")
	require.NoError(t, err)
	q.Put(Node(1, 0))
	q.Put(Done())
	item := q.Get()
	assert.True(t, item.Done)
}

func TestJoinWaitsForAllTaskDone(t *testing.T) {
	q, err := New("cheap")
	require.NoError(t, err)
	q.Put(Node(1, 0))
	q.Put(Node(2, 0))

	joined := make(chan struct{})
	go func() {
		q.Join()
		close(joined)
	}()

	select {
	case <-joined:
		t.Fatal("Join returned before all items were marked done")
	case <-time.After(20 * time.Millisecond):
	}

	q.Get()
	q.TaskDone()
	q.Get()
	q.TaskDone()

	select {
	case <-joined:
	case <-time.After(time.Second):
		t.Fatal("Join never returned after matching TaskDone calls")
	}
}
