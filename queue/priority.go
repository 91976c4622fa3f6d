package queue

import "container/heap"

// priorityQueue is the "Default" policy: a min-heap keyed by planner
// priority. Ties are broken by insertion sequence, which keeps pop order
// stable without giving any item an unfair advantage — and since DONE
// sentinels always carry DonePriority (-1), they win every comparison
// against a real node's priority (which the planner never assigns below
// 0), so they drain the queue ahead of any leftover work once pushed.
type priorityQueue struct {
	*blockingBuffer
	waiter
	h       itemHeap
	nextSeq int
}

type heapEntry struct {
	item Item
	seq  int
}

type itemHeap []heapEntry

func (h itemHeap) Len() int { return len(h) }
func (h itemHeap) Less(i, j int) bool {
	if h[i].item.Priority != h[j].item.Priority {
		return h[i].item.Priority < h[j].item.Priority
	}
	return h[i].seq < h[j].seq
}
func (h itemHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *itemHeap) Push(x any)   { *h = append(*h, x.(heapEntry)) }
func (h *itemHeap) Pop() any {
	old := *h
	n := len(old)
	entry := old[n-1]
	*h = old[:n-1]
	return entry
}

func newPriority() *priorityQueue {
	return &priorityQueue{blockingBuffer: newBlockingBuffer()}
}

func (q *priorityQueue) Put(item Item) {
	q.markPut()
	q.mu.Lock()
	seq := q.nextSeq
	q.nextSeq++
	heap.Push(&q.h, heapEntry{item: item, seq: seq})
	q.mu.Unlock()
	q.cond.Signal()
}

func (q *priorityQueue) Get() Item {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.h.Len() == 0 {
		q.cond.Wait()
	}
	entry := heap.Pop(&q.h).(heapEntry)
	return entry.item
}

func (q *priorityQueue) TaskDone() { q.markDone() }
func (q *priorityQueue) Join()     { q.join() }
