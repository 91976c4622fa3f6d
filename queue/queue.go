// Package queue implements the engine's pluggable scheduler queues: a
// shared blocking-queue contract (put/get/task_done/join) with three
// concrete policies (cheap FIFO, random, and priority) the execution
// engine chooses between at prep time.
package queue

import (
	"errors"

	"github.com/smilemakc/callgraph/graph"
)

// ErrUnknownPolicy is returned by New for any name other than the three
// built-in policies.
var ErrUnknownPolicy = errors.New("queue: unknown policy")

// DonePriority is the priority the Default (min-heap) queue assigns to DONE
// sentinels so they always sort ahead of any real node's priority (which
// the planner never assigns below 0).
const DonePriority = -1

// Item is a unit of work passed through a Queue: either a node to dispatch,
// or a DONE sentinel telling a worker to exit.
type Item struct {
	Node     graph.NodeID
	Done     bool
	Priority int
}

// Done builds a DONE sentinel item.
func Done() Item { return Item{Done: true, Priority: DonePriority} }

// Node builds a work item for a node at the given priority (ignored by the
// Cheap and Random policies, consulted only by Default).
func Node(id graph.NodeID, priority int) Item { return Item{Node: id, Priority: priority} }

// Queue is the blocking-queue contract every policy implements, modeled on
// the standard producer/consumer queue.Queue shape: Put never blocks (the
// queue is unbounded), Get blocks until an item is available, and
// TaskDone/Join implement the same unfinished-work rendezvous as a
// WaitGroup — Join returns once every Put has a matching TaskDone.
type Queue interface {
	Put(item Item)
	Get() Item
	TaskDone()
	Join()
}

// New constructs the named queue policy. Unknown names fail per spec.md
// §4.H ("the engine picks a queue at prep time; unknown names fail").
func New(policy string) (Queue, error) {
	switch policy {
	case "cheap", "fifo":
		return newFIFO(), nil
	case "random":
		return newRandom(), nil
	case "default", "priority":
		return newPriority(), nil
	default:
		return nil, ErrUnknownPolicy
	}
}
