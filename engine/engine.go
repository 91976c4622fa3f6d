// Package engine implements the execution engine (component I): a fixed
// worker pool that dispatches a physical plan's Call nodes in topological
// order, pulled from a pluggable scheduler queue, with retry and a
// cancellable error budget.
package engine

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/smilemakc/callgraph/graph"
	"github.com/smilemakc/callgraph/internal/obslog"
	"github.com/smilemakc/callgraph/progress"
	"github.com/smilemakc/callgraph/queue"
	"github.com/smilemakc/callgraph/retry"
)

// Run prepares and, unless DryRun is set, executes opts.Plan, returning the
// value at the (possibly redirected) output node.
func Run(opts Options) (Result, error) {
	maxWorkers := opts.MaxWorkers
	if maxWorkers < 1 {
		maxWorkers = DefaultMaxWorkers()
	}
	staleWorkers := opts.StaleCheckMaxWorkers
	if staleWorkers < 1 {
		staleWorkers = maxWorkers
	}

	physical, output, err := buildPhysical(&opts, staleWorkers)
	if err != nil {
		return Result{}, err
	}

	if opts.DryRun {
		return Result{Physical: physical, Output: output}, nil
	}

	q, err := queue.New(opts.resolveScheduler())
	if err != nil {
		return Result{}, err
	}

	state := prepare(physical)
	maxID := 0
	for _, id := range physical.NodeIDs() {
		if int(id) > maxID {
			maxID = int(id)
		}
	}
	slots := make([]any, maxID+1)

	r := &runner{
		graph:    physical,
		state:    state,
		slots:    slots,
		queue:    q,
		retry:    opts.resolveRetry(),
		progress: opts.resolveProgress(),
		failures: newFailureTracker(opts.MaxErrors),
		logger:   opts.resolveLogger(),
	}

	return r.run(maxWorkers, output)
}

type runner struct {
	graph    *graph.Graph
	state    *prepState
	slots    []any
	queue    queue.Queue
	retry    retry.Wrapper
	progress progress.Observer
	failures *failureTracker
	logger   *obslog.Logger
	stop     stopFlag
}

func (r *runner) run(maxWorkers int, output graph.NodeID) (Result, error) {
	r.progress.Start()
	defer r.progress.Stop()

	total := r.graph.Len()
	r.logger.Info("engine: run starting", "nodes", total, "workers", maxWorkers)
	r.progress.IncrementTotal(progress.SectionRun, nil, total)

	var wg sync.WaitGroup
	wg.Add(maxWorkers)
	for i := 0; i < maxWorkers; i++ {
		go func() {
			defer wg.Done()
			r.work()
		}()
	}

	for _, id := range r.state.sources {
		r.submit(id)
	}

	r.queue.Join()
	for i := 0; i < maxWorkers; i++ {
		r.queue.Put(queue.Done())
	}
	wg.Wait()

	if first := r.failures.firstError(); first != nil {
		node := r.graph.Node(first.Node)
		var frame *graph.StackFrame
		if node != nil {
			frame = node.Frame
		}
		r.logger.Error("engine: run failed", "node", first.Node, "error", first.Err)
		return Result{}, &CallError{Node: first.Node, Frame: frame, Err: first.Err}
	}

	r.logger.Info("engine: run completed", "nodes", total)
	var value any
	if output != graph.NoNode {
		value = r.slots[output]
	}
	return Result{Value: value, Physical: r.graph, Output: output}, nil
}

func (r *runner) submit(id graph.NodeID) {
	r.queue.Put(queue.Node(id, r.state.priorities.Priority(id)))
}

func (r *runner) work() {
	for {
		item := r.queue.Get()
		if item.Done {
			return
		}
		r.dispatch(item.Node)
		r.queue.TaskDone()
	}
}

func (r *runner) dispatch(id graph.NodeID) {
	if r.stop.isSet() {
		return
	}

	node := r.graph.Node(id)
	if node == nil {
		return
	}

	r.progress.IncrementRunning(progress.SectionRun, node.Scope)

	if node.IsLiteral() {
		r.slots[id] = node.Value
		r.progress.IncrementCompleted(progress.SectionRun, node.Scope)
		r.completeNode(id)
		return
	}

	r.logger.Debug("engine: dispatching node", "node", id, "fn", node.Fn.Name())

	args, kwargs := r.bindArgs(id)
	attempt := 0
	value, err := retry.Do(r.retry, func() (any, error) {
		attempt++
		if attempt > 1 {
			r.logger.Warn("engine: retrying node", "node", id, "fn", node.Fn.Name(), "attempt", attempt)
		}
		return node.Fn.Invoke(args, kwargs)
	})
	if err != nil {
		r.logger.Error("engine: node failed", "node", id, "fn", node.Fn.Name(), "attempts", attempt, "error", err)
		r.failures.record(&r.stop, &NodeError{Node: id, Err: err})
		r.progress.IncrementFailed(progress.SectionRun, node.Scope, err)
		return
	}

	r.slots[id] = value
	r.progress.IncrementCompleted(progress.SectionRun, node.Scope)
	r.completeNode(id)
}

// bindArgs reads the argument slots feeding id's positional and keyword
// edges, in index order, out of r.slots. Dependency edges carry no value.
func (r *runner) bindArgs(id graph.NodeID) ([]any, map[string]any) {
	edges := r.graph.InEdges(id)
	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].Kind.Index() < edges[j].Kind.Index()
	})

	var args []any
	var kwargs map[string]any
	for _, e := range edges {
		switch {
		case e.Kind.IsPositionalArg():
			args = append(args, r.slots[e.From])
		case e.Kind.IsKeywordArg():
			if kwargs == nil {
				kwargs = make(map[string]any)
			}
			kwargs[e.Kind.Name()] = r.slots[e.From]
		}
	}
	return args, kwargs
}

// completeNode is called once id's value is in r.slots; it advances every
// successor's predecessor counter, submitting it the moment it hits zero.
// Single-parent successors bypass the atomic entirely: there is exactly
// one predecessor, so its own completion is sufficient.
func (r *runner) completeNode(id graph.NodeID) {
	for _, succ := range r.graph.Successors(id) {
		counter := r.state.counters[succ]
		if counter == nil {
			continue
		}
		if !counter.multi {
			r.submit(succ)
			continue
		}
		if atomic.AddInt32(&counter.remaining, -1) == 0 {
			r.submit(succ)
		}
	}
}
