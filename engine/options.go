package engine

import (
	"time"

	"github.com/smilemakc/callgraph/graph"
	"github.com/smilemakc/callgraph/internal/obslog"
	"github.com/smilemakc/callgraph/plan"
	"github.com/smilemakc/callgraph/progress"
	"github.com/smilemakc/callgraph/registry"
	"github.com/smilemakc/callgraph/retry"
)

// DefaultScheduler is used when Options.Scheduler is left empty.
const DefaultScheduler = "default"

// Options configures a single Run. Plan is required; every other field
// (including Output) has a spec-faithful zero-value default.
type Options struct {
	// Plan is the logical plan to execute.
	Plan *plan.Plan
	// Output names the node whose computed value Run returns. If Registry
	// rewrites the graph, the output is transparently redirected to the
	// corresponding store-read node. Output is optional: its zero value
	// means no value is requested, so Run only does whatever work is
	// needed to bring the Registry's stores up to date (nothing reachable
	// from a registered node's read is kept unless something else needs
	// it, so a fresh, unread registration costs nothing beyond the
	// staleness check itself).
	Output plan.NodeRef
	// Registry supplies the value-store bindings driving staleness
	// analysis and plan rewriting. A nil Registry means no node is
	// registered, so no work is ever skipped.
	Registry *registry.Registry

	// DryRun, if true, returns the prepared physical graph and redirected
	// output node without executing anything.
	DryRun bool

	// MaxWorkers caps the worker pool; 0 selects min(32, runtime.NumCPU()+4).
	MaxWorkers int
	// StaleCheckMaxWorkers bounds the staleness analyser's concurrency;
	// 0 defaults to MaxWorkers's resolved value.
	StaleCheckMaxWorkers int

	// MaxErrors is the failure budget; its zero value already matches the
	// spec's stated default (stop after the first failure).
	MaxErrors ErrorBudget

	// Retry is a caller-supplied Fn→Fn wrapper for each node's call. If
	// nil and RetryAttempts is 0, nodes are attempted exactly once.
	Retry retry.Wrapper
	// RetryAttempts, when > 0 and Retry is nil, builds a built-in
	// N-attempts wrapper that retries on any error.
	RetryAttempts int

	// FreshTime/HasFreshTime feed the staleness analyser.
	FreshTime    time.Time
	HasFreshTime bool

	// Progress receives total/running/completed/failed events for the
	// "stale" and "run" sections. A nil Progress is equivalent to
	// progress.Null{}.
	Progress progress.Observer

	// Scheduler names the queue policy ("default", "random", "cheap"/
	// "fifo"). Empty selects DefaultScheduler.
	Scheduler string

	// TransformPhysical, if set, runs after the built-in staleness
	// rewrite and reachability prune, letting a caller apply one more
	// pass over the physical graph before planning and execution.
	TransformPhysical func(g *graph.Graph, output graph.NodeID) (*graph.Graph, graph.NodeID)

	// Logger receives dispatch/retry/failure logging (debug for per-node
	// dispatch, info for run lifecycle, warn for retries, error for node
	// failures). A nil Logger falls back to obslog.Default().
	Logger *obslog.Logger
}

// Result is what Run returns. Value is unset on a DryRun or on failure.
type Result struct {
	Value    any
	Physical *graph.Graph
	Output   graph.NodeID
}

func (o *Options) resolveRetry() retry.Wrapper {
	if o.Retry != nil {
		return o.Retry
	}
	if o.RetryAttempts > 0 {
		return retry.Attempts(o.RetryAttempts, nil)
	}
	return retry.None()
}

func (o *Options) resolveProgress() progress.Observer {
	if o.Progress != nil {
		return o.Progress
	}
	return progress.Null{}
}

func (o *Options) resolveScheduler() string {
	if o.Scheduler == "" {
		return DefaultScheduler
	}
	return o.Scheduler
}

func (o *Options) resolveLogger() *obslog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return obslog.Default()
}
