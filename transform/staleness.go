package transform

import (
	"sync"
	"time"

	"github.com/smilemakc/callgraph/graph"
	"github.com/smilemakc/callgraph/progress"
	"github.com/smilemakc/callgraph/registry"
	"github.com/smilemakc/callgraph/retry"
)

// StaleInfo is what the analyser decides about one node: whether it must
// be recomputed, and — only meaningful when !Stale — the modified time to
// propagate to its successors.
type StaleInfo struct {
	Stale        bool
	ModifiedTime time.Time
	HasModified  bool
}

// StalenessOptions configures AnalyzeStaleness.
type StalenessOptions struct {
	// MaxWorkers bounds how many nodes are evaluated concurrently per
	// wave; the analyser has no cross-node value transfer, so the "cheap"
	// FIFO queue policy applies directly (spec.md §4.E) — each wave's
	// nodes have no ordering preference among themselves.
	MaxWorkers int
	// Retry wraps each store.ModifiedTime() call.
	Retry retry.Wrapper
	// FreshTime, if HasFreshTime, is the threshold below which a stored
	// value is stale regardless of its own modified time.
	FreshTime    time.Time
	HasFreshTime bool
	Progress     progress.Observer
}

// NodeFailure is returned (wrapped) when a per-node store query fails
// during staleness analysis.
type NodeFailure struct {
	Node graph.NodeID
	Err  error
}

func (e *NodeFailure) Error() string { return "transform: staleness check failed: " + e.Err.Error() }
func (e *NodeFailure) Unwrap() error { return e.Err }

// AnalyzeStaleness returns a copy of g with non-registered source literals
// dropped, and the stale/modified-time verdict for every remaining node, in
// topological waves so independent nodes are evaluated concurrently while
// respecting the "predecessor stale implies stale" propagation rule.
func AnalyzeStaleness(g *graph.Graph, reg *registry.Registry, opts StalenessOptions) (*graph.Graph, map[graph.NodeID]StaleInfo, error) {
	cp := g.Copy()
	SourceLiteralPrune(cp, func(n *graph.Node) bool {
		_, registered := reg.Lookup(n.ID)
		return !registered
	})

	waves, err := cp.Waves()
	if err != nil {
		return nil, nil, err
	}

	obs := opts.Progress
	if obs == nil {
		obs = progress.Null{}
	}
	maxWorkers := opts.MaxWorkers
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	retryWrapper := opts.Retry
	if retryWrapper == nil {
		retryWrapper = retry.None()
	}

	results := make(map[graph.NodeID]StaleInfo, cp.Len())
	var firstErr error
	var mu sync.Mutex

	for _, wave := range waves {
		obs.IncrementTotal(progress.SectionStale, nil, len(wave))
		sem := make(chan struct{}, maxWorkers)
		var wg sync.WaitGroup
		for _, id := range wave {
			wg.Add(1)
			sem <- struct{}{}
			go func(id graph.NodeID) {
				defer wg.Done()
				defer func() { <-sem }()
				obs.IncrementRunning(progress.SectionStale, nil)
				info, evalErr := evaluateNode(cp, reg, id, results, &mu, retryWrapper, opts)
				mu.Lock()
				if evalErr != nil {
					if firstErr == nil {
						firstErr = &NodeFailure{Node: id, Err: evalErr}
					}
					obs.IncrementFailed(progress.SectionStale, nil, evalErr)
				} else {
					results[id] = info
					obs.IncrementCompleted(progress.SectionStale, nil)
				}
				mu.Unlock()
			}(id)
		}
		wg.Wait()
		if firstErr != nil {
			return cp, results, firstErr
		}
	}
	return cp, results, nil
}

func evaluateNode(
	cp *graph.Graph,
	reg *registry.Registry,
	id graph.NodeID,
	results map[graph.NodeID]StaleInfo,
	mu *sync.Mutex,
	retryWrapper retry.Wrapper,
	opts StalenessOptions,
) (StaleInfo, error) {
	preds := cp.Predecessors(id)

	mu.Lock()
	anyPredStale := false
	var maxPredModified time.Time
	hasMaxPredModified := false
	for _, p := range preds {
		info := results[p]
		if info.Stale {
			anyPredStale = true
			break
		}
		if info.HasModified && (!hasMaxPredModified || info.ModifiedTime.After(maxPredModified)) {
			maxPredModified = info.ModifiedTime
			hasMaxPredModified = true
		}
	}
	mu.Unlock()

	if anyPredStale {
		return StaleInfo{Stale: true}, nil
	}

	entry, registered := reg.Lookup(id)
	if !registered {
		return StaleInfo{Stale: false, ModifiedTime: maxPredModified, HasModified: hasMaxPredModified}, nil
	}

	type mtimeResult struct {
		t  time.Time
		ok bool
	}
	res, err := retry.Do(retryWrapper, func() (mtimeResult, error) {
		t, ok, err := entry.Store.ModifiedTime()
		return mtimeResult{t: t, ok: ok}, err
	})
	if err != nil {
		return StaleInfo{}, err
	}
	if !res.ok {
		return StaleInfo{Stale: true}, nil
	}

	t := res.t.UTC()
	isRootSource := entry.IsSource && len(preds) == 0
	var stale bool
	if isRootSource {
		stale = opts.HasFreshTime && opts.FreshTime.UTC().After(t)
	} else {
		stale = (hasMaxPredModified && maxPredModified.After(t)) ||
			(opts.HasFreshTime && opts.FreshTime.UTC().After(t))
	}
	if stale {
		return StaleInfo{Stale: true}, nil
	}
	return StaleInfo{Stale: false, ModifiedTime: t, HasModified: true}, nil
}
