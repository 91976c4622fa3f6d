// Package registry associates plan nodes with value stores: the mapping
// the staleness analyser and plan rewriter consult to decide which calls
// can be skipped and which need read/write calls spliced around them.
package registry

import (
	"fmt"

	"github.com/smilemakc/callgraph/graph"
	"github.com/smilemakc/callgraph/plan"
)

// Entry is what a Registry remembers about one registered node.
type Entry struct {
	Store    graph.ValueStore
	IsSource bool
	Frame    *graph.StackFrame
}

// Registry is a mapping from node to Entry, at most one entry per node.
type Registry struct {
	plan    *plan.Plan
	entries map[graph.NodeID]Entry
}

// New returns an empty Registry bound to p; every node passed to Add/Source
// must belong to p.
func New(p *plan.Plan) *Registry {
	return &Registry{plan: p, entries: make(map[graph.NodeID]Entry)}
}

// Add registers node against store as a computed (non-source) entry. Fails
// if node is already registered or belongs to a different plan.
func (r *Registry) Add(node plan.NodeRef, store graph.ValueStore) error {
	if !r.plan.Owns(node) {
		return ErrForeignNode
	}
	if _, ok := r.entries[node.ID()]; ok {
		return ErrDuplicateEntry
	}
	r.entries[node.ID()] = Entry{Store: store}
	return nil
}

// Source creates a new Call node on the registry's plan referencing the
// sentinel source builtin, registers it against store with IsSource=true,
// and returns its NodeRef. If the sentinel is ever invoked for real
// (instead of being spliced into a read by the plan rewriter), it fails
// with plan.ErrNotTransformed.
func (r *Registry) Source(store graph.ValueStore) (plan.NodeRef, error) {
	node, err := r.plan.Call(plan.SourceBuiltin(fmt.Sprintf("%T", store)))
	if err != nil {
		return plan.NodeRef{}, err
	}
	r.entries[node.ID()] = Entry{Store: store, IsSource: true}
	return node, nil
}

// Lookup returns the entry for node, if any.
func (r *Registry) Lookup(id graph.NodeID) (Entry, bool) {
	e, ok := r.entries[id]
	return e, ok
}

// Nodes returns every registered node id.
func (r *Registry) Nodes() []graph.NodeID {
	ids := make([]graph.NodeID, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	return ids
}

// Copy returns a structural clone: same plan, independent entry map.
func (r *Registry) Copy() *Registry {
	cp := &Registry{plan: r.plan, entries: make(map[graph.NodeID]Entry, len(r.entries))}
	for id, e := range r.entries {
		cp.entries[id] = e
	}
	return cp
}
