// Package memstore implements an in-process graph.ValueStore backed by a
// mutex-guarded value, grounded on the teacher's ExecutionState
// (pkg/engine/execution_state.go) mutex-guarded map idiom. It has no
// third-party dependency: an in-process store has nothing to wrap, and
// the teacher's own equivalent is stdlib-only too.
package memstore

import (
	"errors"
	"sync"
	"time"

	"github.com/smilemakc/callgraph/graph"
)

// ErrEmpty is returned by Read before the first Write.
var ErrEmpty = errors.New("memstore: no value written yet")

// Store is a single-slot, concurrency-safe graph.ValueStore living only in
// this process's memory. It backs cmd/callgraph-demo's default "-store mem"
// choice.
type Store struct {
	mu       sync.RWMutex
	value    any
	hasValue bool
	mtime    time.Time
}

var _ graph.ValueStore = (*Store)(nil)

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// Read returns the last written value, or ErrEmpty if Write has never run.
func (s *Store) Read() (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasValue {
		return nil, ErrEmpty
	}
	return s.value, nil
}

// Write stores value and stamps the current time as its modified time.
func (s *Store) Write(value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = value
	s.hasValue = true
	s.mtime = time.Now().UTC()
	return nil
}

// ModifiedTime reports the time of the last Write. ok is false before the
// first Write.
func (s *Store) ModifiedTime() (time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mtime, s.hasValue, nil
}
