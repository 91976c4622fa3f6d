package progress

import (
	"sync"

	"github.com/smilemakc/callgraph/graph"
)

// Counts is a concrete, thread-safe Observer that tallies events per
// section — useful in tests and as the simplest real sink an example can
// wire up, the way the teacher's logger.Logger is the simplest real
// destination for a log event.
type Counts struct {
	mu        sync.Mutex
	total     map[string]int
	running   map[string]int
	completed map[string]int
	failed    map[string]int
	started   bool
}

// NewCounts returns an empty Counts observer.
func NewCounts() *Counts {
	return &Counts{
		total:     make(map[string]int),
		running:   make(map[string]int),
		completed: make(map[string]int),
		failed:    make(map[string]int),
	}
}

func (c *Counts) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started = true
}

func (c *Counts) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started = false
}

func (c *Counts) IncrementTotal(section string, _ graph.Scope, amount int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.total[section] += amount
}

func (c *Counts) IncrementRunning(section string, _ graph.Scope) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running[section]++
}

func (c *Counts) IncrementCompleted(section string, _ graph.Scope) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.completed[section]++
}

func (c *Counts) IncrementFailed(section string, _ graph.Scope, _ error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failed[section]++
}

// Total, Completed, Failed return the current tallies for section.
func (c *Counts) Total(section string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total[section]
}

func (c *Counts) Completed(section string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.completed[section]
}

func (c *Counts) Failed(section string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failed[section]
}
