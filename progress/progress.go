// Package progress implements the progress-observer surface (component J):
// a small thread-safe event interface plus a composite that fans events out
// to its members, adapted from the teacher's
// internal/application/observer (Observer/ObserverManager) pattern but with
// fan-out made synchronous and strictly in registration order, since the
// teacher's one-goroutine-per-observer Notify gives no ordering guarantee
// and the progress surface here explicitly requires one.
package progress

import "github.com/smilemakc/callgraph/graph"

// Section names the core ever reports under.
const (
	SectionStale = "stale"
	SectionRun   = "run"
)

// Observer is a thread-safe sink for the four progress events plus a scoped
// start/stop lifecycle. Implementations must tolerate concurrent calls from
// multiple worker goroutines.
type Observer interface {
	Start()
	Stop()
	IncrementTotal(section string, scope graph.Scope, amount int)
	IncrementRunning(section string, scope graph.Scope)
	IncrementCompleted(section string, scope graph.Scope)
	IncrementFailed(section string, scope graph.Scope, err error)
}

// Use runs fn with o started, guaranteeing o.Stop() runs on every exit path
// (including a panic unwinding through fn), the way a try/finally would.
func Use(o Observer, fn func() error) error {
	o.Start()
	defer o.Stop()
	return fn()
}

// Null is a no-op Observer, used when the engine is run with no progress
// sink configured.
type Null struct{}

func (Null) Start()                                               {}
func (Null) Stop()                                                {}
func (Null) IncrementTotal(string, graph.Scope, int)               {}
func (Null) IncrementRunning(string, graph.Scope)                  {}
func (Null) IncrementCompleted(string, graph.Scope)                {}
func (Null) IncrementFailed(string, graph.Scope, error)            {}

// Composite fans every event out to its members, in registration order.
type Composite struct {
	observers []Observer
}

// NewComposite builds a Composite over observers, preserving order.
func NewComposite(observers ...Observer) *Composite {
	return &Composite{observers: append([]Observer(nil), observers...)}
}

func (c *Composite) Start() {
	for _, o := range c.observers {
		o.Start()
	}
}

func (c *Composite) Stop() {
	for _, o := range c.observers {
		o.Stop()
	}
}

func (c *Composite) IncrementTotal(section string, scope graph.Scope, amount int) {
	for _, o := range c.observers {
		o.IncrementTotal(section, scope, amount)
	}
}

func (c *Composite) IncrementRunning(section string, scope graph.Scope) {
	for _, o := range c.observers {
		o.IncrementRunning(section, scope)
	}
}

func (c *Composite) IncrementCompleted(section string, scope graph.Scope) {
	for _, o := range c.observers {
		o.IncrementCompleted(section, scope)
	}
}

func (c *Composite) IncrementFailed(section string, scope graph.Scope, err error) {
	for _, o := range c.observers {
		o.IncrementFailed(section, scope, err)
	}
}
