package progress

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilemakc/callgraph/graph"
)

type recordingObserver struct {
	order *[]string
	name  string
}

func (o *recordingObserver) Start() { *o.order = append(*o.order, o.name+":start") }
func (o *recordingObserver) Stop()  { *o.order = append(*o.order, o.name+":stop") }
func (o *recordingObserver) IncrementTotal(section string, _ graph.Scope, _ int) {
	*o.order = append(*o.order, o.name+":total:"+section)
}
func (o *recordingObserver) IncrementRunning(section string, _ graph.Scope) {
	*o.order = append(*o.order, o.name+":running:"+section)
}
func (o *recordingObserver) IncrementCompleted(section string, _ graph.Scope) {
	*o.order = append(*o.order, o.name+":completed:"+section)
}
func (o *recordingObserver) IncrementFailed(section string, _ graph.Scope, _ error) {
	*o.order = append(*o.order, o.name+":failed:"+section)
}

func TestCompositeFansOutInRegistrationOrder(t *testing.T) {
	var order []string
	a := &recordingObserver{order: &order, name: "a"}
	b := &recordingObserver{order: &order, name: "b"}
	composite := NewComposite(a, b)

	composite.Start()
	composite.IncrementCompleted(SectionRun, nil)
	composite.Stop()

	assert.Equal(t, []string{
		"a:start", "b:start",
		"a:completed:run", "b:completed:run",
		"a:stop", "b:stop",
	}, order)
}

func TestUseGuaranteesStopOnPanic(t *testing.T) {
	c := NewCounts()
	defer func() {
		recover()
		assert.False(t, c.started)
	}()
	_ = Use(c, func() error {
		panic("boom")
	})
}

func TestUseGuaranteesStopOnError(t *testing.T) {
	c := NewCounts()
	err := Use(c, func() error {
		return errors.New("fail")
	})
	require.Error(t, err)
	assert.False(t, c.started)
}

func TestCountsTallyEvents(t *testing.T) {
	c := NewCounts()
	c.IncrementTotal(SectionRun, nil, 3)
	c.IncrementCompleted(SectionRun, nil)
	c.IncrementFailed(SectionRun, nil, errors.New("x"))

	assert.Equal(t, 3, c.Total(SectionRun))
	assert.Equal(t, 1, c.Completed(SectionRun))
	assert.Equal(t, 1, c.Failed(SectionRun))
}
