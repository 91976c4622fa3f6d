package traceback

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smilemakc/callgraph/graph"
)

func TestRenderNilFrame(t *testing.T) {
	assert.Equal(t, "(no symbolic traceback captured)", Render(nil))
}

func TestRenderIncludesEachFrame(t *testing.T) {
	outer := graph.NewStackFrame("caller", "a.go", 10, nil)
	inner := graph.NewStackFrame("callee", "b.go", 20, outer)

	rendered := Render(inner)
	assert.True(t, strings.Contains(rendered, "callee (b.go:20)"))
	assert.True(t, strings.Contains(rendered, "caller (a.go:10)"))
}

func TestTopLineIsInnermostFrame(t *testing.T) {
	outer := graph.NewStackFrame("caller", "a.go", 10, nil)
	inner := graph.NewStackFrame("callee", "b.go", 20, outer)

	assert.Equal(t, "at callee (b.go:20)", TopLine(inner))
}
