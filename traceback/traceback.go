// Package traceback renders the symbolic call-site chain captured on a Call
// node (component K) into the message of the error the execution engine
// raises on failure.
package traceback

import (
	"fmt"
	"strings"

	"github.com/smilemakc/callgraph/graph"
)

// Render formats frame's chain from innermost (the plan.Call site that
// built the failing node) outward, one line per frame, ending with a
// truncation marker if the chain was capped.
func Render(frame *graph.StackFrame) string {
	if frame == nil {
		return "(no symbolic traceback captured)"
	}
	var b strings.Builder
	for _, f := range frame.Frames() {
		if f.Truncated {
			b.WriteString("  ... (truncated)\n")
			continue
		}
		fmt.Fprintf(&b, "  at %s (%s:%d)\n", f.Name, f.Path, f.Line)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// TopLine returns just the innermost (call-site) line, the one scenario 4
// of the spec checks against the plan.Call site that produced the failing
// node.
func TopLine(frame *graph.StackFrame) string {
	if frame == nil || frame.Truncated {
		return ""
	}
	return fmt.Sprintf("at %s (%s:%d)", frame.Name, frame.Path, frame.Line)
}
