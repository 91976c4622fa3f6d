// Package planquery lets a caller run a jq expression over a JSON
// projection of a physical plan graph's node metadata, grounded on the
// teacher's sole gojq usage site (pkg/executor/builtin/transform.go's "jq"
// transform case: Parse -> Compile -> Run -> Next, checking whether the
// yielded value is itself an error). It is read-only and entirely
// optional: engine.Run never calls into it.
package planquery

import (
	"fmt"
	"sort"

	"github.com/itchyny/gojq"

	"github.com/smilemakc/callgraph/graph"
	"github.com/smilemakc/callgraph/transform"
)

// NodeView is one node's JSON-projected metadata: the shape a jq filter
// sees for every element of the top-level array Project returns.
type NodeView struct {
	ID       int      `json:"id"`
	UUID     string   `json:"uuid"`
	Kind     string   `json:"kind"`
	Scope    []string `json:"scope"`
	Stale    bool     `json:"stale"`
	HasStale bool     `json:"has_stale"`
}

// Project builds a []NodeView for every node in g, in ascending node-id
// order. stale is optional (nil is fine): when provided, its Stale verdict
// is copied onto the matching node's view.
func Project(g *graph.Graph, stale map[graph.NodeID]transform.StaleInfo) []NodeView {
	ids := g.NodeIDs()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	views := make([]NodeView, 0, len(ids))
	for _, id := range ids {
		n := g.Node(id)
		if n == nil {
			continue
		}

		view := NodeView{
			ID:    int(id),
			UUID:  n.UUID.String(),
			Scope: scopeStrings(n.Scope),
		}
		if n.IsLiteral() {
			view.Kind = "literal"
		} else {
			view.Kind = "call"
		}
		if info, ok := stale[id]; ok {
			view.Stale = info.Stale
			view.HasStale = true
		}
		views = append(views, view)
	}
	return views
}

func scopeStrings(scope graph.Scope) []string {
	if len(scope) == 0 {
		return nil
	}
	out := make([]string, len(scope))
	for i, tag := range scope {
		out[i] = fmt.Sprint(tag)
	}
	return out
}

// Run compiles filterExpr and runs it against views (typically the result
// of Project, coerced through json.Marshal/Unmarshal into plain
// map[string]any values the way the teacher's jq transform coerces its
// input), collecting every value the filter yields.
func Run(filterExpr string, views []NodeView) ([]any, error) {
	input, err := toJQInput(views)
	if err != nil {
		return nil, fmt.Errorf("planquery: encode input: %w", err)
	}

	query, err := gojq.Parse(filterExpr)
	if err != nil {
		return nil, fmt.Errorf("planquery: parse filter: %w", err)
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("planquery: compile filter: %w", err)
	}

	var results []any
	iter := code.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return nil, fmt.Errorf("planquery: filter execution error: %w", err)
		}
		results = append(results, v)
	}
	return results, nil
}
