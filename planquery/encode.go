package planquery

import "encoding/json"

// toJQInput round-trips views through JSON so gojq sees plain
// map[string]any/[]any values rather than struct types it cannot index by
// field name, matching the teacher's jq transform which does the same
// json.Unmarshal coercion before handing input to code.Run.
func toJQInput(views []NodeView) (any, error) {
	encoded, err := json.Marshal(views)
	if err != nil {
		return nil, err
	}
	var input any
	if err := json.Unmarshal(encoded, &input); err != nil {
		return nil, err
	}
	return input, nil
}
