package pgstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

// valueRow is the single-table model backing Store, one row per
// registry key, shaped after the teacher's bun models (execution_model.go):
// a bun.BaseModel table tag, a primary key, and a BeforeAppendModel hook
// that stamps ModifiedAt on every insert and update.
type valueRow struct {
	bun.BaseModel `bun:"table:callgraph_values,alias:cv"`

	Key        string    `bun:"key,pk"`
	Value      []byte    `bun:"value,type:jsonb,notnull"`
	ModifiedAt time.Time `bun:"modified_at,notnull"`
}

var _ bun.BeforeAppendModelHook = (*valueRow)(nil)

// BeforeAppendModel stamps ModifiedAt on every insert/update, matching the
// teacher's TimeStamped mixin (internal/db/mixins.go).
func (r *valueRow) BeforeAppendModel(_ context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery, *bun.UpdateQuery:
		r.ModifiedAt = time.Now().UTC()
	}
	return nil
}

// encodeValue JSON-encodes value for storage in valueRow.Value.
func encodeValue(value any) ([]byte, error) {
	return json.Marshal(value)
}

// decodeValue reverses encodeValue.
func decodeValue(raw []byte) (any, error) {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, err
	}
	return value, nil
}
