package pgstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func TestEncodeDecodeValue_RoundTrips(t *testing.T) {
	encoded, err := encodeValue(map[string]any{"a": 1, "b": "two"})
	require.NoError(t, err)

	decoded, err := decodeValue(encoded)
	require.NoError(t, err)

	m, ok := decoded.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), m["a"])
	assert.Equal(t, "two", m["b"])
}

func TestDecodeValue_RejectsMalformedJSON(t *testing.T) {
	_, err := decodeValue([]byte("{not json"))
	assert.Error(t, err)
}

func TestValueRow_BeforeAppendModelStampsModifiedAtOnInsertAndUpdate(t *testing.T) {
	row := &valueRow{Key: "k"}
	require.True(t, row.ModifiedAt.IsZero())

	require.NoError(t, row.BeforeAppendModel(nil, (*bun.InsertQuery)(nil)))
	assert.False(t, row.ModifiedAt.IsZero())

	stampedAt := row.ModifiedAt
	require.NoError(t, row.BeforeAppendModel(nil, (*bun.UpdateQuery)(nil)))
	assert.True(t, !row.ModifiedAt.Before(stampedAt))
}

func TestValueRow_BeforeAppendModelIgnoresSelect(t *testing.T) {
	row := &valueRow{Key: "k"}
	require.NoError(t, row.BeforeAppendModel(nil, (*bun.SelectQuery)(nil)))
	assert.True(t, row.ModifiedAt.IsZero())
}
