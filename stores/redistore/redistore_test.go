package redistore

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilemakc/callgraph/internal/config"
)

func TestNewClient_WithPassword(t *testing.T) {
	s := miniredis.RunT(t)
	s.RequireAuth("secret")

	client, err := NewClient(config.RedisConfig{URL: "redis://" + s.Addr(), Password: "secret"})
	require.NoError(t, err)
	defer client.Close()
}

func TestStore_ReadBeforeWriteReturnsErrEmpty(t *testing.T) {
	s := miniredis.RunT(t)
	client, err := NewClient(config.RedisConfig{URL: "redis://" + s.Addr()})
	require.NoError(t, err)
	defer client.Close()

	store := New(client, "node:1")

	_, err = store.Read()
	assert.ErrorIs(t, err, ErrEmpty)

	_, ok, err := store.ModifiedTime()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_WriteThenRead(t *testing.T) {
	s := miniredis.RunT(t)
	client, err := NewClient(config.RedisConfig{URL: "redis://" + s.Addr()})
	require.NoError(t, err)
	defer client.Close()

	store := New(client, "node:1")

	require.NoError(t, store.Write(map[string]any{"n": float64(7)}))

	value, err := store.Read()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": float64(7)}, value)

	mtime, ok, err := store.ModifiedTime()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().UTC(), mtime, 5*time.Second)
}

func TestStore_SeparateKeysDoNotCollide(t *testing.T) {
	s := miniredis.RunT(t)
	client, err := NewClient(config.RedisConfig{URL: "redis://" + s.Addr()})
	require.NoError(t, err)
	defer client.Close()

	a := New(client, "node:a")
	b := New(client, "node:b")

	require.NoError(t, a.Write(1))
	require.NoError(t, b.Write(2))

	av, err := a.Read()
	require.NoError(t, err)
	bv, err := b.Read()
	require.NoError(t, err)

	assert.EqualValues(t, 1, av)
	assert.EqualValues(t, 2, bv)
}
