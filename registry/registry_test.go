package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilemakc/callgraph/plan"
)

type fakeStore struct {
	value  any
	has    bool
	mtime  time.Time
	hasMT  bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (s *fakeStore) Read() (any, error) {
	return s.value, nil
}

func (s *fakeStore) Write(value any) error {
	s.value = value
	s.has = true
	s.mtime = time.Now().UTC()
	s.hasMT = true
	return nil
}

func (s *fakeStore) ModifiedTime() (time.Time, bool, error) {
	return s.mtime, s.hasMT, nil
}

func TestAddRejectsForeignNode(t *testing.T) {
	p := plan.New()
	other := plan.New()
	foreign, err := other.Lit(1)
	require.NoError(t, err)

	r := New(p)
	err = r.Add(foreign, newFakeStore())
	assert.ErrorIs(t, err, ErrForeignNode)
}

func TestAddRejectsDuplicate(t *testing.T) {
	p := plan.New()
	node, err := p.Lit(1)
	require.NoError(t, err)

	r := New(p)
	require.NoError(t, r.Add(node, newFakeStore()))
	err = r.Add(node, newFakeStore())
	assert.ErrorIs(t, err, ErrDuplicateEntry)
}

func TestSourceMarksIsSource(t *testing.T) {
	p := plan.New()
	r := New(p)

	node, err := r.Source(newFakeStore())
	require.NoError(t, err)

	entry, ok := r.Lookup(node.ID())
	require.True(t, ok)
	assert.True(t, entry.IsSource)
}

func TestCopyIsIndependent(t *testing.T) {
	p := plan.New()
	node, err := p.Lit(1)
	require.NoError(t, err)

	r := New(p)
	require.NoError(t, r.Add(node, newFakeStore()))

	cp := r.Copy()
	_, ok := cp.Lookup(node.ID())
	assert.True(t, ok)

	other, err := p.Lit(2)
	require.NoError(t, err)
	require.NoError(t, r.Add(other, newFakeStore()))
	_, ok = cp.Lookup(other.ID())
	assert.False(t, ok)
}
