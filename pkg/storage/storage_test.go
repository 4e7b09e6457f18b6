package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/pfostream/pkg/event"
)

func openTestStore(t *testing.T) *SnapshotStore {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSnapshotStore_PutGet(t *testing.T) {
	s := openTestStore(t)
	run := NewRunID()

	snapshot := Snapshot{
		Source:  "events.xml",
		Event:   3,
		Summary: event.Summary{CaloHits: 12, Tracks: 2, Relationships: 4, TotalEnergy: 7.5},
		PFOs:    2,
	}
	require.NoError(t, s.Put(run, snapshot))

	got, err := s.Get(run, 3)
	require.NoError(t, err)
	assert.Equal(t, run.String(), got.RunID)
	assert.Equal(t, "events.xml", got.Source)
	assert.Equal(t, 12, got.Summary.CaloHits)
	assert.Equal(t, float32(7.5), got.Summary.TotalEnergy)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = s.Get(run, 4)
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
	_, err = s.Get(NewRunID(), 3)
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestSnapshotStore_ListAndRuns(t *testing.T) {
	s := openTestStore(t)
	first, second := NewRunID(), NewRunID()

	for _, n := range []int{10, 2, 1} {
		require.NoError(t, s.Put(first, Snapshot{Event: n}))
	}
	require.NoError(t, s.Put(second, Snapshot{Event: 0}))

	list, err := s.List(first)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int{1, 2, 10}, []int{list[0].Event, list[1].Event, list[2].Event})

	runs, err := s.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.ElementsMatch(t, []string{first.String(), second.String()}, []string{runs[0].String(), runs[1].String()})

	require.NoError(t, s.DeleteRun(first))
	list, err = s.List(first)
	require.NoError(t, err)
	assert.Empty(t, list)

	runs, err = s.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, second, runs[0])
}

func TestPrefixUpperBound(t *testing.T) {
	assert.Equal(t, []byte("run0"), prefixUpperBound([]byte("run/")))
	assert.Equal(t, []byte("b"), prefixUpperBound([]byte{'a', 0xff}))
	assert.Nil(t, prefixUpperBound([]byte{0xff, 0xff}))
}
