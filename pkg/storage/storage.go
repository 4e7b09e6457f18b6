// Package storage persists summaries of assembled events, grouped by the
// import run that produced them.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/pfostream/pkg/event"
)

// ErrSnapshotNotFound is returned when no snapshot exists for a key
var ErrSnapshotNotFound = errors.New("snapshot not found")

const runPrefix = "run/"

// Snapshot is the stored summary of one event container
type Snapshot struct {
	RunID     string        `json:"run_id"`
	Source    string        `json:"source"`
	Event     int           `json:"event"`
	Summary   event.Summary `json:"summary"`
	PFOs      int           `json:"pfos"`
	CreatedAt time.Time     `json:"created_at"`
}

// SnapshotStore keeps snapshots in a pebble database keyed by run and event
type SnapshotStore struct {
	db *pebble.DB
}

// Open opens or creates a snapshot store in dir
func Open(dir string) (*SnapshotStore, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot store: %w", err)
	}
	return &SnapshotStore{db: db}, nil
}

// NewRunID mints a sortable id for an import run
func NewRunID() ksuid.KSUID {
	return ksuid.New()
}

func runKeyPrefix(runID ksuid.KSUID) []byte {
	return []byte(runPrefix + runID.String() + "/")
}

func snapshotKey(runID ksuid.KSUID, eventNumber int) []byte {
	return []byte(fmt.Sprintf("%s%s/event/%010d", runPrefix, runID.String(), eventNumber))
}

// prefixUpperBound returns the smallest key greater than every key with prefix
func prefixUpperBound(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

// Put stores a snapshot, replacing any previous one for the same event
func (s *SnapshotStore) Put(runID ksuid.KSUID, snapshot Snapshot) error {
	snapshot.RunID = runID.String()
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := s.db.Set(snapshotKey(runID, snapshot.Event), data, pebble.Sync); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Get returns the snapshot of an event in a run
func (s *SnapshotStore) Get(runID ksuid.KSUID, eventNumber int) (*Snapshot, error) {
	data, closer, err := s.db.Get(snapshotKey(runID, eventNumber))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	defer closer.Close()

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snapshot, nil
}

// List returns the snapshots of a run in event order
func (s *SnapshotStore) List(runID ksuid.KSUID) ([]Snapshot, error) {
	prefix := runKeyPrefix(runID)
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixUpperBound(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create iterator: %w", err)
	}
	defer iter.Close()

	var snapshots []Snapshot
	for iter.First(); iter.Valid(); iter.Next() {
		var snapshot Snapshot
		if err := json.Unmarshal(iter.Value(), &snapshot); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot %s: %w", iter.Key(), err)
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, iter.Error()
}

// Runs returns the ids of every stored run, oldest first
func (s *SnapshotStore) Runs() ([]ksuid.KSUID, error) {
	prefix := []byte(runPrefix)
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixUpperBound(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create iterator: %w", err)
	}
	defer iter.Close()

	var runs []ksuid.KSUID
	for valid := iter.First(); valid; {
		rest := strings.TrimPrefix(string(iter.Key()), runPrefix)
		idText, _, _ := strings.Cut(rest, "/")
		id, err := ksuid.Parse(idText)
		if err != nil {
			return nil, fmt.Errorf("invalid run key %q: %w", iter.Key(), err)
		}
		runs = append(runs, id)
		// skip the rest of this run
		valid = iter.SeekGE(prefixUpperBound(runKeyPrefix(id)))
	}
	return runs, iter.Error()
}

// DeleteRun removes every snapshot of a run
func (s *SnapshotStore) DeleteRun(runID ksuid.KSUID) error {
	prefix := runKeyPrefix(runID)
	if err := s.db.DeleteRange(prefix, prefixUpperBound(prefix), pebble.Sync); err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	return nil
}

// Close closes the underlying database
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}
