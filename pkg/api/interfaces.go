// Package api provides interfaces for dependency injection
package api

import (
	"context"
	"log/slog"

	"github.com/segmentio/ksuid"

	"github.com/ssargent/pfostream/pkg/event"
	"github.com/ssargent/pfostream/pkg/pipeline"
	"github.com/ssargent/pfostream/pkg/storage"
	"github.com/ssargent/pfostream/pkg/stream"
)

// EventSource serves assembled events and geometry from a loaded stream
type EventSource interface {
	// Name identifies the stream, usually its path
	Name() string

	// Count returns the number of containers of kind
	Count(kind stream.ContainerKind) int

	// Event assembles the n-th event
	Event(n int) (*pipeline.Result, error)

	// Geometry reads the n-th geometry container
	Geometry(n int) (*event.Registry, error)
}

// SnapshotReader reads stored event snapshots
type SnapshotReader interface {
	Runs() ([]ksuid.KSUID, error)
	List(runID ksuid.KSUID) ([]storage.Snapshot, error)
	Get(runID ksuid.KSUID, eventNumber int) (*storage.Snapshot, error)
}

var (
	_ EventSource    = (*pipeline.Source)(nil)
	_ SnapshotReader = (*storage.SnapshotStore)(nil)
)

// ServerStarter defines the interface for starting the API server
type ServerStarter interface {
	// StartServer serves until ctx is cancelled. Either source may be nil,
	// in which case its routes answer 404.
	StartServer(ctx context.Context, source EventSource, snapshots SnapshotReader, config ServerConfig) error
}

// ServerFactory creates server instances
type ServerFactory interface {
	// CreateServerStarter creates a server starter that logs to logger and
	// records into metrics, or a fresh set when metrics is nil
	CreateServerStarter(logger *slog.Logger, metrics *Metrics) ServerStarter
}
