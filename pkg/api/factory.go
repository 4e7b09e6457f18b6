// Package api provides factory implementations for dependency injection
package api

import (
	"context"
	"log/slog"
)

// DefaultServerFactory is the default implementation of ServerFactory
type DefaultServerFactory struct{}

// NewServerFactory creates a new server factory
func NewServerFactory() ServerFactory {
	return &DefaultServerFactory{}
}

// CreateServerStarter creates a server starter
func (f *DefaultServerFactory) CreateServerStarter(logger *slog.Logger, metrics *Metrics) ServerStarter {
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &DefaultServerStarter{logger: logger, metrics: metrics}
}

// DefaultServerStarter is the default implementation of ServerStarter
type DefaultServerStarter struct {
	logger  *slog.Logger
	metrics *Metrics
}

// StartServer starts the API server
func (s *DefaultServerStarter) StartServer(
	ctx context.Context,
	source EventSource,
	snapshots SnapshotReader,
	config ServerConfig,
) error {
	server := NewServer(source, snapshots, config, s.metrics, s.logger)
	return server.ListenAndServe(ctx)
}
