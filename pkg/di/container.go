// Package di provides dependency injection container
package di

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ssargent/pfostream/pkg/api" //nolint:depguard
	"github.com/ssargent/pfostream/pkg/config"
	"github.com/ssargent/pfostream/pkg/storage"
	"github.com/ssargent/pfostream/pkg/stream"
)

// Container holds all the dependencies for the application
type Container struct {
	serverFactory api.ServerFactory
	hooks         *stream.Hooks
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		serverFactory: api.NewServerFactory(),
		hooks:         stream.NewHooks(),
	}
}

// GetServerFactory returns the server factory
func (c *Container) GetServerFactory() api.ServerFactory {
	return c.serverFactory
}

// SetServerFactory allows overriding the server factory (for testing)
func (c *Container) SetServerFactory(factory api.ServerFactory) {
	c.serverFactory = factory
}

// Hooks returns the extension hooks every reader is created with
func (c *Container) Hooks() *stream.Hooks {
	return c.hooks
}

// SetHooks replaces the extension hooks
func (c *Container) SetHooks(hooks *stream.Hooks) {
	c.hooks = hooks
}

// ReaderConfig turns the reader section of the configuration into a
// stream.Config. observer may be nil.
func (c *Container) ReaderConfig(cfg config.Reader, logger *slog.Logger, observer stream.Observer) (stream.Config, error) {
	mode, err := stream.ParseRelationshipMode(cfg.Relationships)
	if err != nil {
		return stream.Config{}, err
	}
	return stream.Config{
		Relationships: mode,
		IndexedSeek:   cfg.IndexedSeek,
		Hooks:         c.hooks,
		Logger:        logger,
		Observer:      observer,
	}, nil
}

// OpenSnapshotStore opens the snapshot store under the configured data
// directory, creating it when missing
func (c *Container) OpenSnapshotStore(cfg config.Storage) (*storage.SnapshotStore, error) {
	if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return storage.Open(cfg.DataDir)
}
