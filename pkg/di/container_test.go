package di

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/pfostream/pkg/api"
	"github.com/ssargent/pfostream/pkg/config"
	"github.com/ssargent/pfostream/pkg/event"
	"github.com/ssargent/pfostream/pkg/stream"
)

func TestContainer_ReaderConfig(t *testing.T) {
	c := NewContainer()
	metrics := api.NewMetrics()

	cfg, err := c.ReaderConfig(config.Reader{Relationships: "inline", IndexedSeek: true}, nil, metrics)
	require.NoError(t, err)
	assert.Equal(t, stream.InlineRelationships, cfg.Relationships)
	assert.True(t, cfg.IndexedSeek)
	assert.Same(t, c.Hooks(), cfg.Hooks)
	assert.Equal(t, stream.Observer(metrics), cfg.Observer)

	cfg, err = c.ReaderConfig(config.DefaultConfig().Reader, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, stream.DeferredRelationships, cfg.Relationships)
	assert.Nil(t, cfg.Observer)

	_, err = c.ReaderConfig(config.Reader{Relationships: "eventually"}, nil, nil)
	assert.Error(t, err)
}

func TestContainer_Hooks(t *testing.T) {
	c := NewContainer()
	hooks := stream.NewHooks()
	require.NoError(t, hooks.Register(event.CaloHitRecord, func(event.Parameters, *stream.Reader) error { return nil }))

	c.SetHooks(hooks)
	cfg, err := c.ReaderConfig(config.Reader{}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Hooks.Len())
}

func TestContainer_ServerFactory(t *testing.T) {
	c := NewContainer()
	assert.NotNil(t, c.GetServerFactory())

	factory := api.NewServerFactory()
	c.SetServerFactory(factory)
	assert.Same(t, factory, c.GetServerFactory())
}

func TestContainer_OpenSnapshotStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	store, err := NewContainer().OpenSnapshotStore(config.Storage{DataDir: dir})
	require.NoError(t, err)
	defer store.Close()

	assert.DirExists(t, dir)
	runs, err := store.Runs()
	require.NoError(t, err)
	assert.Empty(t, runs)
}
