package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/pfostream/pkg/api"
	"github.com/ssargent/pfostream/pkg/config"
	"github.com/ssargent/pfostream/pkg/di"
	"github.com/ssargent/pfostream/pkg/pipeline"
	"github.com/ssargent/pfostream/pkg/storage"
	"github.com/ssargent/pfostream/pkg/stream"
)

const trackAttrs = `D0="0" Z0="0" ParticleId="211" Charge="1" Mass="0.14" MomentumAtDca="0 0 2" ` +
	`TrackStateAtStart="0 0 0 0 0 2" TrackStateAtEnd="0 0 0 0 0 2" TrackStateAtCalorimeter="0 0 0 0 0 2" ` +
	`TimeAtCalorimeter="1" ReachesCalorimeter="1" IsProjectedToEndCap="0" CanFormPfo="1" CanFormClusterlessPfo="0"`

const goodStream = `
<Geometry>
  <BoxGap Vertex="0 0 0" Side1="1 0 0" Side2="0 1 0" Side3="0 0 1"/>
</Geometry>
<Event>
  <Track ` + trackAttrs + ` ParentTrackAddress="0x1"/>
  <Track ` + trackAttrs + ` ParentTrackAddress="0x2"/>
  <Relationship RelationshipId="TRACK_PARENT_DAUGHTER" Address1="0x1" Address2="0x2"/>
</Event>
<Event>
  <Track ` + trackAttrs + ` ParentTrackAddress="0x1"/>
</Event>
`

const badStream = `
<Event>
  <Track ParentTrackAddress="0x3"/>
</Event>
`

func setupCmd(t *testing.T) string {
	t.Helper()
	SetContainer(di.NewContainer())
	logger = slog.New(slog.DiscardHandler)
	cfg = config.DefaultConfig()
	dir := t.TempDir()
	cfg.Storage.DataDir = filepath.Join(dir, "data")
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	data := []byte(content)
	if strings.HasSuffix(name, ".zst") {
		enc, err := zstd.NewWriter(nil)
		require.NoError(t, err)
		data = enc.EncodeAll(data, nil)
		require.NoError(t, enc.Close())
	}
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func TestReadFiles(t *testing.T) {
	dir := setupCmd(t)
	plain := writeFile(t, dir, "a.xml", goodStream)
	compressed := writeFile(t, dir, "b.xml.zst", goodStream)

	rc, err := readerConfig(nil)
	require.NoError(t, err)

	reports, err := readFiles(context.Background(), []string{plain, compressed}, rc, 2)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	for i, path := range []string{plain, compressed} {
		r := reports[i]
		assert.Equal(t, path, r.Path)
		assert.Equal(t, 1, r.Geometries)
		assert.Equal(t, 2, r.Events)
		assert.Equal(t, 3, r.Tracks)
		assert.Equal(t, 1, r.Relationships)
		assert.Equal(t, 3, r.PFOs)
	}

	var buf bytes.Buffer
	require.NoError(t, outputReports(&buf, "table", reports))
	assert.Contains(t, buf.String(), "b.xml.zst")

	buf.Reset()
	require.NoError(t, outputReports(&buf, "json", reports))
	var decoded []fileReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded, 2)
}

func TestReadFiles_Errors(t *testing.T) {
	dir := setupCmd(t)
	good := writeFile(t, dir, "good.xml", goodStream)
	bad := writeFile(t, dir, "bad.xml", badStream)

	rc, err := readerConfig(nil)
	require.NoError(t, err)

	_, err = readFiles(context.Background(), []string{good, bad}, rc, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, stream.ErrFieldAbsent)
	assert.Contains(t, err.Error(), "bad.xml")

	_, err = readFiles(context.Background(), []string{filepath.Join(dir, "missing.xml")}, rc, 0)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = readFiles(ctx, []string{good}, rc, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestImportFiles(t *testing.T) {
	dir := setupCmd(t)
	first := writeFile(t, dir, "first.xml", goodStream)
	second := writeFile(t, dir, "second.xml", goodStream)

	store, err := container.OpenSnapshotStore(cfg.Storage)
	require.NoError(t, err)
	defer store.Close()

	rc, err := readerConfig(nil)
	require.NoError(t, err)

	reports, err := importFiles(context.Background(), store, []string{first, second}, rc, 2)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.NotEqual(t, reports[0].RunID, reports[1].RunID)

	runs, err := store.Runs()
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	runID, err := parseRunID(reports[0].RunID)
	require.NoError(t, err)
	snapshots, err := store.List(runID)
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.Equal(t, first, snapshots[0].Source)
	assert.Equal(t, 2, snapshots[0].PFOs)
	assert.Equal(t, 1, snapshots[1].Summary.Tracks)

	var buf bytes.Buffer
	require.NoError(t, outputSnapshots(&buf, "table", snapshots))
	assert.Contains(t, buf.String(), "first.xml")

	buf.Reset()
	require.NoError(t, outputRuns(&buf, "table", runs))
	assert.Contains(t, buf.String(), reports[1].RunID)

	buf.Reset()
	require.NoError(t, outputSnapshot(&buf, "json", &snapshots[1]))
	var decoded storage.Snapshot
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 1, decoded.Event)
}

func TestImportFiles_FailureRemovesRun(t *testing.T) {
	dir := setupCmd(t)
	// the first event is stored before the second one fails
	path := writeFile(t, dir, "partial.xml", goodStream+badStream)

	store, err := container.OpenSnapshotStore(cfg.Storage)
	require.NoError(t, err)
	defer store.Close()

	rc, err := readerConfig(nil)
	require.NoError(t, err)

	_, err = importFiles(context.Background(), store, []string{path}, rc, 1)
	require.Error(t, err)

	runs, err := store.Runs()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestOutputEvent(t *testing.T) {
	dir := setupCmd(t)
	path := writeFile(t, dir, "events.xml", goodStream)

	rc, err := readerConfig(nil)
	require.NoError(t, err)
	src, err := pipeline.Load(path, rc)
	require.NoError(t, err)
	res, err := src.Event(0)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, outputEvent(&buf, "table", api.NewEventView(res)))
	out := buf.String()
	assert.Contains(t, out, "PFOs:")
	assert.Contains(t, out, "0x1")
	assert.Contains(t, out, "211")

	registry, err := src.Geometry(0)
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, outputGeometry(&buf, "json", api.NewGeometryView(0, registry)))
	var view api.GeometryView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &view))
	assert.Equal(t, 1, view.BoxGaps)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	saved := config.DefaultConfig()
	saved.Reader.Relationships = "inline"
	saved.Logging.Level = "debug"
	require.NoError(t, config.SaveConfig(saved, path))

	newCmd := func(args ...string) *cobra.Command {
		c := &cobra.Command{Use: "test"}
		addGlobalFlags(c)
		require.NoError(t, c.ParseFlags(args))
		return c
	}

	loaded, err := loadConfig(newCmd("--config", path))
	require.NoError(t, err)
	assert.Equal(t, "inline", loaded.Reader.Relationships)
	assert.Equal(t, "debug", loaded.Logging.Level)

	loaded, err = loadConfig(newCmd("--config", path, "--relationships", "deferred", "--indexed-seek", "-d", "/tmp/x"))
	require.NoError(t, err)
	assert.Equal(t, "deferred", loaded.Reader.Relationships)
	assert.True(t, loaded.Reader.IndexedSeek)
	assert.Equal(t, "/tmp/x", loaded.Storage.DataDir)

	// a missing file falls back to defaults
	loaded, err = loadConfig(newCmd("--config", filepath.Join(dir, "none.yaml")))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Storage.DataDir, loaded.Storage.DataDir)

	_, err = loadConfig(newCmd("--config", path, "--log-format", "xml"))
	assert.Error(t, err)
}

func TestResolveAPIKey(t *testing.T) {
	setupCmd(t)

	key, err := resolveAPIKey("fixed")
	require.NoError(t, err)
	assert.Equal(t, "fixed", key)

	key, err = resolveAPIKey("")
	require.NoError(t, err)
	assert.Empty(t, key)

	key, err = resolveAPIKey(autoAPIKey)
	require.NoError(t, err)
	assert.Len(t, key, 64)
}

func TestSeekCommand(t *testing.T) {
	dir := setupCmd(t)
	path := writeFile(t, dir, "events.xml", goodStream)
	configPath := filepath.Join(dir, "config.yaml")

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs([]string{"--config", configPath, "-o", "json", "seek", path, "1"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())

	var view api.EventView
	require.NoError(t, json.Unmarshal(out.Bytes(), &view))
	assert.Equal(t, 1, view.Event)
	assert.Len(t, view.PFOs, 1)
}
