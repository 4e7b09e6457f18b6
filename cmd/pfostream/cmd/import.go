/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ssargent/pfostream/pkg/pipeline"
	"github.com/ssargent/pfostream/pkg/storage"
	"github.com/ssargent/pfostream/pkg/stream"
)

// importReport describes one imported file
type importReport struct {
	Path   string `json:"path"`
	RunID  string `json:"run_id"`
	Events int    `json:"events"`
}

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import FILE...",
	Short: "Store event summaries of stream files",
	Long: `Assemble every event of one or more stream files and store a summary
per event in the snapshot store. Each file becomes its own run, identified by
a sortable run id.

Examples:
  pfostream import events.xml
  pfostream import run1.xml run2.xml.zst --data-dir ./data`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jobs, _ := cmd.Flags().GetInt("jobs")
		rc, err := readerConfig(nil)
		if err != nil {
			return err
		}

		store, err := container.OpenSnapshotStore(cfg.Storage)
		if err != nil {
			return err
		}
		defer store.Close()

		reports, err := importFiles(cmd.Context(), store, args, rc, jobs)
		if err != nil {
			return err
		}
		return outputImports(cmd.OutOrStdout(), outputFormat(cmd), reports)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	addJobsFlag(importCmd)
}

// importFiles imports each path as its own run
func importFiles(ctx context.Context, store *storage.SnapshotStore, paths []string, rc stream.Config, jobs int) ([]*importReport, error) {
	reports := make([]*importReport, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, path := range paths {
		g.Go(func() error {
			report, err := importFile(ctx, store, path, rc)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func importFile(ctx context.Context, store *storage.SnapshotStore, path string, rc stream.Config) (*importReport, error) {
	src, err := pipeline.Load(path, rc)
	if err != nil {
		return nil, err
	}

	runID := storage.NewRunID()
	report := &importReport{Path: path, RunID: runID.String()}

	err = src.Events(func(res *pipeline.Result) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		snapshot := storage.Snapshot{
			Source:  path,
			Event:   res.Number,
			Summary: res.Summary(),
			PFOs:    len(res.PFOs),
		}
		if err := store.Put(runID, snapshot); err != nil {
			return err
		}
		report.Events++
		return nil
	})
	if err != nil {
		if derr := store.DeleteRun(runID); derr != nil {
			logger.Warn("failed to remove partial run", "run", runID, "error", derr)
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	logger.Info("stream imported", "path", path, "run", runID, "events", report.Events)
	return report, nil
}

func parseRunID(s string) (ksuid.KSUID, error) {
	id, err := ksuid.Parse(s)
	if err != nil {
		return ksuid.Nil, fmt.Errorf("invalid run id %q: %w", s, err)
	}
	return id, nil
}
