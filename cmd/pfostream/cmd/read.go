/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ssargent/pfostream/pkg/pipeline"
	"github.com/ssargent/pfostream/pkg/stream"
)

// fileReport totals what one stream file holds
type fileReport struct {
	Path          string  `json:"path"`
	Geometries    int     `json:"geometries"`
	SubDetectors  int     `json:"sub_detectors"`
	Events        int     `json:"events"`
	CaloHits      int     `json:"calo_hits"`
	Tracks        int     `json:"tracks"`
	MCParticles   int     `json:"mc_particles"`
	Relationships int     `json:"relationships"`
	PFOs          int     `json:"pfos"`
	TotalEnergy   float32 `json:"total_energy"`
}

// readCmd represents the read command
var readCmd = &cobra.Command{
	Use:   "read FILE...",
	Short: "Read stream files and report their contents",
	Long: `Read every geometry and event container of one or more stream files,
assemble particle flow objects and print per-file totals. Files are read
concurrently, one reader per file. A malformed record stops the read of its
file and fails the command.

Examples:
  pfostream read events.xml
  pfostream read run1.xml.zst run2.xml.zst --jobs 2 -o json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jobs, _ := cmd.Flags().GetInt("jobs")
		rc, err := readerConfig(nil)
		if err != nil {
			return err
		}

		reports, err := readFiles(cmd.Context(), args, rc, jobs)
		if err != nil {
			return err
		}
		return outputReports(cmd.OutOrStdout(), outputFormat(cmd), reports)
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
	addJobsFlag(readCmd)
}

// readFiles reads each path with its own reader. Reports keep the order of
// paths.
func readFiles(ctx context.Context, paths []string, rc stream.Config, jobs int) ([]*fileReport, error) {
	reports := make([]*fileReport, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, path := range paths {
		g.Go(func() error {
			report, err := readFile(ctx, path, rc)
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

func readFile(ctx context.Context, path string, rc stream.Config) (*fileReport, error) {
	src, err := pipeline.Load(path, rc)
	if err != nil {
		return nil, err
	}
	report := &fileReport{Path: path, Geometries: src.Count(stream.Geometry)}

	for n := 0; n < report.Geometries; n++ {
		registry, err := src.Geometry(n)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		report.SubDetectors += len(registry.SubDetectors())
	}

	err = src.Events(func(res *pipeline.Result) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		summary := res.Summary()
		report.Events++
		report.CaloHits += summary.CaloHits
		report.Tracks += summary.Tracks
		report.MCParticles += summary.MCParticles
		report.Relationships += summary.Relationships
		report.TotalEnergy += summary.TotalEnergy
		report.PFOs += len(res.PFOs)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	logger.Debug("stream read", "path", path, "events", report.Events, "pfos", report.PFOs)
	return report, nil
}
