/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ssargent/pfostream/pkg/storage"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show [RUN [N]]",
	Short: "Show stored runs and event snapshots",
	Long: `Without arguments, list the stored runs. With a run id, list the
snapshots of that run. With a run id and an event number, show one snapshot.

Examples:
  pfostream show
  pfostream show 2kPyE6BjrPUp8kCEYiGqwXQ2T6Z
  pfostream show 2kPyE6BjrPUp8kCEYiGqwXQ2T6Z 4 -o json`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := container.OpenSnapshotStore(cfg.Storage)
		if err != nil {
			return err
		}
		defer store.Close()

		out, format := cmd.OutOrStdout(), outputFormat(cmd)

		if len(args) == 0 {
			runs, err := store.Runs()
			if err != nil {
				return err
			}
			return outputRuns(out, format, runs)
		}

		runID, err := parseRunID(args[0])
		if err != nil {
			return err
		}

		if len(args) == 1 {
			snapshots, err := store.List(runID)
			if err != nil {
				return err
			}
			return outputSnapshots(out, format, snapshots)
		}

		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid event number %q: %w", args[1], err)
		}
		snapshot, err := store.Get(runID, n)
		if errors.Is(err, storage.ErrSnapshotNotFound) {
			return fmt.Errorf("no snapshot of event %d in run %s", n, runID)
		}
		if err != nil {
			return err
		}
		return outputSnapshot(out, format, snapshot)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
