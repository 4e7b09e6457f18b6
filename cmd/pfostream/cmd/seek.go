/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ssargent/pfostream/pkg/api"
	"github.com/ssargent/pfostream/pkg/pipeline"
)

// seekCmd represents the seek command
var seekCmd = &cobra.Command{
	Use:   "seek FILE N",
	Short: "Assemble and show the n-th event or geometry container",
	Long: `Seek to the n-th event container of a stream (counting from 0),
read it and show the assembled particle flow objects. With --geometry the
n-th geometry container is shown instead.

Examples:
  pfostream seek events.xml 0
  pfostream seek events.xml 3 --indexed-seek -o json
  pfostream seek events.xml 0 --geometry`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid container number %q: %w", args[1], err)
		}
		geometry, _ := cmd.Flags().GetBool("geometry")

		rc, err := readerConfig(nil)
		if err != nil {
			return err
		}
		src, err := pipeline.Load(args[0], rc)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if geometry {
			registry, err := src.Geometry(n)
			if err != nil {
				return fmt.Errorf("geometry %d: %w", n, err)
			}
			return outputGeometry(out, outputFormat(cmd), api.NewGeometryView(n, registry))
		}

		res, err := src.Event(n)
		if err != nil {
			return fmt.Errorf("event %d: %w", n, err)
		}
		return outputEvent(out, outputFormat(cmd), api.NewEventView(res))
	},
}

func init() {
	rootCmd.AddCommand(seekCmd)
	seekCmd.Flags().Bool("geometry", false, "Seek a geometry container instead of an event")
}
