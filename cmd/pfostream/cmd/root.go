/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ssargent/pfostream/pkg/config"
	"github.com/ssargent/pfostream/pkg/di"
	"github.com/ssargent/pfostream/pkg/stream"
)

var (
	container *di.Container
	cfg       *config.Config
	logger    *slog.Logger
)

// SetContainer injects the dependency container
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pfostream",
	Short: "pfostream - particle flow event stream reader",
	Long: `pfostream reads XML event streams of detector geometry and physics
events, assembles them into particle flow objects and keeps summaries of
imported runs.

Examples:
  pfostream read events.xml more-events.xml.zst
  pfostream seek events.xml 12
  pfostream import events.xml
  pfostream serve events.xml`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if container == nil {
			return errors.New("dependency container not initialized")
		}

		loaded, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cfg = loaded

		logger, err = cfg.Logging.NewLogger(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// Interrupts cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	addGlobalFlags(rootCmd)
}

func addGlobalFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("config", "", "Config file (default ~/.config/pfostream/config.yaml)")
	flags.StringP("data-dir", "d", "", "Data directory for the snapshot store")
	flags.String("relationships", "", "When relationship records are applied (deferred or inline)")
	flags.Bool("indexed-seek", false, "Seek through a container index")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("log-format", "", "Log format (text or json)")
	flags.StringP("output", "o", "table", "Output format (table or json)")
}

// loadConfig reads the config file when present, falling back to defaults,
// then applies flags that were set explicitly
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath := configPathFlag(cmd)

	loaded := config.DefaultConfig()
	if config.ConfigExists(configPath) {
		var err error
		loaded, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		loaded.Storage.DataDir, _ = flags.GetString("data-dir")
	}
	if flags.Changed("relationships") {
		loaded.Reader.Relationships, _ = flags.GetString("relationships")
	}
	if flags.Changed("indexed-seek") {
		loaded.Reader.IndexedSeek, _ = flags.GetBool("indexed-seek")
	}
	if flags.Changed("log-level") {
		loaded.Logging.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		loaded.Logging.Format, _ = flags.GetString("log-format")
	}

	if err := loaded.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return loaded, nil
}

// readerConfig builds the reader configuration for the current command
func readerConfig(observer stream.Observer) (stream.Config, error) {
	return container.ReaderConfig(cfg.Reader, logger, observer)
}

func outputFormat(cmd *cobra.Command) string {
	format, _ := cmd.Flags().GetString("output")
	return format
}

func addJobsFlag(cmd *cobra.Command) {
	cmd.Flags().IntP("jobs", "j", runtime.NumCPU(), "Number of files processed concurrently")
}
