/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/pfostream/pkg/api"
	"github.com/ssargent/pfostream/pkg/config"
	"github.com/ssargent/pfostream/pkg/pipeline"
)

const autoAPIKey = "auto"

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve [FILE]",
	Short: "Start the inspection REST API server",
	Long: `Start the inspection REST API server. When a stream file is given its
events and geometry are served under /api/v1/events/{n} and
/api/v1/geometry/{n}; stored runs are always served under /api/v1/runs.
Prometheus metrics, including reader counters, are served on /metrics.

An API key of "auto" generates a key for this process and logs it.

Examples:
  pfostream serve events.xml
  pfostream serve events.xml --port 9300 --api-key mysecretkey
  pfostream serve --bind 0.0.0.0`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if flags.Changed("port") {
			cfg.Server.Port, _ = flags.GetInt("port")
		}
		if flags.Changed("bind") {
			cfg.Server.Bind, _ = flags.GetString("bind")
		}
		if flags.Changed("api-key") {
			cfg.Security.APIKey, _ = flags.GetString("api-key")
		}

		apiKey, err := resolveAPIKey(cfg.Security.APIKey)
		if err != nil {
			return err
		}

		metrics := api.NewMetrics()
		var source api.EventSource
		if len(args) == 1 {
			rc, err := readerConfig(metrics)
			if err != nil {
				return err
			}
			src, err := pipeline.Load(args[0], rc)
			if err != nil {
				return err
			}
			source = src
		}

		store, err := container.OpenSnapshotStore(cfg.Storage)
		if err != nil {
			return err
		}
		defer store.Close()

		starter := container.GetServerFactory().CreateServerStarter(logger, metrics)
		return starter.StartServer(cmd.Context(), source, store, api.ServerConfig{
			Port:        cfg.Server.Port,
			Bind:        cfg.Server.Bind,
			APIKey:      apiKey,
			CORSOrigins: cfg.Server.CORSOrigins,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind to")
	serveCmd.Flags().String("api-key", "", `API key for /api/v1 ("" disables authentication, "auto" generates one)`)
}

// resolveAPIKey replaces "auto" with a freshly generated key
func resolveAPIKey(key string) (string, error) {
	if key != autoAPIKey {
		return key, nil
	}
	generated, err := config.GenerateSecureKey(32)
	if err != nil {
		return "", err
	}
	logger.Warn("no API key configured, generated one for this process", "api_key", generated)
	return generated, nil
}
