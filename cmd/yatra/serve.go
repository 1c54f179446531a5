package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/johnrirwin/yatra/internal/logging"
	"github.com/johnrirwin/yatra/internal/metrics"
	"github.com/johnrirwin/yatra/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server. This is the default command.

Examples:
  # Serve with defaults on :8080
  yatra serve

  # Serve with a config file and a SearchAPI key from the environment
  YATRA_SEARCH_API_KEY=... yatra serve --config /etc/yatra/config.yaml`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("Starting yatra", logging.WithFields(map[string]interface{}{
		"version":           version,
		"ratelimit_backend": cfg.RateLimit.Backend,
		"cache_backend":     cfg.Cache.Backend,
		"auth_enabled":      cfg.AuthEnabled(),
	}))

	srv, err := server.New(ctx, cfg, logger, metrics.Default())
	if err != nil {
		logger.Error("Failed to initialize server", logging.WithField("error", err.Error()))
		return err
	}
	defer srv.Close()

	return srv.Run(ctx)
}
