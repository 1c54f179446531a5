// Command yatra runs the travel API server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/johnrirwin/yatra/internal/config"
	"github.com/johnrirwin/yatra/internal/logging"
)

var (
	configPath string
	version    = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "yatra",
	Short: "Travel planning API for exploring places across India",
	Long: `yatra serves place search, stay and transport listings, accounts and
support requests over HTTP.

Configuration is read from an optional YAML file and YATRA_* environment
variables, which take precedence.`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("YATRA_CONFIG"), "path to YAML config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

// loadConfig reads configuration and builds the logger it describes.
func loadConfig() (*config.Config, *logging.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	logger := logging.NewWithFormat(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format)
	return cfg, logger, nil
}
