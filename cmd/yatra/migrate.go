package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/johnrirwin/yatra/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long: `Create the users, sessions, login_attempts and support_requests tables
if they do not exist. The server also applies the schema on start.

Examples:
  YATRA_DATABASE_URL=postgres://localhost/yatra?sslmode=disable yatra migrate`,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Database.URL == "" {
		return errors.New("database.url is not set")
	}

	db, err := database.Open(ctx, cfg.Database.URL, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return err
	}
	logger.Info("Database schema is up to date")
	return nil
}
