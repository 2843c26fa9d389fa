package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/graph-ingest/internal/config"
)

// loadAppConfig loads the application configuration from environment variables or config file.
// Returns the loaded config and any loading error.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"shutdown_timeout", cfg.Task.ShutdownTimeout.String(),
		"job_timeout", cfg.Task.JobTimeout.String())

	slog.Debug("Neo4j configuration",
		"database", cfg.Neo4j.Database,
		"user_present", cfg.Neo4j.User != "",
		"password_present", cfg.Neo4j.Password != "")

	return cfg, nil
}
