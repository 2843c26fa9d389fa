package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	Neo4j  Neo4jConfig  `mapstructure:"neo4j"  validate:"required"`
	Task   TaskConfig   `mapstructure:"task"   validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// Neo4jConfig contains the graph database connection settings.
type Neo4jConfig struct {
	URI      string `mapstructure:"uri"      validate:"required,uri"`
	User     string `mapstructure:"user"     validate:"required"`
	Password string `mapstructure:"password" validate:"required"`
	Database string `mapstructure:"database" validate:"required"`
}

// TaskConfig contains settings for the background write worker.
type TaskConfig struct {
	// ShutdownTimeout bounds how long shutdown waits for the in-flight job
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`

	// JobTimeout bounds a single job; zero disables the limit
	JobTimeout time.Duration `mapstructure:"job_timeout" validate:"gte=0"`
}
