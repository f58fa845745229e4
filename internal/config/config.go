// Package config provides configuration management using Viper.
// It loads configuration from environment variables, .env files, and config files.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerPort           = 8080
	defaultServerHost           = "0.0.0.0"
	defaultReadTimeout          = 30 * time.Second
	defaultWriteTimeout         = 30 * time.Second
	defaultDatabasePath         = "./data/popcorn.db"
	defaultDatabaseTimeout      = 5 * time.Second
	defaultLogLevel             = "info"
	defaultLogPretty            = false
	defaultHorizonHours         = 24
	defaultReshuffleFrequency   = "weekly"
	defaultCatalogFetchTimeout  = 30 * time.Second
	defaultReshuffleCheckPeriod = time.Hour
	envPrefix                   = "POPCORN"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Schedule ScheduleConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Path              string
	ConnectionTimeout time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Pretty bool
}

// ScheduleConfig holds channel schedule engine configuration
type ScheduleConfig struct {
	HorizonHours        int
	ReshuffleFrequency  string
	CatalogFetchTimeout time.Duration
	// ReshuffleCheckPeriod drives the background staleness ticker.
	// Zero disables the ticker; staleness is still checked lazily on access.
	ReshuffleCheckPeriod time.Duration
}

// HorizonSeconds returns the schedule horizon in seconds
func (s ScheduleConfig) HorizonSeconds() int64 {
	return int64(s.HorizonHours) * 3600
}

// Load reads configuration from .env file, config files, environment variables, and defaults
func Load() (*Config, error) {
	// .env files are optional in production and CI where env vars are set directly
	_ = godotenv.Load() // nolint:errcheck // .env file is optional

	v := viper.New()

	setDefaults(v)

	// Config file settings
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/popcorn")

	// Environment variable settings
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.host", defaultServerHost)
	v.SetDefault("server.readtimeout", defaultReadTimeout)
	v.SetDefault("server.writetimeout", defaultWriteTimeout)

	v.SetDefault("database.path", defaultDatabasePath)
	v.SetDefault("database.connectiontimeout", defaultDatabaseTimeout)

	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.pretty", defaultLogPretty)

	v.SetDefault("schedule.horizonhours", defaultHorizonHours)
	v.SetDefault("schedule.reshufflefrequency", defaultReshuffleFrequency)
	v.SetDefault("schedule.catalogfetchtimeout", defaultCatalogFetchTimeout)
	v.SetDefault("schedule.reshufflecheckperiod", defaultReshuffleCheckPeriod)
}

// Validate checks that configuration values are valid
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("invalid read timeout: %v (must be > 0)", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("invalid write timeout: %v (must be > 0)", c.Server.WriteTimeout)
	}
	if c.Database.ConnectionTimeout <= 0 {
		return fmt.Errorf("invalid database connection timeout: %v (must be > 0)", c.Database.ConnectionTimeout)
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.Logging.Level, strings.Join(validLevels, ", "))
	}

	if c.Schedule.HorizonHours < 1 {
		return fmt.Errorf("invalid schedule horizon: %d hours (must be >= 1)", c.Schedule.HorizonHours)
	}
	validFrequencies := []string{"daily", "weekly", "monthly"}
	if !contains(validFrequencies, c.Schedule.ReshuffleFrequency) {
		return fmt.Errorf("invalid reshuffle frequency: %s (must be one of: %s)", c.Schedule.ReshuffleFrequency, strings.Join(validFrequencies, ", "))
	}
	if c.Schedule.CatalogFetchTimeout <= 0 {
		return fmt.Errorf("invalid catalog fetch timeout: %v (must be > 0)", c.Schedule.CatalogFetchTimeout)
	}
	if c.Schedule.ReshuffleCheckPeriod < 0 {
		return fmt.Errorf("invalid reshuffle check period: %v (must be >= 0)", c.Schedule.ReshuffleCheckPeriod)
	}

	return nil
}

// contains checks if a string slice contains a specific value
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
