// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/jacentio/mysfits/store"
)

// Prefix is prepended to every variable name, e.g. MYSFITS_TABLE_NAME.
// A variable that is not set with the prefix is also looked up without it,
// so the bare PORT, AWS_REGION and TABLE_NAME used by the hosting platform work.
const Prefix = "MYSFITS"

// Config holds the configuration for the mysfits binaries.
type Config struct {
	// DynamoDB table
	TableName      string `envconfig:"TABLE_NAME" default:"MysfitsTable"`
	GoodEvilIndex  string `envconfig:"GOOD_EVIL_INDEX" default:"GoodEvilIndex"`
	LawChaosIndex  string `envconfig:"LAW_CHAOS_INDEX" default:"LawChaosIndex"`
	ConsistentRead bool   `envconfig:"CONSISTENT_READ" default:"false"`

	// AWS client. An empty region defers to the default credential chain;
	// DynamoDBEndpoint points the client at LocalStack or DynamoDB Local.
	AWSRegion        string `envconfig:"AWS_REGION"`
	DynamoDBEndpoint string `envconfig:"DYNAMODB_ENDPOINT"`
	AWSMaxAttempts   int    `envconfig:"AWS_MAX_ATTEMPTS" default:"0"`

	// HTTP server
	Port            int           `envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"10s"`
	IdleTimeout     time.Duration `envconfig:"HTTP_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"15s"`

	// Click enrichment
	EnrichConcurrency int `envconfig:"ENRICH_CONCURRENCY" default:"8"`

	// Logging: debug, info, warn or error.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// New creates a new Config by parsing environment variables.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.TableName == "" {
		errs = append(errs, errors.New("TABLE_NAME must not be empty"))
	}
	if c.GoodEvilIndex == "" || c.LawChaosIndex == "" {
		errs = append(errs, errors.New("index names must not be empty"))
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.AWSMaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("AWS_MAX_ATTEMPTS must not be negative, got %d", c.AWSMaxAttempts))
	}
	if c.EnrichConcurrency < 1 {
		errs = append(errs, fmt.Errorf("ENRICH_CONCURRENCY must be at least 1, got %d", c.EnrichConcurrency))
	}
	for name, d := range map[string]time.Duration{
		"HTTP_READ_TIMEOUT":     c.ReadTimeout,
		"HTTP_WRITE_TIMEOUT":    c.WriteTimeout,
		"HTTP_IDLE_TIMEOUT":     c.IdleTimeout,
		"HTTP_SHUTDOWN_TIMEOUT": c.ShutdownTimeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// StoreConfig returns the table settings for store.New.
func (c *Config) StoreConfig() store.Config {
	return store.Config{
		TableName:      c.TableName,
		GoodEvilIndex:  c.GoodEvilIndex,
		LawChaosIndex:  c.LawChaosIndex,
		ConsistentRead: c.ConsistentRead,
	}
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}

// Logger returns a JSON logger writing at the configured level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := c.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
