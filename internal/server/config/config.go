// Package config handles configuration for the Kanban server: defaults,
// an optional JSON or YAML file, KANBAN_* environment variables and
// command-line flags, applied in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/julianrazif/kanban-mono-repo/internal/cryptox"
	"github.com/julianrazif/kanban-mono-repo/internal/flagx"
)

// Config holds runtime settings for the Kanban server.
//
// DatabaseUsername, DatabasePassword and JWTSecret are ciphertexts produced
// with the master key; EncryptionPassword is the MASK- value the master
// key is derived from.
type Config struct {
	HTTPAddress     string
	GRPCAddress     string
	LogLevel        string
	ShutdownTimeout time.Duration

	DatabaseHost            string
	DatabasePort            int
	DatabaseName            string
	DatabaseUsername        string
	DatabasePassword        string
	DatabaseSSLMode         string
	DatabaseMaxOpenConns    int
	DatabaseMaxIdleConns    int
	DatabaseConnMaxIdleTime time.Duration
	DatabaseConnMaxLifetime time.Duration

	EncryptionPassword string
	MaskPassword       string
	MaskIterations     int

	JWTSecret     string
	JWTExpiration time.Duration

	S3BaseEndpoint  string
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3PresignExpiry time.Duration
}

// LoadDefaults populates Config with development defaults. Secrets have
// no defaults and must be supplied.
func (c *Config) LoadDefaults() {
	c.HTTPAddress = ":8080"
	c.GRPCAddress = ":9090"
	c.LogLevel = "info"
	c.ShutdownTimeout = 10 * time.Second

	c.DatabaseHost = "localhost"
	c.DatabasePort = 5432
	c.DatabaseName = "kanban"
	c.DatabaseSSLMode = "disable"
	c.DatabaseMaxOpenConns = 20
	c.DatabaseMaxIdleConns = 10
	c.DatabaseConnMaxIdleTime = 30 * time.Second
	c.DatabaseConnMaxLifetime = 30 * time.Minute

	c.MaskPassword = cryptox.DefaultMaskPassword
	c.MaskIterations = cryptox.Iterations

	c.JWTExpiration = time.Hour

	c.S3Region = "us-east-1"
	c.S3PresignExpiry = 15 * time.Minute
}

// Validate checks values that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	var errs []error
	if c.HTTPAddress == "" {
		errs = append(errs, errors.New("http address is required"))
	}
	if c.DatabasePort <= 0 || c.DatabasePort > 65535 {
		errs = append(errs, fmt.Errorf("invalid database port %d", c.DatabasePort))
	}
	if c.MaskIterations <= 0 {
		errs = append(errs, fmt.Errorf("invalid mask iterations %d", c.MaskIterations))
	}
	if c.JWTExpiration <= 0 {
		errs = append(errs, fmt.Errorf("invalid jwt expiration %s", c.JWTExpiration))
	}
	if c.DatabaseMaxIdleConns > c.DatabaseMaxOpenConns {
		errs = append(errs, errors.New("database max idle conns exceeds max open conns"))
	}
	return errors.Join(errs...)
}

// SnapshotsEnabled reports whether an S3 bucket is configured.
func (c *Config) SnapshotsEnabled() bool {
	return c.S3Bucket != ""
}

// LoadConfig builds a Config from defaults, the config file named by
// -c/--config or KANBAN_CONFIG, the environment and finally args.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	path := flagx.ConfigFileFlag(args)
	if path == "" {
		path = os.Getenv(envPrefix + "CONFIG")
	}
	if path != "" {
		if err := parseFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := parseEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
