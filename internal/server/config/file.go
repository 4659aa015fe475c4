package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianrazif/kanban-mono-repo/internal/timex"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape of Config. It is seeded from the
// current Config so keys missing from the file keep their values.
type fileConfig struct {
	HTTPAddress     string         `json:"http_address" yaml:"http_address"`
	GRPCAddress     string         `json:"grpc_address" yaml:"grpc_address"`
	LogLevel        string         `json:"log_level" yaml:"log_level"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`

	DatabaseHost            string         `json:"database_host" yaml:"database_host"`
	DatabasePort            int            `json:"database_port" yaml:"database_port"`
	DatabaseName            string         `json:"database_name" yaml:"database_name"`
	DatabaseUsername        string         `json:"database_username" yaml:"database_username"`
	DatabasePassword        string         `json:"database_password" yaml:"database_password"`
	DatabaseSSLMode         string         `json:"database_sslmode" yaml:"database_sslmode"`
	DatabaseMaxOpenConns    int            `json:"database_max_open_conns" yaml:"database_max_open_conns"`
	DatabaseMaxIdleConns    int            `json:"database_max_idle_conns" yaml:"database_max_idle_conns"`
	DatabaseConnMaxIdleTime timex.Duration `json:"database_conn_max_idle_time" yaml:"database_conn_max_idle_time"`
	DatabaseConnMaxLifetime timex.Duration `json:"database_conn_max_lifetime" yaml:"database_conn_max_lifetime"`

	EncryptionPassword string `json:"encryption_password" yaml:"encryption_password"`
	MaskPassword       string `json:"mask_password" yaml:"mask_password"`
	MaskIterations     int    `json:"mask_iterations" yaml:"mask_iterations"`

	JWTSecret       string         `json:"jwt_secret" yaml:"jwt_secret"`
	JWTExpiration   timex.Duration `json:"jwt_expiration" yaml:"jwt_expiration"`
	JWTExpirationMs int64          `json:"jwt_expiration_ms" yaml:"jwt_expiration_ms"`

	S3BaseEndpoint  string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3Region        string         `json:"s3_region" yaml:"s3_region"`
	S3Bucket        string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3AccessKey     string         `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey     string         `json:"s3_secret_key" yaml:"s3_secret_key"`
	S3PresignExpiry timex.Duration `json:"s3_presign_expiry" yaml:"s3_presign_expiry"`
}

// parseFile overlays values from a JSON or YAML file, chosen by extension.
func parseFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	fc := toFile(cfg)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	case ".json":
		err = json.Unmarshal(data, fc)
	default:
		return fmt.Errorf("unsupported config file extension %q (use .json, .yaml or .yml)", ext)
	}
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func toFile(c *Config) *fileConfig {
	return &fileConfig{
		HTTPAddress:             c.HTTPAddress,
		GRPCAddress:             c.GRPCAddress,
		LogLevel:                c.LogLevel,
		ShutdownTimeout:         timex.Duration{Duration: c.ShutdownTimeout},
		DatabaseHost:            c.DatabaseHost,
		DatabasePort:            c.DatabasePort,
		DatabaseName:            c.DatabaseName,
		DatabaseUsername:        c.DatabaseUsername,
		DatabasePassword:        c.DatabasePassword,
		DatabaseSSLMode:         c.DatabaseSSLMode,
		DatabaseMaxOpenConns:    c.DatabaseMaxOpenConns,
		DatabaseMaxIdleConns:    c.DatabaseMaxIdleConns,
		DatabaseConnMaxIdleTime: timex.Duration{Duration: c.DatabaseConnMaxIdleTime},
		DatabaseConnMaxLifetime: timex.Duration{Duration: c.DatabaseConnMaxLifetime},
		EncryptionPassword:      c.EncryptionPassword,
		MaskPassword:            c.MaskPassword,
		MaskIterations:          c.MaskIterations,
		JWTSecret:               c.JWTSecret,
		JWTExpiration:           timex.Duration{Duration: c.JWTExpiration},
		S3BaseEndpoint:          c.S3BaseEndpoint,
		S3Region:                c.S3Region,
		S3Bucket:                c.S3Bucket,
		S3AccessKey:             c.S3AccessKey,
		S3SecretKey:             c.S3SecretKey,
		S3PresignExpiry:         timex.Duration{Duration: c.S3PresignExpiry},
	}
}

func (f *fileConfig) apply(c *Config) {
	c.HTTPAddress = f.HTTPAddress
	c.GRPCAddress = f.GRPCAddress
	c.LogLevel = f.LogLevel
	c.ShutdownTimeout = f.ShutdownTimeout.Duration
	c.DatabaseHost = f.DatabaseHost
	c.DatabasePort = f.DatabasePort
	c.DatabaseName = f.DatabaseName
	c.DatabaseUsername = f.DatabaseUsername
	c.DatabasePassword = f.DatabasePassword
	c.DatabaseSSLMode = f.DatabaseSSLMode
	c.DatabaseMaxOpenConns = f.DatabaseMaxOpenConns
	c.DatabaseMaxIdleConns = f.DatabaseMaxIdleConns
	c.DatabaseConnMaxIdleTime = f.DatabaseConnMaxIdleTime.Duration
	c.DatabaseConnMaxLifetime = f.DatabaseConnMaxLifetime.Duration
	c.EncryptionPassword = f.EncryptionPassword
	c.MaskPassword = f.MaskPassword
	c.MaskIterations = f.MaskIterations
	c.JWTSecret = f.JWTSecret
	c.JWTExpiration = f.JWTExpiration.Duration
	if f.JWTExpirationMs > 0 {
		c.JWTExpiration = time.Duration(f.JWTExpirationMs) * time.Millisecond
	}
	c.S3BaseEndpoint = f.S3BaseEndpoint
	c.S3Region = f.S3Region
	c.S3Bucket = f.S3Bucket
	c.S3AccessKey = f.S3AccessKey
	c.S3SecretKey = f.S3SecretKey
	c.S3PresignExpiry = f.S3PresignExpiry.Duration
}
