package config

import (
	"github.com/spf13/pflag"
)

// parseFlags overlays command-line flags. -c/--config is accepted here
// only so parsing does not fail; the file was loaded earlier.
func parseFlags(c *Config, args []string) error {
	fs := pflag.NewFlagSet("kanban-server", pflag.ContinueOnError)

	var configFile string
	fs.StringVarP(&configFile, "config", "c", "", "path to a JSON or YAML config file")

	fs.StringVarP(&c.HTTPAddress, "http-address", "a", c.HTTPAddress, "HTTP listen address")
	fs.StringVarP(&c.GRPCAddress, "grpc-address", "g", c.GRPCAddress, "gRPC health listen address")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "log level (debug, info, warn, error)")
	fs.DurationVar(&c.ShutdownTimeout, "shutdown-timeout", c.ShutdownTimeout, "graceful shutdown timeout")

	fs.StringVar(&c.DatabaseHost, "db-host", c.DatabaseHost, "PostgreSQL host")
	fs.IntVar(&c.DatabasePort, "db-port", c.DatabasePort, "PostgreSQL port")
	fs.StringVar(&c.DatabaseName, "db-name", c.DatabaseName, "PostgreSQL database")
	fs.StringVar(&c.DatabaseUsername, "db-username", c.DatabaseUsername, "encrypted PostgreSQL username")
	fs.StringVar(&c.DatabasePassword, "db-password", c.DatabasePassword, "encrypted PostgreSQL password")
	fs.StringVar(&c.DatabaseSSLMode, "db-sslmode", c.DatabaseSSLMode, "PostgreSQL sslmode")

	fs.StringVarP(&c.EncryptionPassword, "encryption-password", "e", c.EncryptionPassword, "masked master password")
	fs.StringVarP(&c.JWTSecret, "jwt-secret", "s", c.JWTSecret, "encrypted JWT signing secret")
	fs.DurationVarP(&c.JWTExpiration, "jwt-expiration", "t", c.JWTExpiration, "access token lifetime")

	fs.StringVar(&c.S3BaseEndpoint, "s3-endpoint", c.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&c.S3Region, "s3-region", c.S3Region, "S3 region")
	fs.StringVar(&c.S3Bucket, "s3-bucket", c.S3Bucket, "S3 bucket for board snapshots (empty disables snapshots)")
	fs.StringVar(&c.S3AccessKey, "s3-access-key", c.S3AccessKey, "S3 access key")
	fs.StringVar(&c.S3SecretKey, "s3-secret-key", c.S3SecretKey, "S3 secret key")

	return fs.Parse(args)
}
