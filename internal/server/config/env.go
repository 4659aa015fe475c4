package config

import (
	"fmt"
	"strconv"
	"time"
)

const envPrefix = "KANBAN_"

type lookupFunc func(string) (string, bool)

func stringVar(p *string) func(string) error {
	return func(v string) error { *p = v; return nil }
}

func intVar(p *int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*p = n
		return nil
	}
}

func durationVar(p *time.Duration) func(string) error {
	return func(v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*p = d
		return nil
	}
}

func millisVar(p *time.Duration) func(string) error {
	return func(v string) error {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		*p = time.Duration(ms) * time.Millisecond
		return nil
	}
}

// parseEnv overlays KANBAN_* environment variables.
func parseEnv(c *Config, lookup lookupFunc) error {
	vars := []struct {
		name string
		set  func(string) error
	}{
		{"HTTP_ADDRESS", stringVar(&c.HTTPAddress)},
		{"GRPC_ADDRESS", stringVar(&c.GRPCAddress)},
		{"LOG_LEVEL", stringVar(&c.LogLevel)},
		{"SHUTDOWN_TIMEOUT", durationVar(&c.ShutdownTimeout)},
		{"DATABASE_HOST", stringVar(&c.DatabaseHost)},
		{"DATABASE_PORT", intVar(&c.DatabasePort)},
		{"DATABASE_NAME", stringVar(&c.DatabaseName)},
		{"DATABASE_USERNAME", stringVar(&c.DatabaseUsername)},
		{"DATABASE_PASSWORD", stringVar(&c.DatabasePassword)},
		{"DATABASE_SSLMODE", stringVar(&c.DatabaseSSLMode)},
		{"DATABASE_MAX_OPEN_CONNS", intVar(&c.DatabaseMaxOpenConns)},
		{"DATABASE_MAX_IDLE_CONNS", intVar(&c.DatabaseMaxIdleConns)},
		{"ENCRYPTION_PASSWORD", stringVar(&c.EncryptionPassword)},
		{"MASK_PASSWORD", stringVar(&c.MaskPassword)},
		{"MASK_ITERATIONS", intVar(&c.MaskIterations)},
		{"JWT_SECRET", stringVar(&c.JWTSecret)},
		{"JWT_EXPIRATION", durationVar(&c.JWTExpiration)},
		{"JWT_EXPIRATION_MS", millisVar(&c.JWTExpiration)},
		{"S3_BASE_ENDPOINT", stringVar(&c.S3BaseEndpoint)},
		{"S3_REGION", stringVar(&c.S3Region)},
		{"S3_BUCKET", stringVar(&c.S3Bucket)},
		{"S3_ACCESS_KEY", stringVar(&c.S3AccessKey)},
		{"S3_SECRET_KEY", stringVar(&c.S3SecretKey)},
		{"S3_PRESIGN_EXPIRY", durationVar(&c.S3PresignExpiry)},
	}

	for _, v := range vars {
		val, ok := lookup(envPrefix + v.name)
		if !ok {
			continue
		}
		if err := v.set(val); err != nil {
			return fmt.Errorf("env %s%s: %w", envPrefix, v.name, err)
		}
	}
	return nil
}
