// Package datasource opens the PostgreSQL pool used by the repositories.
// Credentials are stored encrypted in the configuration and decrypted here.
package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/julianrazif/kanban-mono-repo/internal/common"
	"github.com/julianrazif/kanban-mono-repo/internal/logging"
	"github.com/julianrazif/kanban-mono-repo/internal/server/config"
)

const component = "datasource"

var openDB = func(c pgx.ConnConfig) *sql.DB {
	return stdlib.OpenDB(c)
}

// Decoder turns stored ciphertext into plaintext.
type Decoder interface {
	Decode(secret string) (string, error)
}

// DSN builds a postgres URL from cfg and the plaintext credentials.
func DSN(cfg *config.Config, username, password string) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(username, password),
		Host:     net.JoinHostPort(cfg.DatabaseHost, strconv.Itoa(cfg.DatabasePort)),
		Path:     "/" + cfg.DatabaseName,
		RawQuery: url.Values{"sslmode": []string{cfg.DatabaseSSLMode}}.Encode(),
	}
	return u.String()
}

// Open decrypts the database credentials, opens the pool, applies the pool
// limits and pings the server.
func Open(ctx context.Context, cfg *config.Config, d Decoder, logger logging.Logger) (*sql.DB, error) {
	username, err := d.Decode(cfg.DatabaseUsername)
	if err != nil {
		return nil, credentialsError(err)
	}
	password, err := d.Decode(cfg.DatabasePassword)
	if err != nil {
		return nil, credentialsError(err)
	}

	connCfg, err := pgx.ParseConfig(DSN(cfg, username, password))
	if err != nil {
		return nil, configureError(err)
	}

	db := openDB(*connCfg)
	db.SetMaxOpenConns(cfg.DatabaseMaxOpenConns)
	db.SetMaxIdleConns(cfg.DatabaseMaxIdleConns)
	db.SetConnMaxIdleTime(cfg.DatabaseConnMaxIdleTime)
	db.SetConnMaxLifetime(cfg.DatabaseConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, configureError(err)
	}

	logger.Info(ctx, "datasource ready",
		"host", cfg.DatabaseHost,
		"database", cfg.DatabaseName,
		"max_open", cfg.DatabaseMaxOpenConns,
	)
	return db, nil
}

func credentialsError(err error) error {
	return &common.InitializationError{
		Component: component,
		Message:   "Failed to decrypt database credentials",
		Err:       err,
	}
}

func configureError(err error) error {
	return &common.InitializationError{
		Component: component,
		Message:   "Failed to configure kanban datasource",
		Err:       fmt.Errorf("postgres: %w", err),
	}
}
