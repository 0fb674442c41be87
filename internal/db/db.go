// Package db opens the PostgreSQL pool and owns schema migration and seed
// data.
package db

import (
	"context"
	"database/sql"

	"github.com/friendsofgo/errors"
	_ "github.com/lib/pq"

	"github.com/nrfta/tubepage/internal/config"
)

// Open connects to PostgreSQL with the pool settings of cfg and verifies the
// connection.
func Open(ctx context.Context, cfg *config.Database) (*sql.DB, error) {
	conn, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	return conn, nil
}
