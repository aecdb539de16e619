// Package storage persists grimoire snapshots in PostgreSQL as opaque blobs.
package storage

import (
	"context"
	"fmt"

	"github.com/clocktower/grimoire-go/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// DB wraps the connection pool.
type DB struct {
	Pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewDB connects to the database described by cfg and pings it.
func NewDB(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.MinConns = cfg.MinConns
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	stats := pool.Stat()
	logger.Info("database connected",
		zap.Int32("max_conns", stats.MaxConns()),
		zap.Int32("total_conns", stats.TotalConns()))
	return &DB{Pool: pool, logger: logger}, nil
}

// Close releases the pool.
func (db *DB) Close() {
	db.Pool.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS grimoire_snapshots (
	game_id     TEXT        NOT NULL,
	day         INTEGER     NOT NULL,
	night       INTEGER     NOT NULL,
	phase       TEXT        NOT NULL,
	checksum    TEXT        NOT NULL,
	data        BYTEA       NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (game_id, day, night, phase)
)`

// Migrate creates the snapshot table if needed.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
