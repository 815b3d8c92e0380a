// Package postgres owns the connection pool to the relational store.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Config holds connection pool settings.
type Config struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	HealthCheckSecs int

	// StatementCache enables pgx's prepared-statement cache. Keep it off
	// behind poolers that don't support prepared statements (pgbouncer in
	// transaction mode); the simple query protocol is used instead.
	StatementCache bool
}

// Pool wraps a pgxpool.Pool with lifecycle helpers.
type Pool struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// New parses the URL, applies pool bounds, connects, and pings.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Pool, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}

	pc.MaxConns = cfg.MaxConns
	if pc.MaxConns < 1 {
		pc.MaxConns = 10
	}
	pc.MinConns = cfg.MinConns
	if pc.MinConns < 1 {
		pc.MinConns = 1
	}
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	if cfg.HealthCheckSecs > 0 {
		pc.HealthCheckPeriod = time.Duration(cfg.HealthCheckSecs) * time.Second
	}
	if !cfg.StatementCache {
		pc.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	}

	db, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.Ping(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	logger.Info("database connected",
		"max_conns", pc.MaxConns,
		"min_conns", pc.MinConns,
		"statement_cache", cfg.StatementCache,
	)
	return &Pool{db: db, logger: logger}, nil
}

// DB returns the underlying pgxpool.Pool.
func (p *Pool) DB() *pgxpool.Pool {
	return p.db
}

// Close closes all pool connections.
func (p *Pool) Close() {
	p.db.Close()
}
