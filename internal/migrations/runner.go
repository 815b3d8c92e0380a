// Package migrations owns the bridge's schema: embedded, ordered SQL files
// applied once each at startup.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed sql/*.sql
var embeddedMigrations embed.FS

const bootstrapSQL = `CREATE TABLE IF NOT EXISTS _smsbridge_migrations (
	name text PRIMARY KEY,
	applied_at timestamptz NOT NULL DEFAULT now()
)`

// Runner applies embedded system migrations in filename order.
type Runner struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewRunner creates a Runner.
func NewRunner(db *pgxpool.Pool, logger *slog.Logger) *Runner {
	return &Runner{db: db, logger: logger}
}

// Bootstrap creates the migration bookkeeping table. Idempotent.
func (r *Runner) Bootstrap(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, bootstrapSQL); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}
	return nil
}

// Run applies all pending migrations and returns how many were applied.
func (r *Runner) Run(ctx context.Context) (int, error) {
	names, err := migrationNames()
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, name := range names {
		done, err := r.isApplied(ctx, name)
		if err != nil {
			return applied, err
		}
		if done {
			continue
		}
		if err := r.apply(ctx, name); err != nil {
			return applied, fmt.Errorf("applying %s: %w", name, err)
		}
		r.logger.Info("applied migration", "name", name)
		applied++
	}
	return applied, nil
}

func migrationNames() ([]string, error) {
	entries, err := fs.ReadDir(embeddedMigrations, "sql")
	if err != nil {
		return nil, fmt.Errorf("reading embedded migrations: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (r *Runner) isApplied(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM _smsbridge_migrations WHERE name = $1)`, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking migration %s: %w", name, err)
	}
	return exists, nil
}

func (r *Runner) apply(ctx context.Context, name string) error {
	sqlBytes, err := fs.ReadFile(embeddedMigrations, "sql/"+name)
	if err != nil {
		return fmt.Errorf("reading migration: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, string(sqlBytes)); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO _smsbridge_migrations (name) VALUES ($1)`, name,
	); err != nil {
		return fmt.Errorf("recording migration: %w", err)
	}
	return tx.Commit(ctx)
}
