// Package monitor persists per-message validation outcomes to the
// sms_monitor audit table.
package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smsbridge/smsbridge/internal/checks"
)

// Outcome is the full validation verdict for one message.
type Outcome struct {
	UUID        string
	Valid       bool
	FailedAt    string
	CompletedAt time.Time
	Results     map[string]checks.Result
}

const recordSQL = `
INSERT INTO sms_monitor (
	uuid, overall_status, failed_at_check, processing_completed_at,
	blacklist_check, duplicate_check, foreign_number_check,
	header_hash_check, mobile_check, time_window_check
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (uuid) DO UPDATE SET
	overall_status = EXCLUDED.overall_status,
	failed_at_check = EXCLUDED.failed_at_check,
	processing_completed_at = EXCLUDED.processing_completed_at,
	blacklist_check = EXCLUDED.blacklist_check,
	duplicate_check = EXCLUDED.duplicate_check,
	foreign_number_check = EXCLUDED.foreign_number_check,
	header_hash_check = EXCLUDED.header_hash_check,
	mobile_check = EXCLUDED.mobile_check,
	time_window_check = EXCLUDED.time_window_check`

// Store writes outcomes to Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a monitor Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Record upserts the outcome for a message. Reprocessing a message
// overwrites its previous row.
func (s *Store) Record(ctx context.Context, out Outcome) error {
	status := "invalid"
	if out.Valid {
		status = "valid"
	}
	var failedAt *string
	if !out.Valid && out.FailedAt != "" {
		failedAt = &out.FailedAt
	}
	completed := out.CompletedAt
	if completed.IsZero() {
		completed = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx, recordSQL,
		out.UUID, status, failedAt, completed,
		int(out.Results[checks.Blacklist]),
		int(out.Results[checks.Duplicate]),
		int(out.Results[checks.ForeignNumber]),
		int(out.Results[checks.HeaderHash]),
		int(out.Results[checks.Mobile]),
		int(out.Results[checks.TimeWindow]),
	)
	if err != nil {
		return fmt.Errorf("recording outcome for %s: %w", out.UUID, err)
	}
	return nil
}
