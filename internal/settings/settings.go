// Package settings reads the system_settings key/value table. Values are
// stored as text; anything that parses as JSON is decoded, everything else
// is returned as the raw string.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CursorKey is the setting holding the pipeline's durable cursor.
const CursorKey = "last_processed_uuid"

// Store reads and writes system_settings rows.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a settings Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Value returns the decoded value for key. The second return is false when
// the key is absent.
func (s *Store) Value(ctx context.Context, key string) (any, bool, error) {
	var raw string
	err := s.pool.QueryRow(ctx,
		`SELECT setting_value FROM system_settings WHERE setting_key = $1`, key,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading setting %s: %w", key, err)
	}
	return decodeValue(raw), true, nil
}

// SetCursor durably advances last_processed_uuid. Upsert so a wiped
// settings table can't strand the pipeline.
func (s *Store) SetCursor(ctx context.Context, uuid string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO system_settings (setting_key, setting_value) VALUES ($1, $2)
		 ON CONFLICT (setting_key) DO UPDATE SET setting_value = EXCLUDED.setting_value`,
		CursorKey, uuid,
	)
	if err != nil {
		return fmt.Errorf("advancing cursor: %w", err)
	}
	return nil
}

// Snapshot reads every setting in one query and parses the keys the
// pipeline and checks consume. Missing or malformed values fall back to
// safe defaults.
func (s *Store) Snapshot(ctx context.Context) (*Snapshot, error) {
	rows, err := s.pool.Query(ctx, `SELECT setting_key, setting_value FROM system_settings`)
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	defer rows.Close()

	raw := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scanning setting: %w", err)
		}
		raw[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	return newSnapshot(raw), nil
}

// decodeValue tries the stored text as JSON and falls back to the raw string.
func decodeValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}
