// Package outbound persists accepted messages and hands them to the
// membership cache and the cloud backend.
package outbound

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists accepted messages in out_sms.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates an outbound Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Insert stores an accepted message. Re-accepting the same uuid is a
// no-op so reprocessed batches stay idempotent.
func (s *Store) Insert(ctx context.Context, uuid, sender, body string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO out_sms (uuid, sender_number, sms_message)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (uuid) DO NOTHING`,
		uuid, sender, body,
	)
	if err != nil {
		return fmt.Errorf("inserting accepted message %s: %w", uuid, err)
	}
	return nil
}

// Senders returns the distinct sender numbers with accepted messages,
// used to rebuild the membership cache on startup.
func (s *Store) Senders(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT sender_number FROM out_sms`)
	if err != nil {
		return nil, fmt.Errorf("reading accepted senders: %w", err)
	}
	defer rows.Close()

	var senders []string
	for rows.Next() {
		var sender string
		if err := rows.Scan(&sender); err != nil {
			return nil, fmt.Errorf("scanning sender: %w", err)
		}
		senders = append(senders, sender)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading accepted senders: %w", err)
	}
	return senders, nil
}
