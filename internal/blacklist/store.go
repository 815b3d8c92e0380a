// Package blacklist persists per-sender message counters and the sender
// blacklist.
package blacklist

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store backs the blacklist check with the count_sms and blacklist_sms
// tables.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a blacklist Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// IncrementAndFetch bumps the message counter for a sender and returns
// the new count. The first message creates the row at 1.
func (s *Store) IncrementAndFetch(ctx context.Context, sender, countryCode, localMobile string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`INSERT INTO count_sms (sender_number, message_count, country_code, local_mobile)
		 VALUES ($1, 1, $2, $3)
		 ON CONFLICT (sender_number) DO UPDATE SET message_count = count_sms.message_count + 1
		 RETURNING message_count`,
		sender, countryCode, localMobile,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("incrementing count for %s: %w", sender, err)
	}
	return count, nil
}

// Add puts a sender on the blacklist. Already blacklisted senders are a
// no-op.
func (s *Store) Add(ctx context.Context, sender, countryCode, localMobile string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO blacklist_sms (sender_number, country_code, local_mobile)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (sender_number) DO NOTHING`,
		sender, countryCode, localMobile,
	)
	if err != nil {
		return fmt.Errorf("blacklisting %s: %w", sender, err)
	}
	return nil
}
