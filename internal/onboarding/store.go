package onboarding

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists onboarding records in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates an onboarding Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Get returns the record for mobile regardless of its active flag.
func (s *Store) Get(ctx context.Context, mobile string) (*Record, error) {
	var rec Record
	err := s.pool.QueryRow(ctx,
		`SELECT mobile_number, salt, hash, request_timestamp, is_active
		 FROM onboarding_mobile WHERE mobile_number = $1`, mobile,
	).Scan(&rec.Mobile, &rec.Salt, &rec.Hash, &rec.RequestedAt, &rec.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading onboarding record: %w", err)
	}
	return &rec, nil
}

// Active returns the record for mobile only when it is active. A missing
// or inactive record returns (nil, nil) so callers can treat both the
// same way.
func (s *Store) Active(ctx context.Context, mobile string) (*Record, error) {
	rec, err := s.Get(ctx, mobile)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !rec.Active {
		return nil, nil
	}
	return rec, nil
}

// Insert creates a fresh onboarding record with request_timestamp set to
// the database clock.
func (s *Store) Insert(ctx context.Context, rec *Record) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO onboarding_mobile (mobile_number, salt, hash, request_timestamp, is_active)
		 VALUES ($1, $2, $3, now(), true)`,
		rec.Mobile, rec.Salt, rec.Hash,
	)
	if err != nil {
		return fmt.Errorf("inserting onboarding record: %w", err)
	}
	return nil
}

// Reactivate replaces the credentials on an inactive record and restarts
// its validation window.
func (s *Store) Reactivate(ctx context.Context, mobile, salt, hash string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE onboarding_mobile
		 SET salt = $2, hash = $3, request_timestamp = now(), is_active = true
		 WHERE mobile_number = $1`,
		mobile, salt, hash,
	)
	if err != nil {
		return fmt.Errorf("reactivating onboarding record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Deactivate marks a record inactive. The bool reports whether a row
// changed.
func (s *Store) Deactivate(ctx context.Context, mobile string) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE onboarding_mobile SET is_active = false
		 WHERE mobile_number = $1 AND is_active`, mobile,
	)
	if err != nil {
		return false, fmt.Errorf("deactivating onboarding record: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SMSValidated reports whether any accepted message has a body
// containing this mobile as a substring. Known imprecision: bodies are
// not parsed, so any mention of the digits counts.
func (s *Store) SMSValidated(ctx context.Context, mobile string) (bool, error) {
	var ok bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM sms_monitor m
		   JOIN input_sms i ON i.uuid = m.uuid
		   WHERE m.overall_status = 'valid' AND i.sms_message LIKE '%' || $1 || '%'
		 )`, mobile,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("checking validated messages: %w", err)
	}
	return ok, nil
}
