// Package ingest receives inbound SMS over HTTP and persists them for
// the validation pipeline.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smsbridge/smsbridge/internal/checks"
)

// InboundSMS is the wire shape of a received message.
type InboundSMS struct {
	SenderNumber string    `json:"sender_number"`
	Message      string    `json:"sms_message"`
	ReceivedAt   time.Time `json:"received_timestamp"`
}

// Store persists inbound messages in input_sms.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates an ingest Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Insert durably stores one inbound message under a fresh UUIDv7, so
// insertion order and uuid order agree and the pipeline cursor can be a
// plain string comparison.
func (s *Store) Insert(ctx context.Context, sms *InboundSMS) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating message id: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO input_sms (uuid, sender_number, sms_message, received_timestamp)
		 VALUES ($1, $2, $3, $4)`,
		id.String(), sms.SenderNumber, sms.Message, sms.ReceivedAt.UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("inserting inbound message: %w", err)
	}
	return id.String(), nil
}

// NextBatch returns up to limit messages with uuid strictly after the
// cursor, in uuid order.
func (s *Store) NextBatch(ctx context.Context, afterUUID string, limit int) ([]checks.Message, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT uuid, sender_number, sms_message, received_timestamp
		 FROM input_sms WHERE uuid > $1 ORDER BY uuid LIMIT $2`,
		afterUUID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("reading inbound batch: %w", err)
	}
	defer rows.Close()

	var batch []checks.Message
	for rows.Next() {
		var m checks.Message
		if err := rows.Scan(&m.UUID, &m.SenderNumber, &m.Body, &m.ReceivedAt); err != nil {
			return nil, fmt.Errorf("scanning inbound message: %w", err)
		}
		batch = append(batch, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading inbound batch: %w", err)
	}
	return batch, nil
}
