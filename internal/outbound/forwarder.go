package outbound

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/smsbridge/smsbridge/internal/checks"
)

// Forwarder delivers accepted messages to the cloud backend.
type Forwarder interface {
	Forward(ctx context.Context, msg *checks.Message) error
}

// CloudForwarder POSTs accepted messages to a configured HTTPS endpoint
// with bearer auth.
type CloudForwarder struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewCloudForwarder creates a forwarder. An empty endpoint disables
// forwarding.
func NewCloudForwarder(endpoint, apiKey string, timeout time.Duration) *CloudForwarder {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &CloudForwarder{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

type forwardPayload struct {
	UUID         string `json:"uuid"`
	SenderNumber string `json:"sender_number"`
	Message      string `json:"sms_message"`
	ReceivedAt   string `json:"received_timestamp"`
}

// Forward sends one message. Callers treat failures as best effort.
func (f *CloudForwarder) Forward(ctx context.Context, msg *checks.Message) error {
	if f.endpoint == "" {
		return nil
	}

	body, err := json.Marshal(forwardPayload{
		UUID:         msg.UUID,
		SenderNumber: msg.SenderNumber,
		Message:      msg.Body,
		ReceivedAt:   msg.ReceivedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("encoding forward payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building forward request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if f.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.apiKey)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("forwarding message %s: %w", msg.UUID, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("forwarding message %s: backend returned %d", msg.UUID, resp.StatusCode)
	}
	return nil
}
