package onboarding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/smsbridge/smsbridge/internal/phone"
	"github.com/smsbridge/smsbridge/internal/settings"
)

var mobilePattern = regexp.MustCompile(`^\d{10,15}$`)

// Recorder is the persistence the service needs.
type Recorder interface {
	Get(ctx context.Context, mobile string) (*Record, error)
	Insert(ctx context.Context, rec *Record) error
	Reactivate(ctx context.Context, mobile, salt, hash string) error
	Deactivate(ctx context.Context, mobile string) (bool, error)
	SMSValidated(ctx context.Context, mobile string) (bool, error)
}

// SettingsSource supplies the current settings snapshot.
type SettingsSource interface {
	Snapshot(ctx context.Context) (*settings.Snapshot, error)
}

// Registration is what a successful register call hands back to the
// device: the hash it must echo and the exact SMS body to send.
type Registration struct {
	Mobile  string `json:"mobile_number"`
	Hash    string `json:"hash"`
	Message string `json:"message"`
}

// Status describes a record for the status endpoint.
type Status struct {
	Mobile       string    `json:"mobile_number"`
	RequestedAt  time.Time `json:"request_timestamp"`
	Active       bool      `json:"is_active"`
	SMSValidated bool      `json:"sms_validated"`
}

// Service implements registration, status, and deactivation on top of a
// Recorder.
type Service struct {
	store    Recorder
	settings SettingsSource
	logger   *slog.Logger
}

// NewService creates an onboarding Service.
func NewService(store Recorder, src SettingsSource, logger *slog.Logger) *Service {
	return &Service{store: store, settings: src, logger: logger}
}

// Register creates or reactivates an onboarding record and returns the
// hash challenge. An active record is an error; an inactive one gets a
// fresh salt and hash.
func (s *Service) Register(ctx context.Context, rawMobile string) (*Registration, error) {
	snap, err := s.settings.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	_, mobile := phone.Normalize(rawMobile, snap.AllowedCountryCodes, snap.DefaultCountryCode)
	if !mobilePattern.MatchString(mobile) {
		return nil, ErrInvalidMobile
	}

	salt, err := NewSalt(snap.HashSaltLength)
	if err != nil {
		return nil, err
	}
	hash := ComputeHash(mobile, salt)

	existing, err := s.store.Get(ctx, mobile)
	switch {
	case errors.Is(err, ErrNotFound):
		if err := s.store.Insert(ctx, &Record{Mobile: mobile, Salt: salt, Hash: hash}); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case existing.Active:
		return nil, ErrAlreadyRegistered
	default:
		if err := s.store.Reactivate(ctx, mobile, salt, hash); err != nil {
			return nil, err
		}
	}

	s.logger.Info("mobile registered", "mobile", mobile)
	return &Registration{
		Mobile:  mobile,
		Hash:    hash,
		Message: hashPrefix + ":" + hash,
	}, nil
}

// Status reports the record state and whether an accepted message from
// this mobile exists.
func (s *Service) Status(ctx context.Context, rawMobile string) (*Status, error) {
	snap, err := s.settings.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	_, mobile := phone.Normalize(rawMobile, snap.AllowedCountryCodes, snap.DefaultCountryCode)

	rec, err := s.store.Get(ctx, mobile)
	if err != nil {
		return nil, err
	}
	validated, err := s.store.SMSValidated(ctx, mobile)
	if err != nil {
		return nil, err
	}
	return &Status{
		Mobile:       rec.Mobile,
		RequestedAt:  rec.RequestedAt,
		Active:       rec.Active,
		SMSValidated: validated,
	}, nil
}

// Deactivate disables a record. Missing or already-inactive records are
// ErrNotFound.
func (s *Service) Deactivate(ctx context.Context, rawMobile string) error {
	snap, err := s.settings.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	_, mobile := phone.Normalize(rawMobile, snap.AllowedCountryCodes, snap.DefaultCountryCode)

	changed, err := s.store.Deactivate(ctx, mobile)
	if err != nil {
		return err
	}
	if !changed {
		return ErrNotFound
	}
	s.logger.Info("mobile deactivated", "mobile", mobile)
	return nil
}
