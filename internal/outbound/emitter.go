package outbound

import (
	"context"
	"log/slog"

	"github.com/smsbridge/smsbridge/internal/cache"
	"github.com/smsbridge/smsbridge/internal/checks"
	"github.com/smsbridge/smsbridge/internal/phone"
	"github.com/smsbridge/smsbridge/internal/settings"
)

// Writer is the persistence the emitter needs.
type Writer interface {
	Insert(ctx context.Context, uuid, sender, body string) error
}

// Emitter runs the acceptance path: persist, mark the mobile as seen,
// then forward. Persistence and cache failures abort the batch; cloud
// delivery is best effort.
type Emitter struct {
	store  Writer
	set    cache.Set
	fwd    Forwarder
	logger *slog.Logger
}

// NewEmitter creates an Emitter.
func NewEmitter(store Writer, set cache.Set, fwd Forwarder, logger *slog.Logger) *Emitter {
	return &Emitter{store: store, set: set, fwd: fwd, logger: logger}
}

// Accept records one accepted message.
func (e *Emitter) Accept(ctx context.Context, msg *checks.Message) error {
	if err := e.store.Insert(ctx, msg.UUID, msg.SenderNumber, msg.Body); err != nil {
		return err
	}
	if err := e.set.Add(ctx, msg.LocalMobile); err != nil {
		return err
	}
	if e.fwd != nil {
		if err := e.fwd.Forward(ctx, msg); err != nil {
			e.logger.Warn("cloud forward failed", "uuid", msg.UUID, "error", err)
		}
	}
	return nil
}

// SenderSource lists accepted sender numbers.
type SenderSource interface {
	Senders(ctx context.Context) ([]string, error)
}

// WarmStart rebuilds the membership cache from out_sms so duplicate
// detection survives a cache flush. Sender numbers are normalized to
// their local mobile part before insertion.
func WarmStart(ctx context.Context, src SenderSource, set cache.Set, snap *settings.Snapshot, logger *slog.Logger) error {
	senders, err := src.Senders(ctx)
	if err != nil {
		return err
	}
	for _, sender := range senders {
		_, local := phone.Normalize(sender, snap.AllowedCountryCodes, snap.DefaultCountryCode)
		if local == "" {
			continue
		}
		if err := set.Add(ctx, local); err != nil {
			return err
		}
	}
	logger.Info("membership cache warmed", "senders", len(senders))
	return nil
}
