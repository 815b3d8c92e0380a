package checks

import (
	"context"

	"github.com/smsbridge/smsbridge/internal/settings"
)

// Counters is the persistence the blacklist check needs: a per-sender
// message counter and the blacklist itself.
type Counters interface {
	IncrementAndFetch(ctx context.Context, sender, countryCode, localMobile string) (int, error)
	Add(ctx context.Context, sender, countryCode, localMobile string) error
}

// BlacklistCheck counts messages per sender and blacklists senders that
// exceed the configured threshold. The counter moves on every run, pass
// or fail.
type BlacklistCheck struct {
	counters Counters
}

// NewBlacklistCheck creates the blacklist check.
func NewBlacklistCheck(counters Counters) *BlacklistCheck {
	return &BlacklistCheck{counters: counters}
}

func (c *BlacklistCheck) Name() string { return Blacklist }

func (c *BlacklistCheck) Run(ctx context.Context, snap *settings.Snapshot, msg *Message) (Result, error) {
	count, err := c.counters.IncrementAndFetch(ctx, msg.LocalMobile, msg.CountryCode, msg.LocalMobile)
	if err != nil {
		return NotRun, err
	}
	if count > snap.BlacklistThreshold {
		if err := c.counters.Add(ctx, msg.LocalMobile, msg.CountryCode, msg.LocalMobile); err != nil {
			return NotRun, err
		}
		return Fail, nil
	}
	return Pass, nil
}
