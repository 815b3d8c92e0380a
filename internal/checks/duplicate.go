package checks

import (
	"context"

	"github.com/smsbridge/smsbridge/internal/settings"
)

// MemberSet is the read side of the accepted-numbers cache.
type MemberSet interface {
	Contains(ctx context.Context, member string) (bool, error)
}

// DuplicateCheck fails when this mobile already has an accepted message.
// It only reads the cache; membership is added on acceptance, not here.
type DuplicateCheck struct {
	set MemberSet
}

// NewDuplicateCheck creates the duplicate check.
func NewDuplicateCheck(set MemberSet) *DuplicateCheck {
	return &DuplicateCheck{set: set}
}

func (c *DuplicateCheck) Name() string { return Duplicate }

func (c *DuplicateCheck) Run(ctx context.Context, _ *settings.Snapshot, msg *Message) (Result, error) {
	seen, err := c.set.Contains(ctx, msg.LocalMobile)
	if err != nil {
		return NotRun, err
	}
	if seen {
		return Fail, nil
	}
	return Pass, nil
}
