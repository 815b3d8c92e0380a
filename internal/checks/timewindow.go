package checks

import (
	"context"

	"github.com/smsbridge/smsbridge/internal/settings"
)

// TimeWindowCheck verifies the message arrived within the validation
// window after the onboarding request. Messages received before the
// request fail too.
type TimeWindowCheck struct {
	records OnboardingLookup
}

// NewTimeWindowCheck creates the time window check.
func NewTimeWindowCheck(records OnboardingLookup) *TimeWindowCheck {
	return &TimeWindowCheck{records: records}
}

func (c *TimeWindowCheck) Name() string { return TimeWindow }

func (c *TimeWindowCheck) Run(ctx context.Context, snap *settings.Snapshot, msg *Message) (Result, error) {
	rec, err := c.records.Active(ctx, msg.LocalMobile)
	if err != nil {
		return NotRun, err
	}
	if rec == nil {
		return Fail, nil
	}
	delta := msg.ReceivedAt.Sub(rec.RequestedAt)
	if delta < 0 || delta > snap.TimeWindow {
		return Fail, nil
	}
	return Pass, nil
}
