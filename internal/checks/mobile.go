package checks

import (
	"context"
	"regexp"

	"github.com/smsbridge/smsbridge/internal/settings"
)

var localMobile = regexp.MustCompile(`^\d{10,15}$`)

// MobileCheck verifies the sender's local mobile part is well formed and
// has an active onboarding record.
type MobileCheck struct {
	records OnboardingLookup
}

// NewMobileCheck creates the mobile check.
func NewMobileCheck(records OnboardingLookup) *MobileCheck {
	return &MobileCheck{records: records}
}

func (c *MobileCheck) Name() string { return Mobile }

func (c *MobileCheck) Run(ctx context.Context, _ *settings.Snapshot, msg *Message) (Result, error) {
	if !localMobile.MatchString(msg.LocalMobile) {
		return Fail, nil
	}
	rec, err := c.records.Active(ctx, msg.LocalMobile)
	if err != nil {
		return NotRun, err
	}
	if rec == nil {
		return Fail, nil
	}
	return Pass, nil
}
