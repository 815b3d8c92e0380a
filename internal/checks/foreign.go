package checks

import (
	"context"

	"github.com/smsbridge/smsbridge/internal/settings"
)

// ForeignNumberCheck fails messages whose country code is not in the
// allowed list. When foreign_number_validation is off it reports Skipped
// so the monitor shows it was deliberately bypassed.
type ForeignNumberCheck struct{}

// NewForeignNumberCheck creates the foreign number check.
func NewForeignNumberCheck() *ForeignNumberCheck {
	return &ForeignNumberCheck{}
}

func (c *ForeignNumberCheck) Name() string { return ForeignNumber }

func (c *ForeignNumberCheck) Run(_ context.Context, snap *settings.Snapshot, msg *Message) (Result, error) {
	if !snap.ForeignNumberValidation {
		return Skipped, nil
	}
	for _, cc := range snap.AllowedCountryCodes {
		if cc == msg.CountryCode {
			return Pass, nil
		}
	}
	return Fail, nil
}
