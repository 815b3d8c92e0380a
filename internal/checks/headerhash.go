package checks

import (
	"context"
	"regexp"
	"strings"

	"github.com/smsbridge/smsbridge/internal/onboarding"
	"github.com/smsbridge/smsbridge/internal/settings"
)

// legacyHeader is accepted when permitted_headers is unset, matching the
// fixed header older devices send.
const legacyHeader = "ONBOARD"

var hexHash = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// OnboardingLookup fetches the active onboarding record for a mobile.
// A nil record with nil error means none exists.
type OnboardingLookup interface {
	Active(ctx context.Context, mobile string) (*onboarding.Record, error)
}

// HeaderHashCheck verifies the message body is "<HEADER>:<hash>" where
// the header is permitted and the hash matches the sender's onboarding
// record.
type HeaderHashCheck struct {
	records OnboardingLookup
}

// NewHeaderHashCheck creates the header hash check.
func NewHeaderHashCheck(records OnboardingLookup) *HeaderHashCheck {
	return &HeaderHashCheck{records: records}
}

func (c *HeaderHashCheck) Name() string { return HeaderHash }

func (c *HeaderHashCheck) Run(ctx context.Context, snap *settings.Snapshot, msg *Message) (Result, error) {
	header, hash, ok := strings.Cut(strings.TrimSpace(msg.Body), ":")
	if !ok {
		return Fail, nil
	}
	header = strings.TrimSpace(header)
	hash = strings.TrimSpace(hash)

	if !headerPermitted(header, snap.PermittedHeaders) {
		return Fail, nil
	}
	if !hexHash.MatchString(hash) {
		return Fail, nil
	}

	rec, err := c.records.Active(ctx, msg.LocalMobile)
	if err != nil {
		return NotRun, err
	}
	if rec == nil {
		return Fail, nil
	}
	if !strings.EqualFold(rec.Hash, hash) {
		return Fail, nil
	}
	return Pass, nil
}

func headerPermitted(header string, permitted []string) bool {
	if len(permitted) == 0 {
		return header == legacyHeader
	}
	for _, p := range permitted {
		if header == p {
			return true
		}
	}
	return false
}
