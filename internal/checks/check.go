// Package checks holds the pluggable validators the pipeline runs over
// each inbound message.
package checks

import (
	"context"
	"time"

	"github.com/smsbridge/smsbridge/internal/settings"
)

// Result is the recorded outcome of one check on one message.
type Result int

// Result codes as persisted in sms_monitor.
const (
	NotRun  Result = 0
	Pass    Result = 1
	Fail    Result = 2
	Skipped Result = 3
)

func (r Result) String() string {
	switch r {
	case NotRun:
		return "not_run"
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Check names. The check_sequence setting refers to these.
const (
	Blacklist     = "blacklist"
	Duplicate     = "duplicate"
	ForeignNumber = "foreign_number"
	HeaderHash    = "header_hash"
	Mobile        = "mobile"
	TimeWindow    = "time_window"
)

// Names returns every known check name.
func Names() []string {
	return []string{Blacklist, Duplicate, ForeignNumber, HeaderHash, Mobile, TimeWindow}
}

// Message is one inbound SMS as seen by the checks. CountryCode and
// LocalMobile are filled in by the pipeline before any check runs.
type Message struct {
	UUID         string
	SenderNumber string
	Body         string
	ReceivedAt   time.Time
	CountryCode  string
	LocalMobile  string
}

// Check validates one aspect of a message against the current settings
// snapshot. Run returns the verdict; an error means the check could not
// reach one.
type Check interface {
	Name() string
	Run(ctx context.Context, snap *settings.Snapshot, msg *Message) (Result, error)
}

// Registry maps check names to implementations.
type Registry map[string]Check

// NewRegistry builds a registry from the given checks.
func NewRegistry(checks ...Check) Registry {
	reg := make(Registry, len(checks))
	for _, c := range checks {
		reg[c.Name()] = c
	}
	return reg
}

// Lookup returns the named check, or false when it is not registered.
func (r Registry) Lookup(name string) (Check, bool) {
	c, ok := r[name]
	return c, ok
}
