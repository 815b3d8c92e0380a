// Package onboarding manages mobile number registration and the hash
// challenge that registered devices echo back over SMS.
package onboarding

import (
	"errors"
	"time"
)

var (
	// ErrNotFound means no onboarding record exists for the mobile number.
	ErrNotFound = errors.New("mobile number not registered")
	// ErrAlreadyRegistered means an active record already exists.
	ErrAlreadyRegistered = errors.New("mobile number already registered")
	// ErrInvalidMobile means the number failed shape validation.
	ErrInvalidMobile = errors.New("invalid mobile number")
)

// Record is one onboarding_mobile row.
type Record struct {
	Mobile      string
	Salt        string
	Hash        string
	RequestedAt time.Time
	Active      bool
}
