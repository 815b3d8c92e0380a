// Package cache tracks the set of local mobile numbers that already have
// an accepted outbound message. The duplicate check reads it; acceptance
// writes it.
package cache

import "context"

// MembershipKey is the Redis set holding accepted local mobile numbers.
const MembershipKey = "out_sms_numbers"

// Set is the membership cache consumed by the duplicate check and the
// acceptance path.
type Set interface {
	Contains(ctx context.Context, member string) (bool, error)
	Add(ctx context.Context, member string) error
}
