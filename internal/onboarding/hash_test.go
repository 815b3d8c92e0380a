package onboarding

import (
	"regexp"
	"testing"

	"github.com/smsbridge/smsbridge/internal/testutil"
)

func TestNewSalt(t *testing.T) {
	t.Parallel()

	salt, err := NewSalt(32)
	testutil.NoError(t, err)
	testutil.Equal(t, 32, len(salt))
	testutil.True(t, regexp.MustCompile(`^[0-9a-f]+$`).MatchString(salt),
		"salt must be lowercase hex, got %q", salt)

	other, err := NewSalt(32)
	testutil.NoError(t, err)
	testutil.NotEqual(t, salt, other)
}

func TestNewSaltRejectsBadLengths(t *testing.T) {
	t.Parallel()
	for _, n := range []int{0, -2, 7, 1} {
		_, err := NewSalt(n)
		testutil.ErrorContains(t, err, "salt length")
	}
}

func TestComputeHash(t *testing.T) {
	t.Parallel()

	h := ComputeHash("9876543210", "abcd")
	testutil.Equal(t, 64, len(h))
	testutil.True(t, regexp.MustCompile(`^[0-9a-f]{64}$`).MatchString(h),
		"hash must be lowercase hex, got %q", h)

	// Deterministic for the same inputs.
	testutil.Equal(t, h, ComputeHash("9876543210", "abcd"))

	// Sensitive to both mobile and salt.
	testutil.NotEqual(t, h, ComputeHash("9876543211", "abcd"))
	testutil.NotEqual(t, h, ComputeHash("9876543210", "abce"))
}
