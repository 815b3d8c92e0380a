package onboarding

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// hashPrefix is the fixed header mixed into every onboarding hash. It is
// also the legacy permitted SMS header when none are configured.
const hashPrefix = "ONBOARD"

// NewSalt returns a random lowercase hex string of hexLen characters.
func NewSalt(hexLen int) (string, error) {
	if hexLen < 2 || hexLen%2 != 0 {
		return "", fmt.Errorf("salt length must be a positive even number, got %d", hexLen)
	}
	buf := make([]byte, hexLen/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// ComputeHash derives the onboarding hash for a mobile number and salt.
func ComputeHash(mobile, salt string) string {
	sum := sha256.Sum256([]byte(hashPrefix + mobile + salt))
	return hex.EncodeToString(sum[:])
}
