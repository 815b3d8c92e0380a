// Package phone normalizes raw sender numbers into a country code and a
// local mobile part using configured country-code prefixes.
package phone

import (
	"sort"
	"strings"
)

// Normalize splits a raw sender number into (countryCode, localMobile).
//
// Non-digit characters are stripped first. The longest configured country
// code that prefixes the digits wins. When none matches, numbers longer
// than ten digits that start with the default country code are split
// there; anything else is treated as already local under the default
// country code.
func Normalize(raw string, allowed []string, defaultCC string) (string, string) {
	digits := digitsOnly(raw)
	if digits == "" {
		return defaultCC, ""
	}

	// Longest prefix wins so "91" never shadows "911" style codes.
	codes := make([]string, 0, len(allowed))
	for _, c := range allowed {
		if c = digitsOnly(c); c != "" {
			codes = append(codes, c)
		}
	}
	sort.Slice(codes, func(i, j int) bool { return len(codes[i]) > len(codes[j]) })

	for _, cc := range codes {
		if len(digits) > len(cc) && strings.HasPrefix(digits, cc) {
			return cc, digits[len(cc):]
		}
	}

	if len(digits) > 10 && defaultCC != "" && strings.HasPrefix(digits, defaultCC) {
		return defaultCC, digits[len(defaultCC):]
	}
	return defaultCC, digits
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
