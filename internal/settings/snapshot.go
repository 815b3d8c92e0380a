package settings

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Defaults used when a setting is absent or malformed.
const (
	DefaultBatchSize          = 10
	DefaultTimeWindow         = 300 * time.Second
	DefaultBlacklistThreshold = 5
	DefaultHashSaltLength     = 32
	DefaultCountryCode        = "91"
)

// Snapshot is one batch cycle's view of the settings table. The pipeline
// takes a fresh snapshot every cycle; checks never read settings directly.
type Snapshot struct {
	CheckSequence           []string
	CheckEnabled            map[string]bool
	BatchSize               int
	LastProcessedUUID       string
	TimeWindow              time.Duration
	BlacklistThreshold      int
	AllowedCountryCodes     []string
	ForeignNumberValidation bool
	PermittedHeaders        []string
	HashSaltLength          int
	DefaultCountryCode      string
}

func newSnapshot(raw map[string]string) *Snapshot {
	snap := &Snapshot{
		CheckSequence:       parseStringList(raw["check_sequence"]),
		CheckEnabled:        parseBoolMap(raw["check_enabled"]),
		BatchSize:           parseIntDefault(raw["batch_size"], DefaultBatchSize),
		LastProcessedUUID:   raw[CursorKey],
		TimeWindow:          time.Duration(parseIntDefault(raw["validation_time_window"], int(DefaultTimeWindow/time.Second))) * time.Second,
		BlacklistThreshold:  parseIntDefault(raw["blacklist_threshold"], DefaultBlacklistThreshold),
		AllowedCountryCodes: parseStringList(raw["allowed_country_codes"]),
		PermittedHeaders:    parseCommaList(raw["permitted_headers"]),
		HashSaltLength:      parseIntDefault(raw["hash_salt_length"], DefaultHashSaltLength),
		DefaultCountryCode:  strings.TrimSpace(raw["default_country_code"]),
	}
	snap.ForeignNumberValidation = strings.EqualFold(strings.TrimSpace(raw["foreign_number_validation"]), "true")
	if snap.BatchSize < 1 {
		snap.BatchSize = DefaultBatchSize
	}
	// Salt length is hex characters, so it must be even and positive.
	if snap.HashSaltLength < 2 || snap.HashSaltLength%2 != 0 {
		snap.HashSaltLength = DefaultHashSaltLength
	}
	if snap.DefaultCountryCode == "" {
		snap.DefaultCountryCode = DefaultCountryCode
	}
	return snap
}

// parseStringList decodes a JSON array of strings; nil on failure.
func parseStringList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

// parseBoolMap decodes a JSON object of name→bool; nil on failure.
func parseBoolMap(raw string) map[string]bool {
	if raw == "" {
		return nil
	}
	var out map[string]bool
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

// parseCommaList splits a comma-separated list, trimming whitespace and
// dropping empty entries.
func parseCommaList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseIntDefault(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return n
}

// Enabled reports whether a check should run. Checks default to enabled;
// only an explicit false in check_enabled skips one, so an unknown name in
// the sequence surfaces as a failure instead of silently skipping.
func (s *Snapshot) Enabled(check string) bool {
	if s.CheckEnabled == nil {
		return true
	}
	enabled, ok := s.CheckEnabled[check]
	if !ok {
		return true
	}
	return enabled
}
