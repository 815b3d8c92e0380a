package monitor

import (
	"testing"

	"github.com/smsbridge/smsbridge/internal/testutil"
)

func TestRecordSQLShape(t *testing.T) {
	t.Parallel()

	for _, col := range []string{
		"blacklist_check", "duplicate_check", "foreign_number_check",
		"header_hash_check", "mobile_check", "time_window_check",
		"overall_status", "failed_at_check", "processing_completed_at",
	} {
		testutil.Contains(t, recordSQL, col)
	}

	// Re-picking an already processed batch must overwrite, not error.
	testutil.Contains(t, recordSQL, "ON CONFLICT (uuid) DO UPDATE")
}
