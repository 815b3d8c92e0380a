//go:build integration

package migrations_test

import (
	"context"
	"os"
	"testing"

	"github.com/smsbridge/smsbridge/internal/migrations"
	"github.com/smsbridge/smsbridge/internal/testutil"
)

var sharedPG *testutil.PGContainer

func TestMain(m *testing.M) {
	ctx := context.Background()
	pg, cleanup := testutil.StartPostgresForTestMain(ctx)
	sharedPG = pg
	code := m.Run()
	cleanup()
	os.Exit(code)
}

// resetDB drops and recreates the public schema for test isolation.
func resetDB(t *testing.T, ctx context.Context) {
	t.Helper()
	_, err := sharedPG.Pool.Exec(ctx, "DROP SCHEMA public CASCADE; CREATE SCHEMA public")
	if err != nil {
		t.Fatalf("resetting schema: %v", err)
	}
}

func TestBootstrapIdempotent(t *testing.T) {
	ctx := context.Background()
	resetDB(t, ctx)

	runner := migrations.NewRunner(sharedPG.Pool, testutil.DiscardLogger())
	testutil.NoError(t, runner.Bootstrap(ctx))
	testutil.NoError(t, runner.Bootstrap(ctx))
}

func TestRunCreatesBridgeTables(t *testing.T) {
	ctx := context.Background()
	resetDB(t, ctx)

	runner := migrations.NewRunner(sharedPG.Pool, testutil.DiscardLogger())
	testutil.NoError(t, runner.Bootstrap(ctx))

	applied, err := runner.Run(ctx)
	testutil.NoError(t, err)
	testutil.True(t, applied >= 7, "should apply all migrations, applied %d", applied)

	for _, table := range []string{
		"input_sms", "out_sms", "sms_monitor", "count_sms",
		"blacklist_sms", "onboarding_mobile", "system_settings",
	} {
		var exists bool
		err := sharedPG.Pool.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM information_schema.tables WHERE table_name = $1)", table).
			Scan(&exists)
		testutil.NoError(t, err)
		testutil.True(t, exists, "table %s should exist", table)
	}

	// Second run is a no-op.
	applied, err = runner.Run(ctx)
	testutil.NoError(t, err)
	testutil.Equal(t, 0, applied)
}

func TestRunSeedsSettings(t *testing.T) {
	ctx := context.Background()
	resetDB(t, ctx)

	runner := migrations.NewRunner(sharedPG.Pool, testutil.DiscardLogger())
	testutil.NoError(t, runner.Bootstrap(ctx))
	_, err := runner.Run(ctx)
	testutil.NoError(t, err)

	var v string
	err = sharedPG.Pool.QueryRow(ctx,
		"SELECT setting_value FROM system_settings WHERE setting_key = 'blacklist_threshold'").Scan(&v)
	testutil.NoError(t, err)
	testutil.Equal(t, "5", v)
}
