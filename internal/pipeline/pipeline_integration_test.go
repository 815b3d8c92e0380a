//go:build integration

package pipeline_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/smsbridge/smsbridge/internal/blacklist"
	"github.com/smsbridge/smsbridge/internal/cache"
	"github.com/smsbridge/smsbridge/internal/checks"
	"github.com/smsbridge/smsbridge/internal/ingest"
	"github.com/smsbridge/smsbridge/internal/migrations"
	"github.com/smsbridge/smsbridge/internal/monitor"
	"github.com/smsbridge/smsbridge/internal/onboarding"
	"github.com/smsbridge/smsbridge/internal/outbound"
	"github.com/smsbridge/smsbridge/internal/pipeline"
	"github.com/smsbridge/smsbridge/internal/settings"
	"github.com/smsbridge/smsbridge/internal/testutil"
)

var sharedPG *testutil.PGContainer

func TestMain(m *testing.M) {
	ctx := context.Background()
	pg, cleanup := testutil.StartPostgresForTestMain(ctx)
	sharedPG = pg

	runner := migrations.NewRunner(pg.Pool, testutil.DiscardLogger())
	if err := runner.Bootstrap(ctx); err != nil {
		cleanup()
		panic(err)
	}
	if _, err := runner.Run(ctx); err != nil {
		cleanup()
		panic(err)
	}

	code := m.Run()
	cleanup()
	os.Exit(code)
}

// TestEndToEnd drives the full path against real stores: onboard a
// mobile, ingest two messages from it, and run validation cycles. The
// first message is accepted; the second one is a duplicate.
func TestEndToEnd(t *testing.T) {
	ctx := context.Background()
	logger := testutil.DiscardLogger()
	pool := sharedPG.Pool

	const mobile = "9876543210"
	const sender = "91" + mobile

	// Onboard the mobile.
	salt, err := onboarding.NewSalt(32)
	testutil.NoError(t, err)
	hash := onboarding.ComputeHash(mobile, salt)
	onboardStore := onboarding.NewStore(pool)
	testutil.NoError(t, onboardStore.Insert(ctx, &onboarding.Record{Mobile: mobile, Salt: salt, Hash: hash}))

	// Ingest two messages with the correct challenge.
	ingestStore := ingest.NewStore(pool)
	first, err := ingestStore.Insert(ctx, &ingest.InboundSMS{
		SenderNumber: sender,
		Message:      "ONBOARD:" + hash,
		ReceivedAt:   time.Now().UTC(),
	})
	testutil.NoError(t, err)
	second, err := ingestStore.Insert(ctx, &ingest.InboundSMS{
		SenderNumber: sender,
		Message:      "ONBOARD:" + hash,
		ReceivedAt:   time.Now().UTC(),
	})
	testutil.NoError(t, err)
	testutil.True(t, first < second, "uuidv7 ids must be monotone: %s then %s", first, second)

	// Wire the engine with real stores and an in-memory membership set.
	memberSet := cache.NewMemory()
	registry := checks.NewRegistry(
		checks.NewBlacklistCheck(blacklist.NewStore(pool)),
		checks.NewDuplicateCheck(memberSet),
		checks.NewForeignNumberCheck(),
		checks.NewHeaderHashCheck(onboardStore),
		checks.NewMobileCheck(onboardStore),
		checks.NewTimeWindowCheck(onboardStore),
	)
	settingsStore := settings.NewStore(pool)
	emitter := outbound.NewEmitter(outbound.NewStore(pool), memberSet, nil, logger)
	eng := pipeline.New(settingsStore, ingestStore, monitor.NewStore(pool), emitter,
		registry, logger, pipeline.Config{PollInterval: time.Second})

	testutil.NoError(t, eng.RunCycle(ctx))

	// First message accepted.
	var status string
	var failedAt *string
	err = pool.QueryRow(ctx,
		`SELECT overall_status, failed_at_check FROM sms_monitor WHERE uuid = $1`, first).
		Scan(&status, &failedAt)
	testutil.NoError(t, err)
	testutil.Equal(t, "valid", status)
	testutil.True(t, failedAt == nil, "accepted message has no failing check")

	var outCount int
	err = pool.QueryRow(ctx,
		`SELECT count(*) FROM out_sms WHERE uuid = $1`, first).Scan(&outCount)
	testutil.NoError(t, err)
	testutil.Equal(t, 1, outCount)

	// Second message rejected as duplicate.
	err = pool.QueryRow(ctx,
		`SELECT overall_status, failed_at_check FROM sms_monitor WHERE uuid = $1`, second).
		Scan(&status, &failedAt)
	testutil.NoError(t, err)
	testutil.Equal(t, "invalid", status)
	testutil.True(t, failedAt != nil && *failedAt == checks.Duplicate,
		"second message should fail the duplicate check, got %v", failedAt)

	// Cursor advanced past the batch.
	snap, err := settingsStore.Snapshot(ctx)
	testutil.NoError(t, err)
	testutil.Equal(t, second, snap.LastProcessedUUID)

	// The counter moved only for the first message; the second one
	// short-circuited at duplicate before blacklist ran.
	var msgCount int
	err = pool.QueryRow(ctx,
		`SELECT message_count FROM count_sms WHERE sender_number = $1`, mobile).Scan(&msgCount)
	testutil.NoError(t, err)
	testutil.Equal(t, 1, msgCount)

	// An idle cycle changes nothing.
	testutil.NoError(t, eng.RunCycle(ctx))
	snap, err = settingsStore.Snapshot(ctx)
	testutil.NoError(t, err)
	testutil.Equal(t, second, snap.LastProcessedUUID)
}
