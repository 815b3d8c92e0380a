package onboarding

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/smsbridge/smsbridge/internal/settings"
	"github.com/smsbridge/smsbridge/internal/testutil"
)

type fakeStore struct {
	records   map[string]*Record
	validated map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]*Record), validated: make(map[string]bool)}
}

func (f *fakeStore) Get(_ context.Context, mobile string) (*Record, error) {
	rec, ok := f.records[mobile]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeStore) Insert(_ context.Context, rec *Record) error {
	cp := *rec
	cp.Active = true
	cp.RequestedAt = time.Now().UTC()
	f.records[rec.Mobile] = &cp
	return nil
}

func (f *fakeStore) Reactivate(_ context.Context, mobile, salt, hash string) error {
	rec, ok := f.records[mobile]
	if !ok {
		return ErrNotFound
	}
	rec.Salt, rec.Hash, rec.Active = salt, hash, true
	return nil
}

func (f *fakeStore) Deactivate(_ context.Context, mobile string) (bool, error) {
	rec, ok := f.records[mobile]
	if !ok || !rec.Active {
		return false, nil
	}
	rec.Active = false
	return true, nil
}

func (f *fakeStore) SMSValidated(_ context.Context, mobile string) (bool, error) {
	return f.validated[mobile], nil
}

type fakeSettings struct{ snap *settings.Snapshot }

func (f *fakeSettings) Snapshot(context.Context) (*settings.Snapshot, error) {
	return f.snap, nil
}

func testSettings() *fakeSettings {
	return &fakeSettings{snap: &settings.Snapshot{
		AllowedCountryCodes: []string{"91"},
		DefaultCountryCode:  "91",
		HashSaltLength:      32,
	}}
}

func newTestService(store *fakeStore) *Service {
	return NewService(store, testSettings(), testutil.DiscardLogger())
}

func TestRegisterNewMobile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newFakeStore()
	svc := newTestService(store)

	reg, err := svc.Register(ctx, "+919876543210")
	testutil.NoError(t, err)
	testutil.Equal(t, "9876543210", reg.Mobile)
	testutil.Equal(t, 64, len(reg.Hash))
	testutil.True(t, strings.HasPrefix(reg.Message, "ONBOARD:"), "message %q", reg.Message)
	testutil.Equal(t, "ONBOARD:"+reg.Hash, reg.Message)

	rec := store.records["9876543210"]
	testutil.True(t, rec != nil && rec.Active, "record should be stored active")
	testutil.Equal(t, ComputeHash(rec.Mobile, rec.Salt), rec.Hash)
}

func TestRegisterActiveMobileConflicts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newFakeStore()
	svc := newTestService(store)

	_, err := svc.Register(ctx, "9876543210")
	testutil.NoError(t, err)

	_, err = svc.Register(ctx, "9876543210")
	testutil.True(t, err == ErrAlreadyRegistered, "expected ErrAlreadyRegistered, got %v", err)
}

func TestRegisterReactivatesWithFreshCredentials(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newFakeStore()
	svc := newTestService(store)

	first, err := svc.Register(ctx, "9876543210")
	testutil.NoError(t, err)
	oldSalt := store.records["9876543210"].Salt

	testutil.NoError(t, svc.Deactivate(ctx, "9876543210"))

	second, err := svc.Register(ctx, "9876543210")
	testutil.NoError(t, err)
	testutil.NotEqual(t, first.Hash, second.Hash)
	testutil.NotEqual(t, oldSalt, store.records["9876543210"].Salt)
	testutil.True(t, store.records["9876543210"].Active, "record should be active again")
}

func TestRegisterRejectsInvalidMobile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(newFakeStore())

	for _, raw := range []string{"", "12345", "abcdef"} {
		_, err := svc.Register(ctx, raw)
		testutil.True(t, err == ErrInvalidMobile, "raw %q: expected ErrInvalidMobile, got %v", raw, err)
	}
}

func TestStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newFakeStore()
	svc := newTestService(store)

	_, err := svc.Status(ctx, "9876543210")
	testutil.True(t, err == ErrNotFound, "expected ErrNotFound, got %v", err)

	_, err = svc.Register(ctx, "9876543210")
	testutil.NoError(t, err)
	store.validated["9876543210"] = true

	st, err := svc.Status(ctx, "919876543210")
	testutil.NoError(t, err)
	testutil.Equal(t, "9876543210", st.Mobile)
	testutil.True(t, st.Active, "record should be active")
	testutil.True(t, st.SMSValidated, "validated flag should carry through")
	testutil.False(t, st.RequestedAt.IsZero(), "request timestamp should carry through")
}

func TestDeactivate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newFakeStore()
	svc := newTestService(store)

	err := svc.Deactivate(ctx, "9876543210")
	testutil.True(t, err == ErrNotFound, "expected ErrNotFound, got %v", err)

	_, err = svc.Register(ctx, "9876543210")
	testutil.NoError(t, err)
	testutil.NoError(t, svc.Deactivate(ctx, "9876543210"))

	// Already inactive.
	err = svc.Deactivate(ctx, "9876543210")
	testutil.True(t, err == ErrNotFound, "expected ErrNotFound, got %v", err)
}
