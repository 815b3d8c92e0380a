package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/smsbridge/smsbridge/internal/config"
	"github.com/smsbridge/smsbridge/internal/ingest"
	"github.com/smsbridge/smsbridge/internal/onboarding"
	"github.com/smsbridge/smsbridge/internal/testutil"
)

type stubInserter struct{}

func (stubInserter) Insert(context.Context, *ingest.InboundSMS) (string, error) {
	return "0191-stub", nil
}

type stubRegistrar struct{}

func (stubRegistrar) Register(_ context.Context, mobile string) (*onboarding.Registration, error) {
	return &onboarding.Registration{Mobile: mobile}, nil
}

func (stubRegistrar) Status(context.Context, string) (*onboarding.Status, error) {
	return nil, onboarding.ErrNotFound
}

func (stubRegistrar) Deactivate(context.Context, string) error {
	return onboarding.ErrNotFound
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := testutil.DiscardLogger()
	return New(config.Default(), logger,
		ingest.NewHandler(stubInserter{}, logger),
		onboarding.NewHandler(stubRegistrar{}, logger))
}

func TestHealth(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	testutil.StatusCode(t, http.StatusOK, rec.Code)
	testutil.Contains(t, rec.Body.String(), `"healthy"`)
}

func TestRoutesMounted(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	body := `{"sender_number":"919876543210","sms_message":"x","received_timestamp":"2026-08-25T12:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/sms/receive", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	testutil.StatusCode(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/onboarding/register", strings.NewReader(`{"mobile_number":"9876543210"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	testutil.StatusCode(t, http.StatusOK, rec.Code)
}

func TestJSONContentTypeEnforced(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/sms/receive", strings.NewReader("sender=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	testutil.StatusCode(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	testutil.StatusCode(t, http.StatusNotFound, rec.Code)
}
