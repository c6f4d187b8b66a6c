package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/rr-urf/internal/urf/domain"
)

// fakeValidator blocks any URL containing "bad".
type fakeValidator struct {
	calls []string
}

func (f *fakeValidator) Validate(rawURL string) domain.Decision {
	f.calls = append(f.calls, rawURL)
	if strings.Contains(rawURL, "bad") {
		return domain.Block(domain.ReasonBlockedDomain, "Domain bad.com is blocked", map[string]string{domain.DetailDomain: "bad.com"})
	}
	return domain.Allow()
}

func newTestServer(t *testing.T) (*Server, *fakeValidator) {
	t.Helper()
	v := &fakeValidator{}
	s := NewServer(Options{
		Addr:   ":0",
		Engine: v,
	})
	t.Cleanup(func() { _ = s.Stop() })
	return s, v
}

func TestHandleCheck_GETAllowed(t *testing.T) {
	s, v := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/check?url=https://example.com", nil)
	rec := httptest.NewRecorder()
	s.handleCheck(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Len(t, v.calls, 1)
	assert.Equal(t, "https://example.com", v.calls[0])

	var d domain.Decision
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.True(t, d.Allowed)
	assert.Nil(t, d.Violation)
}

func TestHandleCheck_GETBlocked(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/check?url=https://bad.com/x", nil)
	rec := httptest.NewRecorder()
	s.handleCheck(rec, req)

	// Blocking is a successful evaluation, not an HTTP error.
	assert.Equal(t, http.StatusOK, rec.Code)

	var d domain.Decision
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.False(t, d.Allowed)
	require.NotNil(t, d.Violation)
	assert.Equal(t, domain.ReasonBlockedDomain, d.Violation.Reason)
	assert.Equal(t, domain.ViolationCode, d.Violation.Code)
}

func TestHandleCheck_POST(t *testing.T) {
	s, v := newTestServer(t)

	body := strings.NewReader(`{"url":"https://bad.com/phish"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/check", body)
	rec := httptest.NewRecorder()
	s.handleCheck(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, v.calls, 1)
	assert.Equal(t, "https://bad.com/phish", v.calls[0])
}

func TestHandleCheck_BadRequests(t *testing.T) {
	s, v := newTestServer(t)

	tests := []struct {
		name     string
		req      *http.Request
		wantCode int
	}{
		{"missing url param", httptest.NewRequest(http.MethodGet, "/v1/check", nil), http.StatusBadRequest},
		{"invalid json body", httptest.NewRequest(http.MethodPost, "/v1/check", strings.NewReader("{not json")), http.StatusBadRequest},
		{"empty json url", httptest.NewRequest(http.MethodPost, "/v1/check", strings.NewReader("{}")), http.StatusBadRequest},
		{"unsupported method", httptest.NewRequest(http.MethodDelete, "/v1/check", nil), http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.handleCheck(rec, tt.req)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
	assert.Empty(t, v.calls, "bad requests must never reach the engine")
}

func TestHandleHealth(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.handleHealth(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	m := NewMetrics()
	m.ObserveCheck("blocked", domain.ReasonBlockedDomain, 0.0001)
	m.SetDroppedPatterns(2)
	m.SetBlockedDomains(41)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "urf_checks_total")
	assert.Contains(t, body, "urf_dropped_patterns 2")
	assert.Contains(t, body, "urf_blocked_domains 41")
}

func TestServer_Address(t *testing.T) {
	s := NewServer(Options{Addr: ":8378", Engine: &fakeValidator{}})
	assert.Equal(t, ":8378", s.Address())
}
