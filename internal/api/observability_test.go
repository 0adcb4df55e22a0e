package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fight-club/internal/fight"
)

// TestDefaultObservabilityConfigBindsLocalhost checks that the default
// debug server config only listens on localhost.
func TestDefaultObservabilityConfigBindsLocalhost(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	if !cfg.Enabled {
		t.Error("expected the debug server to be enabled by default")
	}
	if cfg.ListenAddr != "127.0.0.1:6060" {
		t.Errorf("ListenAddr = %q, want 127.0.0.1:6060", cfg.ListenAddr)
	}
}

// TestStartDebugServerDisabledIsNoop checks that a disabled config returns
// immediately without starting a listener.
func TestStartDebugServerDisabledIsNoop(t *testing.T) {
	if err := StartDebugServer(ObservabilityConfig{Enabled: false}); err != nil {
		t.Fatalf("StartDebugServer returned error: %v", err)
	}
}

// TestRecordingFunctionsDoNotPanic checks that every metric recording
// helper can be called without a registered scrape target or panicking,
// since they wrap package-level Prometheus collectors.
func TestRecordingFunctionsDoNotPanic(t *testing.T) {
	RecordTick(10 * time.Millisecond)
	UpdateActiveAgents(3)
	UpdateItemCount(7)
	RecordEventDispatch("im_dead")
	RecordCasualty("unit")
	RecordConnectionRejected("rate_limit")
	RecordRequest("GET", "/api/state", http.StatusOK, time.Millisecond)
	UpdateWSConnections(1)
	IncrementWSMessages()
}

// TestFightMetricsSatisfiesInterface checks that FightMetrics implements
// fight.Metrics and that its methods delegate without panicking.
func TestFightMetricsSatisfiesInterface(t *testing.T) {
	var m fight.Metrics = FightMetrics{}
	m.RecordTick(0.01)
	m.UpdateActiveAgents(1)
	m.UpdateItemCount(2)
	m.RecordEventDispatch("im_idle")
	m.RecordCasualty("building")
}

// TestBasicAuthMiddlewareRejectsMissingCredentials checks that a request
// without Basic Auth credentials is rejected with 401.
func TestBasicAuthMiddlewareRejectsMissingCredentials(t *testing.T) {
	handler := basicAuthMiddleware("admin", "secret", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/debug/pprof/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

// TestBasicAuthMiddlewareAcceptsValidCredentials checks that correct Basic
// Auth credentials pass through to the wrapped handler.
func TestBasicAuthMiddlewareAcceptsValidCredentials(t *testing.T) {
	handler := basicAuthMiddleware("admin", "secret", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/debug/pprof/", nil)
	req.SetBasicAuth("admin", "secret")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}
