package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"fight-club/internal/battle"
)

var errAlreadyRunning = errors.New("match already running")

// fakeMatch is a MatchController test double with configurable return values.
type fakeMatch struct {
	snapshot   MatchSnapshot
	hasMatch   bool
	startErr   error
	startedReq StartMatchRequest
	stopped    bool
}

func (f *fakeMatch) StartMatch(req StartMatchRequest) error {
	f.startedReq = req
	return f.startErr
}

func (f *fakeMatch) Snapshot() (MatchSnapshot, bool) {
	return f.snapshot, f.hasMatch
}

func (f *fakeMatch) StopMatch() {
	f.stopped = true
}

// TestHandleGetStateNoMatch checks that /api/state returns 404 before any
// match has ever started.
func TestHandleGetStateNoMatch(t *testing.T) {
	match := &fakeMatch{hasMatch: false}
	router := NewRouter(RouterConfig{Match: match, DisableLogging: true})

	req := httptest.NewRequest("GET", "/api/state", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != 404 {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

// TestHandleGetStateReturnsSnapshot checks that /api/state serializes the
// controller's snapshot as JSON once a match exists.
func TestHandleGetStateReturnsSnapshot(t *testing.T) {
	match := &fakeMatch{
		hasMatch: true,
		snapshot: MatchSnapshot{
			Running:      true,
			CurrentFrame: 42,
			FightItems:   []battle.ItemInfo{{ID: 1}},
		},
	}
	router := NewRouter(RouterConfig{Match: match, DisableLogging: true})

	req := httptest.NewRequest("GET", "/api/state", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var got MatchSnapshot
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if got.CurrentFrame != 42 || len(got.FightItems) != 1 {
		t.Errorf("got %+v, want CurrentFrame=42 with 1 fight item", got)
	}
}

// TestHandleGetMatchReportsExistence checks that /api/match reports exists
// and running flags derived from the controller.
func TestHandleGetMatchReportsExistence(t *testing.T) {
	match := &fakeMatch{hasMatch: true, snapshot: MatchSnapshot{Running: false}}
	router := NewRouter(RouterConfig{Match: match, DisableLogging: true})

	req := httptest.NewRequest("GET", "/api/match", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var got map[string]bool
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if !got["exists"] || got["running"] {
		t.Errorf("got %+v, want exists=true running=false", got)
	}
}

// TestHandleMatchStartForwardsRequest checks that POST /api/match/start
// decodes the body and forwards it to the controller.
func TestHandleMatchStartForwardsRequest(t *testing.T) {
	match := &fakeMatch{}
	router := NewRouter(RouterConfig{Match: match, DisableLogging: true})

	body, _ := json.Marshal(StartMatchRequest{MatchID: "m-1"})
	req := httptest.NewRequest("POST", "/api/match/start", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if match.startedReq.MatchID != "m-1" {
		t.Errorf("startedReq.MatchID = %q, want m-1", match.startedReq.MatchID)
	}
}

// TestHandleMatchStartRejectsInvalidJSON checks that a malformed body
// returns 400 without calling StartMatch.
func TestHandleMatchStartRejectsInvalidJSON(t *testing.T) {
	match := &fakeMatch{}
	router := NewRouter(RouterConfig{Match: match, DisableLogging: true})

	req := httptest.NewRequest("POST", "/api/match/start", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != 400 {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

// TestHandleMatchStartErrorReturnsConflict checks that a StartMatch error
// surfaces as 409.
func TestHandleMatchStartErrorReturnsConflict(t *testing.T) {
	match := &fakeMatch{startErr: errAlreadyRunning}
	router := NewRouter(RouterConfig{Match: match, DisableLogging: true})

	body, _ := json.Marshal(StartMatchRequest{MatchID: "m-1"})
	req := httptest.NewRequest("POST", "/api/match/start", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != 409 {
		t.Fatalf("status = %d, want 409", w.Code)
	}
}

// TestHandleMatchStopCallsController checks that POST /api/match/stop
// always calls StopMatch and returns success.
func TestHandleMatchStopCallsController(t *testing.T) {
	match := &fakeMatch{}
	router := NewRouter(RouterConfig{Match: match, DisableLogging: true})

	req := httptest.NewRequest("POST", "/api/match/stop", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if !match.stopped {
		t.Error("expected StopMatch to be called")
	}
	if w.Code != 200 {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

// TestRootRedirectsToState checks that GET / redirects to /api/state.
func TestRootRedirectsToState(t *testing.T) {
	match := &fakeMatch{}
	router := NewRouter(RouterConfig{Match: match, DisableLogging: true})

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != 302 {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/api/state" {
		t.Errorf("Location = %q, want /api/state", loc)
	}
}
