package fight

import (
	"testing"

	"fight-club/internal/battle"
	"fight-club/internal/envchannel"
)

// newTestHandler builds a minimal two-player Handler with one center each,
// for exercising select/set_action/subscribe/victory logic without a real
// Env Channel or sink.
func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	d := Descriptor{
		MapHeight: 10,
		MapWidth:  10,
		Players: []PlayerDescriptor{
			{ID: 0, EnvName: "p0", DefeatReasons: []battle.DefeatReason{battle.DefeatCenter}},
			{ID: 1, EnvName: "p1", DefeatReasons: []battle.DefeatReason{battle.DefeatCenter}},
		},
		MapElements: []ElementDescriptor{
			{Role: battle.RoleCenter, PlayerID: 0, TilePosition: battle.TilePos{Row: 1, Col: 1}, BaseSize: 2, StartHitPoints: 100},
			{Role: battle.RoleCenter, PlayerID: 1, TilePosition: battle.TilePos{Row: 8, Col: 8}, BaseSize: 2, StartHitPoints: 100},
		},
	}
	return New(d, nil, nil, DefaultLimits, nil)
}

// TestNewRegistersNeutralPlayer checks that the neutral obstacle owner is
// always present alongside the descriptor's real players.
func TestNewRegistersNeutralPlayer(t *testing.T) {
	h := newTestHandler(t)
	if _, ok := h.players[battle.NeutralPlayerID]; !ok {
		t.Fatal("expected neutral player to be registered")
	}
	if len(h.players) != 3 {
		t.Fatalf("got %d players, want 3 (neutral + 2 real)", len(h.players))
	}
}

// TestSelectMyInfoReturnsSeekerInfo checks that the my_info field reports
// the calling item's own projection.
func TestSelectMyInfoReturnsSeekerInfo(t *testing.T) {
	h := newTestHandler(t)
	items := h.table.Items()
	seeker := items[0]

	results := h.Select(seeker.ID, []envSelectQuery("my_info"))
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	info, ok := results[0].Data.(battle.ItemInfo)
	if !ok {
		t.Fatalf("Data = %T, want battle.ItemInfo", results[0].Data)
	}
	if info.ID != seeker.ID {
		t.Errorf("my_info id = %d, want %d", info.ID, seeker.ID)
	}
}

// TestSelectUnknownFieldReturnsError checks the documented error shape for
// a field the select dispatcher does not recognize.
func TestSelectUnknownFieldReturnsError(t *testing.T) {
	h := newTestHandler(t)
	seeker := h.table.Items()[0]

	results := h.Select(seeker.ID, []envSelectQuery("not_a_real_field"))
	if len(results) != 1 || results[0].Error == "" {
		t.Fatalf("expected a single error result, got %+v", results)
	}
}

// TestSelectMissingFieldNameReturnsError checks that an empty field name is
// rejected, per the protocol-format failure path.
func TestSelectMissingFieldNameReturnsError(t *testing.T) {
	h := newTestHandler(t)
	seeker := h.table.Items()[0]

	results := h.Select(seeker.ID, []envSelectQuery(""))
	if len(results) != 1 || results[0].Error == "" {
		t.Fatalf("expected a single error result, got %+v", results)
	}
}

// TestSelectUnknownSeekerReturnsNil checks that selecting as a nonexistent
// item id returns no results rather than panicking.
func TestSelectUnknownSeekerReturnsNil(t *testing.T) {
	h := newTestHandler(t)
	results := h.Select(999999, []envSelectQuery("my_info"))
	if results != nil {
		t.Fatalf("expected nil results for an unknown seeker, got %+v", results)
	}
}

// TestSetActionAndDoFrameActionMovesItem checks that a validated move
// action gets applied on the next frame tick.
func TestSetActionAndDoFrameActionMovesItem(t *testing.T) {
	h := newTestHandler(t)
	item := h.table.Items()[0]
	item.Speed = 4

	if err := h.SetAction(item.ID, "move", map[string]any{"x": 5.0, "y": 5.0}); err != nil {
		t.Fatalf("SetAction returned error: %v", err)
	}

	before := item.Coordinates
	h.doFrameAction(item)
	if item.Coordinates == before {
		t.Fatal("expected coordinates to change after a move action frame")
	}
}

// TestSetActionInvalidFallsBackWithError checks that an invalid action
// name is rejected and the item's pending action is left untouched.
func TestSetActionInvalidFallsBackWithError(t *testing.T) {
	h := newTestHandler(t)
	item := h.table.Items()[0]

	if err := h.SetAction(item.ID, "not_a_real_action", nil); err == nil {
		t.Fatal("expected an error for an invalid action name")
	}
	if item.Action != nil {
		t.Fatal("invalid action should not be stored on the item")
	}
}

// TestSubscribeUnknownEventFails checks that Subscribe rejects an
// unrecognized event name via the event bus.
func TestSubscribeUnknownEventFails(t *testing.T) {
	h := newTestHandler(t)
	item := h.table.Items()[0]
	if h.Subscribe(item.ID, "not_a_real_event", "key", nil) {
		t.Fatal("expected Subscribe to fail for an unknown event")
	}
}

// TestCheckVictoryDeclaresSoleSurvivor checks that once one player's
// center dies, checkVictory declares the other player the winner.
func TestCheckVictoryDeclaresSoleSurvivor(t *testing.T) {
	h := newTestHandler(t)
	for _, item := range h.table.Items() {
		if item.PlayerID == 0 {
			item.HitPoints = 0
		}
	}

	won, result := h.checkVictory()
	if !won {
		t.Fatal("expected checkVictory to declare a winner")
	}
	if result.Winner != 1 {
		t.Errorf("winner = %d, want 1", result.Winner)
	}
	if result.DefeatReason != battle.DefeatCenter {
		t.Errorf("defeat reason = %q, want center", result.DefeatReason)
	}
}

// TestCheckVictoryNoWinnerWhileBothAlive checks that checkVictory reports
// no winner while both players still have a living center.
func TestCheckVictoryNoWinnerWhileBothAlive(t *testing.T) {
	h := newTestHandler(t)
	won, result := h.checkVictory()
	if won || result != nil {
		t.Fatalf("expected no winner yet, got won=%v result=%+v", won, result)
	}
}

// TestSnapshotReflectsLiveItems checks that Snapshot reports the current
// item count and frame counters without requiring Run to be active.
func TestSnapshotReflectsLiveItems(t *testing.T) {
	h := newTestHandler(t)
	frame, _, items, _, result := h.Snapshot()
	if frame != 0 {
		t.Errorf("initial frame = %d, want 0", frame)
	}
	if len(items) != 2 {
		t.Errorf("got %d items, want 2", len(items))
	}
	if result != nil {
		t.Error("expected no result before the match ends")
	}
}

// envSelectQuery is a tiny helper constructing a single-field select query
// list, since every test above only exercises one field at a time.
func envSelectQuery(field string) []envchannel.SelectQuery {
	return []envchannel.SelectQuery{{Field: field}}
}
