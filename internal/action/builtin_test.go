package action

import (
	"testing"

	"fight-club/internal/battle"
)

// fakeWorld is a minimal action.World for testing the builtin factory in
// isolation, without a real Fight Handler or Item Table.
type fakeWorld struct {
	items  map[uint64]*battle.FightItem
	onMap  func(x, y float64) bool
}

func (w *fakeWorld) ItemByID(id uint64) (*battle.FightItem, bool) {
	it, ok := w.items[id]
	return it, ok
}

func (w *fakeWorld) IsPointOnMap(x, y float64) bool {
	if w.onMap != nil {
		return w.onMap(x, y)
	}
	return true
}

func (w *fakeWorld) ItemsInRadius(center battle.Coord, radius float64, excludeID uint64) []*battle.FightItem {
	var out []*battle.FightItem
	for id, it := range w.items {
		if id == excludeID || it.IsDead() {
			continue
		}
		if it.Coordinates.Distance(center) <= radius {
			out = append(out, it)
		}
	}
	return out
}

func newWorld() *fakeWorld {
	return &fakeWorld{items: make(map[uint64]*battle.FightItem)}
}

// TestParseActionDataMoveRejectsOffMapTarget checks that a move target
// outside the map is refused as a validate error.
func TestParseActionDataMoveRejectsOffMapTarget(t *testing.T) {
	world := newWorld()
	world.onMap = func(x, y float64) bool { return false }
	item := &battle.FightItem{ID: 1}
	f := NewBuiltinFactory(item, world)

	_, err := f.ParseActionData("move", map[string]any{"x": 5.0, "y": 5.0})
	if _, ok := err.(*ValidateError); !ok {
		t.Fatalf("expected *ValidateError, got %v", err)
	}
}

// TestParseActionDataMoveRequiresNumericXY checks that missing/non-numeric
// coordinates are refused.
func TestParseActionDataMoveRequiresNumericXY(t *testing.T) {
	world := newWorld()
	item := &battle.FightItem{ID: 1}
	f := NewBuiltinFactory(item, world)

	if _, err := f.ParseActionData("move", map[string]any{"x": "nope", "y": 1.0}); err == nil {
		t.Fatal("expected an error for a non-numeric x")
	}
}

// TestParseActionDataMoveSucceeds checks the happy path returns a
// MoveAction with the requested target.
func TestParseActionDataMoveSucceeds(t *testing.T) {
	world := newWorld()
	item := &battle.FightItem{ID: 1}
	f := NewBuiltinFactory(item, world)

	parsed, err := f.ParseActionData("move", map[string]any{"x": 3.0, "y": 4.0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	move, ok := parsed.(MoveAction)
	if !ok {
		t.Fatalf("got %T, want MoveAction", parsed)
	}
	if move.Target != (battle.Coord{X: 3, Y: 4}) {
		t.Errorf("move target = %v, want {3 4}", move.Target)
	}
}

// TestParseActionDataAttackRejectsDeadTarget checks that attacking a dead
// item is refused.
func TestParseActionDataAttackRejectsDeadTarget(t *testing.T) {
	world := newWorld()
	dead := &battle.FightItem{ID: 2, HitPoints: 0}
	world.items[2] = dead
	item := &battle.FightItem{ID: 1}
	f := NewBuiltinFactory(item, world)

	_, err := f.ParseActionData("attack", map[string]any{"id": uint64(2)})
	if _, ok := err.(*ValidateError); !ok {
		t.Fatalf("expected *ValidateError attacking a dead item, got %v", err)
	}
}

// TestParseActionDataAttackRejectsMissingTarget checks that attacking a
// nonexistent id is refused.
func TestParseActionDataAttackRejectsMissingTarget(t *testing.T) {
	world := newWorld()
	item := &battle.FightItem{ID: 1}
	f := NewBuiltinFactory(item, world)

	if _, err := f.ParseActionData("attack", map[string]any{"id": uint64(999)}); err == nil {
		t.Fatal("expected an error attacking a nonexistent item")
	}
}

// TestParseActionDataUnknownAction checks that an unrecognized action name
// is refused.
func TestParseActionDataUnknownAction(t *testing.T) {
	world := newWorld()
	item := &battle.FightItem{ID: 1}
	f := NewBuiltinFactory(item, world)

	if _, err := f.ParseActionData("dance", nil); err == nil {
		t.Fatal("expected an error for an unknown action name")
	}
}

// TestDoActionMoveArrivesAndStops checks that an item already within the
// arrival epsilon of the target reports stop.
func TestDoActionMoveArrivesAndStops(t *testing.T) {
	world := newWorld()
	item := &battle.FightItem{ID: 1, Coordinates: battle.Coord{X: 1, Y: 1}, Speed: 1}
	f := NewBuiltinFactory(item, world)

	state, err := f.DoAction(MoveAction{Target: battle.Coord{X: 1.01, Y: 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Action != battle.StatusStop {
		t.Errorf("status = %v, want stop", state.Action)
	}
}

// TestDoActionMoveStepsToward checks that a distant target produces
// incremental movement and a move status, without overshooting.
func TestDoActionMoveStepsToward(t *testing.T) {
	world := newWorld()
	item := &battle.FightItem{ID: 1, Coordinates: battle.Coord{X: 0, Y: 0}, Speed: 4}
	f := NewBuiltinFactory(item, world)

	state, err := f.DoAction(MoveAction{Target: battle.Coord{X: 10, Y: 0}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Action != battle.StatusMove {
		t.Errorf("status = %v, want move", state.Action)
	}
	if item.Coordinates.X <= 0 || item.Coordinates.X >= 10 {
		t.Errorf("item should have advanced partway, got x=%v", item.Coordinates.X)
	}
}

// TestDoActionAttackOutOfRangeFails checks that an attack whose target
// moved out of firing range is refused at the do-action step.
func TestDoActionAttackOutOfRangeFails(t *testing.T) {
	world := newWorld()
	target := &battle.FightItem{ID: 2, HitPoints: 10, Coordinates: battle.Coord{X: 100, Y: 0}}
	world.items[2] = target
	attacker := &battle.FightItem{ID: 1, Coordinates: battle.Coord{X: 0, Y: 0}, FiringRange: 5}
	f := NewBuiltinFactory(attacker, world)

	_, err := f.DoAction(AttackAction{TargetID: 2})
	if err == nil {
		t.Fatal("expected an error when target is out of firing range")
	}
}

// TestDoActionAttackAppliesDamage checks that a successful attack reduces
// the target's hit points by the attacker's damage per shot.
func TestDoActionAttackAppliesDamage(t *testing.T) {
	world := newWorld()
	target := &battle.FightItem{ID: 2, HitPoints: 10, Coordinates: battle.Coord{X: 1, Y: 0}}
	world.items[2] = target
	attacker := &battle.FightItem{ID: 1, Coordinates: battle.Coord{X: 0, Y: 0}, FiringRange: 5, DamagePerShot: 3}
	f := NewBuiltinFactory(attacker, world)

	state, err := f.DoAction(AttackAction{TargetID: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Action != battle.StatusAttack {
		t.Errorf("status = %v, want attack", state.Action)
	}
	if target.HitPoints != 7 {
		t.Errorf("target hit points = %d, want 7", target.HitPoints)
	}
	if state.FiringPoint == nil || *state.FiringPoint != target.Coordinates {
		t.Error("attack state should carry the target's coordinates as the firing point")
	}
}

// TestDoActionAttackSplashesNearbyItems checks that a direct hit also
// damages other living items within the attacker's area damage radius,
// but leaves items outside that radius untouched.
func TestDoActionAttackSplashesNearbyItems(t *testing.T) {
	world := newWorld()
	target := &battle.FightItem{ID: 2, HitPoints: 10, Coordinates: battle.Coord{X: 1, Y: 0}}
	bystander := &battle.FightItem{ID: 3, HitPoints: 10, Coordinates: battle.Coord{X: 1.5, Y: 0}}
	distant := &battle.FightItem{ID: 4, HitPoints: 10, Coordinates: battle.Coord{X: 50, Y: 0}}
	world.items[2] = target
	world.items[3] = bystander
	world.items[4] = distant
	attacker := &battle.FightItem{
		ID:                1,
		Coordinates:       battle.Coord{X: 0, Y: 0},
		FiringRange:       5,
		DamagePerShot:     3,
		AreaDamagePerShot: 2,
		AreaDamageRadius:  1,
	}
	f := NewBuiltinFactory(attacker, world)

	if _, err := f.DoAction(AttackAction{TargetID: 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target.HitPoints != 7 {
		t.Errorf("direct target hit points = %d, want 7", target.HitPoints)
	}
	if bystander.HitPoints != 8 {
		t.Errorf("splashed bystander hit points = %d, want 8", bystander.HitPoints)
	}
	if distant.HitPoints != 10 {
		t.Errorf("distant item should be untouched, got %d", distant.HitPoints)
	}
}

// TestDoActionHoldIsNoop checks that a hold action produces the hold status
// with no side effects.
func TestDoActionHoldIsNoop(t *testing.T) {
	world := newWorld()
	item := &battle.FightItem{ID: 1}
	f := NewBuiltinFactory(item, world)

	state, err := f.DoAction(HoldAction{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Action != battle.StatusHold {
		t.Errorf("status = %v, want hold", state.Action)
	}
}
