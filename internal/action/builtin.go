package action

import (
	"fmt"
	"math"

	"fight-club/internal/battle"
)

// builtin.go is the reference Action Factory leaves as an
// external collaborator: "this spec fixes the interface and the statuses
// observed, not the individual action algorithms." It exists so the kernel
// is runnable end-to-end without a real sandboxed player program, grounded
// on the three action kinds frame snapshot names explicitly
// (move, attack, hold) plus idle/dead.

// MoveAction steps the item in a straight line toward Target by
// Speed*battle.CellShift per frame; it does not consult the pathing graph.
type MoveAction struct {
	Target battle.Coord
}

// AttackAction targets another item by id.
type AttackAction struct {
	TargetID uint64
}

// HoldAction is a no-op status producer.
type HoldAction struct{}

// BuiltinFactory implements Factory for one FightItem.
type BuiltinFactory struct {
	item  *battle.FightItem
	world World
}

// NewBuiltinFactory is a NewFactoryFunc.
func NewBuiltinFactory(item *battle.FightItem, world World) Factory {
	return &BuiltinFactory{item: item, world: world}
}

// ParseActionData implements Factory.ParseActionData.
func (f *BuiltinFactory) ParseActionData(actionName string, data map[string]any) (battle.ParsedAction, error) {
	switch actionName {
	case "move":
		x, xok := data["x"].(float64)
		y, yok := data["y"].(float64)
		if !xok || !yok {
			return nil, &ValidateError{Reason: "move requires numeric x and y"}
		}
		if !f.world.IsPointOnMap(x, y) {
			return nil, &ValidateError{Reason: "move target is off the map"}
		}
		return MoveAction{Target: battle.Coord{X: x, Y: y}}, nil

	case "attack":
		idVal, ok := data["id"]
		if !ok {
			return nil, &ValidateError{Reason: "attack requires an id"}
		}
		id, ok := toID(idVal)
		if !ok {
			return nil, &ValidateError{Reason: "attack id must be numeric"}
		}
		target, ok := f.world.ItemByID(id)
		if !ok || target.IsDead() {
			return nil, &ValidateError{Reason: "attack target does not exist"}
		}
		return AttackAction{TargetID: id}, nil

	case "hold":
		return HoldAction{}, nil

	default:
		return nil, &ValidateError{Reason: fmt.Sprintf("unknown action %q", actionName)}
	}
}

// DoAction implements Factory.DoAction.
//
// Mutating the target's HitPoints here (rather than through a callback into
// the Fight Handler) relies on the factory's read-only World handle:
// FightItem pointers obtained through it are the same
// pointers the Item Table owns, so mutation is visible immediately without
// any ownership cycle. Death propagation (clearing the map, firing the
// death event) is the Fight Handler's job, performed once per tick after
// every item's action step has run (internal/fight's tick loop).
func (f *BuiltinFactory) DoAction(parsed battle.ParsedAction) (battle.ItemState, error) {
	switch a := parsed.(type) {
	case MoveAction:
		return f.doMove(a)
	case AttackAction:
		return f.doAttack(a)
	case HoldAction:
		return battle.ItemState{Action: battle.StatusHold}, nil
	default:
		return battle.ItemState{}, &ValidateError{Reason: "unparsed action"}
	}
}

func (f *BuiltinFactory) doMove(a MoveAction) (battle.ItemState, error) {
	dx := a.Target.X - f.item.Coordinates.X
	dy := a.Target.Y - f.item.Coordinates.Y
	dist := math.Sqrt(dx*dx + dy*dy)

	const arrivalEpsilon = 0.05
	if dist <= arrivalEpsilon {
		return battle.ItemState{Action: battle.StatusStop}, nil
	}

	step := f.item.Speed * battle.CellShift
	if step <= 0 {
		return battle.ItemState{Action: battle.StatusStop}, nil
	}
	if step >= dist {
		f.item.Coordinates = a.Target
		return battle.ItemState{Action: battle.StatusStop}, nil
	}
	f.item.Coordinates = battle.Coord{
		X: f.item.Coordinates.X + dx/dist*step,
		Y: f.item.Coordinates.Y + dy/dist*step,
	}
	return battle.ItemState{Action: battle.StatusMove}, nil
}

func (f *BuiltinFactory) doAttack(a AttackAction) (battle.ItemState, error) {
	target, ok := f.world.ItemByID(a.TargetID)
	if !ok || target.IsDead() {
		return battle.ItemState{}, &ValidateError{Reason: "attack target is gone"}
	}

	dist := f.item.Coordinates.Distance(target.Coordinates) - float64(target.Size)/2
	if dist > f.item.FiringRange {
		return battle.ItemState{}, &ValidateError{Reason: "attack target left firing range"}
	}

	if f.item.Charging > 0 {
		f.item.Charging--
		return battle.ItemState{Action: battle.StatusAttack, FiringPoint: &target.Coordinates}, nil
	}

	target.HitPoints -= int(f.item.DamagePerShot)
	if f.item.AreaDamagePerShot > 0 && f.item.AreaDamageRadius > 0 {
		splashed := f.world.ItemsInRadius(target.Coordinates, f.item.AreaDamageRadius, target.ID)
		for _, other := range splashed {
			other.HitPoints -= int(f.item.AreaDamagePerShot)
		}
	}
	if f.item.RateOfFire > 0 {
		f.item.Charging = int(f.item.RateOfFire)
	}

	return battle.ItemState{Action: battle.StatusAttack, FiringPoint: &target.Coordinates}, nil
}

func toID(v any) (uint64, bool) {
	switch n := v.(type) {
	case uint64:
		return n, true
	case int:
		return uint64(n), true
	case float64:
		return uint64(n), true
	default:
		return 0, false
	}
}
