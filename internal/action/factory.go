// Package action defines the action factory interface: an external
// per-item state machine that parses commands and produces per-frame
// status updates. The core depends only on this interface; see builtin.go
// for a reference implementation of the three action kinds (move, attack,
// hold).
package action

import "fight-club/internal/battle"

// ValidateError is raised when a set_action command is malformed or
// currently illegal. Its stringified form is what bad_action delivers to
// the program.
type ValidateError struct {
	Reason string
}

func (e *ValidateError) Error() string { return e.Reason }

// Factory is the per-FightItem action state machine.
// A Factory is constructed at item birth and lives for the item's lifetime.
type Factory interface {
	// ParseActionData validates and parses a set_action command. On
	// failure it returns a *ValidateError; the item's pending action is
	// left untouched by the caller in that case.
	ParseActionData(actionName string, data map[string]any) (battle.ParsedAction, error)

	// DoAction advances the item by one frame given its current parsed
	// action, and returns its new state. May return a *ValidateError, in
	// which case the item falls back to idle.
	DoAction(parsed battle.ParsedAction) (battle.ItemState, error)
}

// NewFactoryFunc constructs a Factory for a newly-created FightItem. The
// Fight Handler calls this once per executable item at spawn time.
type NewFactoryFunc func(item *battle.FightItem, world World) Factory

// World is the surface an action implementation needs from the Fight
// Handler: item lookup by id, the map-bounds check and a radius query.
// Action implementations may change fields of the items they are handed
// (the builtin factory moves its own item's coordinates and lowers other
// items' hit points); map occupancy changes and event dispatch stay with
// the Fight Handler.
type World interface {
	ItemByID(id uint64) (*battle.FightItem, bool)
	IsPointOnMap(x, y float64) bool

	// ItemsInRadius returns every living item other than excludeID whose
	// coordinates lie within radius of center, for area-of-effect damage.
	ItemsInRadius(center battle.Coord, radius float64, excludeID uint64) []*battle.FightItem
}
