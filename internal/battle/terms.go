// Package battle holds the core data model of the fight: players, fight
// items, craft items and the battle log. It has no knowledge of networking,
// goroutines or the event bus — those live in internal/fight, internal/agent
// and internal/eventbus.
package battle

// Role categorizes a FightItem or CraftItem.
type Role string

const (
	RoleUnit     Role = "unit"
	RoleCenter   Role = "center"
	RoleTower    Role = "tower"
	RoleBuilding Role = "building"
	RoleObstacle Role = "obstacle"
	RoleCraft    Role = "craft"
)

// ActionStatus is the value of a FightItem's state["action"] key.
type ActionStatus string

const (
	StatusIdle   ActionStatus = "idle"
	StatusDead   ActionStatus = "dead"
	StatusMove   ActionStatus = "move"
	StatusAttack ActionStatus = "attack"
	StatusHold   ActionStatus = "hold"
	StatusStop   ActionStatus = "stop"
)

// DefeatReason is one of the three predicates a player can be defeated by.
type DefeatReason string

const (
	DefeatUnits  DefeatReason = "units"
	DefeatCenter DefeatReason = "center"
	DefeatTime   DefeatReason = "time"
)

// NeutralPlayerID is the sentinel owner id for obstacles.
const NeutralPlayerID = -1

// Party distinguishes "mine" from "enemy" for select-field filtering.
type Party int

const (
	PartyEnemy Party = iota
	PartyMy
)

// GridScale is the number of grid cells per map tile. The
// Python source fixes this to 2 and this repo follows it exactly.
const GridScale = 2

// CutFromBuilding is subtracted from base_size to get collision size
//: size = max(base_size - CutFromBuilding, 0).
const CutFromBuilding = 1

// MaxLandPositions caps how many units a single craft can disembark
//.
const MaxLandPositions = 8

// CellShift is the Python reference's CELL_SHIFT = 1/(GridScale*2),
// the fraction of a tile a unit advances per accuracy step; the reference
// move action (internal/action/builtin.go) uses it to turn Speed (tiles per
// second) into a per-frame displacement fraction.
const CellShift = 1.0 / (GridScale * 2)

// AccuracyRange mirrors the Python reference's ACCURACY_RANGE constant
// (0.1), an epsilon used by richer action implementations when comparing
// floating coordinates; kept here since it is part of the same constant
// family as GridScale/CellShift even though the reference move action in
// this repo uses its own smaller arrival epsilon.
const AccuracyRange = 0.1
