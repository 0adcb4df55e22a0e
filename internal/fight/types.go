// Package fight implements the Fight Handler: it owns the World Map, Item
// Table and Event Bus, orchestrates frame ticking, spawns Item Agents,
// computes victory, emits snapshots, and finalizes the battle log. The
// ticker-driven tick loop and mutex-guarded shared state follow the same
// shape as a renderer's engine loop, generalized here to the
// command/response contract of a programming battle referee.
package fight

import (
	"context"

	"fight-club/internal/battle"
	"fight-club/internal/envchannel"
)

// Descriptor is the initial battle descriptor a Handler starts from:
// is_stream flag, player list, code table, map size, reward table, time
// limit and map elements. It is the boundary object a loader/config layer
// hands to the core; packaging and configuration loading live outside this
// package.
type Descriptor struct {
	IsStream    bool
	Players     []PlayerDescriptor
	Codes       map[string]string // operating_code id -> program source
	MapHeight   int
	MapWidth    int
	Rewards     map[string]any
	TimeLimit   float64
	MapElements []ElementDescriptor
}

// PlayerDescriptor is one entry of Descriptor.Players.
type PlayerDescriptor struct {
	ID            int
	EnvName       string
	DefeatReasons []battle.DefeatReason
}

// ElementDescriptor is one entry of Descriptor.MapElements: either a single
// buildable/unit item, or a craft. A craft role spawns a CraftItem and
// unpacks its contained units; any other role is treated as a single item.
type ElementDescriptor struct {
	Role     battle.Role
	ItemType string
	Alias    string
	Level    int
	PlayerID int

	TilePosition battle.TilePos
	BaseSize     int
	Speed        float64

	StartHitPoints    int
	RateOfFire        float64
	DamagePerShot     float64
	FiringRange       float64
	AreaDamagePerShot float64
	AreaDamageRadius  float64

	OperatingCode string

	// Craft-only fields.
	UnitQuantity int
	UnitTemplate *ElementDescriptor
}

// EnvProvider is the sandbox/environment runtime the player program lives
// in; the core sees it only as a way to obtain a message Channel for a
// given player environment selector.
type EnvProvider interface {
	Acquire(ctx context.Context, envName string) (envchannel.Channel, error)
}

// BattleSink is the editor/client transport the core pushes snapshots
// through: a single send_battle(payload) call per emission.
type BattleSink interface {
	SendBattle(payload any)
}

// Metrics is the optional observability hook: a Handler with a nil Metrics
// simply skips recording. Concrete implementations live in
// internal/api/observability.go so this package never imports the HTTP
// layer.
type Metrics interface {
	RecordTick(seconds float64)
	UpdateActiveAgents(count int)
	UpdateItemCount(count int)
	RecordEventDispatch(event string)
	RecordCasualty(role string)
}

// Limits bounds resource usage the way a renderer's ResourceLimits bounds
// rendering state — here bounding simulation state instead, since a battle
// referee has no render loop to protect. The Handler checks only
// MaxAgents (in startAgents, an executable item past it gets no Agent);
// MaxItems and MaxQueuedMessages are not checked by this package. Limits
// never change simulation semantics for items that did get created.
type Limits struct {
	MaxItems          int
	MaxAgents         int
	MaxQueuedMessages int
}

// DefaultLimits mirrors the scale of a real two-player empire battle with
// generous headroom.
var DefaultLimits = Limits{
	MaxItems:          2000,
	MaxAgents:         500,
	MaxQueuedMessages: 64,
}
