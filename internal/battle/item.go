package battle

import "math"

// TilePos is an integer grid anchor.
type TilePos struct {
	Row, Col int
}

// Coord is a floating-point map-unit position.
type Coord struct {
	X, Y float64
}

// Distance returns the Euclidean distance between two coordinates, used
// throughout the event predicates and selection helpers.
func (c Coord) Distance(o Coord) float64 {
	dx := c.X - o.X
	dy := c.Y - o.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// ItemState is the per-item state: every state carries an action status,
// and an attack status additionally carries a firing point.
type ItemState struct {
	Action      ActionStatus
	FiringPoint *Coord
}

// FightItem is a movable or static battle entity.
//
// FightItem is intentionally a plain data holder: it never calls back
// into the fight handler that owns it, avoiding a reference cycle between
// the two. State transitions that have side effects outside the item
// itself (dying clears the map square, idling fires im_idle, moving fires
// range events) are performed by the handler, which mutates these fields
// directly and then runs the side effect.
type FightItem struct {
	ID       uint64
	PlayerID int
	Role     Role
	ItemType string
	Alias    string
	Level    int

	TilePosition TilePos
	Coordinates  Coord
	BaseSize     int
	Size         int
	Speed        float64

	StartHitPoints int
	HitPoints      int
	RateOfFire     float64
	DamagePerShot  float64
	FiringRange    float64
	AreaDamagePerShot float64
	AreaDamageRadius  float64
	Charging          int

	OperatingCode string
	Action        ParsedAction
	State         ItemState

	CreatedAtTick uint64
}

// ParsedAction is the opaque result of action.Factory.ParseActionData
//. The core never inspects it beyond passing it back to
// DoAction.
type ParsedAction interface{}

// IsDead reports whether the item has died.
func (f *FightItem) IsDead() bool {
	return f.HitPoints <= 0
}

// IsObstacle reports whether the item is a neutral obstacle.
func (f *FightItem) IsObstacle() bool {
	return f.Role == RoleObstacle
}

// IsExecutable reports whether an Item Agent should be started for this
// item.
func (f *FightItem) IsExecutable() bool {
	if f.Role == RoleUnit {
		return true
	}
	return f.OperatingCode != ""
}

// HitPointsPercentage computes
// max(0, round(100 * hit_points / start_hit_points)).
func (f *FightItem) HitPointsPercentage() int {
	if f.StartHitPoints == 0 {
		return 0
	}
	pct := int(math.Round(100 * float64(f.HitPoints) / float64(f.StartHitPoints)))
	if pct < 0 {
		return 0
	}
	return pct
}

// ItemInfo is the read-only projection of a FightItem returned by select
// queries (my_info, item_info, items, nearest_enemy, ...).
type ItemInfo struct {
	ID                uint64       `json:"id"`
	PlayerID          int          `json:"player_id"`
	Role              Role         `json:"role"`
	HitPoints         int          `json:"hit_points"`
	Size              int          `json:"size"`
	Speed             float64      `json:"speed"`
	Coordinates       Coord        `json:"coordinates"`
	RateOfFire        float64      `json:"rate_of_fire"`
	DamagePerShot     float64      `json:"damage_per_shot"`
	AreaDamagePerShot float64      `json:"area_damage_per_shot"`
	AreaDamageRadius  float64      `json:"area_damage_radius"`
	FiringRange       float64      `json:"firing_range"`
	Action            ParsedAction `json:"action"`
	State             ItemState    `json:"state"`
}

// Info projects the item's current public state.
func (f *FightItem) Info() ItemInfo {
	return ItemInfo{
		ID:                f.ID,
		PlayerID:          f.PlayerID,
		Role:              f.Role,
		HitPoints:         f.HitPoints,
		Size:              f.Size,
		Speed:             f.Speed,
		Coordinates:       f.Coordinates,
		RateOfFire:        f.RateOfFire,
		DamagePerShot:     f.DamagePerShot,
		AreaDamagePerShot: f.AreaDamagePerShot,
		AreaDamageRadius:  f.AreaDamageRadius,
		FiringRange:       f.FiringRange,
		Action:            f.Action,
		State:             f.State,
	}
}

// SnapshotEntry is a single per-frame battle-log record.
type SnapshotEntry struct {
	ItemID              uint64       `json:"item_id"`
	TilePosition        interface{}  `json:"tile_position"`
	HitPointsPercentage int          `json:"hit_points_percentage"`
	ItemStatus          ActionStatus `json:"item_status"`
	FiringPoint         *Coord       `json:"firing_point,omitempty"`
}

// Snapshot builds this item's per-frame log entry. Units report their
// floating coordinates as "tile_position" (matching the Python source's
// `_get_battle_snapshot`, which substitutes coordinates for units); every
// other role reports its integer tile anchor.
func (f *FightItem) Snapshot() SnapshotEntry {
	e := SnapshotEntry{
		ItemID:              f.ID,
		HitPointsPercentage: f.HitPointsPercentage(),
		ItemStatus:          f.State.Action,
	}
	if f.Role == RoleUnit {
		e.TilePosition = f.Coordinates
	} else {
		e.TilePosition = f.TilePosition
	}
	if f.State.Action == StatusAttack {
		e.FiringPoint = f.State.FiringPoint
	}
	return e
}
