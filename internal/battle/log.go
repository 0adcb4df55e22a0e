package battle

// Log is the three-section Battle Log of ("Battle Log"): the
// initial roster, the ordered per-frame snapshots, and the result filled in
// once at termination.
type Log struct {
	Initial InitialState    `json:"initial"`
	Frames  []FrameSnapshot `json:"frames"`
	Result  *Result         `json:"result,omitempty"`
}

// InitialState lists buildings, units and crafts with their anchor tile
// positions and identities at spawn.
type InitialState struct {
	Buildings []InitialItem  `json:"buildings"`
	Units     []InitialItem  `json:"units"`
	Crafts    []InitialCraft `json:"crafts"`
}

type InitialItem struct {
	ID           uint64   `json:"item_id"`
	PlayerID     int      `json:"player_id"`
	Role         Role     `json:"role"`
	ItemType     string   `json:"item_type"`
	TilePosition TilePos  `json:"tile_position"`
}

type InitialCraft struct {
	ID           uint64 `json:"item_id"`
	PlayerID     int    `json:"player_id"`
	TilePosition TilePos `json:"tile_position"`
}

// FrameSnapshot is one tick's worth of per-item status, matching the
// streaming payload shape of .
type FrameSnapshot struct {
	CurrentFrame    uint64          `json:"current_frame"`
	CurrentGameTime float64         `json:"current_game_time"`
	Items           []SnapshotEntry `json:"fight_items"`
}

// Result is populated once, at termination.
type Result struct {
	Winner       int            `json:"winner"`
	Rewards      map[string]any `json:"rewards"`
	Casualties   map[string]int `json:"casualties"`
	DefeatReason DefeatReason   `json:"defeat_reason"`
}

// NewLog creates an empty Battle Log ready to accumulate frames.
func NewLog() *Log {
	return &Log{
		Initial: InitialState{
			Buildings: []InitialItem{},
			Units:     []InitialItem{},
			Crafts:    []InitialCraft{},
		},
		Frames: []FrameSnapshot{},
	}
}
