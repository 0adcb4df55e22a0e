package battle

// CraftItem is a non-combat carrier that spawns units once, at match start,
// and afterwards exists only as a battle-log entry.
type CraftItem struct {
	ID          uint64
	PlayerID    int
	Coordinates Coord
	Level       int
	Alias       string
	ItemType    string
}

// Role is always "craft" for a CraftItem; kept as a method (rather than a
// stored field) since it never varies, matching the Python source's class
// attribute.
func (c *CraftItem) Role() Role { return RoleCraft }

// CraftInfo is the read-only projection of a CraftItem for the battle log.
type CraftInfo struct {
	ID          uint64 `json:"id"`
	PlayerID    int    `json:"player_id"`
	Role        Role   `json:"role"`
	Coordinates Coord  `json:"coordinates"`
	Level       int    `json:"level"`
}

func (c *CraftItem) Info() CraftInfo {
	return CraftInfo{
		ID:          c.ID,
		PlayerID:    c.PlayerID,
		Role:        RoleCraft,
		Coordinates: c.Coordinates,
		Level:       c.Level,
	}
}

// LandPositionShift is a fixed offset applied to a unit's landing tile when
// it disembarks from a craft. The Python source references a precalculated
// `LAND_POSITION_SHIFTS` table without giving its contents (// only says "predefined per-slot position shifts"); this repo supplies a
// concrete ring of eight offsets around the craft's landing tile, enough
// to cover MaxLandPositions without units stacking on one cell.
var LandPositionShifts = [MaxLandPositions]TilePos{
	{Row: 0, Col: 0},
	{Row: -1, Col: 0},
	{Row: 1, Col: 0},
	{Row: 0, Col: -1},
	{Row: 0, Col: 1},
	{Row: -1, Col: -1},
	{Row: -1, Col: 1},
	{Row: 1, Col: -1},
}
