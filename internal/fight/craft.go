package fight

import (
	"math/rand"

	"fight-club/internal/battle"
)

// spawnCraft places the craft on the map edge, then clones up to
// min(unit_quantity, MAX_LAND_POSITIONS) units from its template, each
// shifted by a predefined per-slot offset. If no column is free the craft
// is abandoned: no CraftItem is recorded and no units are returned.
func (h *Handler) spawnCraft(el ElementDescriptor) []ElementDescriptor {
	col, ok := h.pickFreeCraftColumn()
	if !ok {
		return nil
	}
	h.craftColumns = append(h.craftColumns, col)

	row := h.mapHeight
	craft := &battle.CraftItem{
		ID:          battle.NextID(),
		PlayerID:    el.PlayerID,
		Coordinates: battle.Coord{X: float64(row), Y: float64(col)},
		Level:       el.Level,
		Alias:       el.Alias,
		ItemType:    el.ItemType,
	}
	h.table.AddCraft(craft)

	if el.UnitTemplate == nil {
		return nil
	}

	quantity := el.UnitQuantity
	if quantity > battle.MaxLandPositions {
		quantity = battle.MaxLandPositions
	}

	units := make([]ElementDescriptor, 0, quantity)
	for i := 0; i < quantity; i++ {
		shift := battle.LandPositionShifts[i]
		unit := *el.UnitTemplate
		unit.Role = battle.RoleUnit
		unit.PlayerID = el.PlayerID
		unit.OperatingCode = el.OperatingCode
		unit.TilePosition = battle.TilePos{
			Row: row + shift.Row,
			Col: col + shift.Col,
		}
		units = append(units, unit)
	}
	return units
}

// pickFreeCraftColumn picks a random column in [1, W) that is not within
// ±2 of any already-spawned craft's column, so craft columns in one match
// stay pairwise at least 3 apart.
func (h *Handler) pickFreeCraftColumn() (int, bool) {
	candidates := make([]int, 0, h.mapWidth-1)
	for col := 1; col < h.mapWidth; col++ {
		free := true
		for _, c := range h.craftColumns {
			d := col - c
			if d < 0 {
				d = -d
			}
			if d <= 2 {
				free = false
				break
			}
		}
		if free {
			candidates = append(candidates, col)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}
	return candidates[rand.Intn(len(candidates))], true
}
