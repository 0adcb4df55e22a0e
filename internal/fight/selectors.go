package fight

import (
	"math"

	"fight-club/internal/battle"
)

// nearestEnemy finds the nearest enemy to the seeker: among all living
// non-obstacle items whose player differs from the seeker's, return the
// one with minimum Euclidean distance, breaking ties by insertion order
// (first wins). The original reference implementation starts its distance
// bound from a fixed large constant; this starts from +Inf instead so it
// is correct at any map scale, and returns (zero, false) rather than
// crashing when no enemy exists.
func (h *Handler) nearestEnemy(seekerID uint64) (battle.ItemInfo, bool) {
	seeker, ok := h.table.Item(seekerID)
	if !ok {
		return battle.ItemInfo{}, false
	}

	best := math.Inf(1)
	var found *battle.FightItem
	for _, item := range h.table.Items() {
		if item.ID == seeker.ID {
			continue
		}
		if item.IsDead() || item.IsObstacle() {
			continue
		}
		if item.PlayerID == seeker.PlayerID {
			continue
		}
		d := seeker.Coordinates.Distance(item.Coordinates)
		if d < best {
			best = d
			found = item
		}
	}
	if found == nil {
		return battle.ItemInfo{}, false
	}
	return found.Info(), true
}

// enemyItemsInFiringRange finds all living non-obstacle enemies e with
// ||e.coord - s.coord|| - e.size/2 <= s.firing_range.
func (h *Handler) enemyItemsInFiringRange(seekerID uint64) []battle.ItemInfo {
	seeker, ok := h.table.Item(seekerID)
	if !ok {
		return nil
	}

	out := make([]battle.ItemInfo, 0)
	for _, item := range h.table.Items() {
		if item.ID == seeker.ID {
			continue
		}
		if item.IsDead() || item.IsObstacle() {
			continue
		}
		if item.PlayerID == seeker.PlayerID {
			continue
		}
		dist := item.Coordinates.Distance(seeker.Coordinates) - float64(item.Size)/2
		if dist <= seeker.FiringRange {
			out = append(out, item.Info())
		}
	}
	return out
}
