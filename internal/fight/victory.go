package fight

import "fight-club/internal/battle"

// checkVictory evaluates defeat predicates for every player: remove each
// defeated player (first matching reason wins), and if exactly one real
// player remains, build the result.
func (h *Handler) checkVictory() (bool, *battle.Result) {
	var lastReason battle.DefeatReason

	for _, id := range h.playerIDs {
		if id < 0 {
			continue
		}
		p := h.players[id]
		if p == nil || !p.IsReal() {
			continue
		}
		if reason, defeated := h.isPlayerDefeated(p); defeated {
			delete(h.players, id)
			lastReason = reason
		}
	}

	var remaining []int
	for _, id := range h.playerIDs {
		if id < 0 {
			continue
		}
		if _, ok := h.players[id]; ok {
			remaining = append(remaining, id)
		}
	}

	if len(remaining) != 1 {
		return false, nil
	}

	winner := remaining[0]
	return true, &battle.Result{
		Winner:       winner,
		Rewards:      h.rewards,
		Casualties:   h.countCasualties(battle.RoleUnit),
		DefeatReason: lastReason,
	}
}

// isPlayerDefeated evaluates the defeat predicate order: units -> center
// -> time, first match wins.
func (h *Handler) isPlayerDefeated(p *battle.Player) (battle.DefeatReason, bool) {
	if p.HasDefeatReason(battle.DefeatUnits) && !h.hasLivingRole(p.ID, battle.RoleUnit) {
		return battle.DefeatUnits, true
	}
	if p.HasDefeatReason(battle.DefeatCenter) && !h.hasLivingRole(p.ID, battle.RoleCenter) {
		return battle.DefeatCenter, true
	}
	if p.HasDefeatReason(battle.DefeatTime) && h.currentGameTime >= h.timeLimit {
		return battle.DefeatTime, true
	}
	return "", false
}

// hasLivingRole reports whether the player still has a living item of the
// given role.
func (h *Handler) hasLivingRole(playerID int, role battle.Role) bool {
	for _, item := range h.table.Items() {
		if item.PlayerID == playerID && item.Role == role && !item.IsDead() {
			return true
		}
	}
	return false
}

// countCasualties groups dead items of the given role by item type.
func (h *Handler) countCasualties(role battle.Role) map[string]int {
	out := make(map[string]int)
	for _, item := range h.table.Items() {
		if item.Role != role || !item.IsDead() {
			continue
		}
		out[item.ItemType]++
	}
	if h.metrics != nil {
		for range out {
			h.metrics.RecordCasualty(string(role))
		}
	}
	return out
}
