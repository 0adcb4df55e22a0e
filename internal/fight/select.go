package fight

import (
	"fmt"

	"fight-club/internal/battle"
	"fight-club/internal/envchannel"
	"fight-club/internal/eventbus"
)

// Select implements agent.HandlerPort's "select" verb: for each query,
// append an {error: "..."} record for a missing/unknown field, otherwise
// the query result. A protocol-format failure is never fatal to the
// agent's session.
func (h *Handler) Select(itemID uint64, fields []envchannel.SelectQuery) []envchannel.SelectResult {
	h.mu.Lock()
	defer h.mu.Unlock()

	seeker, ok := h.table.Item(itemID)
	if !ok {
		return nil
	}

	out := make([]envchannel.SelectResult, 0, len(fields))
	for _, q := range fields {
		if q.Field == "" {
			out = append(out, envchannel.SelectResult{Error: "wrong format, field did not passed"})
			continue
		}
		switch q.Field {
		case "my_info":
			out = append(out, envchannel.SelectResult{Data: seeker.Info()})
		case "item_info":
			out = append(out, h.selectItemInfo(q.Data))
		case "players":
			out = append(out, envchannel.SelectResult{Data: h.publicPlayers(seeker.PlayerID, q.Data)})
		case "items":
			out = append(out, envchannel.SelectResult{Data: h.groupItemInfo(seeker.PlayerID, q.Data)})
		case "nearest_enemy":
			out = append(out, h.selectNearestEnemy(itemID))
		case "enemy_items_in_my_firing_range":
			out = append(out, envchannel.SelectResult{Data: h.enemyItemsInFiringRange(itemID)})
		default:
			out = append(out, envchannel.SelectResult{Error: "wrong format, wrong field"})
		}
	}
	return out
}

func (h *Handler) selectItemInfo(data map[string]any) envchannel.SelectResult {
	id, ok := idFromData(data)
	if !ok {
		return envchannel.SelectResult{Error: "wrong format, field did not passed"}
	}
	item, ok := h.table.Item(id)
	if !ok {
		return envchannel.SelectResult{Error: "wrong format, wrong field"}
	}
	return envchannel.SelectResult{Data: item.Info()}
}

func (h *Handler) selectNearestEnemy(itemID uint64) envchannel.SelectResult {
	info, ok := h.nearestEnemy(itemID)
	if !ok {
		// Resolved as an explicit protocol error rather than a panic on an
		// empty battlefield (see DESIGN.md's Open Question decisions).
		return envchannel.SelectResult{Error: "no enemy on the battlefield"}
	}
	return envchannel.SelectResult{Data: info}
}

func idFromData(data map[string]any) (uint64, bool) {
	if data == nil {
		return 0, false
	}
	v, ok := data["id"]
	if !ok {
		return 0, false
	}
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

// SetAction implements agent.HandlerPort's "set_action" verb: parse via
// the item's Action Factory; on success replace the pending action.
func (h *Handler) SetAction(itemID uint64, actionName string, data map[string]any) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	item, ok := h.table.Item(itemID)
	if !ok {
		return fmt.Errorf("unknown item %d", itemID)
	}
	factory := h.factories[itemID]
	parsed, err := factory.ParseActionData(actionName, data)
	if err != nil {
		return err
	}
	item.Action = parsed
	return nil
}

// Subscribe implements agent.HandlerPort's "subscribe" verb.
func (h *Handler) Subscribe(itemID uint64, event string, lookupKey string, data map[string]any) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.bus.Subscribe(eventbus.Name(event), itemID, lookupKey, data)
}

// publicPlayers builds the "players" select field: the party-filtered list
// of real player ids, excluding the neutral owner.
func (h *Handler) publicPlayers(seekerPlayerID int, data map[string]any) []battle.PublicInfo {
	party := partyFromData(data)
	out := make([]battle.PublicInfo, 0, len(h.playerIDs))
	for _, id := range h.playerIDs {
		if !matchesParty(id, seekerPlayerID, party) {
			continue
		}
		out = append(out, battle.PublicInfo{ID: id})
	}
	return out
}

// partyFromData parses the "party" field shared by the "players" and
// "items" select queries, defaulting to enemy when absent or unrecognized.
func partyFromData(data map[string]any) battle.Party {
	party := battle.PartyEnemy
	if p, ok := data["party"].(float64); ok && int(p) == int(battle.PartyMy) {
		party = battle.PartyMy
	}
	return party
}

// groupItemInfo builds the "items" select field: filters dead items, then
// by party, then by role.
func (h *Handler) groupItemInfo(seekerPlayerID int, data map[string]any) []battle.ItemInfo {
	party := partyFromData(data)
	var wantRole battle.Role
	if r, ok := data["role"].(string); ok {
		wantRole = battle.Role(r)
	}

	out := make([]battle.ItemInfo, 0)
	for _, item := range h.table.Items() {
		if item.IsDead() {
			continue
		}
		if !matchesParty(item.PlayerID, seekerPlayerID, party) {
			continue
		}
		if wantRole != "" && item.Role != wantRole {
			continue
		}
		out = append(out, item.Info())
	}
	return out
}

// matchesParty filters by party (my/enemy), excluding the neutral owner
// from both enemy and my-party results.
func matchesParty(itemPlayerID, seekerPlayerID int, party battle.Party) bool {
	if itemPlayerID < 0 {
		return false
	}
	switch party {
	case battle.PartyMy:
		return itemPlayerID == seekerPlayerID
	default:
		return itemPlayerID != seekerPlayerID
	}
}
