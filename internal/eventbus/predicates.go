package eventbus

import "fight-club/internal/battle"

// This file implements the exact per-event predicate/data pairs of
// table, translated from
// original_source/verification/src/referee.py's
// _send_death_event / _send_im_stop / _send_im_idle / _send_im_in_area /
// _send_enemy_in_my_firing_range / _send_the_item_out_my_firing_range /
// _send_any_item_in_area.

func idData(_ Subscription, eventItem *battle.FightItem, _ *battle.FightItem) map[string]any {
	return map[string]any{"id": eventItem.ID}
}

// DeathPredicate: s.data.id == E.id.
func DeathPredicate(sub Subscription, eventItem *battle.FightItem, _ *battle.FightItem) bool {
	id, ok := sub.Data["id"]
	if !ok {
		return false
	}
	return toUint64(id) == eventItem.ID
}

// ImIdlePredicate / ImStopPredicate: receiver.id == E.id.
func ImIdlePredicate(_ Subscription, eventItem *battle.FightItem, receiver *battle.FightItem) bool {
	return receiver.ID == eventItem.ID
}

// ImStopData carries the item's id and its coordinates.
func ImStopData(_ Subscription, eventItem *battle.FightItem, _ *battle.FightItem) map[string]any {
	return map[string]any{"id": eventItem.ID, "coordinates": eventItem.Coordinates}
}

// ImInAreaPredicate: R.id == E.id AND ||R.coord - s.data.coordinates|| < s.data.radius.
// Strict less-than, per precise predicate table.
func ImInAreaPredicate(sub Subscription, eventItem *battle.FightItem, receiver *battle.FightItem) bool {
	if receiver.ID != eventItem.ID {
		return false
	}
	coord, ok := sub.Data["coordinates"].(battle.Coord)
	if !ok {
		return false
	}
	radius, ok := sub.Data["radius"].(float64)
	if !ok {
		return false
	}
	return receiver.Coordinates.Distance(coord) < radius
}

// ImInAreaData carries the item's id and the computed distance.
func ImInAreaData(sub Subscription, eventItem *battle.FightItem, receiver *battle.FightItem) map[string]any {
	coord, _ := sub.Data["coordinates"].(battle.Coord)
	return map[string]any{"id": eventItem.ID, "distance": receiver.Coordinates.Distance(coord)}
}

// AnyItemInAreaPredicate: ||s.data.coordinates - E.coord|| <= s.data.radius,
// i.e. less-or-equal.
func AnyItemInAreaPredicate(sub Subscription, eventItem *battle.FightItem, _ *battle.FightItem) bool {
	coord, ok := sub.Data["coordinates"].(battle.Coord)
	if !ok {
		return false
	}
	radius, ok := sub.Data["radius"].(float64)
	if !ok {
		return false
	}
	return coord.Distance(eventItem.Coordinates) <= radius
}

// EnemyInMyFiringRangePredicate:
// R.id != E.id AND !E.is_obstacle AND E.player != R.player AND
// ||R.coord - E.coord|| - E.size/2 <= R.firing_range.
func EnemyInMyFiringRangePredicate(_ Subscription, eventItem *battle.FightItem, receiver *battle.FightItem) bool {
	if receiver.ID == eventItem.ID {
		return false
	}
	if eventItem.IsObstacle() {
		return false
	}
	if eventItem.PlayerID == receiver.PlayerID {
		return false
	}
	dist := receiver.Coordinates.Distance(eventItem.Coordinates) - float64(eventItem.Size)/2
	return dist <= receiver.FiringRange
}

// TheItemOutMyFiringRangePredicate:
// s.data.item_id == E.id AND ||R.coord - E.coord|| - E.size/2 > R.firing_range,
// i.e. strict greater-than.
func TheItemOutMyFiringRangePredicate(sub Subscription, eventItem *battle.FightItem, receiver *battle.FightItem) bool {
	itemID, ok := sub.Data["item_id"]
	if !ok || toUint64(itemID) != eventItem.ID {
		return false
	}
	dist := receiver.Coordinates.Distance(eventItem.Coordinates) - float64(eventItem.Size)/2
	return dist > receiver.FiringRange
}

func toUint64(v any) uint64 {
	switch n := v.(type) {
	case uint64:
		return n
	case int:
		return uint64(n)
	case int64:
		return uint64(n)
	case float64:
		return uint64(n)
	default:
		return 0
	}
}

// IDDataFunc is shared by death, im_idle, enemy_in_my_firing_range,
// the_item_out_my_firing_range and any_item_in_area dispatches, all of
// which only ever deliver {id: event_item.id}.
var IDDataFunc DataFunc = idData

// AnyItemInAreaData is an alias of IDDataFunc, named for the event it
// serves.
var AnyItemInAreaData DataFunc = idData
