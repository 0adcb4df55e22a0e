package fight

import (
	"context"
	"log"

	"fight-club/internal/battle"
	"fight-club/internal/eventbus"
)

// This file wires the Event Bus dispatch triggers to the Fight Handler's
// state transitions: death, stop, idle, and the four range-sensitive
// events.

// setStateIdle sets the item's state to idle and fires im_idle.
func (h *Handler) setStateIdle(item *battle.FightItem) {
	item.State = battle.ItemState{Action: battle.StatusIdle}
	h.dispatch(eventbus.ImIdle, item, eventbus.ImIdlePredicate, eventbus.IDDataFunc)
}

// setStateDead clears the item from the map if it had size, marks it
// dead, and fires the death event. Death is one-way: the item's id
// remains valid for lookup.
func (h *Handler) setStateDead(item *battle.FightItem) {
	if item.Size > 0 {
		h.worldMap.ClearFromMap(item.ID)
	}
	item.State = battle.ItemState{Action: battle.StatusDead}
	h.dispatch(eventbus.Death, item, eventbus.DeathPredicate, eventbus.IDDataFunc)
}

// sendImStop fires im_stop when an item's action step reports a stopped
// status.
func (h *Handler) sendImStop(item *battle.FightItem) {
	h.dispatch(eventbus.ImStop, item, eventbus.ImIdlePredicate, eventbus.ImStopData)
}

// sendRangeEvents fires the four range-sensitive events whenever an
// item's coordinates change, in a fixed order: enemy_in_my_firing_range,
// the_item_out_my_firing_range, im_in_area, any_item_in_area — preserved
// exactly, since two of these could otherwise fire for the same receiver
// in a different relative order.
func (h *Handler) sendRangeEvents(item *battle.FightItem) {
	h.dispatch(eventbus.EnemyInMyFiringRange, item, eventbus.EnemyInMyFiringRangePredicate, eventbus.IDDataFunc)
	h.dispatch(eventbus.TheItemOutMyFiringRange, item, eventbus.TheItemOutMyFiringRangePredicate, eventbus.IDDataFunc)
	h.dispatch(eventbus.ImInArea, item, eventbus.ImInAreaPredicate, eventbus.ImInAreaData)
	h.dispatch(eventbus.AnyItemInArea, item, eventbus.AnyItemInAreaPredicate, eventbus.AnyItemInAreaData)
}

// dispatch runs the Event Bus and immediately delivers every match to its
// receiver's Env Channel via send_event, preserving per-receiver ordering:
// deliveries happen here, synchronously, in the same order Bus.Dispatch
// returned them, and since this always runs inside the handler's single
// mutex-held critical section, no other dispatch can interleave with it.
func (h *Handler) dispatch(name eventbus.Name, item *battle.FightItem, pred eventbus.Predicate, data eventbus.DataFunc) {
	deliveries := h.bus.Dispatch(name, item, h.table.Item, pred, data)
	for _, d := range deliveries {
		h.sendEventTo(d.ReceiverID, d.LookupKey, d.Data)
	}
	if h.metrics != nil && len(deliveries) > 0 {
		h.metrics.RecordEventDispatch(string(name))
	}
}

// sendEventTo delivers one event to a receiver's Agent, if it is running.
// A receiver whose Agent never started (not executable) or has finished
// simply has no channel to deliver to. This runs synchronously, inside the
// tick's single critical section, so deliveries to the same receiver are
// observed in exactly the order Bus.Dispatch produced them.
func (h *Handler) sendEventTo(receiverID uint64, lookupKey string, data map[string]any) {
	a, ok := h.agents[receiverID]
	if !ok {
		return
	}
	if err := a.DeliverEvent(context.Background(), lookupKey, data); err != nil {
		log.Printf("fight: send_event to item %d failed: %v", receiverID, err)
	}
}
