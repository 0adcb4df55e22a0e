// Package eventbus implements the Event Bus: a named subscription registry
// that matches and dispatches one-shot events, grounded directly on the
// original reference implementation's EVENTS dict / subscribe / _send_event
// family.
package eventbus

import "fight-club/internal/battle"

// Name is one of the seven event names the bus recognizes.
type Name string

const (
	Death                     Name = "death"
	ImInArea                  Name = "im_in_area"
	AnyItemInArea             Name = "any_item_in_area"
	ImStop                    Name = "im_stop"
	ImIdle                    Name = "im_idle"
	EnemyInMyFiringRange      Name = "enemy_in_my_firing_range"
	TheItemOutMyFiringRange   Name = "the_item_out_my_firing_range"
	UnsubscribeAll            Name = "unsubscribe_all"
)

var knownEvents = map[Name]bool{
	Death:                   true,
	ImInArea:                true,
	AnyItemInArea:           true,
	ImStop:                  true,
	ImIdle:                  true,
	EnemyInMyFiringRange:    true,
	TheItemOutMyFiringRange: true,
}

// Subscription is one registered interest.
type Subscription struct {
	ReceiverID uint64
	LookupKey  string
	Data       map[string]any
}

func (s Subscription) equal(o Subscription) bool {
	if s.ReceiverID != o.ReceiverID || s.LookupKey != o.LookupKey {
		return false
	}
	if len(s.Data) != len(o.Data) {
		return false
	}
	for k, v := range s.Data {
		if ov, ok := o.Data[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Delivery is one fired event ready to hand to a receiver's Env Channel via
// send_event.
type Delivery struct {
	ReceiverID uint64
	LookupKey  string
	Data       map[string]any
}

// Bus is the Event Bus. It holds no lock of its own: every call into it
// is made while the Fight Handler's mutex is held, whether from the tick
// loop or from an agent's request (see internal/fight), so the bus is a
// plain map of slices.
type Bus struct {
	subs map[Name][]Subscription
}

// New creates an empty Event Bus with all seven event lists initialized.
func New() *Bus {
	b := &Bus{subs: make(map[Name][]Subscription)}
	for name := range knownEvents {
		b.subs[name] = nil
	}
	return b
}

// Subscribe implements the subscribe verb:
//   - event_name == "unsubscribe_all" removes every subscription whose
//     receiver is item_id and returns false (no confirmation).
//   - an unknown event name returns false.
//   - an exact-duplicate subscription record returns false.
//   - otherwise the subscription is appended and true is returned.
func (b *Bus) Subscribe(event Name, itemID uint64, lookupKey string, data map[string]any) bool {
	if event == UnsubscribeAll {
		b.UnsubscribeAll(itemID)
		return false
	}
	if !knownEvents[event] {
		return false
	}
	sub := Subscription{ReceiverID: itemID, LookupKey: lookupKey, Data: data}
	for _, existing := range b.subs[event] {
		if existing.equal(sub) {
			return false
		}
	}
	b.subs[event] = append(b.subs[event], sub)
	return true
}

// UnsubscribeAll removes every subscription across every event whose
// receiver is itemID.
func (b *Bus) UnsubscribeAll(itemID uint64) {
	for name, subs := range b.subs {
		kept := subs[:0:0]
		for _, s := range subs {
			if s.ReceiverID != itemID {
				kept = append(kept, s)
			}
		}
		b.subs[name] = kept
	}
}

// Predicate evaluates whether subscription sub should fire for event-item
// eventItem, when examined from receiver's perspective.
type Predicate func(sub Subscription, eventItem *battle.FightItem, receiver *battle.FightItem) bool

// DataFunc builds the payload delivered to the receiver when a predicate
// fires.
type DataFunc func(sub Subscription, eventItem *battle.FightItem, receiver *battle.FightItem) map[string]any

// Dispatch walks a snapshot of event's subscription list, evaluates
// predicate for each against eventItem, and for every match removes the
// subscription (every subscription is one-shot) and appends a Delivery.
// lookup resolves a receiver id to its FightItem; subscriptions whose
// receiver no longer exists are dropped silently.
//
// Subscriptions are examined in insertion order, and since this function
// only ever runs while the Fight Handler's mutex is held, deliveries to
// the same receiver are naturally observed by that receiver's Env Channel
// in the same order.
func (b *Bus) Dispatch(event Name, eventItem *battle.FightItem, lookup func(uint64) (*battle.FightItem, bool), predicate Predicate, data DataFunc) []Delivery {
	subs := b.subs[event]
	if len(subs) == 0 {
		return nil
	}
	snapshot := make([]Subscription, len(subs))
	copy(snapshot, subs)

	var deliveries []Delivery
	var remaining []Subscription
	for _, s := range snapshot {
		receiver, ok := lookup(s.ReceiverID)
		if !ok {
			continue // receiver gone; drop the stale subscription too
		}
		if predicate(s, eventItem, receiver) {
			deliveries = append(deliveries, Delivery{
				ReceiverID: s.ReceiverID,
				LookupKey:  s.LookupKey,
				Data:       data(s, eventItem, receiver),
			})
			continue // one-shot: do not keep
		}
		remaining = append(remaining, s)
	}
	b.subs[event] = remaining
	return deliveries
}
