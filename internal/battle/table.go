package battle

import "sync/atomic"

// idCounter is the process-wide monotonic id source shared by FightItems and
// CraftItems alike. Tests that compare ids literally should construct a
// fresh Table and account for ids already allocated by earlier tests.
var idCounter uint64

// NextID returns the next process-wide monotonic item id.
func NextID() uint64 {
	return atomic.AddUint64(&idCounter, 1)
}

// Table is the item table: a mapping from id to FightItem, plus a
// parallel mapping from id to CraftItem, both keyed off the single shared
// counter. Enumeration preserves insertion order, since the frame tick and
// the nearest-enemy tie-break both depend on it.
type Table struct {
	items     map[uint64]*FightItem
	itemOrder []uint64

	crafts     map[uint64]*CraftItem
	craftOrder []uint64
}

// NewTable creates an empty Item Table.
func NewTable() *Table {
	return &Table{
		items:  make(map[uint64]*FightItem),
		crafts: make(map[uint64]*CraftItem),
	}
}

// AddItem inserts a FightItem, recording insertion order.
func (t *Table) AddItem(item *FightItem) {
	t.items[item.ID] = item
	t.itemOrder = append(t.itemOrder, item.ID)
}

// AddCraft inserts a CraftItem, recording insertion order.
func (t *Table) AddCraft(c *CraftItem) {
	t.crafts[c.ID] = c
	t.craftOrder = append(t.craftOrder, c.ID)
}

// Item looks an item up by id.
func (t *Table) Item(id uint64) (*FightItem, bool) {
	it, ok := t.items[id]
	return it, ok
}

// Craft looks a craft up by id.
func (t *Table) Craft(id uint64) (*CraftItem, bool) {
	c, ok := t.crafts[id]
	return c, ok
}

// Items returns all FightItems in insertion order. Callers must not mutate
// the returned slice.
func (t *Table) Items() []*FightItem {
	out := make([]*FightItem, 0, len(t.itemOrder))
	for _, id := range t.itemOrder {
		if it, ok := t.items[id]; ok {
			out = append(out, it)
		}
	}
	return out
}

// Crafts returns all CraftItems in insertion order.
func (t *Table) Crafts() []*CraftItem {
	out := make([]*CraftItem, 0, len(t.craftOrder))
	for _, id := range t.craftOrder {
		if c, ok := t.crafts[id]; ok {
			out = append(out, c)
		}
	}
	return out
}
