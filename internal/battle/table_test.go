package battle

import "testing"

// TestNextIDMonotonic checks that NextID never repeats and always increases.
func TestNextIDMonotonic(t *testing.T) {
	a := NextID()
	b := NextID()
	if b <= a {
		t.Fatalf("NextID() not monotonic: got %d then %d", a, b)
	}
}

// TestTableAddAndLookupItem checks insertion and lookup by id.
func TestTableAddAndLookupItem(t *testing.T) {
	table := NewTable()
	item := &FightItem{ID: 100}
	table.AddItem(item)

	got, ok := table.Item(100)
	if !ok || got != item {
		t.Fatalf("Item(100) = %v, %v; want %v, true", got, ok, item)
	}
	if _, ok := table.Item(999); ok {
		t.Fatal("Item(999) should not be found")
	}
}

// TestTableItemsPreservesInsertionOrder checks that Items() enumerates in
// the order items were added, since selection helpers depend on it.
func TestTableItemsPreservesInsertionOrder(t *testing.T) {
	table := NewTable()
	ids := []uint64{5, 3, 9, 1}
	for _, id := range ids {
		table.AddItem(&FightItem{ID: id})
	}

	items := table.Items()
	if len(items) != len(ids) {
		t.Fatalf("got %d items, want %d", len(items), len(ids))
	}
	for i, item := range items {
		if item.ID != ids[i] {
			t.Errorf("position %d: got id %d, want %d", i, item.ID, ids[i])
		}
	}
}

// TestTableAddAndLookupCraft checks insertion and lookup for craft items.
func TestTableAddAndLookupCraft(t *testing.T) {
	table := NewTable()
	craft := &CraftItem{ID: 42}
	table.AddCraft(craft)

	got, ok := table.Craft(42)
	if !ok || got != craft {
		t.Fatalf("Craft(42) = %v, %v; want %v, true", got, ok, craft)
	}

	crafts := table.Crafts()
	if len(crafts) != 1 || crafts[0] != craft {
		t.Fatalf("Crafts() = %v, want [%v]", crafts, craft)
	}
}
