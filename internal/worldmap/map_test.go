package worldmap

import (
	"testing"

	"fight-club/internal/battle"
)

// TestNewEmptyMapAllFree checks that a map with no static items starts
// entirely free.
func TestNewEmptyMapAllFree(t *testing.T) {
	m := New(4, 4, nil)
	grid := m.Grid()
	if len(grid) != 4*battle.GridScale {
		t.Fatalf("grid has %d rows, want %d", len(grid), 4*battle.GridScale)
	}
	for r, row := range grid {
		for c, v := range row {
			if v != Free {
				t.Fatalf("cell (%d,%d) = %d, want Free", r, c, v)
			}
		}
	}
}

// TestNewMapCarvesStaticItems checks that a sized static item occupies
// Occupied cells on construction.
func TestNewMapCarvesStaticItems(t *testing.T) {
	item := &battle.FightItem{
		ID:          1,
		Coordinates: battle.Coord{X: 2, Y: 2},
		Size:        2,
	}
	m := New(4, 4, []*battle.FightItem{item})

	grid := m.Grid()
	occupiedCount := 0
	for _, row := range grid {
		for _, v := range row {
			if v == Occupied {
				occupiedCount++
			}
		}
	}
	side := item.Size * battle.GridScale
	want := side * side
	if occupiedCount != want {
		t.Errorf("occupied cells = %d, want %d", occupiedCount, want)
	}
}

// TestClearFromMapRefillsSquare checks that clearing a dead item's square
// restores exactly the cells it had carved.
func TestClearFromMapRefillsSquare(t *testing.T) {
	item := &battle.FightItem{
		ID:          5,
		Coordinates: battle.Coord{X: 2, Y: 2},
		Size:        2,
	}
	m := New(4, 4, []*battle.FightItem{item})
	hashBefore := m.Hash()

	m.ClearFromMap(5)

	grid := m.Grid()
	for r, row := range grid {
		for c, v := range row {
			if v != Free {
				t.Fatalf("cell (%d,%d) = %d, want Free after clear", r, c, v)
			}
		}
	}
	if m.Hash() == hashBefore {
		t.Error("hash should change after clearing the map")
	}
}

// TestClearFromMapUnknownItemIsNoop checks that clearing an item id never
// carved is a no-op rather than a panic.
func TestClearFromMapUnknownItemIsNoop(t *testing.T) {
	m := New(2, 2, nil)
	before := m.Hash()
	m.ClearFromMap(999)
	if m.Hash() != before {
		t.Error("clearing an unknown item should not change the map hash")
	}
}

// TestIsPointOnMapExcludesBoundary checks that boundary coordinates are not
// considered on the map, matching the Python reference exactly.
func TestIsPointOnMapExcludesBoundary(t *testing.T) {
	m := New(4, 4, nil)
	cases := []struct {
		x, y float64
		want bool
	}{
		{2, 2, true},
		{0, 2, false},
		{4, 2, false},
		{2, 0, false},
		{2, 4, false},
		{-1, 2, false},
	}
	for _, c := range cases {
		if got := m.IsPointOnMap(c.x, c.y); got != c.want {
			t.Errorf("IsPointOnMap(%v, %v) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}

// TestHashChangesWithContent checks that two maps with different occupancy
// produce different hashes, and identical occupancy produces the same hash.
func TestHashChangesWithContent(t *testing.T) {
	empty := New(4, 4, nil)
	occupied := New(4, 4, []*battle.FightItem{
		{ID: 1, Coordinates: battle.Coord{X: 2, Y: 2}, Size: 2},
	})
	if empty.Hash() == occupied.Hash() {
		t.Error("maps with different occupancy should hash differently")
	}

	again := New(4, 4, nil)
	if empty.Hash() != again.Hash() {
		t.Error("two empty maps of the same size should hash identically")
	}
}

// TestSizeReturnsTileDimensions checks that Size reports tile, not grid-cell, dimensions.
func TestSizeReturnsTileDimensions(t *testing.T) {
	m := New(6, 8, nil)
	h, w := m.Size()
	if h != 6 || w != 8 {
		t.Errorf("Size() = (%d, %d), want (6, 8)", h, w)
	}
}
