package worldmap

import "testing"

// TestBuildGraphNeighborsFreeCellsOnly checks that Neighbors only returns
// in-bounds, free cells, in the fixed up/down/left/right order.
func TestBuildGraphNeighborsFreeCellsOnly(t *testing.T) {
	grid := [][]int{
		{Free, Occupied, Free},
		{Free, Free, Free},
		{Free, Occupied, Free},
	}
	g := buildGraph(grid)

	neighbors := g.Neighbors(1, 1)
	want := []CellPos{{Row: 0, Col: 1}, {Row: 2, Col: 1}, {Row: 1, Col: 0}, {Row: 1, Col: 2}}
	// Row 0,1 and Row 2,1 are Occupied, so only left/right should remain.
	var gotFree []CellPos
	for _, w := range want {
		if g.IsFree(w.Row, w.Col) {
			gotFree = append(gotFree, w)
		}
	}
	if len(neighbors) != len(gotFree) {
		t.Fatalf("Neighbors(1,1) = %v, want cells matching free set %v", neighbors, gotFree)
	}
}

// TestGraphIsFreeOutOfBounds checks that out-of-bounds cells are never free.
func TestGraphIsFreeOutOfBounds(t *testing.T) {
	grid := [][]int{{Free}}
	g := buildGraph(grid)
	if g.IsFree(-1, 0) {
		t.Fatal("negative row should not be free")
	}
	if g.IsFree(0, 1) {
		t.Fatal("out of bounds column should not be free")
	}
	if !g.IsFree(0, 0) {
		t.Fatal("(0,0) should be free")
	}
}
