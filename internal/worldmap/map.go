// Package worldmap implements the battlefield's shared state: a boolean
// occupancy grid, its 64-bit hash, and the adjacency graph derived from it.
// Construction and the single mutator follow the original reference
// implementation's create_map / clear_from_map / hash_grid / create_route_graph
// translated into Go; the RWMutex-guarded shared grid, rebuilt on every
// mutation, follows the locking pattern used elsewhere in this repo for
// shared simulation state.
package worldmap

import (
	"sync"

	"fight-club/internal/battle"
)

// Free and Occupied are the two cell states.
const (
	Free     = 1
	Occupied = 0
)

// Map is the World Map: an H*GridScale x W*GridScale grid of 0/1 cells, its
// content hash, and the 4-neighbor adjacency graph of free cells.
type Map struct {
	mu sync.RWMutex

	height, width int // in tiles, not grid cells
	grid          [][]int

	hash  uint64
	graph *Graph

	// occupants tracks which grid square each sized item currently holds,
	// so clear_from_map can refill exactly what create_map carved.
	occupants map[uint64]square
}

type square struct {
	topRow, topCol int
	side           int
}

// New builds the grid for the given map size and initial set of sized,
// static items, then computes the adjacency graph and hash.
func New(height, width int, items []*battle.FightItem) *Map {
	m := &Map{
		height:    height,
		width:     width,
		occupants: make(map[uint64]square),
	}
	m.grid = make([][]int, height*battle.GridScale)
	for r := range m.grid {
		m.grid[r] = make([]int, width*battle.GridScale)
		for c := range m.grid[r] {
			m.grid[r][c] = Free
		}
	}
	for _, it := range items {
		if it.Size <= 0 {
			continue
		}
		m.carve(it.ID, it.Coordinates, it.Size)
	}
	m.recompute()
	return m
}

// carve writes a size*GridScale square of Occupied cells centered on coord,
// and remembers the square so it can later be refilled.
func (m *Map) carve(id uint64, coord battle.Coord, size int) {
	side := size * battle.GridScale
	if side <= 0 {
		return
	}
	centerRow := int(coord.X * battle.GridScale)
	centerCol := int(coord.Y * battle.GridScale)
	topRow := centerRow - side/2
	topCol := centerCol - side/2

	m.fillSquare(topRow, topCol, side, Occupied)
	m.occupants[id] = square{topRow: topRow, topCol: topCol, side: side}
}

func (m *Map) fillSquare(topRow, topCol, side, value int) {
	for r := topRow; r < topRow+side; r++ {
		if r < 0 || r >= len(m.grid) {
			continue
		}
		row := m.grid[r]
		for c := topCol; c < topCol+side; c++ {
			if c < 0 || c >= len(row) {
				continue
			}
			row[c] = value
		}
	}
}

// ClearFromMap is the World Map's single mutator: it refills the item's
// square with Free cells, then recomputes the graph and hash. Called when
// a sized item dies.
func (m *Map) ClearFromMap(itemID uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sq, ok := m.occupants[itemID]
	if !ok {
		return
	}
	m.fillSquare(sq.topRow, sq.topCol, sq.side, Free)
	delete(m.occupants, itemID)
	m.recompute()
}

// recompute rebuilds the adjacency graph and the content hash. Must be
// called with mu held.
func (m *Map) recompute() {
	m.graph = buildGraph(m.grid)
	m.hash = hashGrid(m.grid)
}

// IsPointOnMap reports whether (x, y) lies strictly inside the map bounds.
// Boundary cells (x == 0, x == height, etc.) are deliberately NOT on the
// map — this mirrors the original reference implementation exactly; see
// DESIGN.md for why this repo keeps that behavior rather than "fixing" it.
func (m *Map) IsPointOnMap(x, y float64) bool {
	return x > 0 && x < float64(m.height) && y > 0 && y < float64(m.width)
}

// Hash returns the current 64-bit content fingerprint.
func (m *Map) Hash() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hash
}

// Graph returns the current adjacency graph. The builtin action factory
// does not read it; the World Map never plans paths itself.
func (m *Map) Graph() *Graph {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.graph
}

// Grid returns a copy of the occupancy grid, for the streaming snapshot
// payload.
func (m *Map) Grid() [][]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([][]int, len(m.grid))
	for i, row := range m.grid {
		cp := make([]int, len(row))
		copy(cp, row)
		out[i] = cp
	}
	return out
}

// Size returns the map's dimensions in tiles.
func (m *Map) Size() (height, width int) {
	return m.height, m.width
}
