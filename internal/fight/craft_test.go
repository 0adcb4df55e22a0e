package fight

import (
	"testing"

	"fight-club/internal/battle"
)

// TestSpawnCraftUnpacksUnits checks that spawning a craft with a unit
// template produces one unit descriptor per requested unit, each with the
// unit role and the craft's player id, and registers the craft.
func TestSpawnCraftUnpacksUnits(t *testing.T) {
	h := &Handler{mapHeight: 10, mapWidth: 10, table: battle.NewTable()}
	template := ElementDescriptor{ItemType: "soldier", BaseSize: 1, StartHitPoints: 10}
	el := ElementDescriptor{
		Role:         battle.RoleCraft,
		PlayerID:     0,
		UnitQuantity: 3,
		UnitTemplate: &template,
	}

	units := h.spawnCraft(el)
	if len(units) != 3 {
		t.Fatalf("got %d units, want 3", len(units))
	}
	for _, u := range units {
		if u.Role != battle.RoleUnit {
			t.Errorf("unpacked unit has role %q, want unit", u.Role)
		}
		if u.PlayerID != 0 {
			t.Errorf("unpacked unit player id = %d, want 0", u.PlayerID)
		}
	}
	if len(h.table.Crafts()) != 1 {
		t.Fatalf("got %d crafts registered, want 1", len(h.table.Crafts()))
	}
}

// TestSpawnCraftRegistersCraftItem checks that spawning a craft through a
// fully constructed Handler registers exactly one CraftItem.
func TestSpawnCraftRegistersCraftItem(t *testing.T) {
	d := Descriptor{
		MapHeight: 10,
		MapWidth:  10,
		Players:   []PlayerDescriptor{{ID: 0}},
		MapElements: []ElementDescriptor{
			{
				Role:         battle.RoleCraft,
				PlayerID:     0,
				UnitQuantity: 2,
				UnitTemplate: &ElementDescriptor{ItemType: "soldier", BaseSize: 1, StartHitPoints: 5},
			},
		},
	}
	h := New(d, nil, nil, DefaultLimits, nil)

	crafts := h.table.Crafts()
	if len(crafts) != 1 {
		t.Fatalf("got %d crafts, want 1", len(crafts))
	}
	units := h.table.Items()
	if len(units) != 2 {
		t.Fatalf("got %d spawned units, want 2", len(units))
	}
}

// TestSpawnCraftWithoutTemplateReturnsNoUnits checks that a craft with no
// unit template registers itself but unpacks nothing.
func TestSpawnCraftWithoutTemplateReturnsNoUnits(t *testing.T) {
	h := &Handler{mapHeight: 10, mapWidth: 10, table: battle.NewTable()}
	el := ElementDescriptor{Role: battle.RoleCraft, PlayerID: 0, UnitQuantity: 5}
	units := h.spawnCraft(el)
	if units != nil {
		t.Fatalf("expected no units without a template, got %d", len(units))
	}
}

// TestPickFreeCraftColumnEnforcesMinimumSpacing checks that craft columns
// within the exclusion radius of an already-spawned craft are rejected.
func TestPickFreeCraftColumnEnforcesMinimumSpacing(t *testing.T) {
	h := &Handler{mapWidth: 8, craftColumns: []int{3}}
	for i := 0; i < 50; i++ {
		col, ok := h.pickFreeCraftColumn()
		if !ok {
			t.Fatal("expected a free column to exist")
		}
		d := col - 3
		if d < 0 {
			d = -d
		}
		if d <= 2 {
			t.Fatalf("picked column %d, too close to existing craft column 3", col)
		}
	}
}

// TestPickFreeCraftColumnNoneAvailable checks that a fully-occupied column
// range is reported as unavailable rather than looping forever.
func TestPickFreeCraftColumnNoneAvailable(t *testing.T) {
	h := &Handler{mapWidth: 3, craftColumns: []int{1}}
	// columns in [1,3) are {1, 2}; both within distance 2 of 1.
	if _, ok := h.pickFreeCraftColumn(); ok {
		t.Fatal("expected no free column to be available")
	}
}
