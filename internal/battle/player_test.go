package battle

import "testing"

// TestPlayerIsReal checks that only non-negative ids count as real combatants.
func TestPlayerIsReal(t *testing.T) {
	real := &Player{ID: 0}
	if !real.IsReal() {
		t.Fatal("player with id 0 should be real")
	}
	neutral := &Player{ID: NeutralPlayerID}
	if neutral.IsReal() {
		t.Fatal("neutral player should not be real")
	}
}

// TestPlayerHasDefeatReason checks membership in the player's defeat reasons.
func TestPlayerHasDefeatReason(t *testing.T) {
	p := &Player{DefeatReasons: []DefeatReason{DefeatUnits, DefeatCenter}}
	if !p.HasDefeatReason(DefeatUnits) {
		t.Fatal("expected DefeatUnits to be present")
	}
	if p.HasDefeatReason(DefeatTime) {
		t.Fatal("did not expect DefeatTime to be present")
	}
}
