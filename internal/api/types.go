package api

import "fight-club/internal/battle"

// MatchSnapshot is the read-only view of a running match's current tick, the
// same shape the Fight Handler pushes through send_battle, used
// here for the polling /api/state endpoint.
type MatchSnapshot struct {
	Running         bool               `json:"running"`
	CurrentFrame    uint64             `json:"current_frame"`
	CurrentGameTime float64            `json:"current_game_time"`
	FightItems      []battle.ItemInfo  `json:"fight_items"`
	CraftItems      []battle.CraftInfo `json:"craft_items"`
	Result          *battle.Result     `json:"result,omitempty"`
}

// StartMatchRequest is the request body for POST /api/match/start. The API
// layer does not know how to build a full battle descriptor itself — it
// only forwards this request to a MatchController, which the referee
// entrypoint wires to the real loader.
type StartMatchRequest struct {
	MatchID string `json:"match_id"`
}

// MatchController is the boundary between the HTTP/WebSocket surface and the
// running Fight Handler. cmd/referee supplies the concrete implementation.
type MatchController interface {
	// StartMatch begins a new match, returning an error if one is already
	// running.
	StartMatch(req StartMatchRequest) error
	// Snapshot returns the current match's state. ok is false if no match
	// has ever been started.
	Snapshot() (MatchSnapshot, bool)
	// StopMatch ends the running match, if any.
	StopMatch()
}
