package main

import (
	"encoding/json"
	"fmt"
	"os"

	"fight-club/internal/battle"
	"fight-club/internal/fight"
)

// wireDescriptor is the on-disk JSON shape of a battle descriptor. Loading
// battle descriptors from files/CLI/env is out of scope for the simulation
// core; this is the referee entrypoint's own minimal loader, decoding into
// the same field names the program-side JSON boundary already uses.
type wireDescriptor struct {
	IsStream  bool              `json:"is_stream"`
	Players   []wirePlayer      `json:"players"`
	Codes     map[string]string `json:"codes"`
	MapHeight int               `json:"map_height"`
	MapWidth  int               `json:"map_width"`
	Rewards   map[string]any    `json:"rewards"`
	TimeLimit float64           `json:"time_limit"`
	Map       []wireElement     `json:"map"`
}

type wirePlayer struct {
	ID            int      `json:"id"`
	EnvName       string   `json:"env_name"`
	DefeatReasons []string `json:"defeat_reasons"`
}

type wireElement struct {
	Role     string `json:"role"`
	ItemType string `json:"item_type"`
	Alias    string `json:"alias"`
	Level    int    `json:"level"`
	PlayerID int    `json:"player_id"`

	Row int `json:"row"`
	Col int `json:"col"`

	BaseSize int     `json:"base_size"`
	Speed    float64 `json:"speed"`

	StartHitPoints    int     `json:"start_hit_points"`
	RateOfFire        float64 `json:"rate_of_fire"`
	DamagePerShot     float64 `json:"damage_per_shot"`
	FiringRange       float64 `json:"firing_range"`
	AreaDamagePerShot float64 `json:"area_damage_per_shot"`
	AreaDamageRadius  float64 `json:"area_damage_radius"`

	OperatingCode string `json:"operating_code"`

	UnitQuantity int          `json:"unit_quantity"`
	UnitTemplate *wireElement `json:"unit_template"`
}

func loadDescriptor(path string) (fight.Descriptor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fight.Descriptor{}, fmt.Errorf("read descriptor: %w", err)
	}

	var w wireDescriptor
	if err := json.Unmarshal(raw, &w); err != nil {
		return fight.Descriptor{}, fmt.Errorf("parse descriptor: %w", err)
	}

	d := fight.Descriptor{
		IsStream:  w.IsStream,
		Codes:     w.Codes,
		MapHeight: w.MapHeight,
		MapWidth:  w.MapWidth,
		Rewards:   w.Rewards,
		TimeLimit: w.TimeLimit,
	}

	for _, p := range w.Players {
		d.Players = append(d.Players, fight.PlayerDescriptor{
			ID:            p.ID,
			EnvName:       p.EnvName,
			DefeatReasons: toDefeatReasons(p.DefeatReasons),
		})
	}

	for _, el := range w.Map {
		d.MapElements = append(d.MapElements, toElementDescriptor(el))
	}

	return d, nil
}

func toDefeatReasons(raw []string) []battle.DefeatReason {
	out := make([]battle.DefeatReason, len(raw))
	for i, r := range raw {
		out[i] = battle.DefeatReason(r)
	}
	return out
}

func toElementDescriptor(el wireElement) fight.ElementDescriptor {
	out := fight.ElementDescriptor{
		Role:              battle.Role(el.Role),
		ItemType:          el.ItemType,
		Alias:             el.Alias,
		Level:             el.Level,
		PlayerID:          el.PlayerID,
		TilePosition:      battle.TilePos{Row: el.Row, Col: el.Col},
		BaseSize:          el.BaseSize,
		Speed:             el.Speed,
		StartHitPoints:    el.StartHitPoints,
		RateOfFire:        el.RateOfFire,
		DamagePerShot:     el.DamagePerShot,
		FiringRange:       el.FiringRange,
		AreaDamagePerShot: el.AreaDamagePerShot,
		AreaDamageRadius:  el.AreaDamageRadius,
		OperatingCode:     el.OperatingCode,
		UnitQuantity:      el.UnitQuantity,
	}
	if el.UnitTemplate != nil {
		tmpl := toElementDescriptor(*el.UnitTemplate)
		out.UnitTemplate = &tmpl
	}
	return out
}
