package fight

import "fight-club/internal/battle"

// StreamingFrame is the wire shape sent once per tick over send_battle
// when is_stream is true.
type StreamingFrame struct {
	IsStream        bool                  `json:"is_stream"`
	Status          map[string]any        `json:"status"`
	FightItems      []battle.ItemInfo     `json:"fight_items"`
	CraftItems      []battle.CraftInfo    `json:"craft_items"`
	MapSize         [2]int                `json:"map_size"`
	MapGrid         [][]int               `json:"map_grid"`
	CurrentFrame    uint64                `json:"current_frame"`
	CurrentGameTime float64               `json:"current_game_time"`
}

// logInitialState populates the battle log's initial section once at
// Start from the items and crafts already in the table.
func (h *Handler) logInitialState() {
	for _, item := range h.table.Items() {
		entry := battle.InitialItem{
			ID:           item.ID,
			PlayerID:     item.PlayerID,
			Role:         item.Role,
			ItemType:     item.ItemType,
			TilePosition: item.TilePosition,
		}
		if item.Role == battle.RoleUnit {
			h.log.Initial.Units = append(h.log.Initial.Units, entry)
		} else {
			h.log.Initial.Buildings = append(h.log.Initial.Buildings, entry)
		}
	}
	for _, c := range h.table.Crafts() {
		h.log.Initial.Crafts = append(h.log.Initial.Crafts, battle.InitialCraft{
			ID:       c.ID,
			PlayerID: c.PlayerID,
			TilePosition: battle.TilePos{
				Row: int(c.Coordinates.X),
				Col: int(c.Coordinates.Y),
			},
		})
	}
}

// sendFrame appends this tick's per-item snapshot to the battle log
// (skipping obstacles, which never appear in the log's per-frame section),
// and when is_stream is set, additionally pushes the full streaming frame
// payload — including obstacles — to the battle sink.
func (h *Handler) sendFrame() {
	items := h.table.Items()
	entries := make([]battle.SnapshotEntry, 0, len(items))
	for _, item := range items {
		if item.IsObstacle() {
			continue
		}
		entries = append(entries, item.Snapshot())
	}
	h.log.Frames = append(h.log.Frames, battle.FrameSnapshot{
		CurrentFrame:    h.currentFrame,
		CurrentGameTime: h.currentGameTime,
		Items:           entries,
	})

	if !h.isStream || h.sink == nil {
		return
	}

	fightInfos := make([]battle.ItemInfo, 0, len(items))
	for _, item := range items {
		fightInfos = append(fightInfos, item.Info())
	}
	crafts := h.table.Crafts()
	craftInfos := make([]battle.CraftInfo, 0, len(crafts))
	for _, c := range crafts {
		craftInfos = append(craftInfos, c.Info())
	}

	h.sink.SendBattle(StreamingFrame{
		IsStream:        true,
		Status:          map[string]any{},
		FightItems:      fightInfos,
		CraftItems:      craftInfos,
		MapSize:         [2]int{h.mapHeight, h.mapWidth},
		MapGrid:         h.worldMap.Grid(),
		CurrentFrame:    h.currentFrame,
		CurrentGameTime: h.currentGameTime,
	})
}

// sendFullLog runs the teardown hook: once, at the end of the match, push
// the three-section Battle Log to the sink.
func (h *Handler) sendFullLog() {
	h.mu.Lock()
	h.log.Result = h.result
	log := *h.log
	h.mu.Unlock()

	if h.sink != nil {
		h.sink.SendBattle(log)
	}
}
