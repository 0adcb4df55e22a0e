package fight

import (
	"context"
	"log"
	"math"
	"sync"
	"time"

	"fight-club/internal/action"
	"fight-club/internal/agent"
	"fight-club/internal/battle"
	"fight-club/internal/eventbus"
	"fight-club/internal/worldmap"
)

// FrameTime is the real-time interval between ticks ("FRAME_TIME", default
// 0.1s).
const FrameTime = 100 * time.Millisecond

// GameFrameTime is the simulated-clock advance per tick ("GAME_FRAME_TIME",
// default 0.1).
const GameFrameTime = 0.1

// Handler is the Fight Handler.
//
// Concurrency note: the reference model is single-threaded cooperative —
// no two tasks mutate shared state simultaneously, because all mutations
// happen inside a synchronous callback. This repo's Item Agents are real
// goroutines instead, which is fine as long as ordering guarantees hold, so
// the single critical section is realized with mu: every call that mutates
// Table/Map/Bus — the tick loop and every agent-originated Select/
// SetAction/Subscribe — takes mu for its duration, the same single-mutex
// pattern a renderer's Engine uses for its own state.
type Handler struct {
	mu sync.Mutex

	table    *battle.Table
	players  map[int]*battle.Player
	playerIDs []int
	codes    map[string]string

	worldMap *worldmap.Map
	bus      *eventbus.Bus

	mapHeight    int
	mapWidth     int
	craftColumns []int

	factories  map[uint64]action.Factory
	newFactory action.NewFactoryFunc

	agents      map[uint64]*agent.Agent
	agentCancel map[uint64]context.CancelFunc

	envs    EnvProvider
	sink    BattleSink
	metrics Metrics

	log       *battle.Log
	limits    Limits
	isStream  bool
	rewards   map[string]any
	timeLimit float64

	currentFrame    uint64
	currentGameTime float64
	result          *battle.Result

	frameTime     time.Duration
	gameFrameTime float64

	stopCh chan struct{}
	doneCh chan struct{}
}

// SetFrameTiming overrides the tick timing set by New's defaults
// (FRAME_TIME/GAME_FRAME_TIME, configurable via MatchConfig). Must be
// called before Run.
func (h *Handler) SetFrameTiming(frameTime time.Duration, gameFrameTime float64) {
	h.frameTime = frameTime
	h.gameFrameTime = gameFrameTime
}

// New constructs a Handler from a battle Descriptor. Agents are not
// launched here; call Run to start the match.
func New(d Descriptor, envs EnvProvider, sink BattleSink, limits Limits, metrics Metrics) *Handler {
	h := &Handler{
		table:       battle.NewTable(),
		players:     make(map[int]*battle.Player),
		codes:       d.Codes,
		bus:         eventbus.New(),
		factories:   make(map[uint64]action.Factory),
		agents:      make(map[uint64]*agent.Agent),
		agentCancel: make(map[uint64]context.CancelFunc),
		envs:        envs,
		sink:        sink,
		metrics:     metrics,
		log:         battle.NewLog(),
		limits:      limits,
		isStream:    d.IsStream,
		rewards:     d.Rewards,
		timeLimit:   d.TimeLimit,
		newFactory:    action.NewBuiltinFactory,
		frameTime:     FrameTime,
		gameFrameTime: GameFrameTime,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}

	// Register the neutral owner of obstacles.
	h.addPlayer(&battle.Player{ID: battle.NeutralPlayerID})
	for _, p := range d.Players {
		h.addPlayer(&battle.Player{ID: p.ID, EnvName: p.EnvName, DefeatReasons: p.DefeatReasons})
	}

	h.mapHeight = d.MapHeight
	h.mapWidth = d.MapWidth

	var staticItems []*battle.FightItem
	for _, el := range d.MapElements {
		if el.Role == battle.RoleCraft {
			units := h.spawnCraft(el)
			for _, u := range units {
				item := h.buildFightItem(u)
				staticItems = append(staticItems, item)
			}
			continue
		}
		item := h.buildFightItem(el)
		staticItems = append(staticItems, item)
	}

	h.worldMap = worldmap.New(d.MapHeight, d.MapWidth, staticItems)
	h.logInitialState()
	return h
}

func (h *Handler) addPlayer(p *battle.Player) {
	h.players[p.ID] = p
	h.playerIDs = append(h.playerIDs, p.ID)
}

// buildFightItem does Start's per-element construction: compute
// coordinates, reduce size by CutFromBuilding, build the item and register
// it (and its Action Factory) in the table.
func (h *Handler) buildFightItem(el ElementDescriptor) *battle.FightItem {
	size := el.BaseSize - battle.CutFromBuilding
	if size < 0 {
		size = 0
	}
	coord := battle.Coord{
		X: round6(float64(el.TilePosition.Row) + float64(size)/2),
		Y: round6(float64(el.TilePosition.Col) + float64(size)/2),
	}

	item := &battle.FightItem{
		ID:                battle.NextID(),
		PlayerID:          el.PlayerID,
		Role:              el.Role,
		ItemType:          el.ItemType,
		Alias:             el.Alias,
		Level:             el.Level,
		TilePosition:      el.TilePosition,
		Coordinates:       coord,
		BaseSize:          el.BaseSize,
		Size:              size,
		Speed:             el.Speed,
		StartHitPoints:    el.StartHitPoints,
		HitPoints:         el.StartHitPoints,
		RateOfFire:        el.RateOfFire,
		DamagePerShot:     el.DamagePerShot,
		FiringRange:       el.FiringRange,
		AreaDamagePerShot: el.AreaDamagePerShot,
		AreaDamageRadius:  el.AreaDamageRadius,
		OperatingCode:     el.OperatingCode,
		State:             battle.ItemState{Action: battle.StatusIdle},
		CreatedAtTick:     h.currentFrame,
	}
	h.table.AddItem(item)
	h.factories[item.ID] = h.newFactory(item, h)
	return item
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// ItemByID implements action.World (read-only lookup for action
// implementations).
func (h *Handler) ItemByID(id uint64) (*battle.FightItem, bool) {
	return h.table.Item(id)
}

// IsPointOnMap implements action.World.
func (h *Handler) IsPointOnMap(x, y float64) bool {
	return h.worldMap.IsPointOnMap(x, y)
}

// ItemsInRadius implements action.World.
func (h *Handler) ItemsInRadius(center battle.Coord, radius float64, excludeID uint64) []*battle.FightItem {
	var out []*battle.FightItem
	for _, item := range h.table.Items() {
		if item.ID == excludeID || item.IsDead() {
			continue
		}
		if item.Coordinates.Distance(center) <= radius {
			out = append(out, item)
		}
	}
	return out
}

// Run starts every executable item's Agent and the frame ticker, blocking
// until the match finishes or ctx is cancelled. The battle log is always
// flushed before returning — a deferred call stands in for what would be a
// process-exit teardown hook in a script-style referee.
func (h *Handler) Run(ctx context.Context) *battle.Result {
	defer h.sendFullLog()

	agentCtx, cancelAgents := context.WithCancel(ctx)
	defer cancelAgents()
	h.startAgents(agentCtx)

	ticker := time.NewTicker(h.frameTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return h.result
		case <-h.stopCh:
			return h.result
		case <-ticker.C:
			if done := h.computeFrame(); done {
				return h.result
			}
		}
	}
}

// Stop ends the match immediately, as if a defeat predicate had just
// matched with no winner recorded — for an owning referee process that
// needs to abort a match early. Safe to call more than once.
func (h *Handler) Stop() {
	select {
	case <-h.stopCh:
	default:
		close(h.stopCh)
	}
}

// startAgents launches one Agent per executable FightItem.
func (h *Handler) startAgents(ctx context.Context) {
	for _, item := range h.table.Items() {
		if !item.IsExecutable() {
			continue
		}
		if len(h.agents) >= h.limits.MaxAgents {
			log.Printf("fight: max agents reached, item %d will not run", item.ID)
			continue
		}
		player := h.players[item.PlayerID]
		if player == nil {
			continue
		}
		channel, err := h.envs.Acquire(ctx, player.EnvName)
		if err != nil {
			log.Printf("fight: could not acquire environment for player %d: %v", player.ID, err)
			continue
		}
		a := agent.New(item.ID, h.codes[item.OperatingCode], channel, h)
		itemCtx, cancel := context.WithCancel(ctx)
		h.agents[item.ID] = a
		h.agentCancel[item.ID] = cancel
		go a.Run(itemCtx)
	}
	if h.metrics != nil {
		h.metrics.UpdateActiveAgents(len(h.agents))
	}
}

// computeFrame runs one frame tick. It returns true when the match has
// ended.
func (h *Handler) computeFrame() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	start := time.Now()
	defer func() {
		if h.metrics != nil {
			h.metrics.RecordTick(time.Since(start).Seconds())
			h.metrics.UpdateItemCount(len(h.table.Items()))
		}
	}()

	h.sendFrame()
	h.currentFrame++
	h.currentGameTime = round6(h.currentGameTime + h.gameFrameTime)

	wasDead := make(map[uint64]bool)
	for _, item := range h.table.Items() {
		wasDead[item.ID] = item.IsDead()
	}

	for _, item := range h.table.Items() {
		if item.IsDead() {
			continue
		}
		if item.Action == nil {
			h.setStateIdle(item)
			continue
		}
		h.doFrameAction(item)
	}

	// Death propagation: any item whose hit points crossed to zero or
	// below during this tick (whether from its own action or from being
	// another item's attack target) dies now, exactly once. Death is
	// one-way.
	for _, item := range h.table.Items() {
		if !wasDead[item.ID] && item.IsDead() {
			h.setStateDead(item)
		}
	}

	if winner, result := h.checkVictory(); winner {
		h.result = result
		h.sendFrame()
		return true
	}
	return false
}

// Snapshot returns the current tick number, simulated game time, the
// live item/craft lists, and the match result if the battle has ended.
// Safe to call concurrently with Run.
func (h *Handler) Snapshot() (frame uint64, gameTime float64, items []battle.ItemInfo, crafts []battle.CraftInfo, result *battle.Result) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, item := range h.table.Items() {
		items = append(items, item.Info())
	}
	for _, c := range h.table.Crafts() {
		crafts = append(crafts, c.Info())
	}
	return h.currentFrame, h.currentGameTime, items, crafts, h.result
}

// doFrameAction runs the per-frame action hook: invoke the item's Action
// Factory, replace its state, and on ActionValidateError fall back to
// idle. Coordinate changes are detected by comparison so range events fire
// exactly when an item's coordinates actually change.
func (h *Handler) doFrameAction(item *battle.FightItem) {
	before := item.Coordinates
	factory := h.factories[item.ID]
	state, err := factory.DoAction(item.Action)
	if err != nil {
		h.setStateIdle(item)
		return
	}
	item.State = state
	if item.Coordinates != before {
		h.sendRangeEvents(item)
	}
	if state.Action == battle.StatusStop {
		h.sendImStop(item)
	}
}
