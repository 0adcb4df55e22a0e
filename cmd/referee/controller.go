package main

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"fight-club/internal/api"
	"fight-club/internal/battle"
	"fight-club/internal/config"
	"fight-club/internal/envchannel"
	"fight-club/internal/fight"
)

// refereeController implements api.MatchController, bridging the HTTP/
// WebSocket surface to a real fight.Handler. Only one match runs at a
// time; StartMatch loads a fresh descriptor from descriptorPath and hands
// it to a new Handler, the same one-battle-per-process model // describes (matches don't share state, "Player").
type refereeController struct {
	envs   *envchannel.Registry
	sink   fight.BattleSink
	limits fight.Limits
	match  config.MatchConfig

	descriptorPath string

	mu      sync.Mutex
	current *fight.Handler
	cancel  context.CancelFunc
	done    chan struct{}
}

func newRefereeController(envs *envchannel.Registry, sink fight.BattleSink, limits fight.Limits, match config.MatchConfig, descriptorPath string) *refereeController {
	return &refereeController{
		envs:           envs,
		sink:           sink,
		limits:         limits,
		match:          match,
		descriptorPath: descriptorPath,
	}
}

func (c *refereeController) StartMatch(req api.StartMatchRequest) error {
	c.mu.Lock()
	if c.current != nil {
		select {
		case <-c.done:
			// Previous match finished; fall through to start a new one.
		default:
			c.mu.Unlock()
			return fmt.Errorf("match already running")
		}
	}

	descriptor, err := loadDescriptor(c.descriptorPath)
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("load descriptor: %w", err)
	}
	if descriptor.TimeLimit == 0 {
		descriptor.TimeLimit = c.match.DefaultTimeLimit
	}

	h := fight.New(descriptor, c.envs, c.sink, c.limits, api.FightMetrics{})
	h.SetFrameTiming(time.Duration(c.match.FrameTimeMillis)*time.Millisecond, c.match.GameFrameTime)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	c.current = h
	c.cancel = cancel
	c.done = done
	c.mu.Unlock()

	go func() {
		defer close(done)
		result := h.Run(ctx)
		if result != nil {
			log.Printf("🏆 match %q finished: winner=%d reason=%s", req.MatchID, result.Winner, result.DefeatReason)
		} else {
			log.Printf("🛑 match %q stopped with no winner", req.MatchID)
		}
	}()

	log.Printf("🚩 match %q started", req.MatchID)
	return nil
}

func (c *refereeController) Snapshot() (api.MatchSnapshot, bool) {
	c.mu.Lock()
	h := c.current
	done := c.done
	c.mu.Unlock()

	if h == nil {
		return api.MatchSnapshot{}, false
	}

	frame, gameTime, items, crafts, result := h.Snapshot()

	running := true
	if done != nil {
		select {
		case <-done:
			running = false
		default:
		}
	}

	return api.MatchSnapshot{
		Running:         running,
		CurrentFrame:    frame,
		CurrentGameTime: gameTime,
		FightItems:      nonNilItems(items),
		CraftItems:      nonNilCrafts(crafts),
		Result:          result,
	}, true
}

func (c *refereeController) StopMatch() {
	c.mu.Lock()
	h := c.current
	c.mu.Unlock()
	if h != nil {
		h.Stop()
	}
}

func nonNilItems(items []battle.ItemInfo) []battle.ItemInfo {
	if items == nil {
		return []battle.ItemInfo{}
	}
	return items
}

func nonNilCrafts(crafts []battle.CraftInfo) []battle.CraftInfo {
	if crafts == nil {
		return []battle.CraftInfo{}
	}
	return crafts
}
