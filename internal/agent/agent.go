// Package agent implements the Item Agent: one per executable FightItem,
// consuming messages from its Env Channel and translating them into Fight
// Handler calls. Each Agent is an independent goroutine that suspends on
// every ReadMessage and mutates shared state only through HandlerPort
// calls, mirroring the per-connection goroutine shape in
// internal/api/websocket.go (one goroutine per client, reading in a loop,
// writes serialized through the owner).
package agent

import (
	"context"
	"log"
	"sync"

	"golang.org/x/time/rate"

	"fight-club/internal/envchannel"
)

// HandlerPort is the non-owning handle an Agent uses to reach the Fight
// Handler: a reference that permits dispatch without extending the
// handler's lifetime. The Fight Handler implements this and is the only
// mutator of the Item Table, World Map and Event Bus; Agents never touch
// those directly.
type HandlerPort interface {
	Select(itemID uint64, fields []envchannel.SelectQuery) []envchannel.SelectResult
	SetAction(itemID uint64, actionName string, data map[string]any) error
	Subscribe(itemID uint64, event string, lookupKey string, data map[string]any) bool
}

// defaultRateLimit and defaultBurst cap how many messages per second a single agent may push
// through set_action/subscribe/select, so one misbehaving player program
// cannot starve the single-threaded tick loop. This wires
// golang.org/x/time/rate here the same way internal/api/ratelimit.go
// wires it per IP.
const (
	defaultRateLimit = rate.Limit(50) // messages/sec
	defaultBurst     = 100
)

// Agent is one Item Agent.
//
// writeMu serializes every write onto channel. Replies to the agent's own
// message loop (select_result/confirm/bad_action) and event deliveries
// triggered asynchronously by the Fight Handler (send_event) both go
// through it, so a single agent's outbound replies stay strictly ordered
// with respect to that agent even though event delivery happens from the
// handler's goroutine rather than the agent's own.
type Agent struct {
	ItemID  uint64
	Code    string
	channel envchannel.Channel
	handler HandlerPort
	limiter *rate.Limiter
	writeMu sync.Mutex
}

// New constructs an Agent. The channel must already be acquired for the
// owning player's environment.
func New(itemID uint64, code string, channel envchannel.Channel, handler HandlerPort) *Agent {
	return &Agent{
		ItemID:  itemID,
		Code:    code,
		channel: channel,
		handler: handler,
		limiter: rate.NewLimiter(defaultRateLimit, defaultBurst),
	}
}

// Run is the Agent's session: run_code, then a receive-loop dispatching
// every message to select/set_action/subscribe. It returns when the
// channel is closed or ctx is cancelled (the match ended or the handler
// is shutting down).
func (a *Agent) Run(ctx context.Context) {
	defer a.channel.Close()

	first, err := a.channel.RunCode(ctx, a.Code)
	if err != nil {
		return
	}
	msg := first
	for {
		if msg.Status != "" && msg.Status != "success" {
			// Not fatal: logged and the loop continues.
			log.Printf("agent %d: run_code status=%q (continuing)", a.ItemID, msg.Status)
		}
		if msg.Method == "" {
			// No method: drop the message silently — except the very
			// first message, which only ever carries Status.
		} else if !a.limiter.Allow() {
			_ = a.channel.BadAction(ctx, errRateLimited)
		} else {
			a.dispatch(ctx, msg)
		}

		msg, err = a.channel.ReadMessage(ctx)
		if err != nil {
			return
		}
	}
}

var errRateLimited = rateLimitError("message rate limit exceeded")

type rateLimitError string

func (e rateLimitError) Error() string { return string(e) }

func (a *Agent) dispatch(ctx context.Context, msg envchannel.Message) {
	switch msg.Method {
	case "select":
		a.methodSelect(ctx, msg)
	case "set_action":
		a.methodSetAction(ctx, msg)
	case "subscribe":
		a.methodSubscribe(ctx, msg)
	default:
		log.Printf("agent %d: unknown method %q", a.ItemID, msg.Method)
	}
}

func (a *Agent) methodSelect(ctx context.Context, msg envchannel.Message) {
	rawFields, _ := msg.Fields["fields"].([]any)
	fields := make([]envchannel.SelectQuery, 0, len(rawFields))
	for _, rf := range rawFields {
		m, ok := rf.(map[string]any)
		if !ok {
			fields = append(fields, envchannel.SelectQuery{})
			continue
		}
		q := envchannel.SelectQuery{}
		if f, ok := m["field"].(string); ok {
			q.Field = f
		}
		if d, ok := m["data"].(map[string]any); ok {
			q.Data = d
		}
		fields = append(fields, q)
	}
	results := a.handler.Select(a.ItemID, fields)
	a.writeMu.Lock()
	defer a.writeMu.Unlock()
	_ = a.channel.SelectResult(ctx, results)
}

func (a *Agent) methodSetAction(ctx context.Context, msg envchannel.Message) {
	actionName, _ := msg.Fields["action"].(string)
	data, _ := msg.Fields["data"].(map[string]any)
	err := a.handler.SetAction(a.ItemID, actionName, data)

	a.writeMu.Lock()
	defer a.writeMu.Unlock()
	if err != nil {
		_ = a.channel.BadAction(ctx, err)
		return
	}
	_ = a.channel.Confirm(ctx)
}

func (a *Agent) methodSubscribe(ctx context.Context, msg envchannel.Message) {
	event, _ := msg.Fields["event"].(string)
	lookupKey, _ := msg.Fields["lookup_key"].(string)
	data, _ := msg.Fields["data"].(map[string]any)
	ok := a.handler.Subscribe(a.ItemID, event, lookupKey, data)

	a.writeMu.Lock()
	defer a.writeMu.Unlock()
	if !ok {
		_ = a.channel.BadAction(ctx, nil)
		return
	}
	_ = a.channel.Confirm(ctx)
}

// DeliverEvent sends a fired subscription to this agent's program via
// send_event. The Fight Handler calls this from its own goroutine, not
// the agent's — writeMu keeps it from interleaving with the agent's own
// replies.
func (a *Agent) DeliverEvent(ctx context.Context, lookupKey string, data map[string]any) error {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()
	return a.channel.SendEvent(ctx, lookupKey, data)
}
