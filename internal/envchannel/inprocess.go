package envchannel

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by InProcess methods after Close.
var ErrClosed = errors.New("envchannel: closed")

// Reply is whatever the core sent back to the program side.
type Reply struct {
	Kind    string // "select_result", "confirm", "bad_action", "send_event"
	Results []SelectResult
	Err     error
	Key     string
	Data    map[string]any
}

// InProcess is a Channel backed by Go channels, for embedding a player
// program driver in the same process (tests, and a reference program
// harness). Program-side code calls Program() to get the other end.
type InProcess struct {
	mu     sync.Mutex
	closed bool

	toProgram   chan Reply   // core -> program
	fromProgram chan Message // program -> core

	runOnce  sync.Once
	runCode  string
	runReply chan Message
}

// NewInProcess creates a connected pair; the core side is the returned
// Channel, the program side is obtained via Program().
func NewInProcess() *InProcess {
	return &InProcess{
		toProgram:   make(chan Reply, 16),
		fromProgram: make(chan Message, 16),
		runReply:    make(chan Message, 1),
	}
}

func (c *InProcess) RunCode(ctx context.Context, code string) (Message, error) {
	c.runOnce.Do(func() { c.runCode = code })
	select {
	case msg := <-c.runReply:
		return msg, nil
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

func (c *InProcess) ReadMessage(ctx context.Context) (Message, error) {
	select {
	case msg, ok := <-c.fromProgram:
		if !ok {
			return Message{}, ErrClosed
		}
		return msg, nil
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

func (c *InProcess) SelectResult(ctx context.Context, results []SelectResult) error {
	return c.send(ctx, Reply{Kind: "select_result", Results: results})
}

func (c *InProcess) Confirm(ctx context.Context) error {
	return c.send(ctx, Reply{Kind: "confirm"})
}

func (c *InProcess) BadAction(ctx context.Context, err error) error {
	return c.send(ctx, Reply{Kind: "bad_action", Err: err})
}

func (c *InProcess) SendEvent(ctx context.Context, lookupKey string, data map[string]any) error {
	return c.send(ctx, Reply{Kind: "send_event", Key: lookupKey, Data: data})
}

func (c *InProcess) send(ctx context.Context, r Reply) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.mu.Unlock()
	select {
	case c.toProgram <- r:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *InProcess) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	close(c.toProgram)
	close(c.fromProgram)
	return nil
}

// ProgramSide is the player-program-facing half of an InProcess channel.
type ProgramSide struct {
	core *InProcess
}

// Program returns the program-facing half of this channel pair.
func (c *InProcess) Program() *ProgramSide {
	return &ProgramSide{core: c}
}

// StartRunCode delivers the program's first reply (the response to
// run_code) and unblocks the core's RunCode call.
func (p *ProgramSide) StartRunCode(status string) {
	p.core.runReply <- Message{Status: status}
}

// Send delivers a select/set_action/subscribe message to the core.
func (p *ProgramSide) Send(msg Message) error {
	p.core.mu.Lock()
	if p.core.closed {
		p.core.mu.Unlock()
		return ErrClosed
	}
	p.core.mu.Unlock()
	p.core.fromProgram <- msg
	return nil
}

// Replies exposes the channel of replies sent by the core, for a test
// harness or reference program driver to consume.
func (p *ProgramSide) Replies() <-chan Reply {
	return p.core.toProgram
}
