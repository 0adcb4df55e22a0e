package envchannel

import (
	"context"
	"fmt"
	"net/http"
	"sync"
)

// Registry implements fight.EnvProvider over incoming WebSocket
// connections: a player-program sandbox (how it is started is out of
// scope here) dials HandleConnect with its env name in the URL, and the
// first pending
// Acquire for that name claims the connection. This is the seam between
// the core's abstract "Env Channel" and a real out-of-process program —
// the core never learns how the sandbox was started, only that a Channel
// became available.
type Registry struct {
	mu      sync.Mutex
	waiters map[string][]chan *WebSocket
}

// NewRegistry creates an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{waiters: make(map[string][]chan *WebSocket)}
}

// Acquire implements fight.EnvProvider: block until a sandbox dials in
// under envName, or ctx is cancelled.
func (r *Registry) Acquire(ctx context.Context, envName string) (Channel, error) {
	ch := make(chan *WebSocket, 1)
	r.mu.Lock()
	r.waiters[envName] = append(r.waiters[envName], ch)
	r.mu.Unlock()

	select {
	case conn := <-ch:
		return conn, nil
	case <-ctx.Done():
		r.cancelWaiter(envName, ch)
		return nil, ctx.Err()
	}
}

func (r *Registry) cancelWaiter(envName string, ch chan *WebSocket) {
	r.mu.Lock()
	defer r.mu.Unlock()
	waiters := r.waiters[envName]
	for i, w := range waiters {
		if w == ch {
			r.waiters[envName] = append(waiters[:i], waiters[i+1:]...)
			return
		}
	}
}

// HandleConnect upgrades r to a WebSocket Channel and hands it to the
// oldest pending Acquire for envName, or closes the connection if nothing
// is waiting.
func (reg *Registry) HandleConnect(envName string, w http.ResponseWriter, r *http.Request) error {
	conn, err := Accept(w, r)
	if err != nil {
		return fmt.Errorf("envchannel: accept failed: %w", err)
	}

	reg.mu.Lock()
	waiters := reg.waiters[envName]
	if len(waiters) == 0 {
		reg.mu.Unlock()
		conn.Close()
		return fmt.Errorf("envchannel: no pending acquire for env %q", envName)
	}
	ch := waiters[0]
	reg.waiters[envName] = waiters[1:]
	reg.mu.Unlock()

	ch <- conn
	return nil
}
