package envchannel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocket is a Channel backed by a gorilla/websocket connection, for a
// player program running as a separate (sandboxed) process. Framing and
// upgrade handling are adapted from the spectator hub in internal/api —
// generalized here from one-hub-broadcasts-to-many-spectators into one
// socket per Item Agent, each carrying the run_code/select_result/
// confirm/bad_action/send_event protocol.
type WebSocket struct {
	conn *websocket.Conn
}

// Upgrader is the upgrader for player-program sockets. Unlike the spectator
// hub in internal/api/websocket.go it makes no origin check, and its
// buffer sizes suit the small JSON control messages this protocol
// exchanges rather than game-state broadcasts.
var Upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// Every origin is accepted.
		return true
	},
}

// Accept upgrades an incoming HTTP request to a WebSocket-backed Channel.
func Accept(w http.ResponseWriter, r *http.Request) (*WebSocket, error) {
	conn, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, fmt.Errorf("envchannel: upgrade failed: %w", err)
	}
	return &WebSocket{conn: conn}, nil
}

// wireMessage is the JSON envelope exchanged over the socket, matching
// message shapes.
type wireMessage struct {
	Status string         `json:"status,omitempty"`
	Method string         `json:"method,omitempty"`
	Action string         `json:"action,omitempty"`
	Data   any            `json:"data,omitempty"`
	Fields map[string]any `json:"-"`
}

const writeTimeout = 2 * time.Second

func (c *WebSocket) RunCode(ctx context.Context, code string) (Message, error) {
	if err := c.writeJSON(map[string]any{"method": "run_code", "code": code}); err != nil {
		return Message{}, err
	}
	return c.ReadMessage(ctx)
}

func (c *WebSocket) ReadMessage(ctx context.Context) (Message, error) {
	type raw = map[string]any
	var r raw
	if err := c.conn.ReadJSON(&r); err != nil {
		return Message{}, fmt.Errorf("envchannel: read failed: %w", err)
	}
	msg := Message{Fields: r}
	if s, ok := r["status"].(string); ok {
		msg.Status = s
	}
	if m, ok := r["method"].(string); ok {
		msg.Method = m
	}
	return msg, nil
}

func (c *WebSocket) SelectResult(ctx context.Context, results []SelectResult) error {
	payload := make([]map[string]any, len(results))
	for i, r := range results {
		if r.Error != "" {
			payload[i] = map[string]any{"error": r.Error}
		} else {
			payload[i] = map[string]any{"data": r.Data}
		}
	}
	return c.writeJSON(map[string]any{"status": 200, "data": payload})
}

func (c *WebSocket) Confirm(ctx context.Context) error {
	return c.writeJSON(map[string]any{"status": 200})
}

func (c *WebSocket) BadAction(ctx context.Context, err error) error {
	msg := map[string]any{"status": 400}
	if err != nil {
		msg["data"] = map[string]any{"error": err.Error()}
	}
	return c.writeJSON(msg)
}

func (c *WebSocket) SendEvent(ctx context.Context, lookupKey string, data map[string]any) error {
	return c.writeJSON(map[string]any{
		"action":     "event",
		"lookup_key": lookupKey,
		"data":       data,
	})
}

func (c *WebSocket) Close() error {
	return c.conn.Close()
}

func (c *WebSocket) writeJSON(v any) error {
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("envchannel: marshal failed: %w", err)
	}
	return c.conn.WriteMessage(websocket.TextMessage, b)
}
