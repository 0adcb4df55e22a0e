package ipc

import (
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// Publisher implements fight.BattleSink over a Unix socket, broadcasting
// send_battle payloads to any connected out-of-process consumer: a
// ring-buffered send channel with drop-oldest backpressure, fanned out to
// every connected client.
type Publisher struct {
	socketPath string
	listener   net.Listener

	clients   map[net.Conn]struct{}
	clientsMu sync.RWMutex

	payloadCh chan any

	clientCount  int32 // atomic
	payloadsSent int64 // atomic
	dropped      int64 // atomic

	running int32 // atomic
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewPublisher creates a new IPC publisher.
func NewPublisher(socketPath string) *Publisher {
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}

	return &Publisher{
		socketPath: socketPath,
		clients:    make(map[net.Conn]struct{}),
		payloadCh:  make(chan any, 8),
		stopCh:     make(chan struct{}),
	}
}

// Start starts the publisher server.
func (p *Publisher) Start() error {
	if !atomic.CompareAndSwapInt32(&p.running, 0, 1) {
		return nil
	}

	listener, err := CreateListener(p.socketPath)
	if err != nil {
		atomic.StoreInt32(&p.running, 0)
		return err
	}
	p.listener = listener

	p.wg.Add(1)
	go p.acceptLoop()

	p.wg.Add(1)
	go p.broadcastLoop()

	log.Printf("📡 IPC Publisher started on %s", p.socketPath)
	return nil
}

// Stop stops the publisher.
func (p *Publisher) Stop() {
	if !atomic.CompareAndSwapInt32(&p.running, 1, 0) {
		return
	}

	close(p.stopCh)

	if p.listener != nil {
		p.listener.Close()
	}

	p.clientsMu.Lock()
	for conn := range p.clients {
		conn.Close()
	}
	p.clients = make(map[net.Conn]struct{})
	p.clientsMu.Unlock()

	p.wg.Wait()

	CleanupSocket(p.socketPath)
	log.Println("📡 IPC Publisher stopped")
}

// SendBattle implements fight.BattleSink. Non-blocking: drops the oldest
// queued payload if the buffer is full.
func (p *Publisher) SendBattle(payload any) {
	if atomic.LoadInt32(&p.running) == 0 {
		return
	}

	select {
	case p.payloadCh <- payload:
	default:
		select {
		case <-p.payloadCh:
			atomic.AddInt64(&p.dropped, 1)
		default:
		}
		select {
		case p.payloadCh <- payload:
		default:
		}
	}
}

// GetStats returns publisher statistics.
func (p *Publisher) GetStats() (clients int, sent int64, dropped int64) {
	return int(atomic.LoadInt32(&p.clientCount)),
		atomic.LoadInt64(&p.payloadsSent),
		atomic.LoadInt64(&p.dropped)
}

func (p *Publisher) acceptLoop() {
	defer p.wg.Done()

	for atomic.LoadInt32(&p.running) == 1 {
		conn, err := p.listener.Accept()
		if err != nil {
			if atomic.LoadInt32(&p.running) == 0 {
				return
			}
			log.Printf("⚠️ IPC accept error: %v", err)
			continue
		}

		p.addClient(conn)
	}
}

func (p *Publisher) addClient(conn net.Conn) {
	p.clientsMu.Lock()
	p.clients[conn] = struct{}{}
	p.clientsMu.Unlock()

	count := atomic.AddInt32(&p.clientCount, 1)
	log.Printf("✅ Battle consumer connected: %s (total: %d)", conn.RemoteAddr(), count)
}

func (p *Publisher) removeClient(conn net.Conn) {
	p.clientsMu.Lock()
	if _, ok := p.clients[conn]; ok {
		delete(p.clients, conn)
		conn.Close()
		p.clientsMu.Unlock()

		count := atomic.AddInt32(&p.clientCount, -1)
		log.Printf("🔌 Battle consumer disconnected (remaining: %d)", count)
	} else {
		p.clientsMu.Unlock()
	}
}

func (p *Publisher) broadcastLoop() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopCh:
			return

		case payload := <-p.payloadCh:
			p.broadcast(payload)
		}
	}
}

func (p *Publisher) broadcast(payload any) {
	msg := &BattleMessage{Payload: payload}

	p.clientsMu.RLock()
	clients := make([]net.Conn, 0, len(p.clients))
	for conn := range p.clients {
		clients = append(clients, conn)
	}
	p.clientsMu.RUnlock()

	var failed []net.Conn
	for _, conn := range clients {
		conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
		if err := WriteMessage(conn, MsgTypeBattle, msg); err != nil {
			failed = append(failed, conn)
		}
	}

	for _, conn := range failed {
		p.removeClient(conn)
	}

	if len(clients) > 0 && len(failed) < len(clients) {
		atomic.AddInt64(&p.payloadsSent, 1)
	}
}
