package ipc

import (
	"io"
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// Subscriber receives send_battle payloads from the referee via Unix
// socket, for an out-of-process spectator/logging consumer.
type Subscriber struct {
	socketPath string
	conn       net.Conn
	connMu     sync.Mutex

	latestPayload atomic.Value // any

	payloadsReceived int64 // atomic
	reconnects       int64 // atomic
	errors           int64 // atomic

	running int32 // atomic
	stopCh  chan struct{}
	wg      sync.WaitGroup

	onPayload    func(any)
	onConnect    func()
	onDisconnect func()
}

// NewSubscriber creates a new IPC subscriber.
func NewSubscriber(socketPath string) *Subscriber {
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}

	return &Subscriber{
		socketPath: socketPath,
		stopCh:     make(chan struct{}),
	}
}

// OnPayload sets a callback for when a battle payload is received.
func (s *Subscriber) OnPayload(fn func(any)) {
	s.onPayload = fn
}

// OnConnect sets a callback for when connection is established.
func (s *Subscriber) OnConnect(fn func()) {
	s.onConnect = fn
}

// OnDisconnect sets a callback for when connection is lost.
func (s *Subscriber) OnDisconnect(fn func()) {
	s.onDisconnect = fn
}

// Start starts the subscriber, connecting to the referee.
func (s *Subscriber) Start() error {
	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		return nil
	}

	s.wg.Add(1)
	go s.connectionLoop()

	log.Printf("📡 IPC Subscriber started, connecting to %s", s.socketPath)
	return nil
}

// Stop stops the subscriber.
func (s *Subscriber) Stop() {
	if !atomic.CompareAndSwapInt32(&s.running, 1, 0) {
		return
	}

	close(s.stopCh)

	s.connMu.Lock()
	if s.conn != nil {
		s.conn.Close()
	}
	s.connMu.Unlock()

	s.wg.Wait()
	log.Println("📡 IPC Subscriber stopped")
}

// GetLatestPayload returns the most recently received payload (lock-free).
func (s *Subscriber) GetLatestPayload() any {
	return s.latestPayload.Load()
}

// GetStats returns subscriber statistics.
func (s *Subscriber) GetStats() (received int64, reconnects int64, errors int64) {
	return atomic.LoadInt64(&s.payloadsReceived),
		atomic.LoadInt64(&s.reconnects),
		atomic.LoadInt64(&s.errors)
}

// IsConnected returns whether the subscriber is connected.
func (s *Subscriber) IsConnected() bool {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	return s.conn != nil
}

func (s *Subscriber) connectionLoop() {
	defer s.wg.Done()

	for atomic.LoadInt32(&s.running) == 1 {
		conn, err := s.connect()
		if err != nil {
			select {
			case <-s.stopCh:
				return
			case <-time.After(ReconnectDelay):
				continue
			}
		}

		s.connMu.Lock()
		s.conn = conn
		s.connMu.Unlock()

		if s.onConnect != nil {
			s.onConnect()
		}

		s.readLoop(conn)

		s.connMu.Lock()
		s.conn = nil
		s.connMu.Unlock()

		if s.onDisconnect != nil {
			s.onDisconnect()
		}

		atomic.AddInt64(&s.reconnects, 1)

		select {
		case <-s.stopCh:
			return
		case <-time.After(ReconnectDelay):
		}
	}
}

func (s *Subscriber) connect() (net.Conn, error) {
	conn, err := net.DialTimeout("unix", s.socketPath, time.Second)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Connected to referee at %s", s.socketPath)
	return conn, nil
}

func (s *Subscriber) readLoop(conn net.Conn) {
	for atomic.LoadInt32(&s.running) == 1 {
		conn.SetReadDeadline(time.Now().Add(ReadTimeout))

		msgType, data, err := ReadMessage(conn)
		if err != nil {
			if err == io.EOF {
				log.Println("🔌 Referee closed connection")
				return
			}
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				continue
			}
			log.Printf("⚠️ IPC read error: %v", err)
			atomic.AddInt64(&s.errors, 1)
			return
		}

		switch msgType {
		case MsgTypeBattle:
			s.handleBattle(data)

		case MsgTypePing:
			conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
			WriteMessage(conn, MsgTypePong, nil)
		}
	}
}

func (s *Subscriber) handleBattle(data []byte) {
	msg, err := DecodeBattle(data)
	if err != nil {
		log.Printf("⚠️ Failed to decode battle message: %v", err)
		atomic.AddInt64(&s.errors, 1)
		return
	}

	s.latestPayload.Store(msg.Payload)
	atomic.AddInt64(&s.payloadsReceived, 1)

	if s.onPayload != nil {
		s.onPayload(msg.Payload)
	}
}
