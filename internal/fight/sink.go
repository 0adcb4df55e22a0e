package fight

// ChannelSink is an in-process BattleSink backed by a buffered Go channel,
// the same buffered-channel broadcast pattern as WebSocketHub.broadcast in
// internal/api/websocket.go. A full channel drops the payload rather than
// blocking the tick loop, the same backpressure posture as that hub's
// Broadcast.
type ChannelSink struct {
	out chan any
}

// NewChannelSink creates a ChannelSink with the given buffer size.
func NewChannelSink(buffer int) *ChannelSink {
	return &ChannelSink{out: make(chan any, buffer)}
}

// SendBattle implements BattleSink.
func (s *ChannelSink) SendBattle(payload any) {
	select {
	case s.out <- payload:
	default:
	}
}

// Payloads exposes the channel for a consumer (the spectator websocket hub)
// to drain.
func (s *ChannelSink) Payloads() <-chan any {
	return s.out
}

// MultiSink fans a single send_battle call out to several sinks, e.g. the
// in-process spectator broadcast and the out-of-process ipc.Publisher at once.
type MultiSink struct {
	sinks []BattleSink
}

// NewMultiSink builds a MultiSink from the given sinks, skipping any nil.
func NewMultiSink(sinks ...BattleSink) *MultiSink {
	m := &MultiSink{}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

// SendBattle implements BattleSink.
func (m *MultiSink) SendBattle(payload any) {
	for _, s := range m.sinks {
		s.SendBattle(payload)
	}
}
