package api

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Server is the HTTP API server with WebSocket support, combining the
// spectator/control HTTP router with a broadcast hub for real-time battle
// snapshots.
type Server struct {
	match       MatchController
	router      *chi.Mux
	wsHub       *WebSocketHub
	rateLimiter *IPRateLimiter
}

// NewServer creates a new API server with default production configuration.
//
// It opens no network listener and does not run the WebSocket hub's loop;
// both wait for Start(). It does start the rate limiter's cleanup
// goroutine and, when payloads is non-nil, the goroutine that drains
// payloads into the hub.
func NewServer(match MatchController, payloads <-chan any) *Server {
	s := &Server{
		match: match,
		wsHub: NewWebSocketHub(),
	}

	s.rateLimiter = NewIPRateLimiter(DefaultRateLimitConfig)

	s.router = NewRouter(RouterConfig{
		Match:       match,
		RateLimiter: s.rateLimiter,
	})
	s.setupWebSocketRoutes()

	if payloads != nil {
		s.wsHub.DrainSink(payloads)
	}

	return s
}

// setupWebSocketRoutes adds WebSocket-specific routes to the router. These
// need access to the wsHub instance, so they aren't part of the generic
// NewRouter factory.
func (s *Server) setupWebSocketRoutes() {
	s.router.Get("/ws", s.handleWS)
}

// Start begins the HTTP server. This is the only method that opens a
// network listener. Call it once; to stop, signal the process.
func (s *Server) Start(addr string) error {
	go s.wsHub.Run()

	log.Printf("🌐 Spectator API starting on %s", addr)
	log.Printf("   - state:  http://localhost%s/api/state", addr)
	log.Printf("   - ws:     ws://localhost%s/ws", addr)

	return http.ListenAndServe(addr, s.router)
}

// Router returns the HTTP handler for use with httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Stop performs graceful shutdown of background workers.
func (s *Server) Stop() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	s.wsHub.HandleWebSocket(w, r)
}
