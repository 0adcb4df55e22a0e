package api

import (
	"encoding/json"
	"net/http"
)

// Handler methods for routerHandlers. Used by both the standalone router
// (for testing) and the full Server.

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.match.Snapshot()
	if !ok {
		writeError(w, "no match has started", http.StatusNotFound)
		return
	}
	writeJSON(w, snapshot)
}

func (h *routerHandlers) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.match.Snapshot()
	writeJSON(w, map[string]interface{}{
		"exists":  ok,
		"running": ok && snapshot.Running,
	})
}

func (h *routerHandlers) handleMatchStart(w http.ResponseWriter, r *http.Request) {
	var req StartMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := h.match.StartMatch(req); err != nil {
		writeError(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleMatchStop(w http.ResponseWriter, r *http.Request) {
	h.match.StopMatch()
	writeJSON(w, map[string]bool{"success": true})
}

// Helper functions (package-level for reuse).

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
