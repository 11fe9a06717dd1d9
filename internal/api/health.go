package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/fairlab/outcome-engine/internal/games"
	"github.com/fairlab/outcome-engine/internal/seeds"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"uptime_seconds":  int(time.Since(s.startTime).Seconds()),
		"games_available": len(games.List()),
	})
}

func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"status": "alive"})
}

func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	// Probe the store with a read; a missing pair for the probe user is
	// the expected healthy answer, anything else means the database is
	// unreachable.
	_, err := s.manager.SeedInfo(r.Context(), "readiness-probe")
	if err != nil && !errors.Is(err, seeds.ErrNoActivePair) {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"reason": err.Error(),
		})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}
