// Package api exposes the engine over HTTP. The transport owns request
// decoding and error mapping only; all fairness semantics live below it.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fairlab/outcome-engine/internal/bets"
	"github.com/fairlab/outcome-engine/internal/seeds"
	"github.com/fairlab/outcome-engine/internal/store"
)

// Server handles HTTP requests.
type Server struct {
	db        store.DB
	manager   *seeds.Manager
	bets      *bets.Service
	log       *slog.Logger
	startTime time.Time
}

// NewServer creates an API server over the given collaborators.
func NewServer(db store.DB, manager *seeds.Manager, betService *bets.Service, log *slog.Logger) *Server {
	return &Server{
		db:        db,
		manager:   manager,
		bets:      betService,
		log:       log,
		startTime: time.Now(),
	}
}

// Routes sets up the HTTP routes with middleware.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", s.handleHealth)
	r.Get("/health/live", s.handleLiveness)
	r.Get("/health/ready", s.handleReadiness)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/bets", s.handlePlaceBet)
		r.Get("/bets/{betID}", s.handleGetBet)
		r.Get("/games", s.handleListGames)
		r.Get("/users/{userID}/bets", s.handleListBets)
		r.Get("/users/{userID}/seeds", s.handleSeedInfo)
		r.Post("/users/{userID}/seeds/rotate", s.handleRotateSeed)
		// Verification needs no auth: it consumes only already-public
		// material.
		r.Post("/verify", s.handleVerify)
	})

	return r
}

// requestLogger logs one line per request. Seed material never appears
// here; handlers log hashes only.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// writeError writes a structured error response.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, errType, message string, context map[string]any) {
	requestID := middleware.GetReqID(r.Context())
	s.writeJSON(w, status, newEngineError(errType, message, requestID, context))
}
