package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/fairlab/outcome-engine/internal/bets"
	"github.com/fairlab/outcome-engine/internal/games"
	"github.com/fairlab/outcome-engine/internal/seeds"
	"github.com/fairlab/outcome-engine/internal/store"
	"github.com/fairlab/outcome-engine/internal/verify"
)

// maxBetListLimit caps one history page.
const maxBetListLimit = 500

// placeBetRequest is the wire form of a bet.
type placeBetRequest struct {
	UserID     string         `json:"user_id"`
	Game       string         `json:"game"`
	ClientSeed string         `json:"client_seed,omitempty"`
	BetAmount  string         `json:"bet_amount"`
	Params     map[string]any `json:"params,omitempty"`
}

func (s *Server) handlePlaceBet(w http.ResponseWriter, r *http.Request) {
	var req placeBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "invalid JSON body", nil)
		return
	}
	if req.UserID == "" {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "user_id is required", nil)
		return
	}

	betAmount, err := decimal.NewFromString(req.BetAmount)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "invalid bet_amount", map[string]any{"bet_amount": req.BetAmount})
		return
	}

	result, err := s.bets.PlaceBet(r.Context(), bets.PlaceBetRequest{
		UserID:     req.UserID,
		Game:       req.Game,
		ClientSeed: req.ClientSeed,
		BetAmount:  betAmount,
		Params:     req.Params,
	})
	if err != nil {
		s.writeBetError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

// writeBetError maps service errors onto the taxonomy.
func (s *Server) writeBetError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, bets.ErrUnknownGame):
		s.writeError(w, r, http.StatusNotFound, ErrTypeGameNotFound, err.Error(), nil)
	case errors.Is(err, bets.ErrInvalidParams):
		s.writeError(w, r, http.StatusBadRequest, ErrTypeInvalidParams, err.Error(), nil)
	case errors.Is(err, seeds.ErrNoActivePair):
		s.writeError(w, r, http.StatusNotFound, ErrTypeNoActivePair, err.Error(), nil)
	case errors.Is(err, seeds.ErrConflict):
		// Transient: the caller may retry the whole bet.
		s.writeError(w, r, http.StatusConflict, ErrTypeConflict, err.Error(), nil)
	default:
		s.writeError(w, r, http.StatusInternalServerError, ErrTypeInternal, err.Error(), nil)
	}
}

func (s *Server) handleGetBet(w http.ResponseWriter, r *http.Request) {
	bet, err := s.db.GetBet(r.Context(), chi.URLParam(r, "betID"))
	if errors.Is(err, store.ErrBetNotFound) {
		s.writeError(w, r, http.StatusNotFound, ErrTypeBetNotFound, err.Error(), nil)
		return
	}
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, ErrTypeInternal, err.Error(), nil)
		return
	}

	s.writeJSON(w, http.StatusOK, bet)
}

func (s *Server) handleListBets(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	limit := 0 // store default
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxBetListLimit {
			s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation,
				"limit must be an integer between 1 and 500", map[string]any{"limit": raw})
			return
		}
		limit = parsed
	}

	betList, err := s.db.ListBets(r.Context(), userID, limit)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, ErrTypeInternal, err.Error(), nil)
		return
	}
	if betList == nil {
		betList = []store.Bet{}
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"bets": betList})
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"games": games.List()})
}

func (s *Server) handleSeedInfo(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	pair, err := s.manager.SeedInfo(r.Context(), userID)
	if err != nil {
		s.writeBetError(w, r, err)
		return
	}

	// Never expose the live server seed.
	s.writeJSON(w, http.StatusOK, map[string]any{
		"server_seed_hash":      pair.ServerSeedHash,
		"client_seed":           pair.ClientSeed,
		"nonce":                 pair.Nonce,
		"next_server_seed_hash": pair.NextServerSeedHash,
	})
}

type rotateSeedRequest struct {
	ClientSeed string `json:"client_seed,omitempty"`
}

func (s *Server) handleRotateSeed(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req rotateSeedRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "invalid JSON body", nil)
			return
		}
	}

	revealed, active, err := s.manager.Rotate(r.Context(), userID, req.ClientSeed)
	if err != nil {
		s.writeBetError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"revealed_server_seed":      revealed.ServerSeed,
		"revealed_server_seed_hash": revealed.ServerSeedHash,
		"revealed_nonce":            revealed.Nonce,
		"new_server_seed_hash":      active.ServerSeedHash,
		"next_server_seed_hash":     active.NextServerSeedHash,
		"client_seed":               active.ClientSeed,
	})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verify.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "invalid JSON body", nil)
		return
	}
	if req.ServerSeed == "" || req.ServerSeedHash == "" {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "server_seed and server_seed_hash are required", nil)
		return
	}

	result, err := verify.Verify(req)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeInvalidParams, err.Error(), nil)
		return
	}

	// A failed verification is an expected negative-path result, not an
	// HTTP error.
	s.writeJSON(w, http.StatusOK, result)
}
