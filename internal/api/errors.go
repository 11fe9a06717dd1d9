package api

import (
	"time"
)

// EngineError is the structured error envelope returned by every endpoint.
type EngineError struct {
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	Timestamp string         `json:"timestamp,omitempty"`
}

// Error implements the error interface.
func (e EngineError) Error() string {
	return e.Message
}

// Error types, grouped by the taxonomy the engine exposes.
const (
	// Configuration / validation: rejected before any outcome is computed.
	ErrTypeValidation    = "validation_error"
	ErrTypeInvalidParams = "invalid_params"
	ErrTypeGameNotFound  = "game_not_found"
	ErrTypeBetNotFound   = "bet_not_found"

	// Concurrency conflicts: transient, the caller may retry the bet.
	ErrTypeConflict = "seed_conflict"

	// Seed lifecycle.
	ErrTypeNoActivePair = "no_active_seed_pair"

	// System.
	ErrTypeInternal = "internal_error"
)

// newEngineError builds an envelope with a timestamp.
func newEngineError(errType, message, requestID string, context map[string]any) EngineError {
	return EngineError{
		Type:      errType,
		Message:   message,
		Context:   context,
		RequestID: requestID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
