package rebalancing

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
)

// Handler handles rebalancing HTTP requests
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new rebalancing handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "rebalancing").Logger(),
	}
}

// HandleGetSuggestions returns the current suggestion list with summary
func (h *Handler) HandleGetSuggestions(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetSuggestions()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// applyRequest is the body of an apply-one request
type applyRequest struct {
	ID string `json:"id"`
}

// HandleApply applies a single suggestion by id
func (h *Handler) HandleApply(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ID == "" {
		h.writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	applied, err := h.service.ApplyOne(req.ID)
	if err != nil {
		if errors.Is(err, ErrSuggestionNotFound) {
			h.writeError(w, http.StatusNotFound, "suggestion not found: "+req.ID)
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"applied":    true,
		"suggestion": applied,
	})
}

// HandleApplyAll applies every current suggestion in order
func (h *Handler) HandleApplyAll(w http.ResponseWriter, r *http.Request) {
	applied, err := h.service.ApplyAll()
	if err != nil {
		// Partial application is possible; report how far we got.
		h.writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"applied": applied,
			"error":   err.Error(),
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"applied": applied,
	})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
