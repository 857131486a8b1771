package trading

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
)

// Handler handles trade HTTP requests
type Handler struct {
	tradeRepo *TradeRepository
	log       zerolog.Logger
}

// NewHandler creates a new trading handler
func NewHandler(tradeRepo *TradeRepository, log zerolog.Logger) *Handler {
	return &Handler{
		tradeRepo: tradeRepo,
		log:       log.With().Str("handler", "trading").Logger(),
	}
}

// HandleGetTrades returns recent applied trades, newest first.
// Accepts an optional ?limit= query parameter (default 50).
func (h *Handler) HandleGetTrades(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	trades, err := h.tradeRepo.GetRecent(limit)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, trades)
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
