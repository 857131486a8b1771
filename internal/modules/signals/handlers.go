package signals

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

// TickerSource lists the tickers signals should be generated for. The
// portfolio holdings repository is the production implementation.
type TickerSource interface {
	Tickers() ([]string, error)
}

// Handler handles signal HTTP requests
type Handler struct {
	repo      *Repository
	generator *Generator
	tickers   TickerSource
	log       zerolog.Logger
}

// NewHandler creates a new signals handler
func NewHandler(repo *Repository, generator *Generator, tickers TickerSource, log zerolog.Logger) *Handler {
	return &Handler{
		repo:      repo,
		generator: generator,
		tickers:   tickers,
		log:       log.With().Str("handler", "signals").Logger(),
	}
}

// HandleGetSignals returns the latest signal per ticker
func (h *Handler) HandleGetSignals(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.GetAll()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, records)
}

// HandleRefresh forces a signal generator run over all held tickers
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	tickers, err := h.tickers.Tickers()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	refreshed, err := h.generator.Refresh(tickers)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"refreshed": refreshed,
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
