package rebalancing

import (
	"fmt"
	"time"

	"github.com/aristath/portfolio-advisor/internal/domain"
	"github.com/aristath/portfolio-advisor/pkg/metrics"
	"github.com/rs/zerolog"
)

// SnapshotProvider assembles the current portfolio snapshot. The portfolio
// module's service is the production implementation.
type SnapshotProvider interface {
	Snapshot() (domain.Portfolio, error)
}

// Applier executes the trade implied by a suggestion against the portfolio
// store. The engine itself never executes trades and does not learn whether
// an apply succeeded; suggestions are recomputed fresh on the next call.
type Applier interface {
	Apply(s Suggestion) error
}

// Result is the engine output as served to the dashboard.
type Result struct {
	Suggestions []Suggestion `json:"suggestions"`
	Summary     string       `json:"summary"`
	Balanced    bool         `json:"balanced"`
	GeneratedAt string       `json:"generated_at"`
}

// Service ties the suggestion engine to the portfolio snapshot provider and
// the apply dispatcher.
type Service struct {
	engine   *Engine
	provider SnapshotProvider
	applier  Applier
	recorder *metrics.Recorder
	log      zerolog.Logger
}

// NewService creates a new rebalancing service.
func NewService(provider SnapshotProvider, applier Applier, recorder *metrics.Recorder, log zerolog.Logger) *Service {
	return &Service{
		engine:   NewEngine(),
		provider: provider,
		applier:  applier,
		recorder: recorder,
		log:      log.With().Str("service", "rebalancing").Logger(),
	}
}

// GetSuggestions assembles a fresh snapshot and runs the engine over it.
func (s *Service) GetSuggestions() (Result, error) {
	snapshot, err := s.provider.Snapshot()
	if err != nil {
		return Result{}, fmt.Errorf("failed to build portfolio snapshot: %w", err)
	}

	suggestions := s.engine.ComputeSuggestions(snapshot)
	s.recorder.RecordSuggestionsComputed(len(suggestions))

	s.log.Debug().
		Int("holdings", len(snapshot.Holdings)).
		Int("suggestions", len(suggestions)).
		Msg("Computed rebalancing suggestions")

	return Result{
		Suggestions: suggestions,
		Summary:     FormatSummary(suggestions),
		Balanced:    IsBalanced(suggestions),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// ApplyOne recomputes the current suggestion list, resolves id against it,
// and dispatches the matching suggestion to the applier. Unknown ids return
// ErrSuggestionNotFound; the list may have changed since the caller saw it.
func (s *Service) ApplyOne(id string) (Suggestion, error) {
	result, err := s.GetSuggestions()
	if err != nil {
		return Suggestion{}, err
	}

	for _, suggestion := range result.Suggestions {
		if suggestion.ID != id {
			continue
		}
		if err := s.applier.Apply(suggestion); err != nil {
			return Suggestion{}, fmt.Errorf("failed to apply suggestion %s: %w", id, err)
		}
		s.recorder.RecordSuggestionApplied(string(suggestion.Action))
		s.log.Info().
			Str("id", suggestion.ID).
			Str("ticker", suggestion.Ticker).
			Int("quantity", suggestion.Quantity).
			Msg("Applied suggestion")
		return suggestion, nil
	}

	return Suggestion{}, ErrSuggestionNotFound
}

// ApplyAll dispatches every current suggestion in order. There is no
// atomicity across the batch: a failure stops the loop, leaving earlier
// applies in place, and the caller retries from a fresh suggestion list.
func (s *Service) ApplyAll() (int, error) {
	result, err := s.GetSuggestions()
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, suggestion := range result.Suggestions {
		if err := s.applier.Apply(suggestion); err != nil {
			return applied, fmt.Errorf("failed to apply suggestion %s: %w", suggestion.ID, err)
		}
		s.recorder.RecordSuggestionApplied(string(suggestion.Action))
		applied++
	}

	s.log.Info().Int("applied", applied).Msg("Applied all suggestions")
	return applied, nil
}
