package trading

import (
	"fmt"
	"time"

	"github.com/aristath/portfolio-advisor/internal/modules/portfolio"
	"github.com/aristath/portfolio-advisor/internal/modules/rebalancing"
	"github.com/rs/zerolog"
)

// Applier executes suggestions against the local holdings store. It adjusts
// the stored share count and records a trade row; it never talks to a
// broker. There is no atomicity across a batch of applies.
type Applier struct {
	holdingsRepo *portfolio.Repository
	tradeRepo    *TradeRepository
	log          zerolog.Logger
}

// NewApplier creates a new suggestion applier
func NewApplier(holdingsRepo *portfolio.Repository, tradeRepo *TradeRepository, log zerolog.Logger) *Applier {
	return &Applier{
		holdingsRepo: holdingsRepo,
		tradeRepo:    tradeRepo,
		log:          log.With().Str("service", "applier").Logger(),
	}
}

// Apply mutates the holding named by the suggestion and records the trade.
func (a *Applier) Apply(s rebalancing.Suggestion) error {
	pos, err := a.holdingsRepo.Get(s.Ticker)
	if err != nil {
		return fmt.Errorf("failed to load holding for %s: %w", s.Ticker, err)
	}

	shares := pos.Shares
	switch s.Action {
	case rebalancing.ActionBuy:
		shares += s.Quantity
	case rebalancing.ActionSell:
		shares -= s.Quantity
		if shares < 0 {
			return fmt.Errorf("cannot sell %d shares of %s, only %d held", s.Quantity, s.Ticker, pos.Shares)
		}
	default:
		return fmt.Errorf("unknown action %q for suggestion %s", s.Action, s.ID)
	}

	if err := a.holdingsRepo.UpdateShares(s.Ticker, shares); err != nil {
		return err
	}

	if err := a.tradeRepo.Create(Trade{
		SuggestionID: s.ID,
		Ticker:       s.Ticker,
		Side:         string(s.Action),
		Quantity:     s.Quantity,
		Price:        pos.CurrentPrice,
		Reason:       s.Reason,
		ExecutedAt:   time.Now().UTC(),
	}); err != nil {
		// The holdings mutation already happened; surface the bookkeeping
		// failure rather than attempting a rollback.
		return fmt.Errorf("holding updated but trade record failed for %s: %w", s.Ticker, err)
	}

	return nil
}
