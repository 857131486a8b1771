package portfolio

import (
	"fmt"
	"math"
	"sort"

	"github.com/aristath/portfolio-advisor/internal/domain"
	"github.com/aristath/portfolio-advisor/internal/modules/history"
	"github.com/aristath/portfolio-advisor/internal/modules/signals"
	"github.com/aristath/portfolio-advisor/pkg/formulas"
	"github.com/aristath/portfolio-advisor/pkg/metrics"
	"github.com/rs/zerolog"
)

// Service assembles portfolio snapshots for the suggestion engine and
// summary data for the dashboard.
type Service struct {
	repo        *Repository
	signalRepo  *signals.Repository
	historyRepo *history.Repository
	recorder    *metrics.Recorder
	log         zerolog.Logger
}

// NewService creates a new portfolio service
func NewService(
	repo *Repository,
	signalRepo *signals.Repository,
	historyRepo *history.Repository,
	recorder *metrics.Recorder,
	log zerolog.Logger,
) *Service {
	return &Service{
		repo:        repo,
		signalRepo:  signalRepo,
		historyRepo: historyRepo,
		recorder:    recorder,
		log:         log.With().Str("service", "portfolio").Logger(),
	}
}

// Snapshot joins holdings with each ticker's latest model signal into the
// immutable portfolio value the suggestion engine consumes. Holdings without
// a stored signal carry an empty signal value, which no rule matches.
func (s *Service) Snapshot() (domain.Portfolio, error) {
	positions, err := s.repo.GetAll()
	if err != nil {
		return domain.Portfolio{}, fmt.Errorf("failed to get holdings: %w", err)
	}

	latest, err := s.signalRepo.GetLatest()
	if err != nil {
		return domain.Portfolio{}, fmt.Errorf("failed to get signals: %w", err)
	}

	holdings := make([]domain.Holding, 0, len(positions))
	totalValue := 0.0

	for _, pos := range positions {
		totalValue += float64(pos.Shares) * pos.CurrentPrice

		holding := domain.Holding{
			Ticker:       pos.Ticker,
			CompanyName:  pos.CompanyName,
			Shares:       pos.Shares,
			AvgCost:      pos.AvgCost,
			CurrentPrice: pos.CurrentPrice,
			TotalValue:   float64(pos.Shares) * pos.CurrentPrice,
		}

		if record, ok := latest[pos.Ticker]; ok {
			holding.Signal = record.Signal
			holding.Confidence = record.Confidence
		}

		holdings = append(holdings, holding)
	}

	s.recorder.RecordPortfolioValue(totalValue)

	return domain.Portfolio{
		TotalValue: totalValue,
		Holdings:   holdings,
	}, nil
}

// GetHoldings returns all holdings with their latest signals, sorted by
// market value descending for display.
func (s *Service) GetHoldings() ([]domain.Holding, error) {
	snapshot, err := s.Snapshot()
	if err != nil {
		return nil, err
	}

	holdings := snapshot.Holdings
	sort.Slice(holdings, func(i, j int) bool {
		return holdings[i].TotalValue > holdings[j].TotalValue
	})

	return holdings, nil
}

// GetSummary calculates portfolio totals, per-ticker allocations, and an
// approximate annualized volatility from stored price history. Volatility is
// the allocation-weighted sum of per-ticker volatilities; correlations
// between holdings are ignored.
func (s *Service) GetSummary() (Summary, error) {
	snapshot, err := s.Snapshot()
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		TotalValue:    round(snapshot.TotalValue, 2),
		PositionCount: len(snapshot.Holdings),
	}

	totalCost := 0.0
	for _, h := range snapshot.Holdings {
		totalCost += float64(h.Shares) * h.AvgCost

		pct := 0.0
		if snapshot.TotalValue > 0 {
			pct = 100 * h.TotalValue / snapshot.TotalValue
		}
		summary.Allocations = append(summary.Allocations, Allocation{
			Ticker:     h.Ticker,
			Value:      round(h.TotalValue, 2),
			CurrentPct: round(pct, 2),
		})
	}

	summary.TotalCost = round(totalCost, 2)
	summary.UnrealizedPnL = round(snapshot.TotalValue-totalCost, 2)
	if totalCost > 0 {
		summary.UnrealizedPnLPct = round(100*(snapshot.TotalValue-totalCost)/totalCost, 2)
	}

	summary.AnnualizedVolatility = round(s.portfolioVolatility(snapshot), 4)

	return summary, nil
}

// portfolioVolatility approximates portfolio volatility as the
// allocation-weighted sum of each holding's annualized volatility.
func (s *Service) portfolioVolatility(snapshot domain.Portfolio) float64 {
	if snapshot.TotalValue <= 0 {
		return 0
	}

	volatility := 0.0
	for _, h := range snapshot.Holdings {
		closes, err := s.historyRepo.GetCloses(h.Ticker, 252)
		if err != nil {
			s.log.Warn().Err(err).Str("ticker", h.Ticker).Msg("Failed to load price history")
			continue
		}
		if len(closes) < 2 {
			continue
		}

		returns := formulas.CalculateReturns(closes)
		weight := h.TotalValue / snapshot.TotalValue
		volatility += weight * formulas.AnnualizedVolatility(returns)
	}

	return volatility
}

// round rounds a value to n decimal places
func round(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}
