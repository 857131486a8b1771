package signals

import (
	"fmt"
	"time"

	"github.com/aristath/portfolio-advisor/internal/domain"
	"github.com/aristath/portfolio-advisor/internal/modules/history"
	"github.com/aristath/portfolio-advisor/pkg/formulas"
	"github.com/rs/zerolog"
)

const (
	rsiPeriod      = 14
	trendPeriod    = 20
	historyWindow  = 60
	baseConfidence = 50.0
	trendBonus     = 10.0
)

// Generator derives a signal and confidence per ticker from stored price
// history. It stands in for the remote model feed: RSI positions the signal
// on the buy/sell spectrum and a moving-average trend check either promotes
// it to the strong tier or holds it back.
type Generator struct {
	historyRepo *history.Repository
	repo        *Repository
	log         zerolog.Logger
}

// NewGenerator creates a new signal generator
func NewGenerator(historyRepo *history.Repository, repo *Repository, log zerolog.Logger) *Generator {
	return &Generator{
		historyRepo: historyRepo,
		repo:        repo,
		log:         log.With().Str("service", "signal_generator").Logger(),
	}
}

// Refresh regenerates and stores signals for the given tickers. Tickers with
// insufficient history are skipped, not failed.
func (g *Generator) Refresh(tickers []string) (int, error) {
	refreshed := 0

	for _, ticker := range tickers {
		record, ok, err := g.Generate(ticker)
		if err != nil {
			return refreshed, fmt.Errorf("failed to generate signal for %s: %w", ticker, err)
		}
		if !ok {
			g.log.Debug().Str("ticker", ticker).Msg("Insufficient history for signal")
			continue
		}

		if err := g.repo.Upsert(record); err != nil {
			return refreshed, err
		}
		refreshed++

		g.log.Debug().
			Str("ticker", ticker).
			Str("signal", string(record.Signal)).
			Float64("confidence", record.Confidence).
			Msg("Signal refreshed")
	}

	g.log.Info().Int("refreshed", refreshed).Int("tickers", len(tickers)).Msg("Signal refresh complete")
	return refreshed, nil
}

// Generate derives one signal record from price history. The boolean result
// is false when there is not enough history to compute the indicators.
func (g *Generator) Generate(ticker string) (domain.SignalRecord, bool, error) {
	closes, err := g.historyRepo.GetCloses(ticker, historyWindow)
	if err != nil {
		return domain.SignalRecord{}, false, err
	}

	rsi := formulas.CalculateRSI(closes, rsiPeriod)
	if rsi == nil {
		return domain.SignalRecord{}, false, nil
	}

	uptrend, known := formulas.TrendAboveSMA(closes, trendPeriod)
	signal, confidence := classify(*rsi, uptrend, known)

	return domain.SignalRecord{
		Ticker:      ticker,
		Signal:      signal,
		Confidence:  confidence,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}, true, nil
}

// classify maps an RSI reading and trend direction to a signal/confidence
// pair. Confidence grows with the RSI's distance from neutral and gets a
// bonus when the trend agrees with the signal direction.
func classify(rsi float64, uptrend, trendKnown bool) (domain.Signal, float64) {
	confidence := baseConfidence + (rsi-50)*(rsi-50)/50
	if confidence > 100 {
		confidence = 100
	}

	var signal domain.Signal
	switch {
	case rsi < 30:
		signal = domain.SignalStrongBuy
	case rsi < 40:
		signal = domain.SignalBuy
	case rsi > 70:
		signal = domain.SignalStrongSell
	case rsi > 60:
		signal = domain.SignalSell
	default:
		signal = domain.SignalHold
	}

	if trendKnown {
		agrees := (uptrend && (signal == domain.SignalStrongBuy || signal == domain.SignalBuy)) ||
			(!uptrend && (signal == domain.SignalStrongSell || signal == domain.SignalSell))
		if agrees {
			confidence += trendBonus
			if confidence > 100 {
				confidence = 100
			}
		}
	}

	return signal, confidence
}
