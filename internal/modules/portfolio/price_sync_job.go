package portfolio

import (
	"github.com/aristath/portfolio-advisor/internal/clients/yahoo"
	"github.com/aristath/portfolio-advisor/internal/domain"
	"github.com/aristath/portfolio-advisor/internal/modules/history"
	"github.com/aristath/portfolio-advisor/pkg/metrics"
	"github.com/rs/zerolog"
)

// PriceSyncJob refreshes current prices for held tickers and appends the
// day's close to price history. A single failing ticker is logged and
// skipped so one bad symbol cannot starve the rest of the sync.
type PriceSyncJob struct {
	repo        *Repository
	historyRepo *history.Repository
	client      *yahoo.Client
	recorder    *metrics.Recorder
	log         zerolog.Logger
}

// NewPriceSyncJob creates a new price sync job
func NewPriceSyncJob(
	repo *Repository,
	historyRepo *history.Repository,
	client *yahoo.Client,
	recorder *metrics.Recorder,
	log zerolog.Logger,
) *PriceSyncJob {
	return &PriceSyncJob{
		repo:        repo,
		historyRepo: historyRepo,
		client:      client,
		recorder:    recorder,
		log:         log.With().Str("job", "price_sync").Logger(),
	}
}

// Name returns the job name
func (j *PriceSyncJob) Name() string {
	return "price_sync"
}

// Run executes one price sync cycle
func (j *PriceSyncJob) Run() error {
	j.recorder.RecordJobRun(j.Name())

	tickers, err := j.repo.Tickers()
	if err != nil {
		j.recorder.RecordJobError(j.Name())
		return err
	}

	synced := 0
	for _, ticker := range tickers {
		price, err := j.client.GetCurrentPrice(ticker, 3)
		if err != nil {
			j.log.Warn().Err(err).Str("ticker", ticker).Msg("Failed to fetch price")
			continue
		}

		if err := j.repo.UpdatePrice(ticker, *price); err != nil {
			j.log.Error().Err(err).Str("ticker", ticker).Msg("Failed to store price")
			continue
		}

		closes, err := j.client.GetDailyCloses(ticker, "5d")
		if err != nil {
			j.log.Warn().Err(err).Str("ticker", ticker).Msg("Failed to fetch daily closes")
		} else {
			points := make([]domain.PricePoint, 0, len(closes))
			for _, close := range closes {
				points = append(points, domain.PricePoint{
					Ticker: ticker,
					Date:   close.Date,
					Close:  close.Close,
				})
			}
			if err := j.historyRepo.AppendBatch(points); err != nil {
				j.log.Error().Err(err).Str("ticker", ticker).Msg("Failed to store daily closes")
			}
		}

		synced++
	}

	j.log.Info().Int("synced", synced).Int("tickers", len(tickers)).Msg("Price sync complete")
	return nil
}

// Backfill loads daily close history for every held ticker over the given
// Yahoo chart range (e.g. "1y"). Run once at startup so indicators have
// enough history before the first scheduled sync.
func (j *PriceSyncJob) Backfill(period string) error {
	tickers, err := j.repo.Tickers()
	if err != nil {
		return err
	}

	backfilled := 0
	for _, ticker := range tickers {
		closes, err := j.client.GetDailyCloses(ticker, period)
		if err != nil {
			j.log.Warn().Err(err).Str("ticker", ticker).Msg("Failed to backfill history")
			continue
		}

		points := make([]domain.PricePoint, 0, len(closes))
		for _, close := range closes {
			points = append(points, domain.PricePoint{
				Ticker: ticker,
				Date:   close.Date,
				Close:  close.Close,
			})
		}
		if err := j.historyRepo.AppendBatch(points); err != nil {
			j.log.Error().Err(err).Str("ticker", ticker).Msg("Failed to store backfilled history")
			continue
		}
		backfilled++
	}

	j.log.Info().Int("backfilled", backfilled).Str("period", period).Msg("History backfill complete")
	return nil
}
