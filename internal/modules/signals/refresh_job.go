package signals

import (
	"github.com/aristath/portfolio-advisor/pkg/metrics"
	"github.com/rs/zerolog"
)

// RefreshJob regenerates model signals for all held tickers on a schedule.
type RefreshJob struct {
	generator *Generator
	tickers   TickerSource
	recorder  *metrics.Recorder
	log       zerolog.Logger
}

// NewRefreshJob creates a new signal refresh job
func NewRefreshJob(generator *Generator, tickers TickerSource, recorder *metrics.Recorder, log zerolog.Logger) *RefreshJob {
	return &RefreshJob{
		generator: generator,
		tickers:   tickers,
		recorder:  recorder,
		log:       log.With().Str("job", "signal_refresh").Logger(),
	}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "signal_refresh"
}

// Run executes one signal refresh cycle
func (j *RefreshJob) Run() error {
	j.recorder.RecordJobRun(j.Name())

	tickers, err := j.tickers.Tickers()
	if err != nil {
		j.recorder.RecordJobError(j.Name())
		return err
	}

	if _, err := j.generator.Refresh(tickers); err != nil {
		j.recorder.RecordJobError(j.Name())
		return err
	}

	return nil
}
