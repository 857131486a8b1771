package signals

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/aristath/portfolio-advisor/internal/database"
	"github.com/aristath/portfolio-advisor/internal/domain"
	"github.com/aristath/portfolio-advisor/internal/modules/history"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepos(t *testing.T) (*Repository, *history.Repository) {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { db.Close() })

	return NewRepository(db.Conn(), zerolog.Nop()), history.NewRepository(db.Conn(), zerolog.Nop())
}

func TestRepository_UpsertAndGetLatest(t *testing.T) {
	repo, _ := setupRepos(t)

	require.NoError(t, repo.Upsert(domain.SignalRecord{
		Ticker:      "CBA.AX",
		Signal:      domain.SignalHold,
		Confidence:  55,
		GeneratedAt: "2026-08-27T07:00:00Z",
	}))

	// A second upsert for the same ticker replaces the first.
	require.NoError(t, repo.Upsert(domain.SignalRecord{
		Ticker:      "CBA.AX",
		Signal:      domain.SignalBuy,
		Confidence:  72,
		GeneratedAt: "2026-08-28T07:00:00Z",
	}))

	latest, err := repo.GetLatest()
	require.NoError(t, err)
	require.Len(t, latest, 1)

	record := latest["CBA.AX"]
	assert.Equal(t, domain.SignalBuy, record.Signal)
	assert.Equal(t, 72.0, record.Confidence)
}

func TestRepository_GetLatest_Empty(t *testing.T) {
	repo, _ := setupRepos(t)

	latest, err := repo.GetLatest()
	require.NoError(t, err)
	assert.Empty(t, latest)
}

func TestGenerator_Generate_InsufficientHistory(t *testing.T) {
	repo, historyRepo := setupRepos(t)
	generator := NewGenerator(historyRepo, repo, zerolog.Nop())

	_, ok, err := generator.Generate("CBA.AX")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGenerator_Refresh(t *testing.T) {
	repo, historyRepo := setupRepos(t)
	generator := NewGenerator(historyRepo, repo, zerolog.Nop())

	// 30 days of monotonic gains pushes RSI deep into overbought.
	points := make([]domain.PricePoint, 30)
	for i := range points {
		points[i] = domain.PricePoint{
			Ticker: "CBA.AX",
			Date:   fmt.Sprintf("2026-07-%02d", i+1),
			Close:  100 + float64(i),
		}
	}
	require.NoError(t, historyRepo.AppendBatch(points))

	refreshed, err := generator.Refresh([]string{"CBA.AX", "NOPE.AX"})
	require.NoError(t, err)

	// The ticker without history is skipped, not failed.
	assert.Equal(t, 1, refreshed)

	latest, err := repo.GetLatest()
	require.NoError(t, err)
	require.Contains(t, latest, "CBA.AX")

	record := latest["CBA.AX"]
	assert.Equal(t, domain.SignalStrongSell, record.Signal)
	assert.GreaterOrEqual(t, record.Confidence, 50.0)
	assert.LessOrEqual(t, record.Confidence, 100.0)
	assert.NotEmpty(t, record.GeneratedAt)
}
