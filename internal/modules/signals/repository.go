package signals

import (
	"database/sql"
	"fmt"

	"github.com/aristath/portfolio-advisor/internal/domain"
	"github.com/rs/zerolog"
)

// Repository handles model signal database operations. One row is kept per
// ticker, replaced whenever a newer signal arrives.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new signals repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "signals").Logger(),
	}
}

// GetLatest returns the latest signal per ticker
func (r *Repository) GetLatest() (map[string]domain.SignalRecord, error) {
	rows, err := r.db.Query(`
		SELECT ticker, signal, confidence, generated_at
		FROM signals
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query signals: %w", err)
	}
	defer rows.Close()

	records := make(map[string]domain.SignalRecord)
	for rows.Next() {
		var record domain.SignalRecord
		var signal string
		if err := rows.Scan(&record.Ticker, &signal, &record.Confidence, &record.GeneratedAt); err != nil {
			return nil, fmt.Errorf("failed to scan signal: %w", err)
		}
		record.Signal = domain.Signal(signal)
		records[record.Ticker] = record
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating signals: %w", err)
	}

	return records, nil
}

// GetAll returns all signal records ordered by ticker
func (r *Repository) GetAll() ([]domain.SignalRecord, error) {
	rows, err := r.db.Query(`
		SELECT ticker, signal, confidence, generated_at
		FROM signals
		ORDER BY ticker
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query signals: %w", err)
	}
	defer rows.Close()

	var records []domain.SignalRecord
	for rows.Next() {
		var record domain.SignalRecord
		var signal string
		if err := rows.Scan(&record.Ticker, &signal, &record.Confidence, &record.GeneratedAt); err != nil {
			return nil, fmt.Errorf("failed to scan signal: %w", err)
		}
		record.Signal = domain.Signal(signal)
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating signals: %w", err)
	}

	return records, nil
}

// Upsert inserts or replaces the signal for a ticker
func (r *Repository) Upsert(record domain.SignalRecord) error {
	_, err := r.db.Exec(`
		INSERT INTO signals (ticker, signal, confidence, generated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(ticker) DO UPDATE SET
			signal = excluded.signal,
			confidence = excluded.confidence,
			generated_at = excluded.generated_at
	`, record.Ticker, string(record.Signal), record.Confidence, record.GeneratedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert signal for %s: %w", record.Ticker, err)
	}

	return nil
}
