package history

import (
	"database/sql"
	"fmt"

	"github.com/aristath/portfolio-advisor/internal/domain"
	"github.com/rs/zerolog"
)

// Repository handles daily price history database operations
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new price history repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "history").Logger(),
	}
}

// GetCloses returns up to limit daily closes for a ticker in chronological
// order (oldest first), suitable for indicator calculations.
func (r *Repository) GetCloses(ticker string, limit int) ([]float64, error) {
	rows, err := r.db.Query(`
		SELECT close FROM (
			SELECT date, close
			FROM price_history
			WHERE ticker = ?
			ORDER BY date DESC
			LIMIT ?
		)
		ORDER BY date ASC
	`, ticker, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query price history for %s: %w", ticker, err)
	}
	defer rows.Close()

	var closes []float64
	for rows.Next() {
		var close float64
		if err := rows.Scan(&close); err != nil {
			return nil, fmt.Errorf("failed to scan close for %s: %w", ticker, err)
		}
		closes = append(closes, close)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price history for %s: %w", ticker, err)
	}

	return closes, nil
}

// Append inserts or replaces one daily close
func (r *Repository) Append(point domain.PricePoint) error {
	_, err := r.db.Exec(`
		INSERT INTO price_history (ticker, date, close)
		VALUES (?, ?, ?)
		ON CONFLICT(ticker, date) DO UPDATE SET close = excluded.close
	`, point.Ticker, point.Date, point.Close)
	if err != nil {
		return fmt.Errorf("failed to append price for %s: %w", point.Ticker, err)
	}

	return nil
}

// AppendBatch inserts a batch of daily closes in one transaction
func (r *Repository) AppendBatch(points []domain.PricePoint) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO price_history (ticker, date, close)
		VALUES (?, ?, ?)
		ON CONFLICT(ticker, date) DO UPDATE SET close = excluded.close
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, point := range points {
		if _, err := stmt.Exec(point.Ticker, point.Date, point.Close); err != nil {
			return fmt.Errorf("failed to insert price for %s: %w", point.Ticker, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit price batch: %w", err)
	}

	return nil
}
