package portfolio

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Repository handles holdings database operations
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new holdings repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "holdings").Logger(),
	}
}

// GetAll returns all positions ordered by ticker
func (r *Repository) GetAll() ([]Position, error) {
	rows, err := r.db.Query(`
		SELECT ticker, company_name, shares, avg_cost, current_price, last_updated
		FROM holdings
		ORDER BY ticker
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}
	defer rows.Close()

	var positions []Position
	for rows.Next() {
		pos, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		positions = append(positions, pos)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holdings: %w", err)
	}

	return positions, nil
}

// Tickers returns all held tickers ordered alphabetically
func (r *Repository) Tickers() ([]string, error) {
	rows, err := r.db.Query("SELECT ticker FROM holdings ORDER BY ticker")
	if err != nil {
		return nil, fmt.Errorf("failed to query tickers: %w", err)
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var ticker string
		if err := rows.Scan(&ticker); err != nil {
			return nil, fmt.Errorf("failed to scan ticker: %w", err)
		}
		tickers = append(tickers, ticker)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tickers: %w", err)
	}

	return tickers, nil
}

// Get returns a single position by ticker
func (r *Repository) Get(ticker string) (Position, error) {
	row := r.db.QueryRow(`
		SELECT ticker, company_name, shares, avg_cost, current_price, last_updated
		FROM holdings
		WHERE ticker = ?
	`, ticker)

	var pos Position
	var lastUpdated sql.NullString
	err := row.Scan(&pos.Ticker, &pos.CompanyName, &pos.Shares, &pos.AvgCost, &pos.CurrentPrice, &lastUpdated)
	if err != nil {
		return Position{}, fmt.Errorf("failed to get holding %s: %w", ticker, err)
	}
	pos.LastUpdated = lastUpdated.String

	return pos, nil
}

// Upsert inserts or replaces a position
func (r *Repository) Upsert(pos Position) error {
	_, err := r.db.Exec(`
		INSERT INTO holdings (ticker, company_name, shares, avg_cost, current_price, last_updated)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(ticker) DO UPDATE SET
			company_name = excluded.company_name,
			shares = excluded.shares,
			avg_cost = excluded.avg_cost,
			current_price = excluded.current_price,
			last_updated = excluded.last_updated
	`, pos.Ticker, pos.CompanyName, pos.Shares, pos.AvgCost, pos.CurrentPrice, nowISO())
	if err != nil {
		return fmt.Errorf("failed to upsert holding %s: %w", pos.Ticker, err)
	}

	return nil
}

// UpdateShares sets the share count for a ticker
func (r *Repository) UpdateShares(ticker string, shares int) error {
	result, err := r.db.Exec(`
		UPDATE holdings
		SET shares = ?, last_updated = ?
		WHERE ticker = ?
	`, shares, nowISO(), ticker)
	if err != nil {
		return fmt.Errorf("failed to update shares for %s: %w", ticker, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update for %s: %w", ticker, err)
	}
	if affected == 0 {
		return fmt.Errorf("no holding found for ticker %s", ticker)
	}

	return nil
}

// UpdatePrice sets the current price for a ticker
func (r *Repository) UpdatePrice(ticker string, price float64) error {
	_, err := r.db.Exec(`
		UPDATE holdings
		SET current_price = ?, last_updated = ?
		WHERE ticker = ?
	`, price, nowISO(), ticker)
	if err != nil {
		return fmt.Errorf("failed to update price for %s: %w", ticker, err)
	}

	return nil
}

// scanPosition scans a position from a row
func scanPosition(rows *sql.Rows) (Position, error) {
	var pos Position
	var lastUpdated sql.NullString
	err := rows.Scan(&pos.Ticker, &pos.CompanyName, &pos.Shares, &pos.AvgCost, &pos.CurrentPrice, &lastUpdated)
	if err != nil {
		return Position{}, err
	}
	pos.LastUpdated = lastUpdated.String
	return pos, nil
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
