package trading

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// TradeRepository handles trade database operations
type TradeRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewTradeRepository creates a new trade repository
func NewTradeRepository(db *sql.DB, log zerolog.Logger) *TradeRepository {
	return &TradeRepository{
		db:  db,
		log: log.With().Str("repo", "trade").Logger(),
	}
}

// Create inserts a new trade record
func (r *TradeRepository) Create(trade Trade) error {
	_, err := r.db.Exec(`
		INSERT INTO trades (suggestion_id, ticker, side, quantity, price, reason, executed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		trade.SuggestionID,
		trade.Ticker,
		trade.Side,
		trade.Quantity,
		trade.Price,
		trade.Reason,
		trade.ExecutedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to create trade: %w", err)
	}

	r.log.Info().
		Str("ticker", trade.Ticker).
		Str("side", trade.Side).
		Int("quantity", trade.Quantity).
		Msg("Trade recorded")

	return nil
}

// GetRecent returns the most recent trades, newest first
func (r *TradeRepository) GetRecent(limit int) ([]Trade, error) {
	rows, err := r.db.Query(`
		SELECT id, suggestion_id, ticker, side, quantity, price, reason, executed_at
		FROM trades
		ORDER BY executed_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []Trade
	for rows.Next() {
		var trade Trade
		var executedAt string
		if err := rows.Scan(
			&trade.ID,
			&trade.SuggestionID,
			&trade.Ticker,
			&trade.Side,
			&trade.Quantity,
			&trade.Price,
			&trade.Reason,
			&executedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339, executedAt); err == nil {
			trade.ExecutedAt = parsed
		}
		trades = append(trades, trade)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trades: %w", err)
	}

	return trades, nil
}
