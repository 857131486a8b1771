package domain

// Signal is a model-issued trading recommendation for a ticker.
type Signal string

const (
	SignalStrongBuy  Signal = "STRONG_BUY"
	SignalBuy        Signal = "BUY"
	SignalHold       Signal = "HOLD"
	SignalSell       Signal = "SELL"
	SignalStrongSell Signal = "STRONG_SELL"
)

// IsValid reports whether s is one of the five known signal values.
func (s Signal) IsValid() bool {
	switch s {
	case SignalStrongBuy, SignalBuy, SignalHold, SignalSell, SignalStrongSell:
		return true
	}
	return false
}

// Holding represents one position together with its latest model signal.
type Holding struct {
	Ticker       string  `json:"ticker"`
	CompanyName  string  `json:"company_name"`
	Shares       int     `json:"shares"`
	AvgCost      float64 `json:"avg_cost"`
	CurrentPrice float64 `json:"current_price"`
	TotalValue   float64 `json:"total_value"`
	Signal       Signal  `json:"signal"`
	Confidence   float64 `json:"confidence"` // model confidence in Signal, 0-100
}

// Portfolio is an immutable snapshot of all holdings. TotalValue is the
// source of truth for allocation math and is not re-derived from the
// holdings by consumers.
type Portfolio struct {
	TotalValue float64   `json:"total_value"`
	Holdings   []Holding `json:"holdings"`
}

// SignalRecord is one stored model signal for a ticker.
type SignalRecord struct {
	Ticker      string  `json:"ticker"`
	Signal      Signal  `json:"signal"`
	Confidence  float64 `json:"confidence"`
	GeneratedAt string  `json:"generated_at"` // ISO datetime
}

// PricePoint is one daily close for a ticker.
type PricePoint struct {
	Ticker string  `json:"ticker"`
	Date   string  `json:"date"` // YYYY-MM-DD
	Close  float64 `json:"close"`
}
