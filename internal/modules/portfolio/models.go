package portfolio

// Position is a holdings-table row: one owned position without signal or
// market context. The service joins positions with signal and price data to
// build domain.Holding values.
type Position struct {
	Ticker       string  `json:"ticker" db:"ticker"`
	CompanyName  string  `json:"company_name" db:"company_name"`
	Shares       int     `json:"shares" db:"shares"`
	AvgCost      float64 `json:"avg_cost" db:"avg_cost"`
	CurrentPrice float64 `json:"current_price" db:"current_price"`
	LastUpdated  string  `json:"last_updated,omitempty" db:"last_updated"`
}

// Summary represents portfolio totals and allocation breakdown for the dashboard.
type Summary struct {
	TotalValue           float64      `json:"total_value"`
	TotalCost            float64      `json:"total_cost"`
	UnrealizedPnL        float64      `json:"unrealized_pnl"`
	UnrealizedPnLPct     float64      `json:"unrealized_pnl_pct"`
	PositionCount        int          `json:"position_count"`
	AnnualizedVolatility float64      `json:"annualized_volatility"`
	Allocations          []Allocation `json:"allocations"`
}

// Allocation is a holding's value as a percentage of total portfolio value.
type Allocation struct {
	Ticker     string  `json:"ticker"`
	Value      float64 `json:"value"`
	CurrentPct float64 `json:"current_pct"`
}
