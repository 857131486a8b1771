package yahoo

// DailyClose represents a single daily closing price
type DailyClose struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Close float64 `json:"close"`
}
