package formulas

import (
	"github.com/markcheno/go-talib"
)

// CalculateRSI calculates the Relative Strength Index
//
// RSI Formula:
//
//	RSI = 100 - (100 / (1 + RS))
//	where RS = Average Gain / Average Loss over N periods
//
// Returns the current RSI value (0-100) or nil if there is not enough data.
func CalculateRSI(closes []float64, length int) *float64 {
	if len(closes) < length+1 {
		return nil
	}

	rsi := talib.Rsi(closes, length)

	if len(rsi) > 0 && !isNaN(rsi[len(rsi)-1]) {
		result := rsi[len(rsi)-1]
		return &result
	}

	return nil
}

// TrendAboveSMA reports whether the latest close sits above its simple
// moving average. The second result is false when there is not enough data
// to compute the average.
func TrendAboveSMA(closes []float64, period int) (bool, bool) {
	if len(closes) < period {
		return false, false
	}

	sma := talib.Sma(closes, period)
	last := sma[len(sma)-1]
	if isNaN(last) {
		return false, false
	}

	return closes[len(closes)-1] > last, true
}

// isNaN checks if a float64 is NaN
func isNaN(f float64) bool {
	return f != f
}
