package formulas

import (
	"math"
	"testing"
)

func TestCalculateRSI_InsufficientData(t *testing.T) {
	closes := []float64{100, 101, 102}
	if rsi := CalculateRSI(closes, 14); rsi != nil {
		t.Errorf("Expected nil RSI for short series, got %.2f", *rsi)
	}
}

func TestCalculateRSI_Range(t *testing.T) {
	closes := make([]float64, 60)
	price := 100.0
	for i := range closes {
		// Alternating gains and losses keeps RSI near neutral.
		if i%2 == 0 {
			price += 1.5
		} else {
			price -= 1.0
		}
		closes[i] = price
	}

	rsi := CalculateRSI(closes, 14)
	if rsi == nil {
		t.Fatal("Expected RSI value, got nil")
	}
	if *rsi < 0 || *rsi > 100 {
		t.Errorf("RSI out of range: %.2f", *rsi)
	}
}

func TestCalculateRSI_AllGains(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	rsi := CalculateRSI(closes, 14)
	if rsi == nil {
		t.Fatal("Expected RSI value, got nil")
	}
	if *rsi < 95 {
		t.Errorf("Monotonic gains should push RSI toward 100, got %.2f", *rsi)
	}
}

func TestTrendAboveSMA(t *testing.T) {
	rising := make([]float64, 25)
	for i := range rising {
		rising[i] = 100 + float64(i)
	}
	above, known := TrendAboveSMA(rising, 20)
	if !known {
		t.Fatal("Expected trend to be computable")
	}
	if !above {
		t.Error("Rising series should close above its SMA")
	}

	falling := make([]float64, 25)
	for i := range falling {
		falling[i] = 100 - float64(i)
	}
	above, known = TrendAboveSMA(falling, 20)
	if !known {
		t.Fatal("Expected trend to be computable")
	}
	if above {
		t.Error("Falling series should close below its SMA")
	}

	_, known = TrendAboveSMA([]float64{100, 101}, 20)
	if known {
		t.Error("Short series should report unknown trend")
	}
}

func TestMean(t *testing.T) {
	if got := Mean([]float64{1, 2, 3, 4}); got != 2.5 {
		t.Errorf("Expected 2.5, got %.2f", got)
	}
	if got := Mean(nil); got != 0 {
		t.Errorf("Expected 0 for empty input, got %.2f", got)
	}
}

func TestStdDev(t *testing.T) {
	// Sample standard deviation of {2, 4, 4, 4, 5, 5, 7, 9} is ~2.138.
	got := StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if math.Abs(got-2.13809) > 1e-4 {
		t.Errorf("Expected ~2.138, got %.5f", got)
	}
	if got := StdDev(nil); got != 0 {
		t.Errorf("Expected 0 for empty input, got %.2f", got)
	}
}

func TestAnnualizedVolatility(t *testing.T) {
	returns := []float64{0.01, -0.02, 0.015, -0.005, 0.02}
	got := AnnualizedVolatility(returns)
	want := StdDev(returns) * math.Sqrt(252)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Expected %.6f, got %.6f", want, got)
	}
	if got := AnnualizedVolatility(nil); got != 0 {
		t.Errorf("Expected 0 for empty input, got %.2f", got)
	}
}

func TestCalculateReturns(t *testing.T) {
	prices := []float64{100, 110, 99}
	returns := CalculateReturns(prices)

	if len(returns) != 2 {
		t.Fatalf("Expected 2 returns, got %d", len(returns))
	}
	if math.Abs(returns[0]-0.1) > 1e-12 {
		t.Errorf("Expected 0.1, got %.6f", returns[0])
	}
	if math.Abs(returns[1]-(-0.1)) > 1e-12 {
		t.Errorf("Expected -0.1, got %.6f", returns[1])
	}

	if got := CalculateReturns([]float64{100}); len(got) != 0 {
		t.Errorf("Expected no returns for a single price, got %d", len(got))
	}

	// Zero price avoids division and leaves a zero return.
	returns = CalculateReturns([]float64{0, 50})
	if returns[0] != 0 {
		t.Errorf("Expected 0 return after zero price, got %.6f", returns[0])
	}
}
