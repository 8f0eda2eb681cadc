package types

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func bar(day int, ticker string, close float64) PriceBar {
	return PriceBar{
		Date:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day),
		Ticker: ticker,
		Open:   decimal.NewFromFloat(close),
		Close:  decimal.NewFromFloat(close),
	}
}

func TestGroupBarsByTicker(t *testing.T) {
	bars := []PriceBar{
		bar(0, "AAPL", 100),
		bar(1, "AAPL", 101),
		bar(0, "MSFT", 200),
	}

	grouped := GroupBarsByTicker(bars)

	if len(grouped) != 2 {
		t.Fatalf("groups = %d, want 2", len(grouped))
	}
	if len(grouped["AAPL"]) != 2 || len(grouped["MSFT"]) != 1 {
		t.Errorf("group sizes = %d/%d", len(grouped["AAPL"]), len(grouped["MSFT"]))
	}
	if !grouped["AAPL"][0].Date.Before(grouped["AAPL"][1].Date) {
		t.Error("per-ticker order not preserved")
	}
}

func TestDailyReturns(t *testing.T) {
	bars := []PriceBar{bar(0, "AAPL", 100), bar(1, "AAPL", 102), bar(2, "AAPL", 51)}

	returns := DailyReturns(bars)

	if returns[0] != 0 {
		t.Errorf("first bar return = %v, want 0", returns[0])
	}
	if math.Abs(returns[1]-2) > 1e-9 {
		t.Errorf("day 1 return = %v, want 2", returns[1])
	}
	if math.Abs(returns[2]-(-50)) > 1e-9 {
		t.Errorf("day 2 return = %v, want -50", returns[2])
	}
}

func TestDailyReturnsZeroPrevClose(t *testing.T) {
	bars := []PriceBar{bar(0, "AAPL", 0), bar(1, "AAPL", 10)}
	returns := DailyReturns(bars)
	if returns[1] != 0 {
		t.Errorf("return after zero close = %v, want 0", returns[1])
	}
}
