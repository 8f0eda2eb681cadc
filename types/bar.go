package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceBar is one trading day for one ticker. Within a ticker, dates are
// strictly increasing and unique; the repository guarantees (ticker, date)
// ordering on load.
type PriceBar struct {
	Date   time.Time       `json:"date"`
	Ticker string          `json:"ticker"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume decimal.Decimal `json:"volume"`
}

// GroupBarsByTicker splits a (ticker, date)-sorted slice into per-ticker
// series without copying bars.
func GroupBarsByTicker(bars []PriceBar) map[string][]PriceBar {
	out := make(map[string][]PriceBar)
	for _, b := range bars {
		out[b.Ticker] = append(out[b.Ticker], b)
	}
	return out
}

// Opens extracts the open column as float64 for point-return arithmetic.
func Opens(bars []PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Open.InexactFloat64()
	}
	return out
}

// DailyReturns computes close-to-close percent returns. The first bar has no
// prior close and contributes 0.
func DailyReturns(bars []PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i := 1; i < len(bars); i++ {
		prev := bars[i-1].Close.InexactFloat64()
		if prev == 0 {
			continue
		}
		out[i] = (bars[i].Close.InexactFloat64()/prev - 1.0) * 100.0
	}
	return out
}
