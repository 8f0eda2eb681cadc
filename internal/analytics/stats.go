// Package analytics reduces realized trade returns and daily return series
// into the summary statistics that drive strategy ranking. Every reduction
// over a ticker-keyed map sorts by key before summing so results are
// bit-identical regardless of map iteration order.
package analytics

import (
	"math"
	"sort"
)

// ProfitFactorCap bounds the profit factor when a strategy has winners but no
// losers; an unbounded ratio would dominate every ranking it appears in.
const ProfitFactorCap = 999.0

// TradeStats summarizes a list of realized trade returns.
type TradeStats struct {
	Wins         int
	Losses       int
	Trades       int
	ProfitFactor float64
	HitRatio     float64 // 0-100
	AvgWin       float64
	AvgLoss      float64 // absolute value of the mean losing return
	MaxGain      float64
	MaxLoss      float64
	RiskReward   float64
	Expectancy   float64
}

// ComputeTradeStats reduces realized trade returns. Zero-trade input yields
// the zero value, never NaN.
//
// The expectancy formula mixes the 0-100 hit ratio with per-trade return
// units. Downstream strategy rankings depend on the existing scale, so it is
// kept as is rather than normalized.
func ComputeTradeStats(returns []float64) TradeStats {
	var s TradeStats
	var sumWins, sumLosses float64
	for _, r := range returns {
		switch {
		case r > 0:
			s.Wins++
			sumWins += r
			if r > s.MaxGain {
				s.MaxGain = r
			}
		case r < 0:
			s.Losses++
			sumLosses += -r
			if r < s.MaxLoss {
				s.MaxLoss = r
			}
		}
	}
	s.Trades = s.Wins + s.Losses

	switch {
	case s.Losses > 0 && sumLosses > 0:
		s.ProfitFactor = math.Min(ProfitFactorCap, sumWins/sumLosses)
	case s.Wins > 0:
		s.ProfitFactor = ProfitFactorCap
	}

	if s.Trades > 0 {
		s.HitRatio = float64(s.Wins) / float64(s.Trades) * 100.0
	}
	if s.Wins > 0 {
		s.AvgWin = sumWins / float64(s.Wins)
	}
	if s.Losses > 0 {
		s.AvgLoss = sumLosses / float64(s.Losses)
	}
	if s.AvgLoss > 0 {
		s.RiskReward = s.AvgWin / s.AvgLoss
	}
	s.Expectancy = s.AvgWin*s.HitRatio - (1.0-s.HitRatio)*s.AvgLoss

	return s
}

// SumByKey sums a string-keyed map after ordering its keys, so the float
// accumulation order never depends on map iteration.
func SumByKey(m map[string]float64) float64 {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sum float64
	for _, k := range keys {
		sum += m[k]
	}
	return sum
}

// Round3 rounds to 3 decimal places; applied to every percentage field at the
// result-row boundary.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
