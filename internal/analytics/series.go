package analytics

import (
	"math"

	"tradeledger/internal/trades"
)

const tradingDaysPerYear = 252

// SharpeRatio annualizes mean over population standard deviation by the
// square root of 252 trading days. Fewer than two observations or a flat
// series yields 0 rather than dividing by zero.
func SharpeRatio(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var ss float64
	for _, r := range returns {
		d := r - mean
		ss += d * d
	}
	stdev := math.Sqrt(ss / float64(len(returns)))
	if stdev == 0 {
		return 0
	}
	return mean / stdev * math.Sqrt(tradingDaysPerYear)
}

// MaxDrawdown tracks the running peak of a cumulative return path built from
// the in-position daily returns and reports the largest peak-to-trough drop
// in cumulative percentage points.
func MaxDrawdown(returns []float64, held []bool) float64 {
	var cum, peak, maxDD float64
	for i, r := range returns {
		if held != nil && !held[i] {
			continue
		}
		cum += r
		if cum > peak {
			peak = cum
		}
		if dd := peak - cum; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// SeriesStats are the daily-series reductions of one holding-state view.
type SeriesStats struct {
	StrategyReturn  float64 // sum of daily returns while held
	BuyHoldReturn   float64 // compounded full-series return
	Sharpe          float64
	MaxDrawdown     float64
	PctTimeInMarket float64 // 0-100
	AvgPositionDays float64

	ShortTermCum      float64
	ShortTermAccuracy float64
	MidTermCum        float64
	MidTermAccuracy   float64
	LongTermCum       float64
	LongTermAccuracy  float64
}

// ComputeSeriesStats reduces a holding-state view to its daily-series
// statistics. The strategy return is additive in daily percentage points
// while the buy-hold benchmark compounds over the whole series; the gap is
// deliberate, the additive form is what the trade segments sum to.
func ComputeSeriesStats(st trades.State) SeriesStats {
	var s SeriesStats
	n := len(st.Returns)
	if n == 0 {
		return s
	}

	var heldReturns []float64
	heldDays := 0
	for i, r := range st.Returns {
		if st.Held[i] {
			s.StrategyReturn += r
			heldReturns = append(heldReturns, r)
			heldDays++
		}
	}

	compounded := 1.0
	for _, r := range st.Returns {
		compounded *= 1 + r/100
	}
	s.BuyHoldReturn = (compounded - 1) * 100

	s.Sharpe = SharpeRatio(heldReturns)
	s.MaxDrawdown = MaxDrawdown(st.Returns, st.Held)
	s.PctTimeInMarket = float64(heldDays) / float64(n) * 100

	if segs := st.Segments(); len(segs) > 0 {
		s.AvgPositionDays = float64(heldDays) / float64(len(segs))
	}

	s.ShortTermCum, s.ShortTermAccuracy = termStats(st.Returns, st.ShortTerm)
	s.MidTermCum, s.MidTermAccuracy = termStats(st.Returns, st.MidTerm)
	s.LongTermCum, s.LongTermAccuracy = termStats(st.Returns, st.LongTerm)
	return s
}

// termStats sums the daily returns on marker days and reports the fraction of
// those days with a positive return, as a 0-100 accuracy.
func termStats(returns []float64, marker []bool) (cum, accuracy float64) {
	days, positive := 0, 0
	for i, r := range returns {
		if !marker[i] {
			continue
		}
		cum += r
		days++
		if r > 0 {
			positive++
		}
	}
	if days > 0 {
		accuracy = float64(positive) / float64(days) * 100
	}
	return cum, accuracy
}
