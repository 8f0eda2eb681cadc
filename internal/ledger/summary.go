package ledger

import (
	"math"

	"github.com/shopspring/decimal"

	"tradeledger/internal/analytics"
)

const daysPerYear = 365.25

// CalculatePerformanceSummary reduces the ledger's recorded history to a
// whole-portfolio report. It reads already-recorded state only and is safe to
// call repeatedly.
func (l *Ledger) CalculatePerformanceSummary() PerformanceSummary {
	s := PerformanceSummary{
		InitialValue:       l.initialCash,
		FinalValue:         l.GetTotalValue(),
		TotalRealizedPnL:   l.GetRealizedPnL(),
		TotalUnrealizedPnL: l.GetUnrealizedPnL(),
	}

	if !l.initialCash.IsZero() {
		s.TotalReturnPct = s.FinalValue.Sub(l.initialCash).Div(l.initialCash).Mul(oneHundred).InexactFloat64()
	}
	s.CAGR = l.calculateCAGR()
	s.MaxDrawdownPct = l.calculateMaxDrawdown()
	s.SharpeRatio = l.calculateSharpe()

	for _, tx := range l.transactions {
		s.TotalCommissions = s.TotalCommissions.Add(tx.Commission)
	}

	sumWin, sumLoss := decimal.Zero, decimal.Zero
	var sumWinPct, sumLossPct float64
	for i, r := range l.realized {
		switch {
		case r.NetPnL.IsPositive():
			s.WinningTrades++
			sumWin = sumWin.Add(r.NetPnL)
			sumWinPct += r.PnLPct.InexactFloat64()
		case r.NetPnL.IsNegative():
			s.LosingTrades++
			sumLoss = sumLoss.Add(r.NetPnL.Abs())
			sumLossPct += r.PnLPct.Abs().InexactFloat64()
		}

		d := r.HoldingDays
		if i == 0 {
			s.MaxHoldingDays, s.MinHoldingDays = d, d
		}
		if d > s.MaxHoldingDays {
			s.MaxHoldingDays = d
		}
		if d < s.MinHoldingDays {
			s.MinHoldingDays = d
		}
		s.AvgHoldingDays += float64(d)
	}
	s.TotalTrades = len(l.realized)
	if s.TotalTrades > 0 {
		s.AvgHoldingDays /= float64(s.TotalTrades)
	}

	if n := s.WinningTrades + s.LosingTrades; n > 0 {
		s.WinRatePct = float64(s.WinningTrades) / float64(n) * 100
	}
	if s.WinningTrades > 0 {
		s.AvgWinPct = sumWinPct / float64(s.WinningTrades)
	}
	if s.LosingTrades > 0 {
		s.AvgLossPct = sumLossPct / float64(s.LosingTrades)
	}

	switch {
	case s.LosingTrades > 0 && !sumLoss.IsZero():
		s.ProfitFactor = math.Min(analytics.ProfitFactorCap, sumWin.Div(sumLoss).InexactFloat64())
	case s.WinningTrades > 0:
		s.ProfitFactor = analytics.ProfitFactorCap
	}

	return s
}

// calculateCAGR annualizes growth between the first and last snapshot.
func (l *Ledger) calculateCAGR() float64 {
	if len(l.snapshots) < 2 {
		return 0
	}
	first, last := l.snapshots[0], l.snapshots[len(l.snapshots)-1]
	years := last.Date.Sub(first.Date).Hours() / 24 / daysPerYear
	if years <= 0 {
		return 0
	}
	initial := first.TotalValue.InexactFloat64()
	final := last.TotalValue.InexactFloat64()
	if initial <= 0 {
		return 0
	}
	return (math.Pow(final/initial, 1/years) - 1) * 100
}

// calculateMaxDrawdown peak-tracks snapshot total value and reports the
// largest percentage drop from a peak.
func (l *Ledger) calculateMaxDrawdown() float64 {
	var peak, maxDD float64
	for _, snap := range l.snapshots {
		v := snap.TotalValue.InexactFloat64()
		if v > peak {
			peak = v
		}
		if peak > 0 {
			if dd := (peak - v) / peak * 100; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

func (l *Ledger) calculateSharpe() float64 {
	returns := make([]float64, len(l.snapshots))
	for i, snap := range l.snapshots {
		returns[i] = snap.DailyReturnPct.InexactFloat64()
	}
	return analytics.SharpeRatio(returns)
}
