package report

import (
	"encoding/json"
	"fmt"
	"io"

	"tradeledger/internal/ledger"
)

// PrintSummary renders a ledger performance summary in the console report
// format.
func PrintSummary(w io.Writer, s ledger.PerformanceSummary) {
	fmt.Fprintln(w, "===== Portfolio Report =====")
	fmt.Fprintf(w, "Initial Value:         %s\n", s.InitialValue)
	fmt.Fprintf(w, "Final Value:           %s\n", s.FinalValue)
	fmt.Fprintf(w, "Total Return:          %.3f%%\n", s.TotalReturnPct)
	fmt.Fprintf(w, "CAGR:                  %.3f%%\n", s.CAGR)

	fmt.Fprintln(w, "\n-- P&L --")
	fmt.Fprintf(w, "Realized PnL:          %s\n", s.TotalRealizedPnL)
	fmt.Fprintf(w, "Unrealized PnL:        %s\n", s.TotalUnrealizedPnL)
	fmt.Fprintf(w, "Total Commissions:     %s\n", s.TotalCommissions)

	fmt.Fprintln(w, "\n-- Trade-Level Metrics --")
	fmt.Fprintf(w, "Total Trades:          %d\n", s.TotalTrades)
	fmt.Fprintf(w, "Winning Trades:        %d\n", s.WinningTrades)
	fmt.Fprintf(w, "Losing Trades:         %d\n", s.LosingTrades)
	fmt.Fprintf(w, "Win Rate:              %.3f%%\n", s.WinRatePct)
	fmt.Fprintf(w, "Avg Win:               %.3f%%\n", s.AvgWinPct)
	fmt.Fprintf(w, "Avg Loss:              %.3f%%\n", s.AvgLossPct)
	fmt.Fprintf(w, "Profit Factor:         %.3f\n", s.ProfitFactor)

	fmt.Fprintln(w, "\n-- Risk Metrics --")
	fmt.Fprintf(w, "Max Drawdown:          %.3f%%\n", s.MaxDrawdownPct)
	fmt.Fprintf(w, "Sharpe Ratio:          %.3f\n", s.SharpeRatio)

	fmt.Fprintln(w, "\n-- Holding Periods --")
	fmt.Fprintf(w, "Avg Holding Days:      %.1f\n", s.AvgHoldingDays)
	fmt.Fprintf(w, "Max Holding Days:      %d\n", s.MaxHoldingDays)
	fmt.Fprintf(w, "Min Holding Days:      %d\n", s.MinHoldingDays)
}

// WriteSummaryJSON writes the summary as indented JSON.
func WriteSummaryJSON(w io.Writer, s ledger.PerformanceSummary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
