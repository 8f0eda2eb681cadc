// Package report serializes ledger history and backtest result tables for
// external consumption. Writers take an io.Writer, pass os.Stdout for
// debugging or a file for export.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"tradeledger/internal/ledger"
	"tradeledger/types"
)

const dateFormat = "2006-01-02"

// WriteCSVFile writes one table to a CSV file at the given path.
func WriteCSVFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()
	return write(f)
}

func WriteTransactionsCSV(w io.Writer, txs []ledger.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"id", "date", "ticker", "action", "shares", "price", "gross_amount", "commission", "net_amount", "cash_impact"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, tx := range txs {
		record := []string{
			strconv.Itoa(tx.Id),
			tx.Date.Format(dateFormat),
			tx.Ticker,
			tx.Action,
			tx.Shares.String(),
			tx.Price.String(),
			tx.GrossAmount.String(),
			tx.Commission.String(),
			tx.NetAmount.String(),
			tx.CashImpact.String(),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func WritePositionsCSV(w io.Writer, positions []ledger.Position) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"ticker", "shares", "avg_cost_basis", "total_cost", "current_price", "current_value", "unrealized_pnl", "unrealized_pnl_pct", "entry_date", "last_update_date"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, pos := range positions {
		record := []string{
			pos.Ticker,
			pos.Shares.String(),
			pos.AvgCostBasis.String(),
			pos.TotalCost.String(),
			pos.CurrentPrice.String(),
			pos.CurrentValue.String(),
			pos.UnrealizedPnL.String(),
			pos.UnrealizedPnLPct.String(),
			pos.EntryDate.Format(dateFormat),
			pos.LastUpdateDate.Format(dateFormat),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteRealizedPnLCSV(w io.Writer, realized []ledger.RealizedPnL) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"ticker", "entry_date", "close_date", "entry_price", "exit_price", "shares", "gross_proceeds", "cost_for_shares", "commission", "net_pnl", "pnl_pct", "holding_days"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range realized {
		record := []string{
			r.Ticker,
			r.EntryDate.Format(dateFormat),
			r.CloseDate.Format(dateFormat),
			r.EntryPrice.String(),
			r.ExitPrice.String(),
			r.Shares.String(),
			r.GrossProceeds.String(),
			r.CostForShares.String(),
			r.Commission.String(),
			r.NetPnL.String(),
			r.PnLPct.String(),
			strconv.Itoa(r.HoldingDays),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteSnapshotsCSV(w io.Writer, snaps []ledger.DailySnapshot) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"date", "cash_balance", "equity_value", "total_value", "position_count", "total_unrealized_pnl", "total_realized_pnl", "daily_return_pct"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, s := range snaps {
		record := []string{
			s.Date.Format(dateFormat),
			s.CashBalance.String(),
			s.EquityValue.String(),
			s.TotalValue.String(),
			strconv.Itoa(s.PositionCount),
			s.TotalUnrealizedPnL.String(),
			s.TotalRealizedPnL.String(),
			s.DailyReturnPct.String(),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteCashFlowsCSV(w io.Writer, flows []ledger.CashFlow) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"date", "description", "amount", "cash_balance_after"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, cf := range flows {
		record := []string{
			cf.Date.Format(dateFormat),
			cf.Description,
			cf.Amount.String(),
			cf.CashBalanceAfter.String(),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteSignalResultsCSV(w io.Writer, rows []types.SignalBacktest) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"ticker", "strategy", "expectancy", "profit_factor", "hit_ratio", "realized_risk_reward", "avg_gain", "avg_loss", "max_gain", "max_loss", "buys", "sells", "trades"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.Ticker,
			r.Strategy,
			formatFloat(r.Expectancy),
			formatFloat(r.ProfitFactor),
			formatFloat(r.HitRatio),
			formatFloat(r.RiskReward),
			formatFloat(r.AvgGain),
			formatFloat(r.AvgLoss),
			formatFloat(r.MaxGain),
			formatFloat(r.MaxLoss),
			strconv.Itoa(r.Buys),
			strconv.Itoa(r.Sells),
			strconv.Itoa(r.Trades),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteStrategyResultsCSV(w io.Writer, rows []types.StrategyResult) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"ticker", "strategy", "total_return_pct", "buy_hold_return_pct", "excess_return_pct",
		"num_trades", "win_rate_pct", "avg_win_pct", "avg_loss_pct", "profit_factor",
		"sharpe_ratio", "max_drawdown_pct", "avg_position_days", "pct_time_in_market",
		"st_cum_return", "st_accuracy", "mt_cum_return", "mt_accuracy", "lt_cum_return", "lt_accuracy",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.Ticker,
			r.Strategy,
			formatFloat(r.TotalReturnPct),
			formatFloat(r.BuyHoldReturnPct),
			formatFloat(r.ExcessReturnPct),
			strconv.Itoa(r.NumTrades),
			formatFloat(r.WinRatePct),
			formatFloat(r.AvgWinPct),
			formatFloat(r.AvgLossPct),
			formatFloat(r.ProfitFactor),
			formatFloat(r.SharpeRatio),
			formatFloat(r.MaxDrawdownPct),
			formatFloat(r.AvgPositionDays),
			formatFloat(r.PctTimeInMarket),
			formatFloat(r.ShortTermCumPct),
			formatFloat(r.ShortTermAccuracy),
			formatFloat(r.MidTermCumPct),
			formatFloat(r.MidTermAccuracy),
			formatFloat(r.LongTermCumPct),
			formatFloat(r.LongTermAccuracy),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
