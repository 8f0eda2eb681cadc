package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"tradeledger/internal/backtest"
	"tradeledger/internal/config"
	"tradeledger/internal/ledger"
	"tradeledger/internal/report"
	"tradeledger/internal/repository"
	"tradeledger/types"
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Simulate a portfolio ledger from combined decisions",
	Long: `Portfolio combines multi-strategy decisions into one stream, replays it
against price history through an average-cost ledger, and writes the full
accounting history (transactions, positions, realized P&L, snapshots, cash
flows) plus a performance summary.`,
	RunE: runPortfolio,
}

func init() {
	rootCmd.AddCommand(portfolioCmd)
}

func runPortfolio(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	dbURL, err := config.DatabaseURL()
	if err != nil {
		return err
	}
	db, err := repository.NewDatabase(ctx, dbURL)
	if err != nil {
		return err
	}
	defer db.Close()

	bars, err := db.GetPriceBars(ctx, cfg.Run.Tickers, cfg.StartDate(), cfg.EndDate())
	if err != nil {
		return err
	}
	events, err := loadEvents(cmd, cfg, &db)
	if err != nil {
		return err
	}

	combined := backtest.CombineDecisions(events, backtest.CombineMode(cfg.Run.Combine), cfg.Run.MinAgree)

	runner := backtest.NewRunner(backtest.Params{
		InitialCash:   decimal.NewFromFloat(cfg.Portfolio.InitialCash),
		Commission:    decimal.NewFromFloat(cfg.Portfolio.Commission),
		AllocationPct: decimal.NewFromFloat(cfg.Portfolio.AllocationPct),
	})
	if err := runner.Run(types.GroupBarsByTicker(bars), combined); err != nil {
		return err
	}

	led := runner.Ledger()
	summary := led.CalculatePerformanceSummary()
	report.PrintSummary(cmd.OutOrStdout(), summary)

	if err := ensureOutputDir(cfg.Output.Dir); err != nil {
		return err
	}
	return exportLedger(cfg.Output.Dir, led, summary)
}

func exportLedger(dir string, led *ledger.Ledger, summary ledger.PerformanceSummary) error {
	exports := []struct {
		name  string
		write func(io.Writer) error
	}{
		{"transactions.csv", func(w io.Writer) error { return report.WriteTransactionsCSV(w, led.GetTransactions()) }},
		{"positions.csv", func(w io.Writer) error { return report.WritePositionsCSV(w, led.GetAllPositions()) }},
		{"realized_pnl.csv", func(w io.Writer) error { return report.WriteRealizedPnLCSV(w, led.GetRealized()) }},
		{"snapshots.csv", func(w io.Writer) error { return report.WriteSnapshotsCSV(w, led.GetSnapshots()) }},
		{"cash_flows.csv", func(w io.Writer) error { return report.WriteCashFlowsCSV(w, led.GetCashFlows()) }},
	}
	for _, ex := range exports {
		if err := report.WriteCSVFile(filepath.Join(dir, ex.name), ex.write); err != nil {
			return err
		}
	}

	f, err := os.Create(filepath.Join(dir, "summary.json"))
	if err != nil {
		return fmt.Errorf("create summary file: %w", err)
	}
	defer f.Close()
	return report.WriteSummaryJSON(f, summary)
}
