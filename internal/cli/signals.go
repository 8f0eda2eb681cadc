package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"tradeledger/internal/config"
	"tradeledger/internal/driver"
	"tradeledger/internal/journal"
	"tradeledger/internal/report"
	"tradeledger/internal/repository"
	"tradeledger/internal/strategy"
	"tradeledger/types"
)

var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "Backtest the signal catalog across tickers",
	Long: `Signals runs every registered signal strategy against every configured
ticker, extracts realized point returns under the first-opposite-signal rule
and reduces them to per-pair trade statistics.

Example:
  tradeledger signals -c config.yaml`,
	RunE: runSignals,
}

func init() {
	rootCmd.AddCommand(signalsCmd)
}

func runSignals(cmd *cobra.Command, args []string) error {
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
	barsByTicker := types.GroupBarsByTicker(bars)

	d := driver.New(cfg.Run.Workers, cfg.Output.Progress)
	// On cancellation the driver still hands back the rows finished so far;
	// persist them before surfacing the error.
	rows, runErr := d.RunSignalCatalog(ctx, barsByTicker, strategy.All())
	if runErr != nil && len(rows) == 0 {
		return runErr
	}

	j, err := journal.NewSQLite(cfg.Journal.DBPath)
	if err != nil {
		return err
	}
	defer j.Close()

	runID, err := j.RecordRun("signals", cfg.Run.Tickers, "")
	if err != nil {
		return err
	}
	if err := j.RecordSignalResults(runID, rows); err != nil {
		return err
	}

	if err := ensureOutputDir(cfg.Output.Dir); err != nil {
		return err
	}
	out := filepath.Join(cfg.Output.Dir, fmt.Sprintf("signal_results_%s.csv", runID))
	if err := report.WriteCSVFile(out, func(w io.Writer) error {
		return report.WriteSignalResultsCSV(w, rows)
	}); err != nil {
		return err
	}

	if runErr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "run %s interrupted, %d partial rows saved -> %s\n", runID, len(rows), out)
		return runErr
	}
	fmt.Printf("\nrun %s: %d result rows -> %s\n", runID, len(rows), out)
	return nil
}
