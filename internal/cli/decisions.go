package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"tradeledger/internal/config"
	"tradeledger/internal/driver"
	"tradeledger/internal/journal"
	"tradeledger/internal/report"
	"tradeledger/internal/repository"
	"tradeledger/types"
)

var decisionsCmd = &cobra.Command{
	Use:   "decisions",
	Short: "Analyze recorded buy/sell decision streams",
	Long: `Decisions replays recorded per-strategy decision streams through the
holding-state view and reports per-(ticker, strategy) performance including
short/mid/long term breakdowns.

Decisions come from the database, or from a directory of
TICKER_strategy_decisions.csv files when run.decisions_dir is set.`,
	RunE: runDecisions,
}

func init() {
	rootCmd.AddCommand(decisionsCmd)
}

func runDecisions(cmd *cobra.Command, args []string) error {
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

	events, err := loadEvents(cmd, cfg, &db)
	if err != nil {
		return err
	}

	d := driver.New(cfg.Run.Workers, cfg.Output.Progress)
	// Rows finished before a cancellation are still journaled and exported.
	rows, runErr := d.RunDecisionAnalysis(ctx, barsByTicker, events)
	if runErr != nil && len(rows) == 0 {
		return runErr
	}

	j, err := journal.NewSQLite(cfg.Journal.DBPath)
	if err != nil {
		return err
	}
	defer j.Close()

	runID, err := j.RecordRun("decisions", cfg.Run.Tickers, "")
	if err != nil {
		return err
	}
	if err := j.RecordStrategyResults(runID, rows); err != nil {
		return err
	}

	if err := ensureOutputDir(cfg.Output.Dir); err != nil {
		return err
	}
	out := filepath.Join(cfg.Output.Dir, fmt.Sprintf("strategy_results_%s.csv", runID))
	if err := report.WriteCSVFile(out, func(w io.Writer) error {
		return report.WriteStrategyResultsCSV(w, rows)
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

// loadEvents prefers a local decisions directory over the database. Parse
// failures inside a directory only drop the affected records.
func loadEvents(cmd *cobra.Command, cfg *config.Config, db *repository.Database) ([]types.SignalEvent, error) {
	if cfg.Run.DecisionsDir != "" {
		events, err := repository.LoadDecisionsDir(cfg.Run.DecisionsDir)
		if err != nil && len(events) == 0 {
			return nil, err
		}
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "skipped malformed decision records: %v\n", err)
		}
		return events, nil
	}
	events, err := db.GetDecisions(cmd.Context(), cfg.Run.Tickers, cfg.StartDate(), cfg.EndDate())
	if errors.Is(err, repository.ErrNoDecisions) {
		return nil, fmt.Errorf("no decisions recorded for the configured tickers: %w", err)
	}
	return events, err
}
