// Package cli wires the subcommands: signals (signal-catalog backtests),
// decisions (recorded-decision analysis) and portfolio (ledger simulation).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tradeledger/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "tradeledger",
	Short: "Trade extraction and portfolio accounting engine",
	Long: `Tradeledger evaluates trading strategies against historical price series.

It provides tools for:
  - Backtesting the signal catalog across many tickers in parallel
  - Analyzing recorded buy/sell decision streams per strategy
  - Simulating a portfolio ledger with average-cost accounting
  - Exporting transactions, positions, P&L and snapshots as CSV`,
}

var cfgPath string

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to YAML config file")
}

func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(cfgPath)
}

func ensureOutputDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}
