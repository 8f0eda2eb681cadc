// Package journal persists backtest runs and their result rows to a local
// SQLite file, one row per (run, ticker, strategy).
package journal

import (
	"database/sql"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"tradeledger/types"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteJournal{db: db}, nil
}

// RecordRun registers a run and returns its generated id.
func (j *SQLiteJournal) RecordRun(kind string, tickers []string, note string) (string, error) {
	runID := NewRunID()
	_, err := j.db.Exec(`
		INSERT INTO runs (run_id, started_at, kind, tickers, note)
		VALUES (?, ?, ?, ?, ?)`,
		runID, time.Now().UTC(), kind, strings.Join(tickers, ","), note,
	)
	if err != nil {
		return "", err
	}
	return runID, nil
}

func (j *SQLiteJournal) RecordSignalResults(runID string, rows []types.SignalBacktest) error {
	for _, r := range rows {
		_, err := j.db.Exec(`
			INSERT INTO signal_results
			(run_id, ticker, strategy, expectancy, profit_factor, hit_ratio, risk_reward,
			 avg_gain, avg_loss, max_gain, max_loss, buys, sells, trades)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, r.Ticker, r.Strategy, r.Expectancy, r.ProfitFactor, r.HitRatio, r.RiskReward,
			r.AvgGain, r.AvgLoss, r.MaxGain, r.MaxLoss, r.Buys, r.Sells, r.Trades,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (j *SQLiteJournal) RecordStrategyResults(runID string, rows []types.StrategyResult) error {
	for _, r := range rows {
		_, err := j.db.Exec(`
			INSERT INTO strategy_results
			(run_id, ticker, strategy, total_return_pct, buy_hold_return_pct, excess_return_pct,
			 num_trades, win_rate_pct, avg_win_pct, avg_loss_pct, profit_factor, sharpe_ratio,
			 max_drawdown_pct, avg_position_days, pct_time_in_market)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, r.Ticker, r.Strategy, r.TotalReturnPct, r.BuyHoldReturnPct, r.ExcessReturnPct,
			r.NumTrades, r.WinRatePct, r.AvgWinPct, r.AvgLossPct, r.ProfitFactor, r.SharpeRatio,
			r.MaxDrawdownPct, r.AvgPositionDays, r.PctTimeInMarket,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// ListRunIDs returns run ids ordered by id, which is start order for ULIDs.
func (j *SQLiteJournal) ListRunIDs() ([]string, error) {
	rows, err := j.db.Query(`SELECT run_id FROM runs ORDER BY run_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
