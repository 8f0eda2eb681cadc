package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	started_at TIMESTAMP NOT NULL,
	kind TEXT NOT NULL,
	tickers TEXT NOT NULL,
	note TEXT
);

CREATE TABLE IF NOT EXISTS signal_results (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	ticker TEXT NOT NULL,
	strategy TEXT NOT NULL,
	expectancy REAL,
	profit_factor REAL,
	hit_ratio REAL,
	risk_reward REAL,
	avg_gain REAL,
	avg_loss REAL,
	max_gain REAL,
	max_loss REAL,
	buys INTEGER,
	sells INTEGER,
	trades INTEGER
);

CREATE TABLE IF NOT EXISTS strategy_results (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	ticker TEXT NOT NULL,
	strategy TEXT NOT NULL,
	total_return_pct REAL,
	buy_hold_return_pct REAL,
	excess_return_pct REAL,
	num_trades INTEGER,
	win_rate_pct REAL,
	avg_win_pct REAL,
	avg_loss_pct REAL,
	profit_factor REAL,
	sharpe_ratio REAL,
	max_drawdown_pct REAL,
	avg_position_days REAL,
	pct_time_in_market REAL
);

CREATE INDEX IF NOT EXISTS idx_signal_results_run ON signal_results(run_id);
CREATE INDEX IF NOT EXISTS idx_strategy_results_run ON strategy_results(run_id);
`
