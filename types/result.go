package types

// SignalBacktest is the result row of one signal-catalog backtest: one ticker,
// one strategy, variable-holding-period point returns reduced to trade-level
// statistics.
type SignalBacktest struct {
	Ticker       string  `json:"ticker"`
	Strategy     string  `json:"strategy"`
	Expectancy   float64 `json:"expectancy"`
	ProfitFactor float64 `json:"profit_factor"`
	HitRatio     float64 `json:"hit_ratio"`
	RiskReward   float64 `json:"realized_risk_reward"`
	AvgGain      float64 `json:"avg_gain"`
	AvgLoss      float64 `json:"avg_loss"`
	MaxGain      float64 `json:"max_gain"`
	MaxLoss      float64 `json:"max_loss"`
	Buys         int     `json:"buys"`
	Sells        int     `json:"sells"`
	Trades       int     `json:"trades"`
}

// StrategyResult is the decision-analysis result row for one (ticker,
// strategy) pair. Every percentage field is rounded to 3 decimals at the
// boundary where the row is built.
type StrategyResult struct {
	Ticker            string  `json:"ticker"`
	Strategy          string  `json:"strategy"`
	TotalReturnPct    float64 `json:"total_return_pct"`
	BuyHoldReturnPct  float64 `json:"buy_hold_return_pct"`
	ExcessReturnPct   float64 `json:"excess_return_pct"`
	NumTrades         int     `json:"num_trades"`
	WinRatePct        float64 `json:"win_rate_pct"`
	AvgWinPct         float64 `json:"avg_win_pct"`
	AvgLossPct        float64 `json:"avg_loss_pct"`
	ProfitFactor      float64 `json:"profit_factor"`
	SharpeRatio       float64 `json:"sharpe_ratio"`
	MaxDrawdownPct    float64 `json:"max_drawdown_pct"`
	AvgPositionDays   float64 `json:"avg_position_days"`
	PctTimeInMarket   float64 `json:"pct_time_in_market"`
	ShortTermCumPct   float64 `json:"st_cum_return"`
	ShortTermAccuracy float64 `json:"st_accuracy"`
	MidTermCumPct     float64 `json:"mt_cum_return"`
	MidTermAccuracy   float64 `json:"mt_accuracy"`
	LongTermCumPct    float64 `json:"lt_cum_return"`
	LongTermAccuracy  float64 `json:"lt_accuracy"`
}
