package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is the average-cost view of one held ticker. A ticker with zero
// shares never exists as a Position; it is removed on full sell.
type Position struct {
	Ticker           string          `json:"ticker"`
	Shares           decimal.Decimal `json:"shares"`
	AvgCostBasis     decimal.Decimal `json:"avg_cost_basis"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	CurrentPrice     decimal.Decimal `json:"current_price"`
	CurrentValue     decimal.Decimal `json:"current_value"`
	UnrealizedPnL    decimal.Decimal `json:"unrealized_pnl"`
	UnrealizedPnLPct decimal.Decimal `json:"unrealized_pnl_pct"`
	EntryDate        time.Time       `json:"entry_date"`
	LastUpdateDate   time.Time       `json:"last_update_date"`
}

// Transaction is the immutable record of one executed order. Id is the
// ledger's transaction count at insert time.
type Transaction struct {
	Id          int             `json:"id"`
	Date        time.Time       `json:"date"`
	Ticker      string          `json:"ticker"`
	Action      string          `json:"action"`
	Shares      decimal.Decimal `json:"shares"`
	Price       decimal.Decimal `json:"price"`
	GrossAmount decimal.Decimal `json:"gross_amount"`
	Commission  decimal.Decimal `json:"commission"`
	NetAmount   decimal.Decimal `json:"net_amount"`
	CashImpact  decimal.Decimal `json:"cash_impact"`
}

// RealizedPnL is recorded exactly once per sell, full or partial. Cost is
// pro-rated from the position's total cost, not matched against specific lots.
type RealizedPnL struct {
	Ticker        string          `json:"ticker"`
	EntryDate     time.Time       `json:"entry_date"`
	CloseDate     time.Time       `json:"close_date"`
	EntryPrice    decimal.Decimal `json:"entry_price"`
	ExitPrice     decimal.Decimal `json:"exit_price"`
	Shares        decimal.Decimal `json:"shares"`
	GrossProceeds decimal.Decimal `json:"gross_proceeds"`
	CostForShares decimal.Decimal `json:"cost_for_shares"`
	Commission    decimal.Decimal `json:"commission"`
	NetPnL        decimal.Decimal `json:"net_pnl"`
	PnLPct        decimal.Decimal `json:"pnl_pct"`
	HoldingDays   int             `json:"holding_days"`
}

// CashFlow records one signed cash movement and the balance after it.
type CashFlow struct {
	Date             time.Time       `json:"date"`
	Description      string          `json:"description"`
	Amount           decimal.Decimal `json:"amount"`
	CashBalanceAfter decimal.Decimal `json:"cash_balance_after"`
}

// DailySnapshot captures whole-portfolio state at one snapshot date.
type DailySnapshot struct {
	Date               time.Time       `json:"date"`
	CashBalance        decimal.Decimal `json:"cash_balance"`
	EquityValue        decimal.Decimal `json:"equity_value"`
	TotalValue         decimal.Decimal `json:"total_value"`
	PositionCount      int             `json:"position_count"`
	TotalUnrealizedPnL decimal.Decimal `json:"total_unrealized_pnl"`
	TotalRealizedPnL   decimal.Decimal `json:"total_realized_pnl"`
	DailyReturnPct     decimal.Decimal `json:"daily_return_pct"`
}

// PerformanceSummary is the whole-portfolio report derived from the ledger's
// recorded history.
type PerformanceSummary struct {
	InitialValue       decimal.Decimal `json:"initial_value"`
	FinalValue         decimal.Decimal `json:"final_value"`
	TotalReturnPct     float64         `json:"total_return_pct"`
	CAGR               float64         `json:"cagr"`
	TotalRealizedPnL   decimal.Decimal `json:"total_realized_pnl"`
	TotalUnrealizedPnL decimal.Decimal `json:"total_unrealized_pnl"`
	TotalCommissions   decimal.Decimal `json:"total_commissions"`
	TotalTrades        int             `json:"total_trades"`
	WinningTrades      int             `json:"winning_trades"`
	LosingTrades       int             `json:"losing_trades"`
	WinRatePct         float64         `json:"win_rate_pct"`
	AvgWinPct          float64         `json:"avg_win_pct"`
	AvgLossPct         float64         `json:"avg_loss_pct"`
	ProfitFactor       float64         `json:"profit_factor"`
	MaxDrawdownPct     float64         `json:"max_drawdown_pct"`
	SharpeRatio        float64         `json:"sharpe_ratio"`
	AvgHoldingDays     float64         `json:"avg_holding_days"`
	MaxHoldingDays     int             `json:"max_holding_days"`
	MinHoldingDays     int             `json:"min_holding_days"`
}
