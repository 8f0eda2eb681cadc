// Package ledger implements average-cost portfolio accounting: a cash
// balance, per-ticker positions with partial fills, and append-only records
// of every transaction, cash flow, realized P&L event, and daily snapshot.
//
// A Ledger is single-writer. All mutating calls must come from one sequential
// control loop; run independent backtests against independent ledgers.
package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

type Ledger struct {
	cash        decimal.Decimal
	initialCash decimal.Decimal

	positions    map[string]*Position
	transactions []Transaction
	realized     []RealizedPnL
	cashFlows    []CashFlow
	snapshots    []DailySnapshot
}

func New(initialCash decimal.Decimal) *Ledger {
	return &Ledger{
		cash:        initialCash,
		initialCash: initialCash,
		positions:   make(map[string]*Position),
	}
}

func validateOrder(shares, price, commission decimal.Decimal) error {
	if !shares.IsPositive() || !price.IsPositive() || commission.IsNegative() {
		return InvalidInputErr
	}
	return nil
}

// ExecuteBuy debits cash and creates or re-averages the ticker's position.
// The commission is folded into the cost basis, so a fresh buy starts with an
// unrealized loss equal to the commission. Nothing is mutated on failure.
func (l *Ledger) ExecuteBuy(date time.Time, ticker string, shares, price, commission decimal.Decimal) (Transaction, error) {
	if err := validateOrder(shares, price, commission); err != nil {
		return Transaction{}, err
	}
	gross := shares.Mul(price)
	cost := gross.Add(commission)
	if cost.GreaterThan(l.cash) {
		return Transaction{}, InsufficientCashErr
	}

	l.cash = l.cash.Sub(cost)

	pos, ok := l.positions[ticker]
	if !ok {
		pos = &Position{Ticker: ticker, EntryDate: date}
		l.positions[ticker] = pos
	}
	pos.Shares = pos.Shares.Add(shares)
	pos.TotalCost = pos.TotalCost.Add(cost)
	pos.AvgCostBasis = pos.TotalCost.Div(pos.Shares)
	l.markPosition(pos, price, date)

	tx := Transaction{
		Id:          len(l.transactions),
		Date:        date,
		Ticker:      ticker,
		Action:      "buy",
		Shares:      shares,
		Price:       price,
		GrossAmount: gross,
		Commission:  commission,
		NetAmount:   cost,
		CashImpact:  cost.Neg(),
	}
	l.transactions = append(l.transactions, tx)
	l.recordCashFlow(date, fmt.Sprintf("buy %s %s @ %s", shares, ticker, price), cost.Neg())
	return tx, nil
}

// ExecuteSell closes the entire position held for ticker.
func (l *Ledger) ExecuteSell(date time.Time, ticker string, price, commission decimal.Decimal) (Transaction, error) {
	pos, ok := l.positions[ticker]
	if !ok {
		return Transaction{}, NoPositionErr
	}
	return l.ExecuteSellShares(date, ticker, pos.Shares, price, commission)
}

// ExecuteSellShares sells part or all of a position. Cost for the sold shares
// is pro-rated from the position's total cost; the position is removed once
// its share count reaches zero. Nothing is mutated on failure.
func (l *Ledger) ExecuteSellShares(date time.Time, ticker string, shares, price, commission decimal.Decimal) (Transaction, error) {
	if err := validateOrder(shares, price, commission); err != nil {
		return Transaction{}, err
	}
	pos, ok := l.positions[ticker]
	if !ok {
		return Transaction{}, NoPositionErr
	}
	if shares.GreaterThan(pos.Shares) {
		return Transaction{}, InsufficientSharesErr
	}

	gross := shares.Mul(price)
	net := gross.Sub(commission)
	costForShares := pos.TotalCost.Mul(shares).Div(pos.Shares)
	netPnL := net.Sub(costForShares)

	pnlPct := decimal.Zero
	if !costForShares.IsZero() {
		pnlPct = net.Div(costForShares).Sub(decimal.NewFromInt(1)).Mul(oneHundred)
	}

	l.cash = l.cash.Add(net)

	l.realized = append(l.realized, RealizedPnL{
		Ticker:        ticker,
		EntryDate:     pos.EntryDate,
		CloseDate:     date,
		EntryPrice:    pos.AvgCostBasis,
		ExitPrice:     price,
		Shares:        shares,
		GrossProceeds: gross,
		CostForShares: costForShares,
		Commission:    commission,
		NetPnL:        netPnL,
		PnLPct:        pnlPct,
		HoldingDays:   holdingDays(pos.EntryDate, date),
	})

	pos.Shares = pos.Shares.Sub(shares)
	pos.TotalCost = pos.TotalCost.Sub(costForShares)
	if pos.Shares.IsZero() {
		delete(l.positions, ticker)
	} else {
		pos.AvgCostBasis = pos.TotalCost.Div(pos.Shares)
		l.markPosition(pos, price, date)
	}

	tx := Transaction{
		Id:          len(l.transactions),
		Date:        date,
		Ticker:      ticker,
		Action:      "sell",
		Shares:      shares,
		Price:       price,
		GrossAmount: gross,
		Commission:  commission,
		NetAmount:   net,
		CashImpact:  net,
	}
	l.transactions = append(l.transactions, tx)
	l.recordCashFlow(date, fmt.Sprintf("sell %s %s @ %s", shares, ticker, price), net)
	return tx, nil
}

// MarkToMarket revalues every held ticker present in prices. Tickers absent
// from the map keep their previous mark.
func (l *Ledger) MarkToMarket(date time.Time, prices map[string]decimal.Decimal) {
	for ticker, pos := range l.positions {
		price, ok := prices[ticker]
		if !ok {
			continue
		}
		l.markPosition(pos, price, date)
	}
}

func (l *Ledger) markPosition(pos *Position, price decimal.Decimal, date time.Time) {
	pos.CurrentPrice = price
	pos.CurrentValue = pos.Shares.Mul(price)
	pos.UnrealizedPnL = pos.CurrentValue.Sub(pos.TotalCost)
	if pos.TotalCost.IsZero() {
		pos.UnrealizedPnLPct = decimal.Zero
	} else {
		pos.UnrealizedPnLPct = pos.UnrealizedPnL.Div(pos.TotalCost).Mul(oneHundred)
	}
	pos.LastUpdateDate = date
}

// TakeDailySnapshot appends a snapshot of current ledger state. Snapshot
// dates must be fed in non-decreasing order; the ledger does not enforce it.
func (l *Ledger) TakeDailySnapshot(date time.Time) DailySnapshot {
	equity := l.GetEquityValue()
	total := l.cash.Add(equity)

	base := l.initialCash
	if n := len(l.snapshots); n > 0 {
		base = l.snapshots[n-1].TotalValue
	}
	ret := decimal.Zero
	if !base.IsZero() {
		ret = total.Sub(base).Div(base).Mul(oneHundred)
	}

	snap := DailySnapshot{
		Date:               date,
		CashBalance:        l.cash,
		EquityValue:        equity,
		TotalValue:         total,
		PositionCount:      len(l.positions),
		TotalUnrealizedPnL: l.GetUnrealizedPnL(),
		TotalRealizedPnL:   l.GetRealizedPnL(),
		DailyReturnPct:     ret,
	}
	l.snapshots = append(l.snapshots, snap)
	return snap
}

// GetEquityValue sums position values in ticker order so the result never
// depends on map iteration.
func (l *Ledger) GetEquityValue() decimal.Decimal {
	equity := decimal.Zero
	for _, ticker := range l.tickers() {
		equity = equity.Add(l.positions[ticker].CurrentValue)
	}
	return equity
}

func (l *Ledger) GetUnrealizedPnL() decimal.Decimal {
	pnl := decimal.Zero
	for _, ticker := range l.tickers() {
		pnl = pnl.Add(l.positions[ticker].UnrealizedPnL)
	}
	return pnl
}

func (l *Ledger) GetRealizedPnL() decimal.Decimal {
	pnl := decimal.Zero
	for _, r := range l.realized {
		pnl = pnl.Add(r.NetPnL)
	}
	return pnl
}

func (l *Ledger) GetTotalValue() decimal.Decimal {
	return l.cash.Add(l.GetEquityValue())
}

func (l *Ledger) GetCashBalance() decimal.Decimal { return l.cash }
func (l *Ledger) GetInitialCash() decimal.Decimal { return l.initialCash }
func (l *Ledger) GetPositionCount() int           { return len(l.positions) }

func (l *Ledger) HasPosition(ticker string) bool {
	_, ok := l.positions[ticker]
	return ok
}

// GetPosition returns a copy; callers cannot mutate ledger state through it.
func (l *Ledger) GetPosition(ticker string) (Position, bool) {
	pos, ok := l.positions[ticker]
	if !ok {
		return Position{}, false
	}
	return *pos, true
}

// GetAllPositions returns position copies sorted by ticker.
func (l *Ledger) GetAllPositions() []Position {
	out := make([]Position, 0, len(l.positions))
	for _, ticker := range l.tickers() {
		out = append(out, *l.positions[ticker])
	}
	return out
}

// GetPositionWeight reports a ticker's share of total portfolio value, 0-100.
func (l *Ledger) GetPositionWeight(ticker string) decimal.Decimal {
	pos, ok := l.positions[ticker]
	if !ok {
		return decimal.Zero
	}
	total := l.GetTotalValue()
	if total.IsZero() {
		return decimal.Zero
	}
	return pos.CurrentValue.Div(total).Mul(oneHundred)
}

// GetAllPositionWeights reports every held ticker's weight, keyed by ticker.
func (l *Ledger) GetAllPositionWeights() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(l.positions))
	total := l.GetTotalValue()
	if total.IsZero() {
		return out
	}
	for ticker, pos := range l.positions {
		out[ticker] = pos.CurrentValue.Div(total).Mul(oneHundred)
	}
	return out
}

func (l *Ledger) GetTransactions() []Transaction { return append([]Transaction(nil), l.transactions...) }
func (l *Ledger) GetRealized() []RealizedPnL     { return append([]RealizedPnL(nil), l.realized...) }
func (l *Ledger) GetCashFlows() []CashFlow       { return append([]CashFlow(nil), l.cashFlows...) }
func (l *Ledger) GetSnapshots() []DailySnapshot  { return append([]DailySnapshot(nil), l.snapshots...) }

func (l *Ledger) recordCashFlow(date time.Time, description string, amount decimal.Decimal) {
	l.cashFlows = append(l.cashFlows, CashFlow{
		Date:             date,
		Description:      description,
		Amount:           amount,
		CashBalanceAfter: l.cash,
	})
}

func (l *Ledger) tickers() []string {
	keys := make([]string, 0, len(l.positions))
	for k := range l.positions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func holdingDays(entry, exit time.Time) int {
	return int(exit.Sub(entry).Hours() / 24)
}
