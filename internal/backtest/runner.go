package backtest

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"tradeledger/internal/ledger"
	"tradeledger/types"
)

// Params sizes and prices the simulated orders.
type Params struct {
	InitialCash   decimal.Decimal
	Commission    decimal.Decimal
	AllocationPct decimal.Decimal // cash fraction committed per buy, 0-100
}

// Runner replays signal events against price history through one ledger.
type Runner struct {
	params Params
	ledger *ledger.Ledger
}

func NewRunner(params Params) *Runner {
	return &Runner{
		params: params,
		ledger: ledger.New(params.InitialCash),
	}
}

func (r *Runner) Ledger() *ledger.Ledger { return r.ledger }

// Run walks the union of bar dates in order. Each day it executes that day's
// sells, then its buys sized as a fixed fraction of current cash, then marks
// every position to the day's closes and snapshots the ledger. Rejected
// orders (insufficient cash or shares, no position) are skipped, not fatal;
// other execution errors abort the run.
func (r *Runner) Run(barsByTicker map[string][]types.PriceBar, events []types.SignalEvent) error {
	closes := make(map[time.Time]map[string]decimal.Decimal)
	opens := make(map[time.Time]map[string]decimal.Decimal)
	for ticker, bars := range barsByTicker {
		for _, bar := range bars {
			d := bar.Date
			if closes[d] == nil {
				closes[d] = make(map[string]decimal.Decimal)
				opens[d] = make(map[string]decimal.Decimal)
			}
			closes[d][ticker] = bar.Close
			opens[d][ticker] = bar.Open
		}
	}

	dates := make([]time.Time, 0, len(closes))
	for d := range closes {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	eventsByDate := make(map[time.Time][]types.SignalEvent)
	for _, ev := range events {
		eventsByDate[ev.Date] = append(eventsByDate[ev.Date], ev)
	}

	for _, d := range dates {
		dayEvents := eventsByDate[d]
		sort.Slice(dayEvents, func(i, j int) bool { return dayEvents[i].Ticker < dayEvents[j].Ticker })

		// Sells release cash before the day's buys size against it.
		for _, ev := range dayEvents {
			if ev.Action != types.ActionSell {
				continue
			}
			price, ok := opens[d][ev.Ticker]
			if !ok {
				continue
			}
			if err := r.sell(d, ev.Ticker, price); err != nil {
				return err
			}
		}
		for _, ev := range dayEvents {
			if ev.Action != types.ActionBuy {
				continue
			}
			price, ok := opens[d][ev.Ticker]
			if !ok {
				continue
			}
			if err := r.buy(d, ev.Ticker, price); err != nil {
				return err
			}
		}

		r.ledger.MarkToMarket(d, closes[d])
		r.ledger.TakeDailySnapshot(d)
	}
	return nil
}

func (r *Runner) buy(d time.Time, ticker string, price decimal.Decimal) error {
	if r.ledger.HasPosition(ticker) {
		return nil
	}
	budget := r.ledger.GetCashBalance().Mul(r.params.AllocationPct).Div(decimal.NewFromInt(100))
	budget = budget.Sub(r.params.Commission)
	if !budget.IsPositive() || !price.IsPositive() {
		return nil
	}
	shares := budget.Div(price).Floor()
	if !shares.IsPositive() {
		return nil
	}
	_, err := r.ledger.ExecuteBuy(d, ticker, shares, price, r.params.Commission)
	if errors.Is(err, ledger.InsufficientCashErr) {
		return nil
	}
	return err
}

func (r *Runner) sell(d time.Time, ticker string, price decimal.Decimal) error {
	_, err := r.ledger.ExecuteSell(d, ticker, price, r.params.Commission)
	if errors.Is(err, ledger.NoPositionErr) {
		return nil
	}
	return err
}
