package backtest

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeledger/types"
)

func runnerBars(ticker string, opens ...float64) []types.PriceBar {
	bars := make([]types.PriceBar, len(opens))
	for i, o := range opens {
		bars[i] = types.PriceBar{
			Date:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Ticker: ticker,
			Open:   decimal.NewFromFloat(o),
			Close:  decimal.NewFromFloat(o),
		}
	}
	return bars
}

func testParams() Params {
	return Params{
		InitialCash:   decimal.NewFromInt(100000),
		Commission:    decimal.NewFromFloat(6.95),
		AllocationPct: decimal.NewFromInt(10),
	}
}

func TestRunnerBuyThenSell(t *testing.T) {
	bars := map[string][]types.PriceBar{"AAPL": runnerBars("AAPL", 100, 101, 102, 103, 110)}
	events := []types.SignalEvent{
		ev(0, "AAPL", "combined", types.ActionBuy),
		ev(4, "AAPL", "combined", types.ActionSell),
	}

	r := NewRunner(testParams())
	require.NoError(t, r.Run(bars, events))

	led := r.Ledger()
	assert.False(t, led.HasPosition("AAPL"), "position closed by sell")

	txs := led.GetTransactions()
	require.Len(t, txs, 2)
	// 10% of 100k minus commission buys 99 shares at 100.
	assert.True(t, txs[0].Shares.Equal(decimal.NewFromInt(99)), "shares = %s", txs[0].Shares)

	realized := led.GetRealized()
	require.Len(t, realized, 1)
	assert.True(t, realized[0].NetPnL.IsPositive())

	// One snapshot per trading day.
	assert.Len(t, led.GetSnapshots(), 5)
}

func TestRunnerSellWithoutPositionSkipped(t *testing.T) {
	bars := map[string][]types.PriceBar{"AAPL": runnerBars("AAPL", 100, 101)}
	events := []types.SignalEvent{ev(0, "AAPL", "combined", types.ActionSell)}

	r := NewRunner(testParams())
	require.NoError(t, r.Run(bars, events))
	assert.Empty(t, r.Ledger().GetTransactions())
}

func TestRunnerDoesNotPyramid(t *testing.T) {
	bars := map[string][]types.PriceBar{"AAPL": runnerBars("AAPL", 100, 101, 102)}
	events := []types.SignalEvent{
		ev(0, "AAPL", "combined", types.ActionBuy),
		ev(1, "AAPL", "combined", types.ActionBuy),
	}

	r := NewRunner(testParams())
	require.NoError(t, r.Run(bars, events))
	assert.Len(t, r.Ledger().GetTransactions(), 1, "second buy on an open position is skipped")
}

func TestRunnerSellFreesCashForSameDayBuy(t *testing.T) {
	bars := map[string][]types.PriceBar{
		"AAPL": runnerBars("AAPL", 100, 100),
		"MSFT": runnerBars("MSFT", 200, 200),
	}
	events := []types.SignalEvent{
		ev(0, "AAPL", "combined", types.ActionBuy),
		ev(1, "AAPL", "combined", types.ActionSell),
		ev(1, "MSFT", "combined", types.ActionBuy),
	}

	r := NewRunner(testParams())
	require.NoError(t, r.Run(bars, events))

	led := r.Ledger()
	assert.False(t, led.HasPosition("AAPL"))
	assert.True(t, led.HasPosition("MSFT"))

	txs := led.GetTransactions()
	require.Len(t, txs, 3)
	assert.Equal(t, "sell", txs[1].Action, "day 1 sell executes before the buy")
	assert.Equal(t, "buy", txs[2].Action)
}

func TestRunnerSnapshotsMarkToMarket(t *testing.T) {
	bars := map[string][]types.PriceBar{"AAPL": runnerBars("AAPL", 100, 120)}
	events := []types.SignalEvent{ev(0, "AAPL", "combined", types.ActionBuy)}

	r := NewRunner(testParams())
	require.NoError(t, r.Run(bars, events))

	snaps := r.Ledger().GetSnapshots()
	require.Len(t, snaps, 2)
	assert.True(t, snaps[1].TotalValue.GreaterThan(snaps[0].TotalValue),
		"day 1 mark lifts total value: %s -> %s", snaps[0].TotalValue, snaps[1].TotalValue)
	assert.Equal(t, 1, snaps[1].PositionCount)
}
