package driver

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeledger/internal/strategy"
	"tradeledger/internal/trades"
	"tradeledger/types"
)

// alwaysTrade buys on the first bar and sells on the last.
type alwaysTrade struct{}

func (alwaysTrade) Flags(bars []types.PriceBar, param float64) trades.Flags {
	f := trades.NewFlags(len(bars))
	if len(bars) >= 2 {
		f.Buy[0] = 1
		f.Sell[len(bars)-1] = -1
	}
	return f
}

// neverTrade emits no signals for any series.
type neverTrade struct{}

func (neverTrade) Flags(bars []types.PriceBar, param float64) trades.Flags {
	return trades.NewFlags(len(bars))
}

func testBars(ticker string, opens ...float64) []types.PriceBar {
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

func testCatalog() []strategy.Config {
	return []strategy.Config{
		{Name: "always", Signaler: alwaysTrade{}},
		{Name: "never", Signaler: neverTrade{}},
	}
}

func TestRunSignalCatalog(t *testing.T) {
	bars := map[string][]types.PriceBar{
		"AAPL": testBars("AAPL", 10, 11, 12),
		"MSFT": testBars("MSFT", 20, 19, 25),
	}

	d := New(4, false)
	rows, err := d.RunSignalCatalog(context.Background(), bars, testCatalog())
	require.NoError(t, err)

	// The silent strategy produces no rows.
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, "always", row.Strategy)
		assert.Equal(t, 1, row.Buys)
		assert.Equal(t, 1, row.Sells)
	}
	assert.Equal(t, "AAPL", rows[0].Ticker)
	assert.Equal(t, "MSFT", rows[1].Ticker)
	assert.InDelta(t, 2.0, rows[0].MaxGain, 1e-9)
	assert.InDelta(t, 5.0, rows[1].MaxGain, 1e-9)
}

func TestRunSignalCatalogDeterministic(t *testing.T) {
	bars := map[string][]types.PriceBar{
		"AAPL": testBars("AAPL", 10, 11, 12, 11, 14),
		"MSFT": testBars("MSFT", 20, 19, 25, 23, 28),
		"GOOG": testBars("GOOG", 30, 29, 28, 33, 31),
	}

	d := New(8, false)
	first, err := d.RunSignalCatalog(context.Background(), bars, testCatalog())
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := d.RunSignalCatalog(context.Background(), bars, testCatalog())
		require.NoError(t, err)
		assert.Equal(t, first, again, "results vary across runs")
	}
}

func TestRunSignalCatalogCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bars := map[string][]types.PriceBar{"AAPL": testBars("AAPL", 10, 11)}
	d := New(1, false)
	_, err := d.RunSignalCatalog(ctx, bars, testCatalog())
	assert.ErrorIs(t, err, context.Canceled)
}

// cancelOnFlags trades like alwaysTrade but cancels the run's context as a
// side effect, so pairs scheduled after it see a dead context.
type cancelOnFlags struct {
	cancel context.CancelFunc
}

func (c cancelOnFlags) Flags(bars []types.PriceBar, param float64) trades.Flags {
	defer c.cancel()
	return alwaysTrade{}.Flags(bars, param)
}

func TestRunSignalCatalogKeepsPartialRowsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bars := map[string][]types.PriceBar{
		"AAPL": testBars("AAPL", 10, 11, 12),
		"MSFT": testBars("MSFT", 20, 19, 25),
	}
	catalog := []strategy.Config{{Name: "always", Signaler: cancelOnFlags{cancel: cancel}}}

	// One worker runs the pairs in order: AAPL completes and cancels, MSFT
	// is never evaluated.
	d := New(1, false)
	rows, err := d.RunSignalCatalog(ctx, bars, catalog)

	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, rows, 1, "rows finished before cancellation are retained")
	assert.Equal(t, "AAPL", rows[0].Ticker)
}

func TestRunDecisionAnalysis(t *testing.T) {
	bars := map[string][]types.PriceBar{"AAPL": testBars("AAPL", 100, 102, 101, 103)}
	events := []types.SignalEvent{
		{Date: bars["AAPL"][0].Date, Ticker: "AAPL", Strategy: "sma", Action: types.ActionBuy},
		{Date: bars["AAPL"][3].Date, Ticker: "AAPL", Strategy: "sma", Action: types.ActionSell},
		{Date: bars["AAPL"][1].Date, Ticker: "MSFT", Strategy: "sma", Action: types.ActionBuy},
	}

	d := New(2, false)
	rows, err := d.RunDecisionAnalysis(context.Background(), bars, events)
	require.NoError(t, err)

	// MSFT has no bars and is skipped.
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, "AAPL", row.Ticker)
	assert.Equal(t, "sma", row.Strategy)
	assert.Equal(t, 1, row.NumTrades)
	assert.NotZero(t, row.PctTimeInMarket)
}
