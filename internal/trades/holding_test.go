package trades

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeledger/types"
)

func barsFromCloses(closes ...float64) []types.PriceBar {
	bars := make([]types.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = types.PriceBar{
			Date:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Ticker: "AAPL",
			Open:   decimal.NewFromFloat(c),
			Close:  decimal.NewFromFloat(c),
		}
	}
	return bars
}

func event(day int, action types.Action) types.SignalEvent {
	return types.SignalEvent{
		Date:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day),
		Ticker:   "AAPL",
		Strategy: "test",
		Action:   action,
	}
}

func TestHoldingStateBuySellWindow(t *testing.T) {
	bars := barsFromCloses(100, 101, 102, 103, 104, 105)
	st := HoldingState(bars, []types.SignalEvent{
		event(1, types.ActionBuy),
		event(4, types.ActionSell),
	})

	want := []bool{false, true, true, true, false, false}
	assert.Equal(t, want, st.Held)
	// Fresh position within every term window.
	assert.Equal(t, want, st.ShortTerm)
	assert.Equal(t, want, st.MidTerm)
}

func TestHoldingStateBuySetsSellClearsSameDay(t *testing.T) {
	bars := barsFromCloses(100, 101, 102)
	st := HoldingState(bars, []types.SignalEvent{
		event(0, types.ActionBuy),
		event(2, types.ActionSell),
	})

	assert.True(t, st.Held[0], "buy day counts as held")
	assert.False(t, st.Held[2], "sell day does not count as held")
}

func TestHoldingStateShortTermAgesOut(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	bars := barsFromCloses(closes...)
	st := HoldingState(bars, []types.SignalEvent{event(0, types.ActionBuy)})

	assert.True(t, st.ShortTerm[20], "day 20 is inside the short-term window")
	assert.False(t, st.ShortTerm[21], "day 21 has aged out")
	assert.True(t, st.MidTerm[21], "mid-term window still open")
	assert.True(t, st.Held[39], "position never sold")
}

func TestHoldingStateRebuyResetsWindows(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100
	}
	bars := barsFromCloses(closes...)
	st := HoldingState(bars, []types.SignalEvent{
		event(0, types.ActionBuy),
		event(25, types.ActionBuy),
	})

	assert.False(t, st.ShortTerm[24], "first entry aged out")
	assert.True(t, st.ShortTerm[25], "re-buy restarts the short-term window")
	assert.True(t, st.ShortTerm[29])
}

func TestSegments(t *testing.T) {
	st := State{
		Held:    []bool{false, true, true, false, true, true},
		Returns: []float64{5, 1, 2, -9, 3, -1},
	}

	segs := st.Segments()

	require.Len(t, segs, 2)
	assert.InDelta(t, 3.0, segs[0], 1e-9)
	// Open segment at end of series still closes.
	assert.InDelta(t, 2.0, segs[1], 1e-9)
}

func TestSegmentsNoTrades(t *testing.T) {
	st := State{Held: []bool{false, false}, Returns: []float64{1, 2}}
	assert.Empty(t, st.Segments())
}
