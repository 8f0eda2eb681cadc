package journal

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeledger/types"
)

func newTestJournal(t *testing.T) *SQLiteJournal {
	t.Helper()
	j, err := NewSQLite(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecordRunAndResults(t *testing.T) {
	j := newTestJournal(t)

	runID, err := j.RecordRun("signals", []string{"AAPL", "MSFT"}, "smoke")
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	err = j.RecordSignalResults(runID, []types.SignalBacktest{
		{Ticker: "AAPL", Strategy: "sma_cross", ProfitFactor: 1.5, Trades: 4},
	})
	require.NoError(t, err)

	err = j.RecordStrategyResults(runID, []types.StrategyResult{
		{Ticker: "AAPL", Strategy: "sma_cross", TotalReturnPct: 3.25, NumTrades: 2},
	})
	require.NoError(t, err)

	ids, err := j.ListRunIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{runID}, ids)
}

func TestRunIDsAreTimeSortable(t *testing.T) {
	j := newTestJournal(t)

	var want []string
	for i := 0; i < 5; i++ {
		id, err := j.RecordRun("signals", []string{"AAPL"}, "")
		require.NoError(t, err)
		want = append(want, id)
	}

	got, err := j.ListRunIDs()
	require.NoError(t, err)
	assert.Equal(t, want, got, "ULIDs come back in generation order")
}

func TestNewRunIDUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := NewRunID()
		_, dup := seen[id]
		require.False(t, dup, "duplicate run id %s", id)
		seen[id] = struct{}{}
	}
}
