package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTradeStats(t *testing.T) {
	tests := []struct {
		name    string
		returns []float64
		want    TradeStats
	}{
		{
			name:    "no trades",
			returns: nil,
			want:    TradeStats{},
		},
		{
			name:    "all winners capped",
			returns: []float64{1, 2, 3},
			want: TradeStats{
				Wins: 3, Trades: 3,
				ProfitFactor: 999, HitRatio: 100,
				AvgWin: 2, MaxGain: 3,
				Expectancy: 200,
			},
		},
		{
			name:    "all losers",
			returns: []float64{-1, -3},
			want: TradeStats{
				Losses: 2, Trades: 2,
				AvgLoss: 2, MaxLoss: -3,
				Expectancy: -2,
			},
		},
		{
			name:    "mixed",
			returns: []float64{4, -2, 2, -1},
			want: TradeStats{
				Wins: 2, Losses: 2, Trades: 4,
				ProfitFactor: 2, HitRatio: 50,
				AvgWin: 3, AvgLoss: 1.5,
				MaxGain: 4, MaxLoss: -2,
				RiskReward: 2,
				Expectancy: 3*50 - (1-50)*1.5,
			},
		},
		{
			name:    "zero returns ignored",
			returns: []float64{0, 0, 1},
			want: TradeStats{
				Wins: 1, Trades: 1,
				ProfitFactor: 999, HitRatio: 100,
				AvgWin: 1, MaxGain: 1,
				Expectancy: 100,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTradeStats(tt.returns)
			assert.Equal(t, tt.want.Wins, got.Wins)
			assert.Equal(t, tt.want.Losses, got.Losses)
			assert.Equal(t, tt.want.Trades, got.Trades)
			assert.InDelta(t, tt.want.ProfitFactor, got.ProfitFactor, 1e-9)
			assert.InDelta(t, tt.want.HitRatio, got.HitRatio, 1e-9)
			assert.InDelta(t, tt.want.AvgWin, got.AvgWin, 1e-9)
			assert.InDelta(t, tt.want.AvgLoss, got.AvgLoss, 1e-9)
			assert.InDelta(t, tt.want.MaxGain, got.MaxGain, 1e-9)
			assert.InDelta(t, tt.want.MaxLoss, got.MaxLoss, 1e-9)
			assert.InDelta(t, tt.want.RiskReward, got.RiskReward, 1e-9)
			assert.InDelta(t, tt.want.Expectancy, got.Expectancy, 1e-9)
		})
	}
}

func TestProfitFactorCapBinds(t *testing.T) {
	// Tiny loss against a big win would exceed the cap without it.
	got := ComputeTradeStats([]float64{100000, -0.0001})
	assert.InDelta(t, 999, got.ProfitFactor, 1e-9)
}

func TestSumByKeyIsOrderIndependent(t *testing.T) {
	m := map[string]float64{"AAPL": 0.1, "MSFT": 0.2, "GOOG": 0.3, "AMZN": 0.4}
	first := SumByKey(m)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, SumByKey(m))
	}
}

func TestRound3(t *testing.T) {
	assert.Equal(t, 1.235, Round3(1.23456))
	assert.Equal(t, -1.235, Round3(-1.23461))
	assert.Equal(t, 0.0, Round3(0.0004))
}
