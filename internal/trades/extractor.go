package trades

import (
	"tradeledger/types"
)

// maxHoldingBars bounds the forward scan for a closing signal. An entry whose
// first opposite signal lies beyond the horizon contributes nothing: the
// position never "closes" inside the window and is excluded rather than
// treated as open-ended profit.
const maxHoldingBars = 1000

// Flags holds aligned per-bar buy/sell indicators for one ticker/strategy.
// Buy uses 1 for an entry signal, Sell uses -1, all other bars are 0.
type Flags struct {
	Buy  []int
	Sell []int
}

// NewFlags allocates zeroed flag columns for n bars.
func NewFlags(n int) Flags {
	return Flags{Buy: make([]int, n), Sell: make([]int, n)}
}

// Buys counts entry signals.
func (f Flags) Buys() int {
	n := 0
	for _, v := range f.Buy {
		if v == 1 {
			n++
		}
	}
	return n
}

// Sells counts exit signals.
func (f Flags) Sells() int {
	n := 0
	for _, v := range f.Sell {
		if v == -1 {
			n++
		}
	}
	return n
}

// PointSeries carries per-bar realized point returns split by leg. A bar's
// value is the sum of every trade that closes on that bar; contributions are
// additive per bar, not tracked per trade object.
type PointSeries struct {
	Long  []float64
	Short []float64
}

// Total sums the long and short legs per bar.
func (p PointSeries) Total() []float64 {
	out := make([]float64, len(p.Long))
	for i := range p.Long {
		out[i] = p.Long[i] + p.Short[i]
	}
	return out
}

// TradeReturns filters the nonzero per-bar contributions, the realized
// trade-level return list fed to the analytics reductions.
func (p PointSeries) TradeReturns() []float64 {
	var out []float64
	for _, v := range p.Total() {
		if v != 0 {
			out = append(out, v)
		}
	}
	return out
}

// PointReturns realizes point-to-point returns under the variable holding
// period rule: enter at the open of a signal bar, exit at the open of the
// first later bar carrying either signal. Each long entry at i scans forward
// for the first a > i with a buy or sell flag and records open[a] - open[i]
// at bar a; short entries record open[i] - open[a] symmetrically.
func PointReturns(bars []types.PriceBar, f Flags) PointSeries {
	open := types.Opens(bars)
	n := len(open)
	p := PointSeries{Long: make([]float64, n), Short: make([]float64, n)}

	for i := 0; i < n; i++ {
		if f.Buy[i] != 1 {
			continue
		}
		for a := i + 1; a < min(i+maxHoldingBars, n); a++ {
			if f.Buy[a] == 1 || f.Sell[a] == -1 {
				p.Long[a] += open[a] - open[i]
				break
			}
		}
	}
	for i := 0; i < n; i++ {
		if f.Sell[i] != -1 {
			continue
		}
		for a := i + 1; a < min(i+maxHoldingBars, n); a++ {
			if f.Buy[a] == 1 || f.Sell[a] == -1 {
				p.Short[a] += open[i] - open[a]
				break
			}
		}
	}
	return p
}
