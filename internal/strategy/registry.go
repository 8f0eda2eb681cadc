// Package strategy is the signal catalog: named signal producers selected by
// string key. The catalog is data, a sorted list of registered capabilities,
// so drivers enumerate it instead of branching on names.
package strategy

import (
	"sort"
	"sync"

	"tradeledger/internal/trades"
	"tradeledger/types"
)

// Signaler turns one ticker's price series into aligned buy/sell flags.
// Implementations must be pure: no retained state between calls, safe to use
// from concurrent backtests over the same bars.
type Signaler interface {
	Flags(bars []types.PriceBar, param float64) trades.Flags
}

// Config binds a catalog entry to its tunable parameter. Parameters travel in
// the struct by value, never captured in a closure.
type Config struct {
	Name     string
	Signaler Signaler
	Param    float64
}

var (
	mu       sync.RWMutex
	registry = make(map[string]Config)
)

// Register adds or replaces a catalog entry.
func Register(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	registry[cfg.Name] = cfg
}

// Lookup fetches a catalog entry by name.
func Lookup(name string) (Config, bool) {
	mu.RLock()
	defer mu.RUnlock()
	cfg, ok := registry[name]
	return cfg, ok
}

// All returns every registered entry sorted by name, so catalog iteration
// order is stable.
func All() []Config {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Config, 0, len(registry))
	for _, cfg := range registry {
		out = append(out, cfg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func init() {
	Register(Config{Name: "sma_cross", Signaler: SMACross{}, Param: 20})
	Register(Config{Name: "rsi_reversal", Signaler: RSIReversal{}, Param: 14})
	Register(Config{Name: "donchian_breakout", Signaler: DonchianBreakout{}, Param: 20})
	Register(Config{Name: "marubozu", Signaler: Marubozu{}, Param: 0.01})
}
