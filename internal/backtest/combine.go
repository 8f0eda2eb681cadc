// Package backtest drives a single portfolio ledger through simulated time.
// One runner owns one ledger; parallelism belongs to the caller and is only
// ever across independent runners.
package backtest

import (
	"sort"
	"time"

	"tradeledger/types"
)

// CombineMode selects how per-strategy decisions merge into one portfolio
// decision stream.
type CombineMode string

const (
	// CombineMajority acts when at least minAgree strategies agree,
	// defaulting to a strict majority of (n+1)/2.
	CombineMajority CombineMode = "majority"
	// CombineUnanimous acts only when every strategy that voted agrees.
	CombineUnanimous CombineMode = "unanimous"
	// CombineAny acts on the first strategy to signal.
	CombineAny CombineMode = "any"
)

// CombineDecisions merges multi-strategy signal events into one event stream
// per ticker/date. Buy and sell votes on the same day cancel to no action.
// minAgree <= 0 selects the mode's default threshold. Output is sorted by
// (date, ticker) so the runner's replay order is deterministic.
func CombineDecisions(events []types.SignalEvent, mode CombineMode, minAgree int) []types.SignalEvent {
	strategies := make(map[string]struct{})
	type key struct {
		date   time.Time
		ticker string
	}
	votes := make(map[key]map[types.Action]int)
	for _, ev := range events {
		strategies[ev.Strategy] = struct{}{}
		k := key{date: ev.Date, ticker: ev.Ticker}
		if votes[k] == nil {
			votes[k] = make(map[types.Action]int)
		}
		votes[k][ev.Action]++
	}

	threshold := minAgree
	if threshold <= 0 {
		switch mode {
		case CombineUnanimous:
			threshold = len(strategies)
		case CombineAny:
			threshold = 1
		default:
			threshold = (len(strategies) + 1) / 2
		}
	}

	var out []types.SignalEvent
	for k, v := range votes {
		buys, sells := v[types.ActionBuy], v[types.ActionSell]
		var action types.Action
		switch {
		case buys >= threshold && buys > sells:
			action = types.ActionBuy
		case sells >= threshold && sells > buys:
			action = types.ActionSell
		default:
			continue
		}
		out = append(out, types.SignalEvent{
			Date:     k.date,
			Ticker:   k.ticker,
			Strategy: "combined",
			Action:   action,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Ticker < out[j].Ticker
	})
	return out
}
