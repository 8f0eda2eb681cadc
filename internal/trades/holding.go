package trades

import (
	"time"

	"tradeledger/types"
)

// Days-since-entry thresholds for the short/mid/long-term markers.
const (
	shortTermDays = 20
	midTermDays   = 100
	longTermDays  = 250
)

// State is the holding-state view of one ticker/strategy: a held flag that
// flips on buy/sell plus term markers measured against the last buy date.
// All columns are aligned with the bar series the state was built from.
type State struct {
	Held      []bool
	ShortTerm []bool
	MidTerm   []bool
	LongTerm  []bool
	Returns   []float64 // daily close-to-close pct returns
}

// HoldingState walks the bar series in date order and applies that day's
// decision, if any. A buy sets every marker for the day it lands on; a sell
// clears them the same day. Markers age out as days-since-entry crosses the
// 20/100/250 thresholds while the position stays held.
func HoldingState(bars []types.PriceBar, events []types.SignalEvent) State {
	n := len(bars)
	st := State{
		Held:      make([]bool, n),
		ShortTerm: make([]bool, n),
		MidTerm:   make([]bool, n),
		LongTerm:  make([]bool, n),
		Returns:   types.DailyReturns(bars),
	}

	byDate := make(map[time.Time]types.Action, len(events))
	for _, ev := range events {
		byDate[dateOnly(ev.Date)] = ev.Action
	}

	var lastBuy time.Time
	held := false
	for i, bar := range bars {
		d := dateOnly(bar.Date)
		if held && !lastBuy.IsZero() {
			age := int(d.Sub(lastBuy).Hours() / 24)
			st.ShortTerm[i] = age <= shortTermDays
			st.MidTerm[i] = age <= midTermDays
			st.LongTerm[i] = age <= longTermDays
		}
		st.Held[i] = held

		switch byDate[d] {
		case types.ActionBuy:
			held = true
			lastBuy = d
			st.Held[i] = true
			st.ShortTerm[i] = true
			st.MidTerm[i] = true
			st.LongTerm[i] = true
		case types.ActionSell:
			held = false
			lastBuy = time.Time{}
			st.Held[i] = false
			st.ShortTerm[i] = false
			st.MidTerm[i] = false
			st.LongTerm[i] = false
		}
	}
	return st
}

// Segments extracts discrete trades from held-state transitions: false->true
// starts a segment, true->false or end of series closes it. Each segment's
// return is the sum of daily returns accumulated while held.
func (s State) Segments() []float64 {
	var segs []float64
	var cur float64
	open := false
	for i := range s.Held {
		if s.Held[i] {
			if !open {
				open = true
				cur = 0
			}
			cur += s.Returns[i]
		} else if open {
			segs = append(segs, cur)
			open = false
		}
	}
	if open {
		segs = append(segs, cur)
	}
	return segs
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
