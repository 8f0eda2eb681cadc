package types

import "time"

type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
)

// SignalEvent is one buy/sell decision emitted by a signal source. Events are
// unordered relative to price bars but always joinable by (ticker, date).
type SignalEvent struct {
	Date     time.Time `json:"date"`
	Ticker   string    `json:"ticker"`
	Strategy string    `json:"strategy"`
	Action   Action    `json:"action"`
}
