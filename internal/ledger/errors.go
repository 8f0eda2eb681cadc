package ledger

import "errors"

var InvalidInputErr = errors.New("invalid order input: shares and price must be positive, commission non-negative")
var InsufficientCashErr = errors.New("insufficient cash for buy")
var InsufficientSharesErr = errors.New("sell exceeds held shares")
var NoPositionErr = errors.New("no position held for ticker")
