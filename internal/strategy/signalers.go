package strategy

import (
	"tradeledger/internal/trades"
	"tradeledger/types"
)

// SMACross signals on close crossing its simple moving average: a cross above
// flags a buy, a cross below flags a sell. Param is the averaging window.
type SMACross struct{}

func (SMACross) Flags(bars []types.PriceBar, param float64) trades.Flags {
	closes := closePrices(bars)
	f := trades.NewFlags(len(bars))
	window := int(param)
	if window < 2 || len(closes) <= window {
		return f
	}
	for i := window + 1; i < len(closes); i++ {
		ma := mean(closes[i-window : i])
		prevMA := mean(closes[i-1-window : i-1])
		above := closes[i] > ma
		wasAbove := closes[i-1] > prevMA
		if above && !wasAbove {
			f.Buy[i] = 1
		}
		if !above && wasAbove {
			f.Sell[i] = -1
		}
	}
	return f
}

// RSIReversal flags a buy when Wilder's RSI crosses up out of oversold and a
// sell when it crosses down out of overbought. Param is the RSI period.
type RSIReversal struct{}

const (
	rsiOversold   = 30
	rsiOverbought = 70
)

func (RSIReversal) Flags(bars []types.PriceBar, param float64) trades.Flags {
	closes := closePrices(bars)
	f := trades.NewFlags(len(bars))
	period := int(param)
	if period < 2 || len(closes) <= period+1 {
		return f
	}

	rsi := wilderRSI(closes, period)
	for i := period + 1; i < len(closes); i++ {
		if rsi[i-1] < rsiOversold && rsi[i] >= rsiOversold {
			f.Buy[i] = 1
		}
		if rsi[i-1] > rsiOverbought && rsi[i] <= rsiOverbought {
			f.Sell[i] = -1
		}
	}
	return f
}

// DonchianBreakout flags a buy when the high breaks the channel top built
// from the preceding window and a sell when the low breaks the channel
// bottom. Param is the channel window.
type DonchianBreakout struct{}

func (DonchianBreakout) Flags(bars []types.PriceBar, param float64) trades.Flags {
	f := trades.NewFlags(len(bars))
	window := int(param)
	if window < 1 || len(bars) <= window {
		return f
	}
	for i := window; i < len(bars); i++ {
		hi, lo := channel(bars[i-window : i])
		if bars[i].High.InexactFloat64() > hi {
			f.Buy[i] = 1
		} else if bars[i].Low.InexactFloat64() < lo {
			f.Sell[i] = -1
		}
	}
	return f
}

// Marubozu flags full-body candles: a bullish marubozu is a buy, a bearish
// one a sell. Param is the tolerated wick size as a fraction of the body.
type Marubozu struct{}

func (Marubozu) Flags(bars []types.PriceBar, param float64) trades.Flags {
	f := trades.NewFlags(len(bars))
	for i, bar := range bars {
		o := bar.Open.InexactFloat64()
		h := bar.High.InexactFloat64()
		l := bar.Low.InexactFloat64()
		c := bar.Close.InexactFloat64()

		body := c - o
		if body == 0 {
			continue
		}
		tol := abs(body) * param
		if body > 0 && h-c <= tol && o-l <= tol {
			f.Buy[i] = 1
		}
		if body < 0 && h-o <= tol && c-l <= tol {
			f.Sell[i] = -1
		}
	}
	return f
}

func closePrices(bars []types.PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, bar := range bars {
		out[i] = bar.Close.InexactFloat64()
	}
	return out
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func channel(bars []types.PriceBar) (hi, lo float64) {
	hi = bars[0].High.InexactFloat64()
	lo = bars[0].Low.InexactFloat64()
	for _, bar := range bars[1:] {
		if h := bar.High.InexactFloat64(); h > hi {
			hi = h
		}
		if l := bar.Low.InexactFloat64(); l < lo {
			lo = l
		}
	}
	return hi, lo
}

// wilderRSI computes Wilder-smoothed RSI; indices below period are 50 so
// crossing logic never fires on warmup values.
func wilderRSI(closes []float64, period int) []float64 {
	rsi := make([]float64, len(closes))
	for i := range rsi {
		rsi[i] = 50
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			avgGain += d
		} else {
			avgLoss += -d
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	rsi[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if d > 0 {
			gain = d
		} else {
			loss = -d
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		rsi[i] = rsiValue(avgGain, avgLoss)
	}
	return rsi
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
