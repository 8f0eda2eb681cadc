// Package driver fans backtests out across (ticker, strategy) pairs. Each
// pair reads the shared immutable price dataset and writes only its own
// result row, so pairs run in parallel with no coordination beyond the
// collecting channel.
package driver

import (
	"context"
	"sort"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"tradeledger/internal/analytics"
	"tradeledger/internal/strategy"
	"tradeledger/internal/trades"
	"tradeledger/types"
)

type Driver struct {
	workers  int
	progress bool
}

func New(workers int, progress bool) *Driver {
	if workers < 1 {
		workers = 1
	}
	return &Driver{workers: workers, progress: progress}
}

// RunSignalCatalog evaluates every registered strategy against every ticker
// and reduces each pair's point returns to a result row. Pairs that produce
// no signals are skipped. Cancelling ctx stops scheduling new pairs; rows
// already computed are returned alongside the context error.
func (d *Driver) RunSignalCatalog(ctx context.Context, barsByTicker map[string][]types.PriceBar, catalog []strategy.Config) ([]types.SignalBacktest, error) {
	tickers := sortedTickers(barsByTicker)

	results := make(chan types.SignalBacktest, len(tickers)*len(catalog))
	bar := d.newProgressBar(len(tickers) * len(catalog))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)
	for _, ticker := range tickers {
		for _, cfg := range catalog {
			ticker, cfg := ticker, cfg
			g.Go(func() error {
				defer bar.Add(1)
				if err := ctx.Err(); err != nil {
					return err
				}
				row, ok := runPair(barsByTicker[ticker], ticker, cfg)
				if ok {
					results <- row
				}
				return nil
			})
		}
	}
	err := g.Wait()
	close(results)

	rows := make([]types.SignalBacktest, 0, len(results))
	for row := range results {
		rows = append(rows, row)
	}
	sortSignalRows(rows)
	return rows, err
}

func runPair(bars []types.PriceBar, ticker string, cfg strategy.Config) (types.SignalBacktest, bool) {
	flags := cfg.Signaler.Flags(bars, cfg.Param)
	buys, sells := flags.Buys(), flags.Sells()
	if buys == 0 && sells == 0 {
		return types.SignalBacktest{}, false
	}

	points := trades.PointReturns(bars, flags)
	stats := analytics.ComputeTradeStats(points.TradeReturns())

	return types.SignalBacktest{
		Ticker:       ticker,
		Strategy:     cfg.Name,
		Expectancy:   stats.Expectancy,
		ProfitFactor: stats.ProfitFactor,
		HitRatio:     stats.HitRatio,
		RiskReward:   stats.RiskReward,
		AvgGain:      stats.AvgWin,
		AvgLoss:      stats.AvgLoss,
		MaxGain:      stats.MaxGain,
		MaxLoss:      stats.MaxLoss,
		Buys:         buys,
		Sells:        sells,
		Trades:       stats.Trades,
	}, true
}

// RunDecisionAnalysis evaluates recorded decision streams per (ticker,
// strategy) against the holding-state view and produces one rounded result
// row per pair that has both bars and events.
func (d *Driver) RunDecisionAnalysis(ctx context.Context, barsByTicker map[string][]types.PriceBar, events []types.SignalEvent) ([]types.StrategyResult, error) {
	grouped := groupEvents(events)

	type pair struct {
		ticker, strat string
	}
	var pairs []pair
	for k := range grouped {
		if _, ok := barsByTicker[k.ticker]; ok {
			pairs = append(pairs, pair{ticker: k.ticker, strat: k.strategy})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].ticker != pairs[j].ticker {
			return pairs[i].ticker < pairs[j].ticker
		}
		return pairs[i].strat < pairs[j].strat
	})

	results := make(chan types.StrategyResult, len(pairs))
	bar := d.newProgressBar(len(pairs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)
	for _, p := range pairs {
		p := p
		g.Go(func() error {
			defer bar.Add(1)
			if err := ctx.Err(); err != nil {
				return err
			}
			evs := grouped[eventKey{ticker: p.ticker, strategy: p.strat}]
			results <- analyzeDecisions(barsByTicker[p.ticker], p.ticker, p.strat, evs)
			return nil
		})
	}
	err := g.Wait()
	close(results)

	rows := make([]types.StrategyResult, 0, len(results))
	for row := range results {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Ticker != rows[j].Ticker {
			return rows[i].Ticker < rows[j].Ticker
		}
		return rows[i].Strategy < rows[j].Strategy
	})
	return rows, err
}

func analyzeDecisions(bars []types.PriceBar, ticker, strat string, events []types.SignalEvent) types.StrategyResult {
	st := trades.HoldingState(bars, events)
	series := analytics.ComputeSeriesStats(st)
	segs := st.Segments()
	tradeStats := analytics.ComputeTradeStats(segs)

	r3 := analytics.Round3
	return types.StrategyResult{
		Ticker:            ticker,
		Strategy:          strat,
		TotalReturnPct:    r3(series.StrategyReturn),
		BuyHoldReturnPct:  r3(series.BuyHoldReturn),
		ExcessReturnPct:   r3(series.StrategyReturn - series.BuyHoldReturn),
		NumTrades:         len(segs),
		WinRatePct:        r3(tradeStats.HitRatio),
		AvgWinPct:         r3(tradeStats.AvgWin),
		AvgLossPct:        r3(tradeStats.AvgLoss),
		ProfitFactor:      r3(tradeStats.ProfitFactor),
		SharpeRatio:       r3(series.Sharpe),
		MaxDrawdownPct:    r3(series.MaxDrawdown),
		AvgPositionDays:   r3(series.AvgPositionDays),
		PctTimeInMarket:   r3(series.PctTimeInMarket),
		ShortTermCumPct:   r3(series.ShortTermCum),
		ShortTermAccuracy: r3(series.ShortTermAccuracy),
		MidTermCumPct:     r3(series.MidTermCum),
		MidTermAccuracy:   r3(series.MidTermAccuracy),
		LongTermCumPct:    r3(series.LongTermCum),
		LongTermAccuracy:  r3(series.LongTermAccuracy),
	}
}

type eventKey struct {
	ticker   string
	strategy string
}

func groupEvents(events []types.SignalEvent) map[eventKey][]types.SignalEvent {
	out := make(map[eventKey][]types.SignalEvent)
	for _, ev := range events {
		k := eventKey{ticker: ev.Ticker, strategy: ev.Strategy}
		out[k] = append(out[k], ev)
	}
	for _, evs := range out {
		sort.Slice(evs, func(i, j int) bool { return evs[i].Date.Before(evs[j].Date) })
	}
	return out
}

func sortedTickers(barsByTicker map[string][]types.PriceBar) []string {
	tickers := make([]string, 0, len(barsByTicker))
	for t := range barsByTicker {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}

func sortSignalRows(rows []types.SignalBacktest) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Ticker != rows[j].Ticker {
			return rows[i].Ticker < rows[j].Ticker
		}
		return rows[i].Strategy < rows[j].Strategy
	})
}

func (d *Driver) newProgressBar(maxTicks int) *progressbar.ProgressBar {
	if !d.progress {
		return progressbar.DefaultSilent(int64(maxTicks))
	}
	return progressbar.NewOptions(maxTicks,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetDescription("Backtesting in progress..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
