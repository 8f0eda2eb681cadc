package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"tradeledger/types"
)

const priceBarsQuery = `
SELECT date, ticker, open, high, low, close, volume
FROM daily_prices
WHERE ticker = ANY($1) AND date BETWEEN $2 AND $3
ORDER BY ticker, date`

// GetPriceBars fetches daily bars for the given tickers sorted by
// (ticker, date). An empty result is ErrNoPrices, not an empty slice.
func (db *Database) GetPriceBars(ctx context.Context, tickers []string, start, end time.Time) ([]types.PriceBar, error) {
	rows, err := db.conn.Query(ctx, priceBarsQuery, tickers, start, end)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoPrices
		}
		return nil, err
	}
	defer rows.Close()

	var bars []types.PriceBar
	for rows.Next() {
		var bar types.PriceBar
		if err := rows.Scan(&bar.Date, &bar.Ticker, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			return nil, err
		}
		bars = append(bars, bar)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, ErrNoPrices
	}
	return bars, nil
}
