package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"tradeledger/types"
)

var ErrParse = errors.New("malformed decision record")

const decisionsQuery = `
SELECT date, ticker, strategy, action
FROM strategy_decisions
WHERE ticker = ANY($1) AND date BETWEEN $2 AND $3
ORDER BY ticker, strategy, date`

// GetDecisions fetches recorded buy/sell decisions for the given tickers.
func (db *Database) GetDecisions(ctx context.Context, tickers []string, start, end time.Time) ([]types.SignalEvent, error) {
	rows, err := db.conn.Query(ctx, decisionsQuery, tickers, start, end)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoDecisions
		}
		return nil, err
	}
	defer rows.Close()

	var events []types.SignalEvent
	for rows.Next() {
		var ev types.SignalEvent
		var action string
		if err := rows.Scan(&ev.Date, &ev.Ticker, &ev.Strategy, &action); err != nil {
			return nil, err
		}
		ev.Action = types.Action(action)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ErrNoDecisions
	}
	return events, nil
}

// LoadDecisionsDir reads every *_decisions.csv file in dir. The filename
// carries the join keys as TICKER_strategy_decisions.csv; each file holds
// date,action rows. Malformed records are skipped and their parse errors
// joined into the returned error next to the successfully loaded events.
func LoadDecisionsDir(dir string) ([]types.SignalEvent, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*_decisions.csv"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, ErrNoDecisions
	}
	sort.Strings(paths)

	var events []types.SignalEvent
	var recordErrs []error
	for _, path := range paths {
		ticker, strat, ok := splitDecisionFilename(filepath.Base(path))
		if !ok {
			recordErrs = append(recordErrs, fmt.Errorf("%w: filename %q", ErrParse, filepath.Base(path)))
			continue
		}
		evs, errs := loadDecisionFile(path, ticker, strat)
		events = append(events, evs...)
		recordErrs = append(recordErrs, errs...)
	}
	return events, errors.Join(recordErrs...)
}

func loadDecisionFile(path, ticker, strat string) ([]types.SignalEvent, []error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, []error{err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var events []types.SignalEvent
	var errs []error
	first := true
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %v", ErrParse, path, err))
			continue
		}
		if first {
			first = false
			if strings.EqualFold(record[0], "date") {
				continue
			}
		}
		ev, err := parseDecisionRecord(record, ticker, strat)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		events = append(events, ev)
	}
	return events, errs
}

func parseDecisionRecord(record []string, ticker, strat string) (types.SignalEvent, error) {
	if len(record) < 2 {
		return types.SignalEvent{}, fmt.Errorf("%w: want date,action got %v", ErrParse, record)
	}
	date, err := time.Parse("2006-01-02", strings.TrimSpace(record[0]))
	if err != nil {
		return types.SignalEvent{}, fmt.Errorf("%w: bad date %q", ErrParse, record[0])
	}
	action := types.Action(strings.ToLower(strings.TrimSpace(record[1])))
	if action != types.ActionBuy && action != types.ActionSell {
		return types.SignalEvent{}, fmt.Errorf("%w: bad action %q", ErrParse, record[1])
	}
	return types.SignalEvent{Date: date, Ticker: ticker, Strategy: strat, Action: action}, nil
}

// splitDecisionFilename splits TICKER_strategy_decisions.csv. The strategy
// segment may itself contain underscores; the ticker may not.
func splitDecisionFilename(name string) (ticker, strat string, ok bool) {
	name = strings.TrimSuffix(name, ".csv")
	name, found := strings.CutSuffix(name, "_decisions")
	if !found {
		return "", "", false
	}
	ticker, strat, found = strings.Cut(name, "_")
	if !found || ticker == "" || strat == "" {
		return "", "", false
	}
	return ticker, strat, true
}
