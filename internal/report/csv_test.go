package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tradeledger/internal/ledger"
	"tradeledger/types"
)

func TestWriteTransactionsCSV(t *testing.T) {
	txs := []ledger.Transaction{
		{
			Id:          0,
			Date:        time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			Ticker:      "AAPL",
			Action:      "buy",
			Shares:      decimal.NewFromInt(100),
			Price:       decimal.NewFromInt(50),
			GrossAmount: decimal.NewFromInt(5000),
			Commission:  decimal.RequireFromString("6.95"),
			NetAmount:   decimal.RequireFromString("5006.95"),
			CashImpact:  decimal.RequireFromString("-5006.95"),
		},
	}

	var buf bytes.Buffer
	if err := WriteTransactionsCSV(&buf, txs); err != nil {
		t.Fatalf("WriteTransactionsCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("rows = %d, want header + 1", len(records))
	}
	if records[0][0] != "id" || records[0][9] != "cash_impact" {
		t.Errorf("header = %v", records[0])
	}
	row := records[1]
	if row[1] != "2024-01-02" || row[2] != "AAPL" || row[9] != "-5006.95" {
		t.Errorf("row = %v", row)
	}
}

func TestWriteSnapshotsCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSnapshotsCSV(&buf, nil); err != nil {
		t.Fatalf("WriteSnapshotsCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Errorf("empty table should still write its header, got %q", buf.String())
	}
}

func TestWriteStrategyResultsCSV(t *testing.T) {
	rows := []types.StrategyResult{
		{Ticker: "AAPL", Strategy: "sma_cross", TotalReturnPct: 12.345, NumTrades: 3, PctTimeInMarket: 40.5},
	}

	var buf bytes.Buffer
	if err := WriteStrategyResultsCSV(&buf, rows); err != nil {
		t.Fatalf("WriteStrategyResultsCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if records[1][2] != "12.345" {
		t.Errorf("total_return_pct = %q, want 12.345", records[1][2])
	}
	if records[1][5] != "3" {
		t.Errorf("num_trades = %q, want 3", records[1][5])
	}
}

func TestPrintSummaryMentionsKeyMetrics(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, ledger.PerformanceSummary{
		InitialValue:   decimal.NewFromInt(100000),
		FinalValue:     decimal.NewFromInt(110000),
		TotalReturnPct: 10,
		TotalTrades:    5,
	})

	out := buf.String()
	for _, want := range []string{"Total Return", "10.000%", "Total Trades", "5"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteSummaryJSON(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSummaryJSON(&buf, ledger.PerformanceSummary{TotalTrades: 2})
	if err != nil {
		t.Fatalf("WriteSummaryJSON: %v", err)
	}
	if !strings.Contains(buf.String(), `"total_trades": 2`) {
		t.Errorf("json output = %s", buf.String())
	}
}
