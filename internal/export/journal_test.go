package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"

	"swinglab/internal/portfolio"
	"swinglab/internal/sizing"
	"swinglab/internal/trade"
)

func sampleSnapshot() portfolio.Snapshot {
	closed := time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)
	return portfolio.Snapshot{
		CapitalInicial: 1000,
		CapitalActual:  1040,
		Trades: []trade.Trade{
			{
				ID: "t-1", Ticker: "AAPL", Shares: 20, Entry: 10, StopLoss: 9,
				TakeProfit2: 12, TakeProfit3: 13, Investment: 200, RiskBudgeted: 20,
				Limit:  sizing.LimitRiskBudget,
				Status: trade.StatusClosedByTarget,
				OpenedAt: time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC),
				ClosedAt: &closed, LastPrice: 12, PnL: 40,
			},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, WriteCSV(&buf, sampleSnapshot()))

	rows, err := csv.NewReader(&buf).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, journalHeaders, rows[0])
	assert.Equal(t, "AAPL", rows[1][1])
	assert.Equal(t, "closed_target", rows[1][2])
	assert.Equal(t, "40", rows[1][12])
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteFile(dir, "trades.csv", sampleSnapshot(), WriteCSV)
	assert.NoError(t, err)
	assert.FileExists(t, path)

	raw, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(raw), "AAPL")
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, WriteXLSX(&buf, sampleSnapshot()))

	f, err := excelize.OpenReader(&buf)
	assert.NoError(t, err)
	defer f.Close()

	ticker, err := f.GetCellValue("Trades", "B2")
	assert.NoError(t, err)
	assert.Equal(t, "AAPL", ticker)

	label, err := f.GetCellValue("Trades", "A4")
	assert.NoError(t, err)
	assert.Equal(t, "Initial capital", label)
}
