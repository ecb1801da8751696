// Package export dumps the trade journal to tabular files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"swinglab/internal/pkg/money"
	"swinglab/internal/portfolio"
	"swinglab/internal/trade"
)

var journalHeaders = []string{
	"Opened", "Ticker", "Status", "Shares", "Entry", "Stop Loss",
	"Take Profit 2:1", "Take Profit 3:1", "Investment", "Risk Budgeted",
	"Limiting Factor", "Last Price", "P/L", "Closed",
}

// WriteXLSX renders the snapshot as a spreadsheet and writes it to w.
func WriteXLSX(w io.Writer, snap portfolio.Snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Trades"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, header := range journalHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}
	for rowIdx, t := range snap.Trades {
		for colIdx, val := range journalRow(t) {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return err
			}
		}
	}

	summaryRow := len(snap.Trades) + 3
	if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), "Initial capital"); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", summaryRow), snap.CapitalInicial); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow+1), "Current cash"); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", summaryRow+1), snap.CapitalActual); err != nil {
		return err
	}

	return f.Write(w)
}

// WriteFile archives the journal under dir using the given renderer
// and returns the written path.
func WriteFile(dir, name string, snap portfolio.Snapshot, write func(io.Writer, portfolio.Snapshot) error) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := write(f, snap); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

// WriteCSV renders the snapshot as CSV.
func WriteCSV(w io.Writer, snap portfolio.Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(journalHeaders); err != nil {
		return err
	}
	for _, t := range snap.Trades {
		record := make([]string, 0, len(journalHeaders))
		for _, val := range journalRow(t) {
			record = append(record, stringify(val))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func journalRow(t trade.Trade) []any {
	closedAt := ""
	if t.ClosedAt != nil {
		closedAt = t.ClosedAt.Format(time.RFC3339)
	}
	return []any{
		t.OpenedAt.Format(time.RFC3339),
		t.Ticker,
		string(t.Status),
		money.Round4(t.Shares),
		money.Round2(t.Entry),
		money.Round2(t.StopLoss),
		money.Round2(t.TakeProfit2),
		money.Round2(t.TakeProfit3),
		money.Round2(t.Investment),
		money.Round2(t.RiskBudgeted),
		string(t.Limit),
		money.Round2(t.LastPrice),
		money.Round2(t.PnL),
		closedAt,
	}
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}
