// Package portfolio keeps the ordered trade ledger, its cash balance
// and the aggregate performance metrics.
package portfolio

import (
	"context"
	"sync"

	"swinglab/internal/logger"
	"swinglab/internal/market"
	"swinglab/internal/pkg/money"
	"swinglab/internal/trade"
	"swinglab/internal/types"
)

// Ledger owns the trades of one logical session. All operations take
// a coarse lock: none of the cash/status invariants tolerate
// interleaved partial updates.
type Ledger struct {
	mu             sync.Mutex
	initialCapital float64
	cash           float64
	trades         []*trade.Trade // newest first
}

func NewLedger(initialCapital float64) (*Ledger, error) {
	if initialCapital <= 0 {
		return nil, types.NewValidationError("initial_capital", "initial capital must be > 0, got %v", initialCapital)
	}
	return &Ledger{initialCapital: initialCapital, cash: initialCapital}, nil
}

// Open appends the trade and debits its investment from cash. Nothing
// is mutated when validation fails.
func (l *Ledger) Open(t *trade.Trade) error {
	if t == nil {
		return types.NewValidationError("trade", "trade cannot be nil")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if money.GT(t.Investment, l.cash) {
		return types.NewValidationError("investment",
			"investment %.2f exceeds available cash %.2f", t.Investment, l.cash)
	}
	l.trades = append([]*trade.Trade{t}, l.trades...)
	l.cash = money.Sub(l.cash, t.Investment)
	return nil
}

// RefreshReport summarizes one batch refresh.
type RefreshReport struct {
	Refreshed int      `json:"refreshed"`
	Closed    int      `json:"closed"`
	Skipped   []string `json:"skipped,omitempty"`
}

// RefreshAll updates every Active trade against the feed. A feed
// failure for one ticker is logged and skipped without touching that
// trade or aborting the rest. Each close credits the recovered
// capital back to cash.
func (l *Ledger) RefreshAll(ctx context.Context, feed market.Source) RefreshReport {
	l.mu.Lock()
	defer l.mu.Unlock()

	var report RefreshReport
	for _, t := range l.trades {
		if t.Status.Closed() {
			continue
		}
		price, err := feed.LastClose(ctx, t.Ticker)
		if err != nil {
			logger.Warnf("refresh skipped ticker=%s: %v", t.Ticker, err)
			report.Skipped = append(report.Skipped, t.Ticker)
			continue
		}
		tr, err := t.Refresh(price)
		if err != nil {
			logger.Warnf("refresh rejected ticker=%s price=%v: %v", t.Ticker, price, err)
			report.Skipped = append(report.Skipped, t.Ticker)
			continue
		}
		report.Refreshed++
		if tr.Closed {
			l.cash = money.Add(l.cash, t.RecoveredCapital())
			report.Closed++
			logger.Infof("trade closed ticker=%s status=%s pl=%.2f cash=%.2f",
				t.Ticker, t.Status, tr.RealizedPL, l.cash)
		}
	}
	return report
}

// Metrics are the aggregate performance numbers over the ledger.
type Metrics struct {
	Total        int     `json:"total"`
	Active       int     `json:"active"`
	Closed       int     `json:"closed"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	WinRatePct   float64 `json:"win_rate_pct"`
	ProfitFactor float64 `json:"profit_factor"`
	RealizedPL   float64 `json:"realized_pl"`
	Cash         float64 `json:"cash"`
}

// Metrics computes the aggregate statistics. Read-only and
// idempotent.
func (l *Ledger) Metrics() Metrics {
	l.mu.Lock()
	defer l.mu.Unlock()

	m := Metrics{Total: len(l.trades), Cash: l.cash}
	var grossProfit, grossLoss float64
	for _, t := range l.trades {
		if !t.Status.Closed() {
			m.Active++
			continue
		}
		m.Closed++
		m.RealizedPL = money.Add(m.RealizedPL, t.PnL)
		if t.PnL > 0 {
			m.Wins++
			grossProfit = money.Add(grossProfit, t.PnL)
		} else {
			m.Losses++
			grossLoss = money.Add(grossLoss, -t.PnL)
		}
	}
	if m.Closed > 0 {
		m.WinRatePct = float64(m.Wins) / float64(m.Closed) * 100
	}
	if grossLoss > 0 {
		m.ProfitFactor = money.Div(grossProfit, grossLoss)
	}
	return m
}

// Trades returns a copy of the ledger, newest first.
func (l *Ledger) Trades() []trade.Trade {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]trade.Trade, 0, len(l.trades))
	for _, t := range l.trades {
		out = append(out, *t)
	}
	return out
}

func (l *Ledger) Cash() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cash
}

func (l *Ledger) InitialCapital() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.initialCapital
}

// Reset clears all trades and restarts the cash balance.
func (l *Ledger) Reset(initialCapital float64) error {
	if initialCapital <= 0 {
		return types.NewValidationError("initial_capital", "initial capital must be > 0, got %v", initialCapital)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.trades = nil
	l.initialCapital = initialCapital
	l.cash = initialCapital
	return nil
}
