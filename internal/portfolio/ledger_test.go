package portfolio

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"swinglab/internal/market"
	"swinglab/internal/sizing"
	"swinglab/internal/trade"
	"swinglab/internal/types"
)

type MockSource struct {
	mock.Mock
}

func (m *MockSource) LastClose(ctx context.Context, ticker string) (float64, error) {
	args := m.Called(ctx, ticker)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockSource) History(ctx context.Context, ticker string, period market.Period) ([]market.Candle, error) {
	args := m.Called(ctx, ticker, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]market.Candle), args.Error(1)
}

func mustOpen(t *testing.T, ticker string, entry, stop, budget, capital float64) *trade.Trade {
	t.Helper()
	lv, err := sizing.ComputeLevels(entry, stop)
	assert.NoError(t, err)
	res, err := sizing.Size(sizing.Input{RiskBudget: budget, Capital: capital, Entry: entry, StopLoss: stop})
	assert.NoError(t, err)
	tr, err := trade.Open(ticker, res, lv)
	assert.NoError(t, err)
	return tr
}

func TestLedgerOpenDebitsCash(t *testing.T) {
	l, err := NewLedger(1000)
	assert.NoError(t, err)
	tr := mustOpen(t, "AAPL", 10, 9, 20, 1000) // invests 200

	assert.NoError(t, l.Open(tr))
	assert.Equal(t, 800.0, l.Cash())
	assert.Equal(t, 1000.0, l.InitialCapital())
	assert.Len(t, l.Trades(), 1)
}

func TestLedgerOpenRejectsOverdraft(t *testing.T) {
	l, err := NewLedger(100)
	assert.NoError(t, err)
	tr := mustOpen(t, "AAPL", 10, 9, 20, 1000) // invests 200

	err = l.Open(tr)
	assert.True(t, types.IsValidation(err))
	assert.Equal(t, 100.0, l.Cash())
	assert.Empty(t, l.Trades())
}

func TestLedgerNewestFirst(t *testing.T) {
	l, _ := NewLedger(1000)
	assert.NoError(t, l.Open(mustOpen(t, "AAPL", 10, 9, 20, 1000)))
	assert.NoError(t, l.Open(mustOpen(t, "MSFT", 20, 18, 20, 1000)))

	trades := l.Trades()
	assert.Equal(t, "MSFT", trades[0].Ticker)
	assert.Equal(t, "AAPL", trades[1].Ticker)
}

func TestRefreshAllClosesAndCreditsCash(t *testing.T) {
	l, _ := NewLedger(1000)
	assert.NoError(t, l.Open(mustOpen(t, "AAPL", 10, 9, 20, 1000))) // 20 shares, 200 invested
	assert.Equal(t, 800.0, l.Cash())

	src := new(MockSource)
	src.On("LastClose", mock.Anything, "AAPL").Return(12.0, nil)

	report := l.RefreshAll(context.Background(), src)
	assert.Equal(t, 1, report.Refreshed)
	assert.Equal(t, 1, report.Closed)
	assert.Empty(t, report.Skipped)
	// 800 remaining + 200 investment + 40 realized gain
	assert.Equal(t, 1040.0, l.Cash())
	src.AssertExpectations(t)
}

func TestRefreshAllIsolatesFeedFailures(t *testing.T) {
	l, _ := NewLedger(1000)
	assert.NoError(t, l.Open(mustOpen(t, "AAPL", 10, 9, 20, 1000)))
	assert.NoError(t, l.Open(mustOpen(t, "MSFT", 20, 18, 20, 1000)))

	src := new(MockSource)
	src.On("LastClose", mock.Anything, "MSFT").Return(0.0, types.ErrDataUnavailable)
	src.On("LastClose", mock.Anything, "AAPL").Return(9.0, nil)

	cashBefore := l.Cash()
	report := l.RefreshAll(context.Background(), src)
	assert.Equal(t, 1, report.Refreshed)
	assert.Equal(t, 1, report.Closed)
	assert.Equal(t, []string{"MSFT"}, report.Skipped)

	trades := l.Trades()
	assert.Equal(t, trade.StatusActive, trades[0].Status) // MSFT untouched
	assert.Equal(t, trade.StatusClosedByStop, trades[1].Status)
	// AAPL stop-out recovers 200 - 20
	assert.Equal(t, cashBefore+180.0, l.Cash())
}

func TestRefreshAllUnreachableFeedChangesNothing(t *testing.T) {
	l, _ := NewLedger(1000)
	assert.NoError(t, l.Open(mustOpen(t, "AAPL", 10, 9, 20, 1000)))
	assert.NoError(t, l.Open(mustOpen(t, "MSFT", 20, 18, 20, 1000)))
	before := l.Trades()
	cash := l.Cash()

	src := new(MockSource)
	src.On("LastClose", mock.Anything, mock.Anything).Return(0.0, types.ErrDataUnavailable)

	report := l.RefreshAll(context.Background(), src)
	assert.Equal(t, 0, report.Refreshed)
	assert.Len(t, report.Skipped, 2)
	assert.Equal(t, cash, l.Cash())
	assert.Equal(t, before, l.Trades())
}

func TestRefreshAllSkipsClosedTrades(t *testing.T) {
	l, _ := NewLedger(1000)
	assert.NoError(t, l.Open(mustOpen(t, "AAPL", 10, 9, 20, 1000)))

	src := new(MockSource)
	src.On("LastClose", mock.Anything, "AAPL").Return(9.0, nil).Once()
	l.RefreshAll(context.Background(), src)
	cash := l.Cash()

	// Second pass must not re-credit the closed trade.
	report := l.RefreshAll(context.Background(), src)
	assert.Equal(t, 0, report.Refreshed)
	assert.Equal(t, cash, l.Cash())
	src.AssertExpectations(t)
}

func TestMetrics(t *testing.T) {
	l, _ := NewLedger(1000)
	winner := mustOpen(t, "AAPL", 10, 9, 20, 1000)
	loser := mustOpen(t, "MSFT", 20, 18, 20, 1000)
	open := mustOpen(t, "NVDA", 30, 27, 20, 1000)
	assert.NoError(t, l.Open(winner))
	assert.NoError(t, l.Open(loser))
	assert.NoError(t, l.Open(open))

	src := new(MockSource)
	src.On("LastClose", mock.Anything, "AAPL").Return(12.0, nil)  // +40
	src.On("LastClose", mock.Anything, "MSFT").Return(18.0, nil)  // -20
	src.On("LastClose", mock.Anything, "NVDA").Return(31.0, nil)  // stays open
	l.RefreshAll(context.Background(), src)

	m := l.Metrics()
	assert.Equal(t, 3, m.Total)
	assert.Equal(t, 1, m.Active)
	assert.Equal(t, 2, m.Closed)
	assert.Equal(t, 1, m.Wins)
	assert.Equal(t, 1, m.Losses)
	assert.Equal(t, 50.0, m.WinRatePct)
	assert.Equal(t, 2.0, m.ProfitFactor) // 40 gross profit / 20 gross loss
	assert.Equal(t, 20.0, m.RealizedPL)

	// Idempotent.
	assert.Equal(t, m, l.Metrics())
}

func TestMetricsNoLossesZeroProfitFactor(t *testing.T) {
	l, _ := NewLedger(1000)
	assert.NoError(t, l.Open(mustOpen(t, "AAPL", 10, 9, 20, 1000)))
	src := new(MockSource)
	src.On("LastClose", mock.Anything, "AAPL").Return(12.0, nil)
	l.RefreshAll(context.Background(), src)

	m := l.Metrics()
	assert.Equal(t, 1, m.Wins)
	assert.Equal(t, 0, m.Losses)
	assert.Equal(t, 0.0, m.ProfitFactor)
}

func TestReset(t *testing.T) {
	l, _ := NewLedger(1000)
	assert.NoError(t, l.Open(mustOpen(t, "AAPL", 10, 9, 20, 1000)))

	assert.NoError(t, l.Reset(500))
	assert.Empty(t, l.Trades())
	assert.Equal(t, 500.0, l.Cash())
	assert.Equal(t, 500.0, l.InitialCapital())

	err := l.Reset(0)
	assert.True(t, types.IsValidation(err))
	assert.Equal(t, 500.0, l.Cash())
}
