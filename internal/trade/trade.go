// Package trade models a single forward-tested position and its
// lifecycle from open to close.
package trade

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"swinglab/internal/pkg/money"
	"swinglab/internal/sizing"
	"swinglab/internal/types"
)

// Status is the lifecycle state. Active is the only non-terminal
// state.
type Status string

const (
	StatusActive         Status = "active"
	StatusClosedByStop   Status = "closed_stop"
	StatusClosedByTarget Status = "closed_target"
)

func (s Status) Closed() bool { return s != StatusActive }

// Trade is one entered position. Mutated only by Refresh; immutable
// once the status leaves Active except for display fields.
type Trade struct {
	ID           string                `json:"id"`
	Ticker       string                `json:"ticker"`
	Shares       float64               `json:"shares"`
	Entry        float64               `json:"entry"`
	StopLoss     float64               `json:"stop_loss"`
	TakeProfit2  float64               `json:"take_profit_2"`
	TakeProfit3  float64               `json:"take_profit_3"`
	Investment   float64               `json:"investment"`
	RiskBudgeted float64               `json:"risk_budgeted"`
	Limit        sizing.LimitingFactor `json:"limiting_factor"`
	Status       Status                `json:"status"`
	OpenedAt     time.Time             `json:"opened_at"`
	ClosedAt     *time.Time            `json:"closed_at,omitempty"`
	LastPrice    float64               `json:"last_price"`
	// PnL is unrealized while Active, realized once closed.
	PnL float64 `json:"pnl"`

	// Snapshots captured at creation for later analysis, never
	// recomputed.
	Fundamental *types.FundamentalSnapshot `json:"fundamental,omitempty"`
	Technical   *types.TechnicalSnapshot   `json:"technical,omitempty"`
}

// Open creates an Active trade from a sized plan.
func Open(ticker string, res sizing.Result, lv sizing.Levels) (*Trade, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, types.NewValidationError("ticker", "ticker cannot be empty")
	}
	if res.Shares <= 0 {
		return nil, types.NewValidationError("shares", "sized shares must be > 0, got %v", res.Shares)
	}
	return &Trade{
		ID:           uuid.NewString(),
		Ticker:       ticker,
		Shares:       res.Shares,
		Entry:        lv.Entry,
		StopLoss:     lv.StopLoss,
		TakeProfit2:  lv.TakeProfit[2],
		TakeProfit3:  lv.TakeProfit[3],
		Investment:   res.Investment,
		RiskBudgeted: res.RealizedRisk,
		Limit:        res.Limit,
		Status:       StatusActive,
		OpenedAt:     time.Now().UTC(),
		LastPrice:    lv.Entry,
		PnL:          0,
	}, nil
}

// RecoveredCapital is what returns to cash when the trade closes:
// the original investment plus the realized profit or loss.
func (t *Trade) RecoveredCapital() float64 {
	return money.Add(t.Investment, t.PnL)
}
