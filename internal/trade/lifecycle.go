package trade

import (
	"time"

	"swinglab/internal/pkg/money"
	"swinglab/internal/types"
)

// Transition reports what a Refresh did.
type Transition struct {
	From       Status  `json:"from"`
	To         Status  `json:"to"`
	Closed     bool    `json:"closed"`
	RealizedPL float64 `json:"realized_pl"`
}

// Refresh drives the state machine with a current price. The stop is
// checked before the target so a bar touching both in one update is
// conservatively treated as a loss. Closed trades are a no-op.
//
// On a stop-out the realized loss is the budgeted risk, not a
// recomputation from price, so the sizing invariant carries through
// to the ledger; on a target hit the gain is twice the budgeted risk
// (the 2:1 level is the close trigger, 3:1 stays informational).
func (t *Trade) Refresh(currentPrice float64) (Transition, error) {
	if currentPrice <= 0 {
		return Transition{}, types.NewValidationError("current_price", "price must be > 0, got %v", currentPrice)
	}
	tr := Transition{From: t.Status, To: t.Status}
	if t.Status.Closed() {
		return tr, nil
	}

	t.LastPrice = currentPrice
	switch {
	case money.LTE(currentPrice, t.StopLoss):
		t.close(StatusClosedByStop, -t.RiskBudgeted)
	case money.GTE(currentPrice, t.TakeProfit2):
		t.close(StatusClosedByTarget, money.Mul(2, t.RiskBudgeted))
	default:
		t.PnL = money.Mul(money.Sub(currentPrice, t.Entry), t.Shares)
	}

	tr.To = t.Status
	tr.Closed = t.Status.Closed()
	if tr.Closed {
		tr.RealizedPL = t.PnL
	}
	return tr, nil
}

func (t *Trade) close(status Status, realizedPL float64) {
	now := time.Now().UTC()
	t.Status = status
	t.PnL = realizedPL
	t.ClosedAt = &now
}
