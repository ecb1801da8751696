// Package sizing computes how many shares a trade plan may buy so a
// stop-out loses a bounded, pre-committed fraction of capital.
package sizing

import (
	"swinglab/internal/pkg/money"
	"swinglab/internal/types"
)

// LimitingFactor names the constraint that bound the final quantity.
type LimitingFactor string

const (
	LimitRiskBudget         LimitingFactor = "risk_budget"
	LimitCapitalShortfall   LimitingFactor = "capital_shortfall"
	LimitDiversificationCap LimitingFactor = "diversification_cap"
)

// Input carries the sizing parameters. MaxPositionValue <= 0 means no
// diversification cap.
type Input struct {
	RiskBudget       float64
	Capital          float64
	Entry            float64
	StopLoss         float64
	MaxPositionValue float64
}

// Result is the sized order. Shares may be fractional: this is a
// planning tool, not an execution system.
type Result struct {
	Shares       float64        `json:"shares"`
	Investment   float64        `json:"investment"`
	RealizedRisk float64        `json:"realized_risk"`
	RiskPerShare float64        `json:"risk_per_share"`
	Limit        LimitingFactor `json:"limiting_factor"`
}

// Size computes the share quantity for a long trade plan. The risk
// budget defines the ideal size; capital and the diversification cap
// are hard ceilings that can only shrink it. The realized risk is
// always <= the risk budget, strictly less only when a ceiling binds.
func Size(in Input) (Result, error) {
	lv, err := ComputeLevels(in.Entry, in.StopLoss)
	if err != nil {
		return Result{}, err
	}
	if in.RiskBudget <= 0 {
		return Result{}, types.NewValidationError("risk_budget", "risk budget must be > 0, got %v", in.RiskBudget)
	}
	if in.Capital <= 0 {
		return Result{}, types.NewValidationError("capital", "capital must be > 0, got %v", in.Capital)
	}

	riskPerShare := lv.RiskPerShare
	idealShares := money.Div(in.RiskBudget, riskPerShare)
	idealInvestment := money.Mul(idealShares, in.Entry)

	// The effective ceiling is whichever of capital and the cap is
	// tighter, so the reported limiting factor is the constraint that
	// actually bound.
	ceiling, ceilingLimit := in.Capital, LimitCapitalShortfall
	if in.MaxPositionValue > 0 && money.LTE(in.MaxPositionValue, in.Capital) {
		ceiling, ceilingLimit = in.MaxPositionValue, LimitDiversificationCap
	}

	shares := idealShares
	limit := LimitRiskBudget
	if money.GT(idealInvestment, ceiling) {
		shares = money.Div(ceiling, in.Entry)
		limit = ceilingLimit
	}

	return Result{
		Shares:       shares,
		Investment:   money.Mul(shares, in.Entry),
		RealizedRisk: money.Mul(shares, riskPerShare),
		RiskPerShare: riskPerShare,
		Limit:        limit,
	}, nil
}
