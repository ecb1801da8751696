package portfolio

import (
	"sync"

	"swinglab/internal/types"
)

// Account holds the session's mutable sizing parameters. Capital here
// is the configured total used for risk budgeting; the ledger tracks
// actual cash separately.
type Account struct {
	mu             sync.RWMutex
	capital        float64
	riskPct        float64
	maxPositionPct float64
}

func NewAccount(capital, riskPct, maxPositionPct float64) (*Account, error) {
	a := &Account{}
	if err := a.Update(capital, riskPct, maxPositionPct); err != nil {
		return nil, err
	}
	return a, nil
}

// Update replaces the account parameters after validating them; on
// error the previous values stay in place.
func (a *Account) Update(capital, riskPct, maxPositionPct float64) error {
	if capital <= 0 {
		return types.NewConfigurationError("account.capital", "must be > 0, got %v", capital)
	}
	if riskPct <= 0 || riskPct > 100 {
		return types.NewConfigurationError("account.risk_pct", "must be in (0, 100], got %v", riskPct)
	}
	if maxPositionPct < 0 || maxPositionPct > 100 {
		return types.NewConfigurationError("account.max_position_pct", "must be in [0, 100], got %v", maxPositionPct)
	}
	a.mu.Lock()
	a.capital = capital
	a.riskPct = riskPct
	a.maxPositionPct = maxPositionPct
	a.mu.Unlock()
	return nil
}

func (a *Account) Capital() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.capital
}

func (a *Account) RiskPct() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.riskPct
}

func (a *Account) MaxPositionPct() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.maxPositionPct
}

// RiskBudget is the currency amount accepted as loss per stop-out.
func (a *Account) RiskBudget() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.capital * a.riskPct / 100
}

// MaxPositionValue is the diversification ceiling, 0 when uncapped.
func (a *Account) MaxPositionValue() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.maxPositionPct <= 0 {
		return 0
	}
	return a.capital * a.maxPositionPct / 100
}
