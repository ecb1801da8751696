package sizing

import (
	"swinglab/internal/pkg/money"
	"swinglab/internal/types"
)

// Take-profit multiples offered on every plan. The 2:1 level is the
// close trigger; 3:1 is informational.
var TakeProfitMultiples = []int{2, 3}

// Levels is the exit plan derived from an entry and a stop-loss,
// independent of position size.
type Levels struct {
	Entry        float64         `json:"entry"`
	StopLoss     float64         `json:"stop_loss"`
	RiskPerShare float64         `json:"risk_per_share"`
	TakeProfit   map[int]float64 `json:"take_profit"`
}

// ComputeLevels validates the entry/stop pair and derives the
// take-profit ladder. A stop at or above entry is rejected, never
// reinterpreted as a short position.
func ComputeLevels(entry, stopLoss float64) (Levels, error) {
	if entry <= 0 {
		return Levels{}, types.NewValidationError("entry", "entry price must be > 0, got %v", entry)
	}
	if stopLoss <= 0 {
		return Levels{}, types.NewValidationError("stop_loss", "stop-loss must be > 0, got %v", stopLoss)
	}
	if money.GTE(stopLoss, entry) {
		return Levels{}, types.NewValidationError("stop_loss", "stop-loss must be below entry for a long position")
	}
	riskPerShare := money.Sub(entry, stopLoss)
	lv := Levels{
		Entry:        entry,
		StopLoss:     stopLoss,
		RiskPerShare: riskPerShare,
		TakeProfit:   make(map[int]float64, len(TakeProfitMultiples)),
	}
	for _, k := range TakeProfitMultiples {
		lv.TakeProfit[k] = TakeProfit(entry, stopLoss, k)
	}
	return lv, nil
}

// TakeProfit returns entry + multiple * (entry - stop_loss).
func TakeProfit(entry, stopLoss float64, multiple int) float64 {
	return money.Add(entry, money.Mul(float64(multiple), money.Sub(entry, stopLoss)))
}
