package types

import "strings"

// Consensus is the analyst consensus rating scale.
type Consensus string

const (
	ConsensusStrongBuy    Consensus = "StrongBuy"
	ConsensusModerateBuy  Consensus = "ModerateBuy"
	ConsensusHold         Consensus = "Hold"
	ConsensusModerateSell Consensus = "ModerateSell"
	ConsensusStrongSell   Consensus = "StrongSell"
)

// Bullish reports whether the rating is a buy-side consensus.
func (c Consensus) Bullish() bool {
	return c == ConsensusStrongBuy || c == ConsensusModerateBuy
}

// ParseConsensus maps free-form provider strings onto the enum,
// defaulting to Hold for anything unrecognized.
func ParseConsensus(raw string) Consensus {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(raw), " ", "")) {
	case "strongbuy", "buy":
		return ConsensusStrongBuy
	case "moderatebuy", "outperform", "overweight":
		return ConsensusModerateBuy
	case "hold", "neutral":
		return ConsensusHold
	case "moderatesell", "underperform", "underweight":
		return ConsensusModerateSell
	case "strongsell", "sell":
		return ConsensusStrongSell
	default:
		return ConsensusHold
	}
}

const NeutralSmartScore = 5

// FundamentalSnapshot carries externally supplied analyst data.
// Partial payloads are tolerated: PriceTarget and AnalystCount may be
// nil, Consensus/SmartScore fall back to neutral defaults.
type FundamentalSnapshot struct {
	SmartScore   int       `json:"smart_score"`
	Consensus    Consensus `json:"consensus"`
	PriceTarget  *float64  `json:"price_target,omitempty"`
	AnalystCount *int      `json:"analyst_count,omitempty"`
}

// UpsidePct returns the percentage upside from entry to the analyst
// price target. ok is false when no target is known or entry is not
// positive.
func (f FundamentalSnapshot) UpsidePct(entry float64) (float64, bool) {
	if f.PriceTarget == nil || *f.PriceTarget <= 0 || entry <= 0 {
		return 0, false
	}
	return (*f.PriceTarget - entry) / entry * 100, true
}

// Metric is a derived indicator value that may be unavailable when the
// bar history is too short.
type Metric struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// TechnicalSnapshot holds the derived signals captured when a trade is
// proposed. Captured once, never recomputed.
type TechnicalSnapshot struct {
	Support20D        Metric `json:"support_20d"`
	RelativeVolumePct Metric `json:"relative_volume_pct"`
	RSI14             Metric `json:"rsi_14"`
}
