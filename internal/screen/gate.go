// Package screen implements the rule gate that approves or rejects a
// proposed trade from fundamental and technical criteria.
package screen

import (
	"fmt"

	"swinglab/internal/types"
)

// Criterion names, in evaluation order.
const (
	CriterionSmartScore     = "smart_score"
	CriterionUpside         = "upside"
	CriterionConsensus      = "consensus"
	CriterionRelativeVolume = "relative_volume"
	CriterionRSI            = "rsi"
)

// CriterionResult is one named check.
type CriterionResult struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	Pass    bool   `json:"pass"`
	Message string `json:"message"`
}

// Evaluation is the gate output. Omitted lists criteria whose inputs
// were unavailable; they count neither as pass nor fail, but the
// caller can see they were skipped.
type Evaluation struct {
	Criteria []CriterionResult `json:"criteria"`
	Omitted  []string          `json:"omitted,omitempty"`
	Pass     bool              `json:"pass"`
}

// Inputs are the snapshots a proposal is screened against.
// HasFundamental is false when no analyst data was supplied at all
// (the fundamental criteria are then omitted, not defaulted).
type Inputs struct {
	Fundamental    types.FundamentalSnapshot
	HasFundamental bool
	Technical      types.TechnicalSnapshot
	Entry          float64
}

// Gate evaluates the criteria set against its thresholds registry.
// Strict mode is a caller-level policy: the gate only reports it.
type Gate struct {
	registry *Registry
	strict   bool
}

func NewGate(registry *Registry, strict bool) *Gate {
	return &Gate{registry: registry, strict: strict}
}

// Strict reports whether a failing aggregate should block trade
// creation rather than merely warn.
func (g *Gate) Strict() bool { return g != nil && g.strict }

// Evaluate runs every criterion whose input is available and ANDs the
// results.
func (g *Gate) Evaluate(in Inputs) Evaluation {
	th := DefaultThresholds()
	if g != nil && g.registry != nil {
		th = g.registry.Thresholds()
	}

	ev := Evaluation{Pass: true}
	add := func(res CriterionResult) {
		ev.Criteria = append(ev.Criteria, res)
		if !res.Pass {
			ev.Pass = false
		}
	}
	omit := func(name string) {
		ev.Omitted = append(ev.Omitted, name)
	}

	if in.HasFundamental {
		score := in.Fundamental.SmartScore
		add(CriterionResult{
			Name:    CriterionSmartScore,
			Value:   fmt.Sprintf("%d", score),
			Pass:    score >= th.SmartScoreMin,
			Message: fmt.Sprintf("smart score %d (need >= %d)", score, th.SmartScoreMin),
		})
		if upside, ok := in.Fundamental.UpsidePct(in.Entry); ok {
			add(CriterionResult{
				Name:    CriterionUpside,
				Value:   fmt.Sprintf("%.1f%%", upside),
				Pass:    upside >= th.UpsideMinPct,
				Message: fmt.Sprintf("upside %.1f%% (need >= %.1f%%)", upside, th.UpsideMinPct),
			})
		} else {
			omit(CriterionUpside)
		}
		add(CriterionResult{
			Name:    CriterionConsensus,
			Value:   string(in.Fundamental.Consensus),
			Pass:    th.consensusAllowed(in.Fundamental.Consensus),
			Message: fmt.Sprintf("consensus %s (need buy-side)", in.Fundamental.Consensus),
		})
	} else {
		omit(CriterionSmartScore)
		omit(CriterionUpside)
		omit(CriterionConsensus)
	}

	if rv := in.Technical.RelativeVolumePct; rv.Valid {
		add(CriterionResult{
			Name:    CriterionRelativeVolume,
			Value:   fmt.Sprintf("%.0f%%", rv.Value),
			Pass:    rv.Value >= th.RelativeVolumeMinPct,
			Message: fmt.Sprintf("relative volume %.0f%% (need >= %.0f%%)", rv.Value, th.RelativeVolumeMinPct),
		})
	} else {
		omit(CriterionRelativeVolume)
	}

	if rsi := in.Technical.RSI14; rsi.Valid {
		floor := 0.0
		if th.RSIMin != nil {
			floor = *th.RSIMin
		}
		add(CriterionResult{
			Name:    CriterionRSI,
			Value:   fmt.Sprintf("%.1f", rsi.Value),
			Pass:    rsi.Value >= floor && rsi.Value <= th.RSIMax,
			Message: fmt.Sprintf("rsi %.1f (need %.0f-%.0f)", rsi.Value, floor, th.RSIMax),
		})
	} else {
		omit(CriterionRSI)
	}

	return ev
}
