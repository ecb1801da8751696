package screen

import "swinglab/internal/types"

// Thresholds are the pass conditions for the approval gate.
type Thresholds struct {
	SmartScoreMin        int               `mapstructure:"smart_score_min" yaml:"smart_score_min"`
	UpsideMinPct         float64           `mapstructure:"upside_min_pct" yaml:"upside_min_pct"`
	BullishConsensus     []types.Consensus `mapstructure:"bullish_consensus" yaml:"bullish_consensus"`
	RelativeVolumeMinPct float64           `mapstructure:"relative_volume_min_pct" yaml:"relative_volume_min_pct"`
	// RSIMin is a pointer so an explicit rsi_min: 0 disables the
	// oversold floor; only a missing key falls back to the default.
	RSIMin               *float64          `mapstructure:"rsi_min" yaml:"rsi_min"`
	RSIMax               float64           `mapstructure:"rsi_max" yaml:"rsi_max"`
}

func floatPtr(v float64) *float64 { return &v }

// DefaultThresholds returns the standard criteria set.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SmartScoreMin:        8,
		UpsideMinPct:         10,
		BullishConsensus:     []types.Consensus{types.ConsensusStrongBuy, types.ConsensusModerateBuy},
		RelativeVolumeMinPct: 100,
		RSIMin:               floatPtr(30),
		RSIMax:               65,
	}
}

func (t Thresholds) consensusAllowed(c types.Consensus) bool {
	for _, allowed := range t.BullishConsensus {
		if c == allowed {
			return true
		}
	}
	return false
}

// normalize fills zero-valued fields from the defaults so a partial
// thresholds file still yields a complete criteria set.
func (t Thresholds) normalize() Thresholds {
	def := DefaultThresholds()
	if t.SmartScoreMin <= 0 {
		t.SmartScoreMin = def.SmartScoreMin
	}
	if t.UpsideMinPct <= 0 {
		t.UpsideMinPct = def.UpsideMinPct
	}
	if len(t.BullishConsensus) == 0 {
		t.BullishConsensus = def.BullishConsensus
	} else {
		for i, c := range t.BullishConsensus {
			t.BullishConsensus[i] = types.ParseConsensus(string(c))
		}
	}
	if t.RelativeVolumeMinPct <= 0 {
		t.RelativeVolumeMinPct = def.RelativeVolumeMinPct
	}
	if t.RSIMin == nil || *t.RSIMin < 0 {
		t.RSIMin = def.RSIMin
	}
	if t.RSIMax <= 0 || t.RSIMax <= *t.RSIMin {
		t.RSIMax = def.RSIMax
	}
	return t
}
