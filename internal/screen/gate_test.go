package screen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"swinglab/internal/types"
)

func fullInputs() Inputs {
	return Inputs{
		Fundamental: types.FundamentalSnapshot{
			SmartScore:  9,
			Consensus:   types.ConsensusStrongBuy,
			PriceTarget: floatPtr(120),
		},
		HasFundamental: true,
		Technical: types.TechnicalSnapshot{
			RelativeVolumePct: types.Metric{Value: 150, Valid: true},
			RSI14:             types.Metric{Value: 50, Valid: true},
		},
		Entry: 100,
	}
}

func TestGatePassesWhenAllCriteriaMet(t *testing.T) {
	g := NewGate(nil, false)
	ev := g.Evaluate(fullInputs())
	assert.True(t, ev.Pass)
	assert.Len(t, ev.Criteria, 5)
	assert.Empty(t, ev.Omitted)
}

func TestGateFailsOnAnyCriterion(t *testing.T) {
	cases := map[string]func(*Inputs){
		"low smart score": func(in *Inputs) { in.Fundamental.SmartScore = 7 },
		"thin upside":     func(in *Inputs) { in.Fundamental.PriceTarget = floatPtr(105) },
		"hold consensus":  func(in *Inputs) { in.Fundamental.Consensus = types.ConsensusHold },
		"quiet volume":    func(in *Inputs) { in.Technical.RelativeVolumePct.Value = 80 },
		"overbought rsi":  func(in *Inputs) { in.Technical.RSI14.Value = 70 },
		"oversold rsi":    func(in *Inputs) { in.Technical.RSI14.Value = 25 },
	}
	g := NewGate(nil, false)
	for name, mutate := range cases {
		in := fullInputs()
		mutate(&in)
		ev := g.Evaluate(in)
		assert.False(t, ev.Pass, name)
	}
}

func TestGateBoundaryValuesPass(t *testing.T) {
	in := fullInputs()
	in.Fundamental.SmartScore = 8
	in.Fundamental.PriceTarget = floatPtr(110) // exactly 10% upside
	in.Technical.RelativeVolumePct.Value = 100
	in.Technical.RSI14.Value = 65
	ev := NewGate(nil, false).Evaluate(in)
	assert.True(t, ev.Pass)
}

func TestGateOmitsUnavailableCriteria(t *testing.T) {
	in := fullInputs()
	in.HasFundamental = false
	ev := NewGate(nil, false).Evaluate(in)
	assert.True(t, ev.Pass) // technicals still pass
	assert.Len(t, ev.Criteria, 2)
	assert.ElementsMatch(t, []string{CriterionSmartScore, CriterionUpside, CriterionConsensus}, ev.Omitted)
}

func TestGateOmitsUpsideWithoutPriceTarget(t *testing.T) {
	in := fullInputs()
	in.Fundamental.PriceTarget = nil
	ev := NewGate(nil, false).Evaluate(in)
	assert.True(t, ev.Pass)
	assert.Contains(t, ev.Omitted, CriterionUpside)
}

func TestGateAllOmittedIsVacuousPass(t *testing.T) {
	ev := NewGate(nil, false).Evaluate(Inputs{Entry: 100})
	assert.True(t, ev.Pass)
	assert.Empty(t, ev.Criteria)
	assert.Len(t, ev.Omitted, 5)
}

func TestGateStrictIsReportedOnly(t *testing.T) {
	assert.True(t, NewGate(nil, true).Strict())
	assert.False(t, NewGate(nil, false).Strict())

	in := fullInputs()
	in.Fundamental.SmartScore = 1
	strict := NewGate(nil, true).Evaluate(in)
	lax := NewGate(nil, false).Evaluate(in)
	assert.Equal(t, strict.Pass, lax.Pass)
}

func TestRegistryLoadsThresholdFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	content := []byte(`screen:
  smart_score_min: 6
  upside_min_pct: 5
  bullish_consensus:
    - strong buy
  relative_volume_min_pct: 120
  rsi_min: 35
  rsi_max: 60
`)
	assert.NoError(t, os.WriteFile(path, content, 0o644))

	reg, err := NewRegistry(path)
	assert.NoError(t, err)
	th := reg.Thresholds()
	assert.Equal(t, 6, th.SmartScoreMin)
	assert.Equal(t, 5.0, th.UpsideMinPct)
	assert.Equal(t, []types.Consensus{types.ConsensusStrongBuy}, th.BullishConsensus)
	assert.Equal(t, 120.0, th.RelativeVolumeMinPct)
	assert.Equal(t, 35.0, *th.RSIMin)
	assert.Equal(t, 60.0, th.RSIMax)
}

func TestRegistryEmptyPathServesDefaults(t *testing.T) {
	reg, err := NewRegistry("")
	assert.NoError(t, err)
	assert.Equal(t, DefaultThresholds(), reg.Thresholds())
}

func TestThresholdsNormalizeFillsGaps(t *testing.T) {
	th := Thresholds{SmartScoreMin: 7}.normalize()
	def := DefaultThresholds()
	assert.Equal(t, 7, th.SmartScoreMin)
	assert.Equal(t, def.UpsideMinPct, th.UpsideMinPct)
	assert.Equal(t, def.BullishConsensus, th.BullishConsensus)
	assert.Equal(t, *def.RSIMin, *th.RSIMin)
	assert.Equal(t, def.RSIMax, th.RSIMax)
}

func TestThresholdsExplicitZeroRSIFloorKept(t *testing.T) {
	th := Thresholds{RSIMin: floatPtr(0)}.normalize()
	assert.Equal(t, 0.0, *th.RSIMin)
	assert.Equal(t, DefaultThresholds().RSIMax, th.RSIMax)
}

func TestRegistryAllowsZeroRSIFloor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	content := []byte(`screen:
  rsi_min: 0
  rsi_max: 65
`)
	assert.NoError(t, os.WriteFile(path, content, 0o644))

	reg, err := NewRegistry(path)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, *reg.Thresholds().RSIMin)

	in := fullInputs()
	in.Technical.RSI14.Value = 12 // deeply oversold, floor disabled
	ev := NewGate(reg, false).Evaluate(in)
	for _, c := range ev.Criteria {
		if c.Name == CriterionRSI {
			assert.True(t, c.Pass, c.Message)
		}
	}
}
