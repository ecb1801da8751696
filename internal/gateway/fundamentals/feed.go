// Package fundamentals supplies analyst consensus data, either from a
// remote provider or entered manually by the operator.
package fundamentals

import (
	"context"

	"swinglab/internal/types"
)

// Feed returns the analyst snapshot for a ticker. Implementations
// substitute neutral defaults for missing fields rather than failing
// the whole request; only a fully failed call returns an error.
type Feed interface {
	Fundamentals(ctx context.Context, ticker string) (types.FundamentalSnapshot, error)
}

// Manual is a fixed, operator-entered snapshot set.
type Manual struct {
	entries map[string]types.FundamentalSnapshot
}

func NewManual() *Manual {
	return &Manual{entries: make(map[string]types.FundamentalSnapshot)}
}

// Set stores an operator-entered snapshot, normalizing neutral
// defaults the same way the remote feed does.
func (m *Manual) Set(ticker string, snap types.FundamentalSnapshot) {
	if snap.Consensus == "" {
		snap.Consensus = types.ConsensusHold
	}
	if snap.SmartScore < 1 || snap.SmartScore > 10 {
		snap.SmartScore = types.NeutralSmartScore
	}
	m.entries[normalize(ticker)] = snap
}

func (m *Manual) Fundamentals(_ context.Context, ticker string) (types.FundamentalSnapshot, error) {
	snap, ok := m.entries[normalize(ticker)]
	if !ok {
		return types.FundamentalSnapshot{}, types.ErrDataUnavailable
	}
	return snap, nil
}

var _ Feed = (*Manual)(nil)
