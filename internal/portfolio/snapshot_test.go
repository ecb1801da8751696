package portfolio

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotRoundTrip(t *testing.T) {
	l, _ := NewLedger(1000)
	assert.NoError(t, l.Open(mustOpen(t, "AAPL", 10, 9, 20, 1000)))

	raw, err := json.Marshal(l.Snapshot())
	assert.NoError(t, err)
	assert.Contains(t, string(raw), `"capital_inicial"`)
	assert.Contains(t, string(raw), `"capital_actual"`)

	snap, err := ParseSnapshot(raw)
	assert.NoError(t, err)

	restored, err := NewLedger(1)
	assert.NoError(t, err)
	assert.NoError(t, restored.Restore(snap))
	assert.Equal(t, 1000.0, restored.InitialCapital())
	assert.Equal(t, 800.0, restored.Cash())
	assert.Equal(t, l.Trades(), restored.Trades())
}

func TestParseSnapshotRejectsMissingFields(t *testing.T) {
	_, err := ParseSnapshot([]byte(`{"capital_inicial": 1000, "trades": []}`))
	assert.Error(t, err)
}

func TestParseSnapshotRejectsBadTrade(t *testing.T) {
	raw := []byte(`{
		"capital_inicial": 1000,
		"capital_actual": 800,
		"trades": [{"ticker": "AAPL", "shares": -1, "entry": 10, "stop_loss": 9, "status": "active"}]
	}`)
	_, err := ParseSnapshot(raw)
	assert.Error(t, err)
}

func TestParseSnapshotRejectsUnknownStatus(t *testing.T) {
	raw := []byte(`{
		"capital_inicial": 1000,
		"capital_actual": 800,
		"trades": [{"ticker": "AAPL", "shares": 1, "entry": 10, "stop_loss": 9, "status": "paused"}]
	}`)
	_, err := ParseSnapshot(raw)
	assert.Error(t, err)
}

func TestParseSnapshotRejectsNonJSON(t *testing.T) {
	_, err := ParseSnapshot([]byte("not json"))
	assert.Error(t, err)
}

func TestRestoreLeavesLedgerUntouchedOnFailure(t *testing.T) {
	l, _ := NewLedger(1000)
	assert.NoError(t, l.Open(mustOpen(t, "AAPL", 10, 9, 20, 1000)))

	err := l.Restore(Snapshot{CapitalInicial: 0, CapitalActual: 500})
	assert.Error(t, err)
	assert.Equal(t, 1000.0, l.InitialCapital())
	assert.Equal(t, 800.0, l.Cash())
	assert.Len(t, l.Trades(), 1)
}
