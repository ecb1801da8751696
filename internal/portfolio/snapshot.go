package portfolio

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"swinglab/internal/trade"
	"swinglab/internal/types"
)

// Snapshot is the persisted portfolio structure. The wire keys keep
// the original journal's Spanish field names.
type Snapshot struct {
	CapitalInicial float64       `json:"capital_inicial"`
	CapitalActual  float64       `json:"capital_actual"`
	Trades         []trade.Trade `json:"trades"`
}

// snapshotSchema guards imported snapshots before any state is
// touched.
const snapshotSchema = `{
  "type": "object",
  "required": ["capital_inicial", "capital_actual", "trades"],
  "properties": {
    "capital_inicial": {"type": "number", "exclusiveMinimum": 0},
    "capital_actual": {"type": "number", "minimum": 0},
    "trades": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["ticker", "shares", "entry", "stop_loss", "status"],
        "properties": {
          "ticker": {"type": "string", "minLength": 1},
          "shares": {"type": "number", "exclusiveMinimum": 0},
          "entry": {"type": "number", "exclusiveMinimum": 0},
          "stop_loss": {"type": "number", "exclusiveMinimum": 0},
          "status": {"enum": ["active", "closed_stop", "closed_target"]}
        }
      }
    }
  }
}`

var compiledSnapshotSchema = jsonschema.MustCompileString("snapshot.json", snapshotSchema)

// Snapshot captures the ledger for persistence.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	trades := make([]trade.Trade, 0, len(l.trades))
	for _, t := range l.trades {
		trades = append(trades, *t)
	}
	return Snapshot{
		CapitalInicial: l.initialCapital,
		CapitalActual:  l.cash,
		Trades:         trades,
	}
}

// ParseSnapshot validates raw JSON against the snapshot schema and
// decodes it. Invalid payloads are rejected before anything is built.
func ParseSnapshot(raw []byte) (Snapshot, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot is not valid JSON: %w", err)
	}
	if err := compiledSnapshotSchema.Validate(doc); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot failed schema validation: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Restore replaces the ledger contents from a persisted snapshot.
// On validation failure the ledger is left untouched.
func (l *Ledger) Restore(snap Snapshot) error {
	if snap.CapitalInicial <= 0 {
		return types.NewValidationError("capital_inicial", "must be > 0, got %v", snap.CapitalInicial)
	}
	if snap.CapitalActual < 0 {
		return types.NewValidationError("capital_actual", "must be >= 0, got %v", snap.CapitalActual)
	}
	restored := make([]*trade.Trade, 0, len(snap.Trades))
	for i := range snap.Trades {
		t := snap.Trades[i]
		t.Ticker = strings.ToUpper(strings.TrimSpace(t.Ticker))
		if t.Ticker == "" {
			return types.NewValidationError("trades", "trade %d has no ticker", i)
		}
		restored = append(restored, &t)
	}
	l.mu.Lock()
	l.initialCapital = snap.CapitalInicial
	l.cash = snap.CapitalActual
	l.trades = restored
	l.mu.Unlock()
	return nil
}
