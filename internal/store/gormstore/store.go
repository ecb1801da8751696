// Package gormstore persists the trade journal and account balance in
// SQLite via Gorm.
package gormstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"swinglab/internal/portfolio"
	"swinglab/internal/sizing"
	"swinglab/internal/trade"
	"swinglab/internal/types"
)

// Store wraps the SQLite database.
type Store struct {
	db *gorm.DB
}

// NewStore opens (or creates) the database at path and migrates the
// schema.
func NewStore(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("gorm store: db path cannot be empty")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&cache=shared", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&tradeModel{}, &accountModel{}); err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite + WAL: keep contention low, reads come through the same
	// session-scoped ledger anyway.
	sqlDB.SetMaxOpenConns(2)
	sqlDB.SetMaxIdleConns(2)
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveSnapshot writes the whole ledger state in one transaction:
// account row, an upsert per trade, and a delete of any trade row the
// snapshot no longer carries, so reloading always reproduces the
// ledger exactly.
func (s *Store) SaveSnapshot(ctx context.Context, snap portfolio.Snapshot) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("gorm store not initialized")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account := accountModel{
			ID:             1,
			CapitalInicial: snap.CapitalInicial,
			CapitalActual:  snap.CapitalActual,
			UpdatedAtUnix:  time.Now().UnixMilli(),
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"capital_inicial", "capital_actual", "updated_at"}),
		}).Create(&account).Error; err != nil {
			return err
		}
		keep := make([]string, 0, len(snap.Trades))
		for i := range snap.Trades {
			keep = append(keep, snap.Trades[i].ID)
		}
		stale := tx.Where("1 = 1")
		if len(keep) > 0 {
			stale = tx.Where("trade_uuid NOT IN ?", keep)
		}
		if err := stale.Delete(&tradeModel{}).Error; err != nil {
			return err
		}
		for i := range snap.Trades {
			model, err := newTradeModel(snap.Trades[i])
			if err != nil {
				return err
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "trade_uuid"}},
				DoUpdates: clause.AssignmentColumns(tradeUpdateColumns),
			}).Create(&model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveTrade upserts a single trade row.
func (s *Store) SaveTrade(ctx context.Context, t trade.Trade) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("gorm store not initialized")
	}
	model, err := newTradeModel(t)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "trade_uuid"}},
		DoUpdates: clause.AssignmentColumns(tradeUpdateColumns),
	}).Create(&model).Error
}

// LoadSnapshot reads the persisted portfolio, newest trade first.
// found is false on a fresh database.
func (s *Store) LoadSnapshot(ctx context.Context) (portfolio.Snapshot, bool, error) {
	if s == nil || s.db == nil {
		return portfolio.Snapshot{}, false, fmt.Errorf("gorm store not initialized")
	}
	var account accountModel
	if err := s.db.WithContext(ctx).First(&account, 1).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return portfolio.Snapshot{}, false, nil
		}
		return portfolio.Snapshot{}, false, err
	}
	var models []tradeModel
	if err := s.db.WithContext(ctx).
		Order("opened_at DESC, id DESC").
		Find(&models).Error; err != nil {
		return portfolio.Snapshot{}, false, err
	}
	snap := portfolio.Snapshot{
		CapitalInicial: account.CapitalInicial,
		CapitalActual:  account.CapitalActual,
	}
	for _, m := range models {
		t, err := tradeModelToTrade(m)
		if err != nil {
			return portfolio.Snapshot{}, false, err
		}
		snap.Trades = append(snap.Trades, t)
	}
	return snap, true, nil
}

// ResetAll deletes every trade and restarts the account row.
func (s *Store) ResetAll(ctx context.Context, initialCapital float64) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("gorm store not initialized")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&tradeModel{}).Error; err != nil {
			return err
		}
		account := accountModel{
			ID:             1,
			CapitalInicial: initialCapital,
			CapitalActual:  initialCapital,
			UpdatedAtUnix:  time.Now().UnixMilli(),
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"capital_inicial", "capital_actual", "updated_at"}),
		}).Create(&account).Error
	})
}

// --------------------------- Models ------------------------------

type accountModel struct {
	ID             int     `gorm:"column:id;primaryKey"`
	CapitalInicial float64 `gorm:"column:capital_inicial"`
	CapitalActual  float64 `gorm:"column:capital_actual"`
	UpdatedAtUnix  int64   `gorm:"column:updated_at"`
}

func (accountModel) TableName() string { return "account" }

type tradeModel struct {
	ID           int64          `gorm:"column:id;primaryKey"`
	TradeUUID    string         `gorm:"column:trade_uuid;uniqueIndex"`
	Ticker       string         `gorm:"column:ticker;index"`
	Shares       float64        `gorm:"column:shares"`
	Entry        float64        `gorm:"column:entry"`
	StopLoss     float64        `gorm:"column:stop_loss"`
	TakeProfit2  float64        `gorm:"column:take_profit_2"`
	TakeProfit3  float64        `gorm:"column:take_profit_3"`
	Investment   float64        `gorm:"column:investment"`
	RiskBudgeted float64        `gorm:"column:risk_budgeted"`
	Limit        string         `gorm:"column:limiting_factor"`
	Status       string         `gorm:"column:status;index"`
	OpenedAt     int64          `gorm:"column:opened_at;index"`
	ClosedAt     *int64         `gorm:"column:closed_at"`
	LastPrice    float64        `gorm:"column:last_price"`
	PnL          float64        `gorm:"column:pnl"`
	Fundamental  datatypes.JSON `gorm:"column:fundamental_json"`
	Technical    datatypes.JSON `gorm:"column:technical_json"`
}

func (tradeModel) TableName() string { return "trades" }

var tradeUpdateColumns = []string{
	"ticker", "shares", "entry", "stop_loss", "take_profit_2", "take_profit_3",
	"investment", "risk_budgeted", "limiting_factor", "status", "opened_at",
	"closed_at", "last_price", "pnl", "fundamental_json", "technical_json",
}

func newTradeModel(t trade.Trade) (tradeModel, error) {
	if strings.TrimSpace(t.ID) == "" {
		return tradeModel{}, fmt.Errorf("trade has no id")
	}
	model := tradeModel{
		TradeUUID:    t.ID,
		Ticker:       strings.ToUpper(strings.TrimSpace(t.Ticker)),
		Shares:       t.Shares,
		Entry:        t.Entry,
		StopLoss:     t.StopLoss,
		TakeProfit2:  t.TakeProfit2,
		TakeProfit3:  t.TakeProfit3,
		Investment:   t.Investment,
		RiskBudgeted: t.RiskBudgeted,
		Limit:        string(t.Limit),
		Status:       string(t.Status),
		OpenedAt:     t.OpenedAt.UnixMilli(),
		LastPrice:    t.LastPrice,
		PnL:          t.PnL,
	}
	if t.ClosedAt != nil && !t.ClosedAt.IsZero() {
		ts := t.ClosedAt.UnixMilli()
		model.ClosedAt = &ts
	}
	if t.Fundamental != nil {
		raw, err := json.Marshal(t.Fundamental)
		if err != nil {
			return tradeModel{}, err
		}
		model.Fundamental = datatypes.JSON(raw)
	}
	if t.Technical != nil {
		raw, err := json.Marshal(t.Technical)
		if err != nil {
			return tradeModel{}, err
		}
		model.Technical = datatypes.JSON(raw)
	}
	return model, nil
}

func tradeModelToTrade(m tradeModel) (trade.Trade, error) {
	t := trade.Trade{
		ID:           m.TradeUUID,
		Ticker:       strings.ToUpper(strings.TrimSpace(m.Ticker)),
		Shares:       m.Shares,
		Entry:        m.Entry,
		StopLoss:     m.StopLoss,
		TakeProfit2:  m.TakeProfit2,
		TakeProfit3:  m.TakeProfit3,
		Investment:   m.Investment,
		RiskBudgeted: m.RiskBudgeted,
		Limit:        sizing.LimitingFactor(m.Limit),
		Status:       trade.Status(m.Status),
		OpenedAt:     time.UnixMilli(m.OpenedAt),
		LastPrice:    m.LastPrice,
		PnL:          m.PnL,
	}
	switch t.Status {
	case trade.StatusActive, trade.StatusClosedByStop, trade.StatusClosedByTarget:
	default:
		return trade.Trade{}, fmt.Errorf("trade %s: unknown status %q", m.TradeUUID, m.Status)
	}
	if m.ClosedAt != nil && *m.ClosedAt > 0 {
		ts := time.UnixMilli(*m.ClosedAt)
		t.ClosedAt = &ts
	}
	if len(m.Fundamental) > 0 {
		var snap types.FundamentalSnapshot
		if err := json.Unmarshal(m.Fundamental, &snap); err == nil {
			t.Fundamental = &snap
		}
	}
	if len(m.Technical) > 0 {
		var snap types.TechnicalSnapshot
		if err := json.Unmarshal(m.Technical, &snap); err == nil {
			t.Technical = &snap
		}
	}
	return t, nil
}
