package config

import "strings"

// Config is the main configuration carrier.
type Config struct {
	App     AppConfig     `toml:"app"`
	Account AccountConfig `toml:"account"`
	Screen  ScreenConfig  `toml:"screen"`
	Refresh RefreshConfig `toml:"refresh"`
	Feeds   FeedsConfig   `toml:"feeds"`
	Store   StoreConfig   `toml:"store"`
	Export  ExportConfig  `toml:"export"`
}

type AppConfig struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`
	HTTPAddr string `toml:"http_addr"`
	LogPath  string `toml:"log_path"`
}

// AccountConfig seeds the trading account. Capital is the session
// starting capital; RiskPct is the fraction of capital risked per
// trade, in percent; MaxPositionPct caps a single position's share of
// capital (0 = no diversification cap).
type AccountConfig struct {
	Capital        float64 `toml:"capital"`
	RiskPct        float64 `toml:"risk_pct"`
	MaxPositionPct float64 `toml:"max_position_pct"`
}

// RiskBudget returns the currency amount accepted as loss on a single
// stop-out.
func (a AccountConfig) RiskBudget() float64 {
	return a.Capital * a.RiskPct / 100
}

// MaxPositionValue returns the diversification ceiling in currency, or
// 0 when no cap is configured.
func (a AccountConfig) MaxPositionValue() float64 {
	if a.MaxPositionPct <= 0 {
		return 0
	}
	return a.Capital * a.MaxPositionPct / 100
}

type ScreenConfig struct {
	ThresholdsPath string `toml:"thresholds_path"`
	Strict         bool   `toml:"strict"`
}

type RefreshConfig struct {
	Enabled         bool `toml:"enabled"`
	IntervalSeconds int  `toml:"interval_seconds"`
}

type FeedsConfig struct {
	FundamentalsURL   string `toml:"fundamentals_url"`
	FundamentalsToken string `toml:"fundamentals_token"`
	TimeoutSeconds    int    `toml:"timeout_seconds"`
}

type StoreConfig struct {
	DBPath string `toml:"db_path"`
}

type ExportConfig struct {
	Dir string `toml:"dir"`
}

// keySet tracks field paths explicitly set in the config file, so
// defaults only fill what the operator left out.
type keySet map[string]struct{}

func (k keySet) mark(path string) {
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return
	}
	k[path] = struct{}{}
}

func (k keySet) isSet(path string) bool {
	if len(k) == 0 {
		return false
	}
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return false
	}
	_, ok := k[path]
	return ok
}

// fieldDefault describes one field's defaulting rule.
type fieldDefault struct {
	key   string
	need  func() bool
	apply func()
}
