package config

import (
	"strings"

	"swinglab/internal/types"
)

func validate(c *Config) error {
	if err := c.Account.validate(); err != nil {
		return err
	}
	if err := c.Refresh.validate(); err != nil {
		return err
	}
	if err := c.Feeds.validate(); err != nil {
		return err
	}
	if err := c.Store.validate(); err != nil {
		return err
	}
	return nil
}

func (a *AccountConfig) validate() error {
	if a.Capital <= 0 {
		return types.NewConfigurationError("account.capital", "must be > 0, got %v", a.Capital)
	}
	if a.RiskPct <= 0 || a.RiskPct > 100 {
		return types.NewConfigurationError("account.risk_pct", "must be in (0, 100], got %v", a.RiskPct)
	}
	if a.MaxPositionPct < 0 || a.MaxPositionPct > 100 {
		return types.NewConfigurationError("account.max_position_pct", "must be in [0, 100], got %v", a.MaxPositionPct)
	}
	return nil
}

func (r *RefreshConfig) validate() error {
	if r.IntervalSeconds <= 0 {
		return types.NewConfigurationError("refresh.interval_seconds", "must be > 0, got %d", r.IntervalSeconds)
	}
	return nil
}

func (f *FeedsConfig) validate() error {
	if url := strings.TrimSpace(f.FundamentalsURL); url != "" {
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			return types.NewConfigurationError("feeds.fundamentals_url", "must be an http(s) URL")
		}
	}
	if f.TimeoutSeconds <= 0 {
		return types.NewConfigurationError("feeds.timeout_seconds", "must be > 0, got %d", f.TimeoutSeconds)
	}
	return nil
}

func (s *StoreConfig) validate() error {
	if strings.TrimSpace(s.DBPath) == "" {
		return types.NewConfigurationError("store.db_path", "cannot be empty")
	}
	return nil
}
