package config

import "strings"

const (
	defaultAppEnv           = "dev"
	defaultAppLogLevel      = "info"
	defaultAppHTTPAddr      = ":9980"
	defaultAppLogPath       = ""
	defaultAccountCapital   = 1000
	defaultAccountRiskPct   = 2.0
	defaultScreenThresholds = "configs/screen_thresholds.yaml"
	defaultRefreshInterval  = 300
	defaultFeedTimeout      = 15
	defaultStoreDBPath      = "data/swinglab.db"
	defaultExportDir        = "data/export"
)

// applyDefaults fills every subsection.
func (c *Config) applyDefaults(keys keySet) {
	c.App.applyDefaults(keys)
	c.Account.applyDefaults(keys)
	c.Screen.applyDefaults(keys)
	c.Refresh.applyDefaults(keys)
	c.Feeds.applyDefaults(keys)
	c.Store.applyDefaults(keys)
	c.Export.applyDefaults(keys)
}

func (a *AppConfig) applyDefaults(keys keySet) {
	if a == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("app.env", &a.Env, defaultAppEnv),
		stringFieldDefault("app.log_level", &a.LogLevel, defaultAppLogLevel),
		stringFieldDefault("app.http_addr", &a.HTTPAddr, defaultAppHTTPAddr),
		stringFieldDefault("app.log_path", &a.LogPath, defaultAppLogPath),
	)
}

func (a *AccountConfig) applyDefaults(keys keySet) {
	if a == nil {
		return
	}
	applyFieldDefaults(keys,
		fieldDefault{
			key:   "account.capital",
			need:  func() bool { return a.Capital <= 0 },
			apply: func() { a.Capital = defaultAccountCapital },
		},
		fieldDefault{
			key:   "account.risk_pct",
			need:  func() bool { return a.RiskPct <= 0 },
			apply: func() { a.RiskPct = defaultAccountRiskPct },
		},
	)
}

func (s *ScreenConfig) applyDefaults(keys keySet) {
	if s == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("screen.thresholds_path", &s.ThresholdsPath, defaultScreenThresholds),
	)
}

func (r *RefreshConfig) applyDefaults(keys keySet) {
	if r == nil {
		return
	}
	applyFieldDefaults(keys,
		fieldDefault{
			key:   "refresh.interval_seconds",
			need:  func() bool { return r.IntervalSeconds <= 0 },
			apply: func() { r.IntervalSeconds = defaultRefreshInterval },
		},
	)
}

func (f *FeedsConfig) applyDefaults(keys keySet) {
	if f == nil {
		return
	}
	applyFieldDefaults(keys,
		fieldDefault{
			key:   "feeds.timeout_seconds",
			need:  func() bool { return f.TimeoutSeconds <= 0 },
			apply: func() { f.TimeoutSeconds = defaultFeedTimeout },
		},
	)
}

func (s *StoreConfig) applyDefaults(keys keySet) {
	if s == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("store.db_path", &s.DBPath, defaultStoreDBPath),
	)
}

func (e *ExportConfig) applyDefaults(keys keySet) {
	if e == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("export.dir", &e.Dir, defaultExportDir),
	)
}

func applyFieldDefaults(keys keySet, defs ...fieldDefault) {
	for _, def := range defs {
		if def.apply == nil {
			continue
		}
		if def.key != "" && keys.isSet(def.key) {
			continue
		}
		if def.need != nil && !def.need() {
			continue
		}
		def.apply()
	}
}

func stringFieldDefault(key string, target *string, def string) fieldDefault {
	return fieldDefault{
		key: key,
		need: func() bool {
			return target != nil && strings.TrimSpace(*target) == ""
		},
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}
