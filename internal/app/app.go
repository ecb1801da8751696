// Package app orchestrates the application: load config, open the
// store, rebuild the ledger, then serve the API and the refresh loop.
package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"swinglab/internal/config"
	"swinglab/internal/gateway/fundamentals"
	"swinglab/internal/gateway/yahoo"
	"swinglab/internal/logger"
	"swinglab/internal/portfolio"
	"swinglab/internal/scheduler"
	"swinglab/internal/screen"
	"swinglab/internal/store/gormstore"
	httpapi "swinglab/internal/transport/http"
)

// App holds the wired components. Build with New, run with Run.
type App struct {
	cfg      *config.Config
	account  *portfolio.Account
	ledger   *portfolio.Ledger
	registry *screen.Registry
	store    *gormstore.Store
	server   *httpapi.Server
	prices   *yahoo.Source
}

// New builds the application from config without starting anything.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)
	if cfg.App.LogPath != "" {
		logger.SetRotatingFile(cfg.App.LogPath)
	}

	account, err := portfolio.NewAccount(cfg.Account.Capital, cfg.Account.RiskPct, cfg.Account.MaxPositionPct)
	if err != nil {
		return nil, err
	}

	var store *gormstore.Store
	if cfg.Store.DBPath != "" {
		store, err = gormstore.NewStore(cfg.Store.DBPath)
		if err != nil {
			return nil, fmt.Errorf("opening store: %w", err)
		}
	}

	ledger, err := restoreLedger(store, cfg.Account.Capital)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}

	registry, err := screen.NewRegistry(cfg.Screen.ThresholdsPath)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("loading screen thresholds: %w", err)
	}
	gate := screen.NewGate(registry, cfg.Screen.Strict)
	logger.Infof("✓ screen thresholds ready strict=%v", cfg.Screen.Strict)

	prices := yahoo.NewSource()

	var funds fundamentals.Feed
	if cfg.Feeds.FundamentalsURL != "" {
		client, err := fundamentals.NewClient(fundamentals.ClientConfig{
			BaseURL: cfg.Feeds.FundamentalsURL,
			Token:   cfg.Feeds.FundamentalsToken,
			Timeout: time.Duration(cfg.Feeds.TimeoutSeconds) * time.Second,
		})
		if err != nil {
			if store != nil {
				store.Close()
			}
			return nil, fmt.Errorf("building fundamentals client: %w", err)
		}
		funds = client
		logger.Infof("✓ fundamentals feed %s", cfg.Feeds.FundamentalsURL)
	} else {
		logger.Infof("fundamentals feed not configured, screening on technicals only")
	}

	api, err := httpapi.NewRouter(httpapi.RouterConfig{
		Account:   account,
		Ledger:    ledger,
		Prices:    prices,
		Funds:     funds,
		Gate:      gate,
		Store:     storePersister(store),
		ExportDir: cfg.Export.Dir,
	})
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}
	server, err := httpapi.NewServer(cfg.App.HTTPAddr, api)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}

	return &App{
		cfg:      cfg,
		account:  account,
		ledger:   ledger,
		registry: registry,
		store:    store,
		server:   server,
		prices:   prices,
	}, nil
}

// storePersister hides the typed-nil pitfall behind the Persister
// interface.
func storePersister(s *gormstore.Store) httpapi.Persister {
	if s == nil {
		return nil
	}
	return s
}

// restoreLedger rebuilds the ledger from the last persisted snapshot,
// or starts fresh at the configured capital.
func restoreLedger(store *gormstore.Store, capital float64) (*portfolio.Ledger, error) {
	ledger, err := portfolio.NewLedger(capital)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return ledger, nil
	}
	snap, found, err := store.LoadSnapshot(context.Background())
	if err != nil {
		return nil, fmt.Errorf("loading persisted journal: %w", err)
	}
	if !found {
		logger.Infof("no persisted journal, starting fresh capital=%.2f", capital)
		return ledger, nil
	}
	if err := ledger.Restore(snap); err != nil {
		return nil, fmt.Errorf("restoring persisted journal: %w", err)
	}
	logger.Infof("✓ journal restored trades=%d cash=%.2f", len(snap.Trades), snap.CapitalActual)
	return ledger, nil
}

// Run serves until ctx is done, then shuts down and closes the store.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.cfg == nil {
		return fmt.Errorf("app not initialized")
	}
	if a.store != nil {
		defer a.store.Close()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("✓ http api listening on %s", a.server.Addr())
		return a.server.Start(gctx)
	})
	if a.cfg.Refresh.Enabled {
		interval := time.Duration(a.cfg.Refresh.IntervalSeconds) * time.Second
		sched := scheduler.NewIntervalScheduler(gctx, interval)
		g.Go(func() error {
			sched.Start(a.refreshOnce)
			return nil
		})
	}
	return g.Wait()
}

func (a *App) refreshOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	report := a.ledger.RefreshAll(ctx, a.prices)
	if report.Closed > 0 {
		logger.Infof("refresh closed %d trade(s), cash=%.2f", report.Closed, a.ledger.Cash())
	}
	if a.store != nil {
		if err := a.store.SaveSnapshot(ctx, a.ledger.Snapshot()); err != nil {
			logger.Errorf("persisting refreshed journal failed: %v", err)
		}
	}
}
