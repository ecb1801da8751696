package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"swinglab/internal/gateway/fundamentals"
	"swinglab/internal/market"
	"swinglab/internal/portfolio"
	"swinglab/internal/screen"
	"swinglab/internal/types"
)

// Persister writes ledger state behind every mutation. Satisfied by
// the gorm store; nil disables persistence.
type Persister interface {
	SaveSnapshot(ctx context.Context, snap portfolio.Snapshot) error
	ResetAll(ctx context.Context, initialCapital float64) error
}

// Router holds the API dependencies.
type Router struct {
	account   *portfolio.Account
	ledger    *portfolio.Ledger
	prices    market.Source
	funds     fundamentals.Feed // nil when no provider is configured
	gate      *screen.Gate
	store     Persister
	exportDir string
}

// RouterConfig wires the API dependencies.
type RouterConfig struct {
	Account *portfolio.Account
	Ledger  *portfolio.Ledger
	Prices  market.Source
	Funds   fundamentals.Feed
	Gate    *screen.Gate
	Store   Persister
	// ExportDir, when set, enables server-side journal archiving via
	// /export?save=true.
	ExportDir string
}

func NewRouter(cfg RouterConfig) (*Router, error) {
	if cfg.Account == nil || cfg.Ledger == nil {
		return nil, errors.New("api router requires account and ledger")
	}
	if cfg.Prices == nil {
		return nil, errors.New("api router requires a price source")
	}
	return &Router{
		account:   cfg.Account,
		ledger:    cfg.Ledger,
		prices:    cfg.Prices,
		funds:     cfg.Funds,
		gate:      cfg.Gate,
		store:     cfg.Store,
		exportDir: cfg.ExportDir,
	}, nil
}

// Register mounts the API under the given group.
func (r *Router) Register(group *gin.RouterGroup) {
	if group == nil {
		return
	}
	group.GET("/account", r.handleGetAccount)
	group.PUT("/account", r.handleUpdateAccount)
	group.GET("/analyze/:ticker", r.handleAnalyze)
	group.POST("/size", r.handleSize)
	group.GET("/trades", r.handleListTrades)
	group.POST("/trades", r.handleOpenTrade)
	group.POST("/refresh", r.handleRefresh)
	group.GET("/metrics", r.handleMetrics)
	group.POST("/reset", r.handleReset)
	group.POST("/import", r.handleImport)
	group.GET("/export", r.handleExport)
}

// respondError maps the error taxonomy onto HTTP statuses, keeping
// the failed precondition visible to the caller.
func respondError(c *gin.Context, err error) {
	var ve *types.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error(), "field": ve.Field})
		return
	}
	var ce *types.ConfigurationError
	if errors.As(err, &ce) {
		c.JSON(http.StatusBadRequest, gin.H{"error": ce.Error(), "key": ce.Key})
		return
	}
	if errors.Is(err, types.ErrDataUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
