package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"swinglab/internal/analysis/indicator"
	"swinglab/internal/export"
	"swinglab/internal/logger"
	"swinglab/internal/market"
	"swinglab/internal/pkg/money"
	"swinglab/internal/portfolio"
	"swinglab/internal/screen"
	"swinglab/internal/sizing"
	"swinglab/internal/trade"
	"swinglab/internal/types"
)

const importBodyLimit = 4 << 20

type accountResponse struct {
	Capital          float64 `json:"capital"`
	RiskPct          float64 `json:"risk_pct"`
	MaxPositionPct   float64 `json:"max_position_pct"`
	RiskBudget       float64 `json:"risk_budget"`
	MaxPositionValue float64 `json:"max_position_value"`
}

func (r *Router) handleGetAccount(c *gin.Context) {
	c.JSON(http.StatusOK, r.accountResponse())
}

func (r *Router) accountResponse() accountResponse {
	return accountResponse{
		Capital:          r.account.Capital(),
		RiskPct:          r.account.RiskPct(),
		MaxPositionPct:   r.account.MaxPositionPct(),
		RiskBudget:       r.account.RiskBudget(),
		MaxPositionValue: r.account.MaxPositionValue(),
	}
}

type updateAccountRequest struct {
	Capital        float64 `json:"capital"`
	RiskPct        float64 `json:"risk_pct"`
	MaxPositionPct float64 `json:"max_position_pct"`
}

func (r *Router) handleUpdateAccount(c *gin.Context) {
	var req updateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if err := r.account.Update(req.Capital, req.RiskPct, req.MaxPositionPct); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r.accountResponse())
}

type analysisResponse struct {
	Ticker        string                     `json:"ticker"`
	LastClose     float64                    `json:"last_close"`
	SuggestedStop *float64                   `json:"suggested_stop,omitempty"`
	Technical     types.TechnicalSnapshot    `json:"technical"`
	Fundamental   *types.FundamentalSnapshot `json:"fundamental,omitempty"`
	Screen        screen.Evaluation          `json:"screen"`
}

func (r *Router) handleAnalyze(c *gin.Context) {
	ticker := strings.ToUpper(strings.TrimSpace(c.Param("ticker")))
	ctx := c.Request.Context()

	lastClose, err := r.prices.LastClose(ctx, ticker)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := analysisResponse{Ticker: ticker, LastClose: lastClose}

	if history, err := r.prices.History(ctx, ticker, market.Period3Mo); err != nil {
		logger.Warnf("analyze %s: history unavailable: %v", ticker, err)
	} else {
		resp.Technical = indicator.Snapshot(history)
		if stop, err := indicator.SupportStop(history, indicator.DefaultSupportLookback, indicator.DefaultSupportCushion); err == nil {
			resp.SuggestedStop = &stop
		}
	}

	inputs := screen.Inputs{Technical: resp.Technical, Entry: lastClose}
	if r.funds != nil {
		if snap, err := r.funds.Fundamentals(ctx, ticker); err != nil {
			logger.Warnf("analyze %s: fundamentals unavailable: %v", ticker, err)
		} else {
			resp.Fundamental = &snap
			inputs.Fundamental = snap
			inputs.HasFundamental = true
		}
	}
	resp.Screen = r.gate.Evaluate(inputs)
	c.JSON(http.StatusOK, resp)
}

type sizeRequest struct {
	Ticker   string  `json:"ticker"`
	Entry    float64 `json:"entry"`
	StopLoss float64 `json:"stop_loss"`
	// Optional per-request overrides of the session account.
	Capital        *float64 `json:"capital,omitempty"`
	RiskPct        *float64 `json:"risk_pct,omitempty"`
	MaxPositionPct *float64 `json:"max_position_pct,omitempty"`
}

type sizeResponse struct {
	Ticker string        `json:"ticker"`
	Sizing sizing.Result `json:"sizing"`
	Levels sizing.Levels `json:"levels"`
	// Plan economics at each exit.
	LossAtStop   float64 `json:"loss_at_stop"`
	GainAtTarget float64 `json:"gain_at_target"`
}

func (r *Router) sizingInput(req sizeRequest) sizing.Input {
	capital := r.account.Capital()
	riskPct := r.account.RiskPct()
	maxPct := r.account.MaxPositionPct()
	if req.Capital != nil {
		capital = *req.Capital
	}
	if req.RiskPct != nil {
		riskPct = *req.RiskPct
	}
	if req.MaxPositionPct != nil {
		maxPct = *req.MaxPositionPct
	}
	in := sizing.Input{
		RiskBudget: capital * riskPct / 100,
		Capital:    capital,
		Entry:      req.Entry,
		StopLoss:   req.StopLoss,
	}
	if maxPct > 0 {
		in.MaxPositionValue = capital * maxPct / 100
	}
	return in
}

func (r *Router) handleSize(c *gin.Context) {
	var req sizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	res, err := sizing.Size(r.sizingInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	lv, err := sizing.ComputeLevels(req.Entry, req.StopLoss)
	if err != nil {
		respondError(c, err)
		return
	}
	// Display precision: shares to four decimals, money to cents.
	res.Shares = money.Round4(res.Shares)
	res.Investment = money.Round2(res.Investment)
	res.RealizedRisk = money.Round2(res.RealizedRisk)
	c.JSON(http.StatusOK, sizeResponse{
		Ticker:       strings.ToUpper(strings.TrimSpace(req.Ticker)),
		Sizing:       res,
		Levels:       lv,
		LossAtStop:   -res.RealizedRisk,
		GainAtTarget: money.Mul(2, res.RealizedRisk),
	})
}

type listTradesResponse struct {
	Trades         []trade.Trade `json:"trades"`
	Cash           float64       `json:"cash"`
	InitialCapital float64       `json:"initial_capital"`
}

func (r *Router) handleListTrades(c *gin.Context) {
	c.JSON(http.StatusOK, listTradesResponse{
		Trades:         r.ledger.Trades(),
		Cash:           r.ledger.Cash(),
		InitialCapital: r.ledger.InitialCapital(),
	})
}

type openTradeRequest struct {
	sizeRequest
	// Manual analyst entry; used when no provider feed is configured
	// or to override it.
	Fundamental *types.FundamentalSnapshot `json:"fundamental,omitempty"`
	// SkipScreen bypasses the gate even in strict mode.
	SkipScreen bool `json:"skip_screen,omitempty"`
}

type openTradeResponse struct {
	Trade  trade.Trade        `json:"trade"`
	Screen *screen.Evaluation `json:"screen,omitempty"`
	Cash   float64            `json:"cash"`
}

func (r *Router) handleOpenTrade(c *gin.Context) {
	var req openTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	ctx := c.Request.Context()
	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))

	res, err := sizing.Size(r.sizingInput(req.sizeRequest))
	if err != nil {
		respondError(c, err)
		return
	}
	lv, err := sizing.ComputeLevels(req.Entry, req.StopLoss)
	if err != nil {
		respondError(c, err)
		return
	}

	var technical types.TechnicalSnapshot
	if history, err := r.prices.History(ctx, ticker, market.Period3Mo); err != nil {
		logger.Warnf("open %s: history unavailable: %v", ticker, err)
	} else {
		technical = indicator.Snapshot(history)
	}
	inputs := screen.Inputs{Technical: technical, Entry: req.Entry}
	if req.Fundamental != nil {
		inputs.Fundamental = *req.Fundamental
		inputs.HasFundamental = true
	} else if r.funds != nil {
		if snap, err := r.funds.Fundamentals(ctx, ticker); err != nil {
			logger.Warnf("open %s: fundamentals unavailable: %v", ticker, err)
		} else {
			inputs.Fundamental = snap
			inputs.HasFundamental = true
		}
	}
	evaluation := r.gate.Evaluate(inputs)
	if !evaluation.Pass && r.gate.Strict() && !req.SkipScreen {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "screen rejected the trade (strict mode)",
			"screen": evaluation,
		})
		return
	}
	if !evaluation.Pass {
		logger.Warnf("open %s: screen failed, proceeding (strict=%v skip=%v)",
			ticker, r.gate.Strict(), req.SkipScreen)
	}

	t, err := trade.Open(ticker, res, lv)
	if err != nil {
		respondError(c, err)
		return
	}
	if inputs.HasFundamental {
		snap := inputs.Fundamental
		t.Fundamental = &snap
	}
	t.Technical = &technical
	if err := r.ledger.Open(t); err != nil {
		respondError(c, err)
		return
	}
	r.persist(c)
	c.JSON(http.StatusCreated, openTradeResponse{Trade: *t, Screen: &evaluation, Cash: r.ledger.Cash()})
}

type refreshResponse struct {
	Report  portfolio.RefreshReport `json:"report"`
	Metrics portfolio.Metrics       `json:"metrics"`
}

func (r *Router) handleRefresh(c *gin.Context) {
	report := r.ledger.RefreshAll(c.Request.Context(), r.prices)
	r.persist(c)
	c.JSON(http.StatusOK, refreshResponse{Report: report, Metrics: r.ledger.Metrics()})
}

func (r *Router) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, r.ledger.Metrics())
}

type resetRequest struct {
	Capital float64 `json:"capital"`
}

func (r *Router) handleReset(c *gin.Context) {
	var req resetRequest
	// Body is optional; no body restarts at the account capital.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	capital := req.Capital
	if capital <= 0 {
		capital = r.account.Capital()
	}
	if err := r.ledger.Reset(capital); err != nil {
		respondError(c, err)
		return
	}
	if r.store != nil {
		if err := r.store.ResetAll(c.Request.Context(), capital); err != nil {
			logger.Errorf("reset: persistence failed: %v", err)
		}
	}
	c.JSON(http.StatusOK, listTradesResponse{
		Trades:         r.ledger.Trades(),
		Cash:           r.ledger.Cash(),
		InitialCapital: r.ledger.InitialCapital(),
	})
}

func (r *Router) handleImport(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, importBodyLimit))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reading body failed: " + err.Error()})
		return
	}
	snap, err := portfolio.ParseSnapshot(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := r.ledger.Restore(snap); err != nil {
		respondError(c, err)
		return
	}
	r.persist(c)
	c.JSON(http.StatusOK, gin.H{
		"imported": len(snap.Trades),
		"cash":     r.ledger.Cash(),
	})
}

func (r *Router) handleExport(c *gin.Context) {
	snap := r.ledger.Snapshot()
	format := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", "xlsx")))
	name := "trades_" + time.Now().Format("2006-01-02") + "." + format

	var write func(io.Writer, portfolio.Snapshot) error
	var contentType string
	switch format {
	case "csv":
		write, contentType = export.WriteCSV, "text/csv"
	case "xlsx":
		write, contentType = export.WriteXLSX, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported export format: " + format})
		return
	}

	if c.Query("save") == "true" {
		if r.exportDir == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no export directory configured"})
			return
		}
		path, err := export.WriteFile(r.exportDir, name, snap, write)
		if err != nil {
			logger.Errorf("journal archive failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"saved": path})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", name))
	c.Header("Content-Type", contentType)
	if err := write(c.Writer, snap); err != nil {
		logger.Errorf("journal export failed: %v", err)
	}
}

// persist writes the current ledger behind a mutation. Persistence
// failures are logged, not surfaced: the in-memory state is already
// consistent.
func (r *Router) persist(c *gin.Context) {
	if r.store == nil {
		return
	}
	if err := r.store.SaveSnapshot(c.Request.Context(), r.ledger.Snapshot()); err != nil {
		logger.Errorf("persisting ledger failed: %v", err)
	}
}
