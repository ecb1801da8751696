package fundamentals

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"swinglab/internal/types"
)

// Client pulls analyst data from an HTTP provider. Payload fields are
// extracted tolerantly: any missing field falls back to its neutral
// default instead of failing the request.
type Client struct {
	http *resty.Client
}

type ClientConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

func NewClient(cfg ClientConfig) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, fmt.Errorf("fundamentals client requires a base URL")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	http := resty.New().
		SetBaseURL(base).
		SetTimeout(cfg.Timeout)
	if token := strings.TrimSpace(cfg.Token); token != "" {
		http.SetHeader("Authorization", "Bearer "+token)
	}
	return &Client{http: http}, nil
}

var _ Feed = (*Client)(nil)

// Fundamentals fetches the provider payload and maps it onto the
// snapshot with neutral defaults for anything absent.
func (c *Client) Fundamentals(ctx context.Context, ticker string) (types.FundamentalSnapshot, error) {
	ticker = normalize(ticker)
	if ticker == "" {
		return types.FundamentalSnapshot{}, types.NewValidationError("ticker", "ticker cannot be empty")
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("symbol", ticker).
		Get("/fundamentals")
	if err != nil {
		return types.FundamentalSnapshot{}, fmt.Errorf("fundamentals %s: %v: %w", ticker, err, types.ErrDataUnavailable)
	}
	if resp.StatusCode() >= 400 {
		return types.FundamentalSnapshot{}, fmt.Errorf("fundamentals %s: http %d: %w", ticker, resp.StatusCode(), types.ErrDataUnavailable)
	}
	return parsePayload(resp.Body()), nil
}

func parsePayload(raw []byte) types.FundamentalSnapshot {
	body := string(raw)
	snap := types.FundamentalSnapshot{
		Consensus:  types.ConsensusHold,
		SmartScore: types.NeutralSmartScore,
	}
	if v := gjson.Get(body, "consensus"); v.Exists() {
		snap.Consensus = types.ParseConsensus(v.String())
	}
	if v := gjson.Get(body, "smart_score"); v.Exists() {
		score := int(v.Int())
		if score >= 1 && score <= 10 {
			snap.SmartScore = score
		}
	}
	if v := gjson.Get(body, "price_target"); v.Exists() && v.Float() > 0 {
		target := v.Float()
		snap.PriceTarget = &target
	}
	if v := gjson.Get(body, "analyst_count"); v.Exists() && v.Int() >= 0 {
		count := int(v.Int())
		snap.AnalystCount = &count
	}
	return snap
}

func normalize(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
