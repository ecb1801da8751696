// Package yahoo adapts Yahoo Finance to the market.Source contract.
package yahoo

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/quote"

	"swinglab/internal/market"
	"swinglab/internal/types"
)

// Source fetches quotes and daily bars from Yahoo Finance.
type Source struct{}

func NewSource() *Source { return &Source{} }

var _ market.Source = (*Source)(nil)

// LastClose returns the regular-market price for the ticker.
func (s *Source) LastClose(ctx context.Context, ticker string) (float64, error) {
	ticker = normalize(ticker)
	if ticker == "" {
		return 0, types.NewValidationError("ticker", "ticker cannot be empty")
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	q, err := quote.Get(ticker)
	if err != nil {
		return 0, fmt.Errorf("quote %s: %v: %w", ticker, err, types.ErrDataUnavailable)
	}
	if q == nil || q.RegularMarketPrice <= 0 {
		return 0, fmt.Errorf("quote %s: empty price: %w", ticker, types.ErrDataUnavailable)
	}
	return q.RegularMarketPrice, nil
}

// History returns daily bars for the period, oldest first.
func (s *Source) History(ctx context.Context, ticker string, period market.Period) ([]market.Candle, error) {
	ticker = normalize(ticker)
	if ticker == "" {
		return nil, types.NewValidationError("ticker", "ticker cannot be empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	end := time.Now()
	start := end.AddDate(0, 0, -period.Days())
	params := &chart.Params{
		Symbol:   ticker,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}
	iter := chart.Get(params)
	var candles []market.Candle
	for iter.Next() {
		bar := iter.Bar()
		open, _ := bar.Open.Float64()
		high, _ := bar.High.Float64()
		low, _ := bar.Low.Float64()
		closePx, _ := bar.Close.Float64()
		candles = append(candles, market.Candle{
			Date:   time.Unix(int64(bar.Timestamp), 0).UTC(),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePx,
			Volume: float64(bar.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("history %s: %v: %w", ticker, err, types.ErrDataUnavailable)
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("history %s: no bars: %w", ticker, types.ErrDataUnavailable)
	}
	sort.Slice(candles, func(i, j int) bool { return candles[i].Date.Before(candles[j].Date) })
	return candles, nil
}

func normalize(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
