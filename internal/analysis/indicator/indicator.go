// Package indicator derives trade-screening signals from daily bars.
package indicator

import (
	"fmt"
	"math"

	"github.com/markcheno/go-talib"

	"swinglab/internal/market"
	"swinglab/internal/types"
)

const (
	DefaultSupportLookback = 20
	DefaultSupportCushion  = 0.02
	DefaultRSIPeriod       = 14
)

// SupportStop returns the minimum low over the trailing lookback bars,
// discounted by cushionPct, as a stop-loss candidate. Fails when fewer
// than lookback bars exist.
func SupportStop(candles []market.Candle, lookback int, cushionPct float64) (float64, error) {
	if lookback <= 0 {
		lookback = DefaultSupportLookback
	}
	if cushionPct < 0 {
		cushionPct = 0
	}
	if len(candles) < lookback {
		return 0, fmt.Errorf("support stop needs %d bars, have %d: %w", lookback, len(candles), types.ErrDataUnavailable)
	}
	low := math.Inf(1)
	for _, c := range candles[len(candles)-lookback:] {
		if c.Low > 0 && c.Low < low {
			low = c.Low
		}
	}
	if math.IsInf(low, 1) {
		return 0, fmt.Errorf("support stop: no positive lows in window: %w", types.ErrDataUnavailable)
	}
	return low * (1 - cushionPct), nil
}

// RelativeVolume returns the latest volume as a percentage of the mean
// volume over the window. Needs at least two bars.
func RelativeVolume(candles []market.Candle) (float64, error) {
	if len(candles) < 2 {
		return 0, fmt.Errorf("relative volume needs 2 bars, have %d: %w", len(candles), types.ErrDataUnavailable)
	}
	var sum float64
	for _, c := range candles {
		sum += c.Volume
	}
	mean := sum / float64(len(candles))
	if mean <= 0 {
		return 0, fmt.Errorf("relative volume: zero mean volume: %w", types.ErrDataUnavailable)
	}
	return candles[len(candles)-1].Volume / mean * 100, nil
}

// RSI computes the Wilder relative strength index over closes.
// Requires period+1 bars.
func RSI(candles []market.Candle, period int) (float64, error) {
	if period <= 0 {
		period = DefaultRSIPeriod
	}
	if len(candles) < period+1 {
		return 0, fmt.Errorf("rsi needs %d bars, have %d: %w", period+1, len(candles), types.ErrDataUnavailable)
	}
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	series := talib.Rsi(closes, period)
	val := lastValid(series)
	if val < 0 || val > 100 {
		return 0, fmt.Errorf("rsi out of range: %w", types.ErrDataUnavailable)
	}
	return val, nil
}

// Snapshot computes all screening signals at once, marking each
// unavailable metric instead of failing the whole snapshot.
func Snapshot(candles []market.Candle) types.TechnicalSnapshot {
	var snap types.TechnicalSnapshot
	if v, err := SupportStop(candles, DefaultSupportLookback, DefaultSupportCushion); err == nil {
		snap.Support20D = types.Metric{Value: v, Valid: true}
	}
	if v, err := RelativeVolume(candles); err == nil {
		snap.RelativeVolumePct = types.Metric{Value: v, Valid: true}
	}
	if v, err := RSI(candles, DefaultRSIPeriod); err == nil {
		snap.RSI14 = types.Metric{Value: v, Valid: true}
	}
	return snap
}

func lastValid(series []float64) float64 {
	for i := len(series) - 1; i >= 0; i-- {
		if !math.IsNaN(series[i]) && !math.IsInf(series[i], 0) {
			return series[i]
		}
	}
	return 0
}
