package indicator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"swinglab/internal/market"
	"swinglab/internal/types"
)

func bars(n int, close func(i int) float64, volume func(i int) float64) []market.Candle {
	out := make([]market.Candle, n)
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range out {
		c := close(i)
		out[i] = market.Candle{
			Date:   base.AddDate(0, 0, i),
			Open:   c,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: volume(i),
		}
	}
	return out
}

func TestSupportStop(t *testing.T) {
	candles := bars(25, func(i int) float64 { return 100 }, func(int) float64 { return 1000 })
	candles[20].Low = 50 // inside the trailing 20-bar window

	stop, err := SupportStop(candles, 20, 0.02)
	assert.NoError(t, err)
	assert.InDelta(t, 49.0, stop, 1e-9) // 50 * 0.98
}

func TestSupportStopIgnoresBarsOutsideWindow(t *testing.T) {
	candles := bars(25, func(i int) float64 { return 100 }, func(int) float64 { return 1000 })
	candles[2].Low = 10 // older than the window

	stop, err := SupportStop(candles, 20, 0)
	assert.NoError(t, err)
	assert.InDelta(t, 99.0, stop, 1e-9)
}

func TestSupportStopNeedsEnoughBars(t *testing.T) {
	candles := bars(10, func(i int) float64 { return 100 }, func(int) float64 { return 1000 })
	_, err := SupportStop(candles, 20, 0.02)
	assert.ErrorIs(t, err, types.ErrDataUnavailable)
}

func TestRelativeVolume(t *testing.T) {
	candles := bars(2, func(int) float64 { return 100 }, func(i int) float64 {
		if i == 1 {
			return 300
		}
		return 100
	})
	rv, err := RelativeVolume(candles)
	assert.NoError(t, err)
	assert.InDelta(t, 150.0, rv, 1e-9) // 300 against a mean of 200
}

func TestRelativeVolumeNeedsTwoBars(t *testing.T) {
	candles := bars(1, func(int) float64 { return 100 }, func(int) float64 { return 100 })
	_, err := RelativeVolume(candles)
	assert.ErrorIs(t, err, types.ErrDataUnavailable)
}

func TestRSIMonotonicRise(t *testing.T) {
	candles := bars(30, func(i int) float64 { return 100 + float64(i) }, func(int) float64 { return 1000 })
	rsi, err := RSI(candles, 14)
	assert.NoError(t, err)
	assert.InDelta(t, 100.0, rsi, 0.01)
}

func TestRSINeedsPeriodPlusOneBars(t *testing.T) {
	candles := bars(14, func(i int) float64 { return 100 + float64(i) }, func(int) float64 { return 1000 })
	_, err := RSI(candles, 14)
	assert.ErrorIs(t, err, types.ErrDataUnavailable)
}

func TestSnapshotMarksUnavailableMetrics(t *testing.T) {
	short := bars(5, func(i int) float64 { return 100 }, func(int) float64 { return 1000 })
	snap := Snapshot(short)
	assert.False(t, snap.Support20D.Valid)
	assert.True(t, snap.RelativeVolumePct.Valid)
	assert.False(t, snap.RSI14.Valid)

	full := bars(60, func(i int) float64 { return 100 + float64(i%7) }, func(int) float64 { return 1000 })
	snap = Snapshot(full)
	assert.True(t, snap.Support20D.Valid)
	assert.True(t, snap.RelativeVolumePct.Valid)
	assert.True(t, snap.RSI14.Valid)
}

func TestSnapshotEmptyHistory(t *testing.T) {
	snap := Snapshot(nil)
	assert.False(t, snap.Support20D.Valid)
	assert.False(t, snap.RelativeVolumePct.Valid)
	assert.False(t, snap.RSI14.Valid)
}
