package market

import "context"

// Period selects how much daily history to fetch.
type Period string

const (
	Period1D  Period = "1d"
	Period1Mo Period = "1mo"
	Period3Mo Period = "3mo"
)

// Days returns the calendar lookback for a period. Unknown periods
// fall back to one month.
func (p Period) Days() int {
	switch p {
	case Period1D:
		return 5 // a few calendar days so weekends still yield a bar
	case Period3Mo:
		return 92
	default:
		return 31
	}
}

// Source supplies prices for a ticker. Calls are synchronous and
// blocking; failures surface as errors wrapping types.ErrDataUnavailable.
type Source interface {
	// LastClose returns the most recent traded/closing price.
	LastClose(ctx context.Context, ticker string) (float64, error)

	// History returns daily bars in ascending date order.
	History(ctx context.Context, ticker string, period Period) ([]Candle, error)
}
