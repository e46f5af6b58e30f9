package datafeed

import (
	"time"

	"github.com/linkenghong/Backtesting/src/eventmodels"
)

// DataHandler is the bar source contract. StreamNext must deliver bars in
// non-decreasing timestamp order, with ties broken by symbol lexical order,
// so that runs over identical inputs are bit-reproducible.
type DataHandler interface {
	// StreamNext returns the next bar, or false when the source is exhausted.
	StreamNext() (*eventmodels.BarEvent, bool)

	// LastClose returns the most recent actual (unadjusted) closing price for
	// the symbol, or false if no price has been seen.
	LastClose(symbol string) (float64, bool)

	// LastTimestamp returns the most recent actual timestamp for the symbol,
	// or false if no bar has been seen.
	LastTimestamp(symbol string) (time.Time, bool)

	SymbolList() []string
}

// latestBar is the per-symbol latest-value cache entry. The cache is owned by
// the data handler; everything else reads it through LastClose/LastTimestamp.
type latestBar struct {
	close     float64
	adjClose  float64
	timestamp time.Time
}
