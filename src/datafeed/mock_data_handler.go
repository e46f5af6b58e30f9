package datafeed

import (
	"time"

	"github.com/linkenghong/Backtesting/src/eventmodels"
)

// MockDataHandler replays a fixed slice of bars. Used by tests across the
// repo in place of CSV fixtures.
type MockDataHandler struct {
	symbols []string
	bars    []*eventmodels.BarEvent
	cursor  int
	latest  map[string]*latestBar

	preDay time.Time
	curDay time.Time
}

func NewMockDataHandler(symbols []string, bars []*eventmodels.BarEvent) *MockDataHandler {
	return &MockDataHandler{
		symbols: symbols,
		bars:    bars,
		latest:  make(map[string]*latestBar),
	}
}

func (h *MockDataHandler) StreamNext() (*eventmodels.BarEvent, bool) {
	if h.cursor >= len(h.bars) {
		return nil, false
	}

	src := h.bars[h.cursor]
	h.cursor++

	day := src.Timestamp.Truncate(24 * time.Hour)
	if h.preDay.IsZero() {
		h.preDay = day
	}
	if h.curDay.IsZero() {
		h.curDay = day
	}
	h.preDay = h.curDay
	h.curDay = day

	// the mock honors an explicit NewDay flag but also derives one, so tests
	// can build bars with timestamps only; the replayed slice is never
	// mutated, a fresh event is emitted instead
	newDay := src.NewDay
	if !newDay {
		newDay = !h.preDay.Equal(h.curDay)
	}

	bar := eventmodels.NewBarEvent(
		src.Symbol,
		src.Timestamp,
		newDay,
		src.Open,
		src.High,
		src.Low,
		src.Close,
		src.Volume,
		src.AdjClose,
	)

	entry, ok := h.latest[bar.Symbol]
	if !ok {
		entry = &latestBar{}
		h.latest[bar.Symbol] = entry
	}
	entry.close = bar.Close
	entry.adjClose = bar.AdjClose
	entry.timestamp = bar.Timestamp

	return bar, true
}

func (h *MockDataHandler) LastClose(symbol string) (float64, bool) {
	entry, ok := h.latest[symbol]
	if !ok {
		return 0, false
	}

	return entry.close, true
}

func (h *MockDataHandler) LastTimestamp(symbol string) (time.Time, bool) {
	entry, ok := h.latest[symbol]
	if !ok {
		return time.Time{}, false
	}

	return entry.timestamp, true
}

func (h *MockDataHandler) SymbolList() []string {
	return h.symbols
}
