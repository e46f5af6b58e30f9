package datafeed

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"
	log "github.com/sirupsen/logrus"

	"github.com/linkenghong/Backtesting/src/eventmodels"
)

// CSVDate parses the Date column of a historical bar file. Daily files carry
// plain dates; intraday exports carry a full datetime.
type CSVDate struct {
	time.Time
}

func (d *CSVDate) UnmarshalCSV(csv string) error {
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, csv); err == nil {
			d.Time = t
			return nil
		}
	}

	return fmt.Errorf("failed to parse date '%s'", csv)
}

type csvBarRow struct {
	Date     CSVDate `csv:"Date"`
	Open     float64 `csv:"Open"`
	High     float64 `csv:"High"`
	Low      float64 `csv:"Low"`
	Close    float64 `csv:"Close"`
	Volume   int64   `csv:"Volume"`
	AdjClose float64 `csv:"Adj Close"`

	symbol string `csv:"-"`
}

// HistoricCSVDataHandler loads one CSV file per symbol from a data directory
// and merges them into a single time-ordered bar stream.
type HistoricCSVDataHandler struct {
	dataDir string
	symbols []string

	bars   []*csvBarRow
	cursor int
	latest map[string]*latestBar

	preDay time.Time
	curDay time.Time
}

// NewHistoricCSVDataHandler subscribes every symbol in symbolList and builds
// the merged stream for [startDate, endDate]. A missing CSV or an empty
// backtest period is a setup-time failure: the session must not start.
func NewHistoricCSVDataHandler(dataDir string, symbolList []string, startDate, endDate time.Time) (*HistoricCSVDataHandler, error) {
	h := &HistoricCSVDataHandler{
		dataDir: dataDir,
		latest:  make(map[string]*latestBar),
	}

	for _, symbol := range symbolList {
		if err := h.subscribeSymbol(symbol, startDate, endDate); err != nil {
			return nil, err
		}
	}

	// merge sort: timestamp ascending, symbol lexical ascending for ties
	sort.SliceStable(h.bars, func(i, j int) bool {
		if h.bars[i].Date.Equal(h.bars[j].Date.Time) {
			return h.bars[i].symbol < h.bars[j].symbol
		}
		return h.bars[i].Date.Before(h.bars[j].Date.Time)
	})

	if len(h.bars) == 0 {
		return nil, fmt.Errorf("the backtest period is not in the data")
	}

	return h, nil
}

func (h *HistoricCSVDataHandler) subscribeSymbol(symbol string, startDate, endDate time.Time) error {
	for _, existing := range h.symbols {
		if existing == symbol {
			log.Warnf("could not subscribe symbol %s as it is already subscribed", symbol)
			return nil
		}
	}

	symbolPath := filepath.Join(h.dataDir, fmt.Sprintf("%s.csv", symbol))
	f, err := os.Open(symbolPath)
	if err != nil {
		return fmt.Errorf("could not subscribe symbol %s as no data CSV found for pricing: %w", symbol, err)
	}
	defer f.Close()

	var rows []*csvBarRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return fmt.Errorf("failed to parse %s: %w", symbolPath, err)
	}

	if len(rows) == 0 {
		return fmt.Errorf("no data for symbol %s", symbol)
	}

	// seed the latest-value cache from the first row, before range filtering
	first := rows[0]
	h.latest[symbol] = &latestBar{
		close:     first.Close,
		adjClose:  first.AdjClose,
		timestamp: first.Date.Time,
	}

	for _, row := range rows {
		if !startDate.IsZero() && row.Date.Before(startDate) {
			continue
		}
		if !endDate.IsZero() && row.Date.After(endDate) {
			continue
		}
		row.symbol = symbol
		h.bars = append(h.bars, row)
	}

	h.symbols = append(h.symbols, symbol)

	return nil
}

// StreamNext produces the next bar event, advancing the new-day bookkeeping
// and the latest-value cache.
func (h *HistoricCSVDataHandler) StreamNext() (*eventmodels.BarEvent, bool) {
	if h.cursor >= len(h.bars) {
		return nil, false
	}

	row := h.bars[h.cursor]
	h.cursor++

	day := row.Date.Truncate(24 * time.Hour)
	if h.preDay.IsZero() {
		h.preDay = day
	}
	if h.curDay.IsZero() {
		h.curDay = day
	}

	h.preDay = h.curDay
	h.curDay = day

	bar := eventmodels.NewBarEvent(
		row.symbol,
		row.Date.Time,
		!h.preDay.Equal(h.curDay),
		row.Open,
		row.High,
		row.Low,
		row.Close,
		row.Volume,
		row.AdjClose,
	)

	h.storeLatest(bar)

	return bar, true
}

func (h *HistoricCSVDataHandler) storeLatest(bar *eventmodels.BarEvent) {
	entry, ok := h.latest[bar.Symbol]
	if !ok {
		entry = &latestBar{}
		h.latest[bar.Symbol] = entry
	}

	entry.close = bar.Close
	entry.adjClose = bar.AdjClose
	entry.timestamp = bar.Timestamp
}

func (h *HistoricCSVDataHandler) LastClose(symbol string) (float64, bool) {
	entry, ok := h.latest[symbol]
	if !ok {
		return 0, false
	}

	return entry.close, true
}

func (h *HistoricCSVDataHandler) LastTimestamp(symbol string) (time.Time, bool) {
	entry, ok := h.latest[symbol]
	if !ok {
		return time.Time{}, false
	}

	return entry.timestamp, true
}

func (h *HistoricCSVDataHandler) SymbolList() []string {
	return h.symbols
}

// UnsubscribeSymbol drops a symbol's latest-value cache entry. Bars already
// merged into the stream are unaffected.
func (h *HistoricCSVDataHandler) UnsubscribeSymbol(symbol string) {
	if _, ok := h.latest[symbol]; !ok {
		log.Warnf("could not unsubscribe symbol %s as it was never subscribed", symbol)
		return
	}

	delete(h.latest, symbol)
}
