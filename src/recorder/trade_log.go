package recorder

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/linkenghong/Backtesting/src/eventmodels"
	"github.com/linkenghong/Backtesting/src/eventpubsub"
)

// TradeLogRow is one executed fill in the trade log CSV.
type TradeLogRow struct {
	Timestamp  string  `csv:"timestamp"`
	Symbol     string  `csv:"symbol"`
	Action     string  `csv:"action"`
	Quantity   int64   `csv:"quantity"`
	Price      float64 `csv:"price"`
	Commission float64 `csv:"commission"`
	Exchange   string  `csv:"exchange"`
}

// TradeLog collects every fill published on the bus and flushes them to a
// dated CSV file when the run completes.
type TradeLog struct {
	path string
	rows []*TradeLogRow
}

// NewTradeLog subscribes to fill events. The output file is
// tradelog_<date>.csv under dir, truncated per run.
func NewTradeLog(dir string, now time.Time) (*TradeLog, error) {
	l := &TradeLog{
		path: filepath.Join(dir, fmt.Sprintf("tradelog_%s.csv", now.Format("2006-01-02"))),
	}

	if err := eventpubsub.Subscribe(eventpubsub.TopicFillCreated, l.onFill); err != nil {
		return nil, fmt.Errorf("failed to subscribe trade log: %w", err)
	}

	return l, nil
}

func (l *TradeLog) onFill(fill *eventmodels.FillEvent) {
	l.rows = append(l.rows, &TradeLogRow{
		Timestamp:  fill.Timestamp.Format("2006-01-02 15:04:05"),
		Symbol:     fill.Symbol,
		Action:     string(fill.Action),
		Quantity:   fill.Quantity,
		Price:      fill.Price,
		Commission: fill.Commission,
		Exchange:   fill.Exchange,
	})
}

// Flush writes the accumulated rows and unsubscribes from the bus.
func (l *TradeLog) Flush() error {
	defer eventpubsub.Unsubscribe(eventpubsub.TopicFillCreated, l.onFill)

	file, err := os.Create(l.path)
	if err != nil {
		return fmt.Errorf("failed to create trade log %s: %w", l.path, err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&l.rows, file); err != nil {
		return fmt.Errorf("failed to write trade log %s: %w", l.path, err)
	}

	return nil
}

// Path returns the output file location.
func (l *TradeLog) Path() string {
	return l.path
}
