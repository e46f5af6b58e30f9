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

// PositionLogRow is one post-transaction position snapshot in the position
// log CSV.
type PositionLogRow struct {
	Timestamp           string  `csv:"timestamp"`
	Symbol              string  `csv:"symbol"`
	Quantity            int64   `csv:"quantity"`
	AvailableQuantity   int64   `csv:"available_quantity"`
	UnavailableQuantity int64   `csv:"unavailable_quantity"`
	LastPrice           float64 `csv:"last_price"`
	AvgPrice            float64 `csv:"avg_price"`
	MarketValue         float64 `csv:"market_value"`
	TotalCommission     float64 `csv:"total_commission"`
}

// PositionLog records the position state after every ledger transaction.
type PositionLog struct {
	path string
	rows []*PositionLogRow
}

func NewPositionLog(dir string, now time.Time) (*PositionLog, error) {
	l := &PositionLog{
		path: filepath.Join(dir, fmt.Sprintf("positionlog_%s.csv", now.Format("2006-01-02"))),
	}

	if err := eventpubsub.Subscribe(eventpubsub.TopicPositionUpdated, l.onPositionUpdated); err != nil {
		return nil, fmt.Errorf("failed to subscribe position log: %w", err)
	}

	return l, nil
}

func (l *PositionLog) onPositionUpdated(timestamp time.Time, snapshot eventmodels.PositionSnapshot) {
	l.rows = append(l.rows, &PositionLogRow{
		Timestamp:           timestamp.Format("2006-01-02 15:04:05"),
		Symbol:              snapshot.Symbol,
		Quantity:            snapshot.Quantity,
		AvailableQuantity:   snapshot.AvailableQuantity,
		UnavailableQuantity: snapshot.UnavailableQuantity,
		LastPrice:           snapshot.LastPrice,
		AvgPrice:            snapshot.AvgPrice,
		MarketValue:         snapshot.MarketValue,
		TotalCommission:     snapshot.TotalCommission,
	})
}

func (l *PositionLog) Flush() error {
	defer eventpubsub.Unsubscribe(eventpubsub.TopicPositionUpdated, l.onPositionUpdated)

	file, err := os.Create(l.path)
	if err != nil {
		return fmt.Errorf("failed to create position log %s: %w", l.path, err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&l.rows, file); err != nil {
		return fmt.Errorf("failed to write position log %s: %w", l.path, err)
	}

	return nil
}

func (l *PositionLog) Path() string {
	return l.path
}
