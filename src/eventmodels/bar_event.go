package eventmodels

import "time"

// BarEvent carries one unit of OHLCV price data for a symbol. NewDay is set on
// the first bar of a new trading day and drives the portfolio's daily
// settlement step.
type BarEvent struct {
	Symbol    string
	Timestamp time.Time
	NewDay    bool
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
	AdjClose  float64
}

func (e *BarEvent) Type() EventType {
	return EventTypeBar
}

func NewBarEvent(symbol string, timestamp time.Time, newDay bool, open, high, low, close float64, volume int64, adjClose float64) *BarEvent {
	return &BarEvent{
		Symbol:    symbol,
		Timestamp: timestamp,
		NewDay:    newDay,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     close,
		Volume:    volume,
		AdjClose:  adjClose,
	}
}
