package eventmodels

import "time"

// FillEvent is the simulated execution result of an order. Price already
// includes slippage; Commission already includes the sell-side transaction
// tax.
type FillEvent struct {
	ID         string
	Timestamp  time.Time
	Symbol     string
	Action     Action
	Quantity   int64
	Price      float64
	Commission float64
	Exchange   string
}

func (e *FillEvent) Type() EventType {
	return EventTypeFill
}

func NewFillEvent(id string, timestamp time.Time, symbol string, action Action, quantity int64, price, commission float64, exchange string) *FillEvent {
	return &FillEvent{
		ID:         id,
		Timestamp:  timestamp,
		Symbol:     symbol,
		Action:     action,
		Quantity:   quantity,
		Price:      price,
		Commission: commission,
		Exchange:   exchange,
	}
}
