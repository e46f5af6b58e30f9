package eventmodels

import "time"

// SignalEvent is a strategy's intent to trade, prior to sizing.
// SuggestedQuantity is optional; the position sizer substitutes its default
// lot when nil.
type SignalEvent struct {
	Symbol            string
	Timestamp         time.Time
	Action            Action
	SuggestedQuantity *int64
	OrderKind         OrderKind
}

func (e *SignalEvent) Type() EventType {
	return EventTypeSignal
}

func NewSignalEvent(symbol string, timestamp time.Time, action Action, suggestedQuantity *int64, orderKind OrderKind) *SignalEvent {
	if orderKind == "" {
		orderKind = OrderKindMarket
	}

	return &SignalEvent{
		Symbol:            symbol,
		Timestamp:         timestamp,
		Action:            action,
		SuggestedQuantity: suggestedQuantity,
		OrderKind:         orderKind,
	}
}

// SuggestQuantity is a convenience for building the optional quantity field.
func SuggestQuantity(quantity int64) *int64 {
	return &quantity
}
