package eventmodels

// OrderEvent is a sized, risk-checked trade instruction bound for the
// execution handler.
type OrderEvent struct {
	Symbol    string
	OrderKind OrderKind
	Quantity  int64
	Action    Action
}

func (e *OrderEvent) Type() EventType {
	return EventTypeOrder
}

func NewOrderEvent(symbol string, orderKind OrderKind, quantity int64, action Action) *OrderEvent {
	return &OrderEvent{
		Symbol:    symbol,
		OrderKind: orderKind,
		Quantity:  quantity,
		Action:    action,
	}
}
