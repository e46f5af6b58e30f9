package eventmodels

// EventType tags the closed set of events routed by the backtest loop.
type EventType string

const (
	EventTypeBar    EventType = "BAR"
	EventTypeSignal EventType = "SIGNAL"
	EventTypeOrder  EventType = "ORDER"
	EventTypeFill   EventType = "FILL"
)

// Event is implemented by exactly four types: BarEvent, SignalEvent,
// OrderEvent and FillEvent. Events are immutable once created.
type Event interface {
	Type() EventType
}
