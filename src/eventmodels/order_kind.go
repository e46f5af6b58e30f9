package eventmodels

// OrderKind distinguishes market from limit orders.
type OrderKind string

const (
	OrderKindMarket OrderKind = "MKT"
	OrderKindLimit  OrderKind = "LMT"
)
