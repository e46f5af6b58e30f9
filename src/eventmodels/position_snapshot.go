package eventmodels

// PositionSnapshot is the read-only view of a position handed to strategies.
// All fields are zero when no position exists for the symbol.
type PositionSnapshot struct {
	Symbol              string
	Quantity            int64
	AvailableQuantity   int64
	UnavailableQuantity int64
	LastPrice           float64
	AvgPrice            float64
	MarketValue         float64
	TotalCommission     float64
}
