package execution

import (
	"github.com/linkenghong/Backtesting/src/eventmodels"
)

// ExecutionHandler turns a confirmed order into a fill, or rejects it.
type ExecutionHandler interface {
	ExecuteOrder(order *eventmodels.OrderEvent) error
}

// PortfolioInfo is the read-only slice of the ledger the execution simulator
// needs for its own no-short and cash-sufficiency checks.
type PortfolioInfo interface {
	AvailableQuantity(symbol string) int64
	CurrentCash() float64
}
