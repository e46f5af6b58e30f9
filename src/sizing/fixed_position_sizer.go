package sizing

import (
	"github.com/linkenghong/Backtesting/src/eventmodels"
	"github.com/linkenghong/Backtesting/src/portfolio"
)

// FixedPositionSizer fills in a fixed default lot whenever the signal carries
// no suggested quantity. It never consults anything beyond the signal and the
// portfolio snapshot it is handed.
type FixedPositionSizer struct {
	DefaultQuantity int64
}

func NewFixedPositionSizer(defaultQuantity int64) *FixedPositionSizer {
	return &FixedPositionSizer{DefaultQuantity: defaultQuantity}
}

func (s *FixedPositionSizer) SizeOrder(_ *portfolio.Portfolio, signal *eventmodels.SignalEvent) *eventmodels.OrderEvent {
	quantity := s.DefaultQuantity
	if signal.SuggestedQuantity != nil {
		quantity = *signal.SuggestedQuantity
	}

	return eventmodels.NewOrderEvent(signal.Symbol, signal.OrderKind, quantity, signal.Action)
}
