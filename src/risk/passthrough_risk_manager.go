package risk

import (
	"github.com/linkenghong/Backtesting/src/eventmodels"
	"github.com/linkenghong/Backtesting/src/portfolio"
)

// PassthroughRiskManager lets every sized order through unchanged. It is the
// seam for position-limit or exposure-limit policies.
type PassthroughRiskManager struct{}

func NewPassthroughRiskManager() *PassthroughRiskManager {
	return &PassthroughRiskManager{}
}

func (m *PassthroughRiskManager) RefineOrders(_ *portfolio.Portfolio, order *eventmodels.OrderEvent) []*eventmodels.OrderEvent {
	return []*eventmodels.OrderEvent{order}
}
