package strategy

import (
	"github.com/linkenghong/Backtesting/src/eventmodels"
)

// AvgPriceBandStrategy trades bands around the position's average price:
// it buys the first bar it sees, adds when price falls into the
// [0.85·avg, 0.90·avg] band, and sells on a 5% gain or once price breaks
// below 0.80·avg.
type AvgPriceBandStrategy struct {
	symbol       string
	queue        *eventmodels.Queue
	baseQuantity int64
	portfolio    PortfolioView
	prePrice     float64
}

func NewAvgPriceBandStrategy(symbol string, queue *eventmodels.Queue, baseQuantity int64) *AvgPriceBandStrategy {
	return &AvgPriceBandStrategy{
		symbol:       symbol,
		queue:        queue,
		baseQuantity: baseQuantity,
	}
}

func (s *AvgPriceBandStrategy) SetPortfolio(view PortfolioView) {
	s.portfolio = view
}

func (s *AvgPriceBandStrategy) CalculateSignals(bar *eventmodels.BarEvent) {
	if bar.Symbol != s.symbol {
		return
	}

	avgPrice := 0.0
	if s.portfolio != nil {
		avgPrice = s.portfolio.PositionSnapshot(s.symbol).AvgPrice
	}
	if avgPrice == 0 {
		avgPrice = s.prePrice
	}

	if s.prePrice == 0 || (bar.Close <= avgPrice*0.9 && bar.Close >= avgPrice*0.85) {
		s.queue.Push(eventmodels.NewSignalEvent(
			s.symbol,
			bar.Timestamp,
			eventmodels.ActionBuy,
			eventmodels.SuggestQuantity(s.baseQuantity),
			eventmodels.OrderKindMarket,
		))
		s.prePrice = bar.Close
	} else if bar.Close >= avgPrice*1.05 || bar.Close < avgPrice*0.8 {
		s.queue.Push(eventmodels.NewSignalEvent(
			s.symbol,
			bar.Timestamp,
			eventmodels.ActionSell,
			eventmodels.SuggestQuantity(s.baseQuantity),
			eventmodels.OrderKindMarket,
		))
		s.prePrice = bar.Close
	}
}
