package strategy

import (
	"github.com/linkenghong/Backtesting/src/eventmodels"
)

// BuyAndHoldStrategy purchases the symbol on first receipt of its bar event
// and holds until the backtest completes.
type BuyAndHoldStrategy struct {
	symbol       string
	queue        *eventmodels.Queue
	baseQuantity int64
	invested     bool
}

func NewBuyAndHoldStrategy(symbol string, queue *eventmodels.Queue, baseQuantity int64) *BuyAndHoldStrategy {
	return &BuyAndHoldStrategy{
		symbol:       symbol,
		queue:        queue,
		baseQuantity: baseQuantity,
	}
}

func (s *BuyAndHoldStrategy) CalculateSignals(bar *eventmodels.BarEvent) {
	if bar.Symbol != s.symbol || s.invested {
		return
	}

	s.queue.Push(eventmodels.NewSignalEvent(
		s.symbol,
		bar.Timestamp,
		eventmodels.ActionBuy,
		eventmodels.SuggestQuantity(s.baseQuantity),
		eventmodels.OrderKindMarket,
	))
	s.invested = true
}

func (s *BuyAndHoldStrategy) SetPortfolio(_ PortfolioView) {}
