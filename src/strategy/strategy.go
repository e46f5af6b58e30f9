package strategy

import (
	"github.com/linkenghong/Backtesting/src/eventmodels"
)

// PortfolioView is the read-only window a strategy gets into the portfolio.
// Strategies must never mutate the ledger.
type PortfolioView interface {
	PositionSnapshot(symbol string) eventmodels.PositionSnapshot
}

// Strategy consumes bar events and emits zero or more signals onto the event
// queue it was constructed with.
type Strategy interface {
	CalculateSignals(bar *eventmodels.BarEvent)
	SetPortfolio(view PortfolioView)
}

// Strategies fans each bar out to a collection of strategies, letting several
// run against one portfolio in a single backtest.
type Strategies struct {
	strategies []Strategy
}

func NewStrategies(strategies ...Strategy) *Strategies {
	return &Strategies{strategies: strategies}
}

func (s *Strategies) CalculateSignals(bar *eventmodels.BarEvent) {
	for _, strat := range s.strategies {
		strat.CalculateSignals(bar)
	}
}

func (s *Strategies) SetPortfolio(view PortfolioView) {
	for _, strat := range s.strategies {
		strat.SetPortfolio(view)
	}
}
