package strategy

import (
	log "github.com/sirupsen/logrus"

	"github.com/linkenghong/Backtesting/src/eventmodels"
	"github.com/linkenghong/Backtesting/src/indicators"
)

// SMACrossStrategy signals on fast/slow moving-average crossovers: a cross
// above emits BUY, a cross below emits SELL.
type SMACrossStrategy struct {
	symbol       string
	queue        *eventmodels.Queue
	baseQuantity int64
	fast         *indicators.SMA
	slow         *indicators.SMA

	hasPrev  bool
	prevFast float64
	prevSlow float64
}

func NewSMACrossStrategy(symbol string, queue *eventmodels.Queue, baseQuantity int64, fastPeriod, slowPeriod int) *SMACrossStrategy {
	return &SMACrossStrategy{
		symbol:       symbol,
		queue:        queue,
		baseQuantity: baseQuantity,
		fast:         indicators.NewSMA(fastPeriod),
		slow:         indicators.NewSMA(slowPeriod),
	}
}

func (s *SMACrossStrategy) SetPortfolio(_ PortfolioView) {}

func (s *SMACrossStrategy) CalculateSignals(bar *eventmodels.BarEvent) {
	if bar.Symbol != s.symbol {
		return
	}

	fastReady, fast, err := s.fast.Update(bar.Close)
	if err != nil {
		log.Warnf("sma cross %s: %v", s.symbol, err)
		return
	}

	slowReady, slow, err := s.slow.Update(bar.Close)
	if err != nil {
		log.Warnf("sma cross %s: %v", s.symbol, err)
		return
	}

	if !fastReady || !slowReady {
		return
	}

	if s.hasPrev {
		if s.prevFast <= s.prevSlow && fast > slow {
			s.queue.Push(eventmodels.NewSignalEvent(
				s.symbol,
				bar.Timestamp,
				eventmodels.ActionBuy,
				eventmodels.SuggestQuantity(s.baseQuantity),
				eventmodels.OrderKindMarket,
			))
		} else if s.prevFast >= s.prevSlow && fast < slow {
			s.queue.Push(eventmodels.NewSignalEvent(
				s.symbol,
				bar.Timestamp,
				eventmodels.ActionSell,
				eventmodels.SuggestQuantity(s.baseQuantity),
				eventmodels.OrderKindMarket,
			))
		}
	}

	s.hasPrev = true
	s.prevFast = fast
	s.prevSlow = slow
}
