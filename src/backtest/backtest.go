package backtest

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/linkenghong/Backtesting/src/datafeed"
	"github.com/linkenghong/Backtesting/src/eventmodels"
	"github.com/linkenghong/Backtesting/src/execution"
	"github.com/linkenghong/Backtesting/src/performance"
	"github.com/linkenghong/Backtesting/src/portfolio"
	"github.com/linkenghong/Backtesting/src/strategy"
)

// Backtest runs the event dispatch loop: bars stream in from the data
// handler, and every derived event (signal, order, fill) is drained from the
// queue before the next bar is pulled, so a bar's consequences always settle
// at that bar's prices.
type Backtest struct {
	queue            *eventmodels.Queue
	dataHandler      datafeed.DataHandler
	strategy         strategy.Strategy
	portfolioHandler *portfolio.PortfolioHandler
	executionHandler execution.ExecutionHandler
	statistics       *performance.Statistics

	fills []*eventmodels.FillEvent
}

func NewBacktest(queue *eventmodels.Queue, dataHandler datafeed.DataHandler, strat strategy.Strategy, portfolioHandler *portfolio.PortfolioHandler, executionHandler execution.ExecutionHandler, statistics *performance.Statistics) *Backtest {
	strat.SetPortfolio(portfolioHandler)

	return &Backtest{
		queue:            queue,
		dataHandler:      dataHandler,
		strategy:         strat,
		portfolioHandler: portfolioHandler,
		executionHandler: executionHandler,
		statistics:       statistics,
	}
}

// Run drives the loop until the data feed is exhausted and the queue is
// drained, then finalizes the statistics.
func (b *Backtest) Run(ctx context.Context) (*performance.Results, error) {
	log.Info("starting backtest")

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("backtest interrupted: %w", err)
		}

		event, ok := b.queue.Pop()
		if !ok {
			bar, ok := b.dataHandler.StreamNext()
			if !ok {
				break
			}

			b.queue.Push(bar)
			continue
		}

		if err := b.handleEvent(event); err != nil {
			return nil, err
		}
	}

	log.Infof("backtest complete: %d fills", len(b.fills))

	return b.statistics.Results(), nil
}

func (b *Backtest) handleEvent(event eventmodels.Event) error {
	switch ev := event.(type) {
	case *eventmodels.BarEvent:
		b.onBar(ev)
	case *eventmodels.SignalEvent:
		b.portfolioHandler.OnSignal(ev)
	case *eventmodels.OrderEvent:
		if err := b.executionHandler.ExecuteOrder(ev); err != nil {
			return fmt.Errorf("failed to execute order: %w", err)
		}
	case *eventmodels.FillEvent:
		b.portfolioHandler.OnFill(ev)
		b.fills = append(b.fills, ev)
	default:
		return fmt.Errorf("unsupported event type %T", event)
	}

	return nil
}

// onBar is the per-bar sequence: daily settlement first (so today's sells can
// use yesterday's buys), then strategy evaluation, then mark-to-market and an
// equity snapshot.
func (b *Backtest) onBar(bar *eventmodels.BarEvent) {
	if bar.NewDay {
		b.portfolioHandler.UpdatePortfolioPosition()
	}

	b.strategy.CalculateSignals(bar)

	b.portfolioHandler.UpdatePortfolioValue()
	b.statistics.Update(bar.Timestamp, b.portfolioHandler.Portfolio.Equity)
}

// Fills returns the fill history in execution order.
func (b *Backtest) Fills() []*eventmodels.FillEvent {
	return b.fills
}

// Portfolio exposes the ledger for post-run inspection.
func (b *Backtest) Portfolio() *portfolio.Portfolio {
	return b.portfolioHandler.Portfolio
}
