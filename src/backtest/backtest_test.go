package backtest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkenghong/Backtesting/src/datafeed"
	"github.com/linkenghong/Backtesting/src/eventmodels"
	"github.com/linkenghong/Backtesting/src/execution"
	"github.com/linkenghong/Backtesting/src/performance"
	"github.com/linkenghong/Backtesting/src/portfolio"
	"github.com/linkenghong/Backtesting/src/risk"
	"github.com/linkenghong/Backtesting/src/sizing"
	"github.com/linkenghong/Backtesting/src/strategy"
)

const testSymbol = "600000.SS"

func testBars() []*eventmodels.BarEvent {
	day := func(offset int) time.Time {
		return time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	}

	return []*eventmodels.BarEvent{
		eventmodels.NewBarEvent(testSymbol, day(0), false, 10.00, 10.00, 10.00, 10.00, 10000, 10.00),
		eventmodels.NewBarEvent(testSymbol, day(1), false, 10.50, 10.50, 10.50, 10.50, 10000, 10.50),
		eventmodels.NewBarEvent(testSymbol, day(2), false, 11.00, 11.00, 11.00, 11.00, 10000, 11.00),
	}
}

func newTestBacktest(strat strategy.Strategy, queue *eventmodels.Queue) *Backtest {
	dataHandler := datafeed.NewMockDataHandler([]string{testSymbol}, testBars())
	portfolioHandler := portfolio.NewPortfolioHandler(
		100000.00,
		queue,
		dataHandler,
		sizing.NewFixedPositionSizer(100),
		risk.NewPassthroughRiskManager(),
	)
	executionHandler := execution.NewAShareSimulatedExecutionHandler(queue, dataHandler, portfolioHandler.Portfolio, execution.DefaultSlippage)
	statistics := performance.NewStatistics(252, dataHandler, "")

	return NewBacktest(queue, dataHandler, strat, portfolioHandler, executionHandler, statistics)
}

func TestBuyAndHoldRun(t *testing.T) {
	queue := eventmodels.NewQueue()
	bt := newTestBacktest(strategy.NewBuyAndHoldStrategy(testSymbol, queue, 100), queue)

	res, err := bt.Run(context.Background())
	require.NoError(t, err)

	fills := bt.Fills()
	require.Len(t, fills, 1)
	assert.Equal(t, eventmodels.ActionBuy, fills[0].Action)
	assert.Equal(t, int64(100), fills[0].Quantity)
	assert.Equal(t, 10.01, fills[0].Price)
	assert.Equal(t, 5.00, fills[0].Commission)

	// the fill lands after the first bar's equity snapshot, so its effect
	// shows from the second bar onward
	require.Len(t, res.Equity, 3)
	assert.InDelta(t, 100000.00, res.Equity[0], 1e-9)
	assert.InDelta(t, 100044.00, res.Equity[1], 1e-9)
	assert.InDelta(t, 100094.00, res.Equity[2], 1e-9)
}

// sameDaySellStrategy buys on the first bar, tries to sell immediately, then
// sells again on the second day.
type sameDaySellStrategy struct {
	queue   *eventmodels.Queue
	barSeen int
}

func (s *sameDaySellStrategy) SetPortfolio(_ strategy.PortfolioView) {}

func (s *sameDaySellStrategy) CalculateSignals(bar *eventmodels.BarEvent) {
	s.barSeen++

	switch s.barSeen {
	case 1:
		s.queue.Push(eventmodels.NewSignalEvent(bar.Symbol, bar.Timestamp, eventmodels.ActionBuy, nil, eventmodels.OrderKindMarket))
		s.queue.Push(eventmodels.NewSignalEvent(bar.Symbol, bar.Timestamp, eventmodels.ActionSell, nil, eventmodels.OrderKindMarket))
	case 2:
		s.queue.Push(eventmodels.NewSignalEvent(bar.Symbol, bar.Timestamp, eventmodels.ActionSell, nil, eventmodels.OrderKindMarket))
	}
}

func TestSameDaySellIsBlocked(t *testing.T) {
	queue := eventmodels.NewQueue()
	bt := newTestBacktest(&sameDaySellStrategy{queue: queue}, queue)

	res, err := bt.Run(context.Background())
	require.NoError(t, err)

	// the same-day sell must not fill; the next-day sell fills after T+1
	// settlement releases the shares
	fills := bt.Fills()
	require.Len(t, fills, 2)
	assert.Equal(t, eventmodels.ActionBuy, fills[0].Action)
	assert.Equal(t, eventmodels.ActionSell, fills[1].Action)
	assert.Equal(t, 10.49, fills[1].Price)
	assert.Equal(t, 6.05, fills[1].Commission)

	p := bt.Portfolio()
	assert.Empty(t, p.Positions)
	require.Len(t, p.ClosedPositions, 1)
	assert.InDelta(t, 100036.95, p.Cash, 1e-9)

	require.Len(t, res.Equity, 3)
	assert.InDelta(t, 100036.95, res.Equity[2], 1e-9)
}

func TestDeterministicRuns(t *testing.T) {
	run := func() (*performance.Results, []*eventmodels.FillEvent) {
		queue := eventmodels.NewQueue()
		bt := newTestBacktest(strategy.NewBuyAndHoldStrategy(testSymbol, queue, 100), queue)

		res, err := bt.Run(context.Background())
		require.NoError(t, err)

		return res, bt.Fills()
	}

	firstRes, firstFills := run()
	secondRes, secondFills := run()

	assert.Equal(t, firstRes.Equity, secondRes.Equity)
	assert.Equal(t, firstRes.Returns, secondRes.Returns)

	require.Equal(t, len(firstFills), len(secondFills))
	for i := range firstFills {
		assert.Equal(t, firstFills[i].Symbol, secondFills[i].Symbol)
		assert.Equal(t, firstFills[i].Timestamp, secondFills[i].Timestamp)
		assert.Equal(t, firstFills[i].Quantity, secondFills[i].Quantity)
		assert.Equal(t, firstFills[i].Price, secondFills[i].Price)
		assert.Equal(t, firstFills[i].Commission, secondFills[i].Commission)
	}
}

type bogusEvent struct{}

func (e *bogusEvent) Type() eventmodels.EventType {
	return eventmodels.EventType("BOGUS")
}

func TestUnsupportedEventType(t *testing.T) {
	queue := eventmodels.NewQueue()
	bt := newTestBacktest(strategy.NewBuyAndHoldStrategy(testSymbol, queue, 100), queue)

	err := bt.handleEvent(&bogusEvent{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported event type")
}

func TestRunHonorsContextCancellation(t *testing.T) {
	queue := eventmodels.NewQueue()
	bt := newTestBacktest(strategy.NewBuyAndHoldStrategy(testSymbol, queue, 100), queue)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := bt.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
