package execution

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkenghong/Backtesting/src/datafeed"
	"github.com/linkenghong/Backtesting/src/eventmodels"
)

type stubPortfolioInfo struct {
	available int64
	cash      float64
}

func (s *stubPortfolioInfo) AvailableQuantity(symbol string) int64 {
	return s.available
}

func (s *stubPortfolioInfo) CurrentCash() float64 {
	return s.cash
}

func newTestDataHandler(closePrice float64) *datafeed.MockDataHandler {
	handler := datafeed.NewMockDataHandler([]string{"600000.SS"}, []*eventmodels.BarEvent{
		eventmodels.NewBarEvent("600000.SS", time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), false, closePrice, closePrice, closePrice, closePrice, 10000, closePrice),
	})
	handler.StreamNext()

	return handler
}

func TestCalculateCommission(t *testing.T) {
	t.Run("buy below minimum fee floor", func(t *testing.T) {
		assert.Equal(t, 5.00, CalculateCommission(100, 10.00, eventmodels.ActionBuy))
	})

	t.Run("sell adds transaction tax", func(t *testing.T) {
		// max(0.0008*12*100, 5) + 0.001*12*100 = 5.00 + 1.20
		assert.Equal(t, 6.20, CalculateCommission(100, 12.00, eventmodels.ActionSell))
	})

	t.Run("buy above minimum fee floor", func(t *testing.T) {
		// 0.0008 * 10.00 * 10000 = 80
		assert.Equal(t, 80.00, CalculateCommission(10000, 10.00, eventmodels.ActionBuy))
	})
}

func TestExecuteOrder(t *testing.T) {
	t.Run("missing price is fatal for the order path", func(t *testing.T) {
		queue := eventmodels.NewQueue()
		handler := NewAShareSimulatedExecutionHandler(queue, newTestDataHandler(10.00), &stubPortfolioInfo{cash: 100000}, DefaultSlippage)

		err := handler.ExecuteOrder(eventmodels.NewOrderEvent("000001.SZ", eventmodels.OrderKindMarket, 100, eventmodels.ActionBuy))

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNoPriceAvailable))
		assert.Equal(t, 0, queue.Len())
	})

	t.Run("buy pays close plus slippage", func(t *testing.T) {
		queue := eventmodels.NewQueue()
		handler := NewAShareSimulatedExecutionHandler(queue, newTestDataHandler(10.00), &stubPortfolioInfo{cash: 100000}, DefaultSlippage)

		err := handler.ExecuteOrder(eventmodels.NewOrderEvent("600000.SS", eventmodels.OrderKindMarket, 100, eventmodels.ActionBuy))
		require.NoError(t, err)

		event, ok := queue.Pop()
		require.True(t, ok)

		fill, ok := event.(*eventmodels.FillEvent)
		require.True(t, ok)
		assert.Equal(t, 10.01, fill.Price)
		assert.Equal(t, int64(100), fill.Quantity)
		assert.Equal(t, 5.00, fill.Commission)
		assert.Equal(t, "CN", fill.Exchange)
		assert.NotEmpty(t, fill.ID)
	})

	t.Run("sell receives close minus slippage", func(t *testing.T) {
		queue := eventmodels.NewQueue()
		handler := NewAShareSimulatedExecutionHandler(queue, newTestDataHandler(10.00), &stubPortfolioInfo{available: 100}, DefaultSlippage)

		err := handler.ExecuteOrder(eventmodels.NewOrderEvent("600000.SS", eventmodels.OrderKindMarket, 100, eventmodels.ActionSell))
		require.NoError(t, err)

		event, ok := queue.Pop()
		require.True(t, ok)

		fill := event.(*eventmodels.FillEvent)
		assert.Equal(t, 9.99, fill.Price)
	})

	t.Run("short sale is blocked", func(t *testing.T) {
		queue := eventmodels.NewQueue()
		handler := NewAShareSimulatedExecutionHandler(queue, newTestDataHandler(10.00), &stubPortfolioInfo{available: 0}, DefaultSlippage)

		err := handler.ExecuteOrder(eventmodels.NewOrderEvent("600000.SS", eventmodels.OrderKindMarket, 100, eventmodels.ActionSell))

		assert.NoError(t, err)
		assert.Equal(t, 0, queue.Len())
	})

	t.Run("sell clamps to available quantity", func(t *testing.T) {
		queue := eventmodels.NewQueue()
		handler := NewAShareSimulatedExecutionHandler(queue, newTestDataHandler(10.00), &stubPortfolioInfo{available: 50}, DefaultSlippage)

		err := handler.ExecuteOrder(eventmodels.NewOrderEvent("600000.SS", eventmodels.OrderKindMarket, 100, eventmodels.ActionSell))
		require.NoError(t, err)

		event, ok := queue.Pop()
		require.True(t, ok)

		fill := event.(*eventmodels.FillEvent)
		assert.Equal(t, int64(50), fill.Quantity)
	})

	t.Run("zero quantity buy is dropped", func(t *testing.T) {
		queue := eventmodels.NewQueue()
		handler := NewAShareSimulatedExecutionHandler(queue, newTestDataHandler(10.00), &stubPortfolioInfo{cash: 100000}, DefaultSlippage)

		// would otherwise pass the cash check and fill with the minimum fee
		err := handler.ExecuteOrder(eventmodels.NewOrderEvent("600000.SS", eventmodels.OrderKindMarket, 0, eventmodels.ActionBuy))

		assert.NoError(t, err)
		assert.Equal(t, 0, queue.Len())
	})

	t.Run("zero quantity sell is dropped even with holdings", func(t *testing.T) {
		queue := eventmodels.NewQueue()
		handler := NewAShareSimulatedExecutionHandler(queue, newTestDataHandler(10.00), &stubPortfolioInfo{available: 100}, DefaultSlippage)

		err := handler.ExecuteOrder(eventmodels.NewOrderEvent("600000.SS", eventmodels.OrderKindMarket, 0, eventmodels.ActionSell))

		assert.NoError(t, err)
		assert.Equal(t, 0, queue.Len())
	})

	t.Run("buy without sufficient cash is dropped", func(t *testing.T) {
		queue := eventmodels.NewQueue()
		handler := NewAShareSimulatedExecutionHandler(queue, newTestDataHandler(10.00), &stubPortfolioInfo{cash: 500}, DefaultSlippage)

		err := handler.ExecuteOrder(eventmodels.NewOrderEvent("600000.SS", eventmodels.OrderKindMarket, 100, eventmodels.ActionBuy))

		assert.NoError(t, err)
		assert.Equal(t, 0, queue.Len())
	})
}
