package eventmodels

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue(t *testing.T) {
	t.Run("pop on empty queue", func(t *testing.T) {
		queue := NewQueue()

		event, ok := queue.Pop()
		assert.False(t, ok)
		assert.Nil(t, event)
	})

	t.Run("fifo ordering", func(t *testing.T) {
		queue := NewQueue()
		ts := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)

		queue.Push(NewBarEvent("600000.SS", ts, false, 10, 10, 10, 10, 1000, 10))
		queue.Push(NewSignalEvent("600000.SS", ts, ActionBuy, nil, OrderKindMarket))
		queue.Push(NewOrderEvent("600000.SS", OrderKindMarket, 100, ActionBuy))

		require.Equal(t, 3, queue.Len())

		first, ok := queue.Pop()
		require.True(t, ok)
		assert.Equal(t, EventTypeBar, first.Type())

		second, ok := queue.Pop()
		require.True(t, ok)
		assert.Equal(t, EventTypeSignal, second.Type())

		third, ok := queue.Pop()
		require.True(t, ok)
		assert.Equal(t, EventTypeOrder, third.Type())

		assert.Equal(t, 0, queue.Len())
	})
}
