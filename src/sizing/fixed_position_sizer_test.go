package sizing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/linkenghong/Backtesting/src/eventmodels"
)

func TestFixedPositionSizer(t *testing.T) {
	sizer := NewFixedPositionSizer(100)
	ts := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)

	t.Run("uses the suggested quantity when present", func(t *testing.T) {
		signal := eventmodels.NewSignalEvent("600000.SS", ts, eventmodels.ActionBuy, eventmodels.SuggestQuantity(300), eventmodels.OrderKindMarket)

		order := sizer.SizeOrder(nil, signal)

		assert.Equal(t, int64(300), order.Quantity)
		assert.Equal(t, eventmodels.ActionBuy, order.Action)
	})

	t.Run("falls back to the default lot", func(t *testing.T) {
		signal := eventmodels.NewSignalEvent("600000.SS", ts, eventmodels.ActionSell, nil, eventmodels.OrderKindMarket)

		order := sizer.SizeOrder(nil, signal)

		assert.Equal(t, int64(100), order.Quantity)
		assert.Equal(t, eventmodels.ActionSell, order.Action)
	})
}
