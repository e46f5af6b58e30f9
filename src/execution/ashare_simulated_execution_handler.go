package execution

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/linkenghong/Backtesting/src/datafeed"
	"github.com/linkenghong/Backtesting/src/eventmodels"
	"github.com/linkenghong/Backtesting/src/eventpubsub"
)

const (
	// A-share fee schedule: 8bp brokerage commission with a 5 CNY floor,
	// plus a 10bp transaction tax on the sell side only.
	commissionRate = 0.0008
	minimumFee     = 5.0
	sellTaxRate    = 0.001

	// DefaultSlippage is the assumed adverse price offset per fill.
	DefaultSlippage = 0.01

	exchange = "CN"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// AShareSimulatedExecutionHandler simulates order execution under A-share
// market rules: fixed slippage, the commission schedule above, no short
// selling, and the T+1 clamp on sellable quantity. Rejected orders are
// dropped with a diagnostic; they are never retried.
type AShareSimulatedExecutionHandler struct {
	queue       *eventmodels.Queue
	dataHandler datafeed.DataHandler
	portfolio   PortfolioInfo
	slippage    float64
}

func NewAShareSimulatedExecutionHandler(queue *eventmodels.Queue, dataHandler datafeed.DataHandler, portfolio PortfolioInfo, slippage float64) *AShareSimulatedExecutionHandler {
	return &AShareSimulatedExecutionHandler{
		queue:       queue,
		dataHandler: dataHandler,
		portfolio:   portfolio,
		slippage:    slippage,
	}
}

// CalculateCommission computes the trade commission: max(0.0008·price·qty, 5),
// plus 0.001·price·qty transaction tax for SELL, rounded to 2 decimals.
func CalculateCommission(quantity int64, fillPrice float64, action eventmodels.Action) float64 {
	commission := math.Max(commissionRate*fillPrice*float64(quantity), minimumFee)
	if action == eventmodels.ActionSell {
		commission += sellTaxRate * fillPrice * float64(quantity)
	}

	return round2(commission)
}

// ExecuteOrder prices the order against the latest close, applies the
// A-share checks, and enqueues a fill on success. A rejection is local and
// non-fatal; a missing price is an ErrNoPriceAvailable the caller must treat
// as fatal for the order's processing path.
func (h *AShareSimulatedExecutionHandler) ExecuteOrder(order *eventmodels.OrderEvent) error {
	timestamp, ok := h.dataHandler.LastTimestamp(order.Symbol)
	if !ok {
		return fmt.Errorf("execute order %s: %w", order.Symbol, ErrNoPriceAvailable)
	}

	closePrice, ok := h.dataHandler.LastClose(order.Symbol)
	if !ok {
		return fmt.Errorf("execute order %s: %w", order.Symbol, ErrNoPriceAvailable)
	}

	quantity := order.Quantity
	if quantity <= 0 {
		log.Warnf("%s: Trading volume(%d) must be positive! The order will be cancelled!", timestamp, quantity)
		return nil
	}

	if order.Action == eventmodels.ActionSell {
		curQuantity := h.portfolio.AvailableQuantity(order.Symbol)
		if curQuantity == 0 {
			log.Warnf("%s: A share can't short! The order will be cancelled!", timestamp)
			return nil
		}

		if order.Quantity > curQuantity {
			log.Warnf("%s: Trading volume(%d) is greater than holding amount(%d)! Will be traded by holding amount!", timestamp, order.Quantity, curQuantity)
			quantity = curQuantity
		}
	}

	var fillPrice float64
	switch order.Action {
	case eventmodels.ActionBuy:
		fillPrice = closePrice + h.slippage
	case eventmodels.ActionSell:
		fillPrice = closePrice - h.slippage
	}

	commission := CalculateCommission(quantity, fillPrice, order.Action)

	if order.Action == eventmodels.ActionBuy {
		curCash := h.portfolio.CurrentCash()
		if cost := float64(quantity)*fillPrice + commission; cost > curCash {
			log.Warnf("%s: Current cash is %.2f, the transaction cost is %.2f. Out of cash, the order will be cancelled!", timestamp, curCash, cost)
			return nil
		}
	}

	fill := eventmodels.NewFillEvent(
		uuid.NewString(),
		timestamp,
		order.Symbol,
		order.Action,
		quantity,
		fillPrice,
		commission,
		exchange,
	)

	h.queue.Push(fill)
	eventpubsub.PublishFillCreated(fill)

	return nil
}
