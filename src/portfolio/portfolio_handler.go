package portfolio

import (
	"github.com/linkenghong/Backtesting/src/datafeed"
	"github.com/linkenghong/Backtesting/src/eventmodels"
)

// PositionSizer converts a signal into a candidate order with a quantity. It
// must be a pure function of the portfolio snapshot and the signal.
type PositionSizer interface {
	SizeOrder(portfolio *Portfolio, signal *eventmodels.SignalEvent) *eventmodels.OrderEvent
}

// RiskManager accepts, modifies or rejects a sized order, producing zero or
// more confirmed orders. It must not mutate the portfolio.
type RiskManager interface {
	RefineOrders(portfolio *Portfolio, order *eventmodels.OrderEvent) []*eventmodels.OrderEvent
}

// PortfolioHandler connects the signal side of the loop (sizer, risk
// manager) and the fill side (ledger update) to a single Portfolio.
type PortfolioHandler struct {
	queue         *eventmodels.Queue
	dataHandler   datafeed.DataHandler
	positionSizer PositionSizer
	riskManager   RiskManager
	Portfolio     *Portfolio
}

func NewPortfolioHandler(initialCash float64, queue *eventmodels.Queue, dataHandler datafeed.DataHandler, positionSizer PositionSizer, riskManager RiskManager) *PortfolioHandler {
	return &PortfolioHandler{
		queue:         queue,
		dataHandler:   dataHandler,
		positionSizer: positionSizer,
		riskManager:   riskManager,
		Portfolio:     NewPortfolio(dataHandler, initialCash),
	}
}

// OnSignal sizes the signal, refines it through the risk manager, and places
// the confirmed orders onto the event queue.
func (h *PortfolioHandler) OnSignal(signal *eventmodels.SignalEvent) {
	sizedOrder := h.positionSizer.SizeOrder(h.Portfolio, signal)

	for _, order := range h.riskManager.RefineOrders(h.Portfolio, sizedOrder) {
		h.queue.Push(order)
	}
}

// OnFill converts a fill event into a ledger transaction.
func (h *PortfolioHandler) OnFill(fill *eventmodels.FillEvent) {
	h.Portfolio.TransactPosition(fill.Timestamp, fill.Action, fill.Symbol, fill.Quantity, fill.Price, fill.Commission)
}

// UpdatePortfolioValue marks the portfolio to market.
func (h *PortfolioHandler) UpdatePortfolioValue() {
	h.Portfolio.UpdatePortfolio()
}

// UpdatePortfolioPosition runs the daily T+1 settlement.
func (h *PortfolioHandler) UpdatePortfolioPosition() {
	h.Portfolio.SettlePositions()
}

// PositionSnapshot exposes the read-only position view to strategies.
func (h *PortfolioHandler) PositionSnapshot(symbol string) eventmodels.PositionSnapshot {
	return h.Portfolio.PositionSnapshot(symbol)
}
