package portfolio

import (
	"math"

	"github.com/linkenghong/Backtesting/src/eventmodels"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Position is one open holding. Quantity is always the sum of the available
// and unavailable parts: shares transacted today sit in UnavailableQuantity
// until the next trading day's settlement (the A-share T+1 rule).
type Position struct {
	Action              eventmodels.Action
	Symbol              string
	Quantity            int64
	AvailableQuantity   int64
	UnavailableQuantity int64
	InitPrice           float64
	LastPrice           float64
	InitCommission      float64
	TotalCommission     float64
	AvgPrice            float64
	MarketValue         float64
}

// NewPosition seeds the initial account of the position: the full quantity is
// unavailable, and a BUY-opened position carries its entry commission in the
// average price.
func NewPosition(action eventmodels.Action, symbol string, initQuantity int64, initPrice, initCommission, curPrice float64) *Position {
	p := &Position{
		Action:              action,
		Symbol:              symbol,
		Quantity:            initQuantity,
		UnavailableQuantity: initQuantity,
		AvailableQuantity:   0,
		InitPrice:           initPrice,
		LastPrice:           round2(initPrice),
		InitCommission:      initCommission,
		TotalCommission:     initCommission,
	}

	if action == eventmodels.ActionBuy {
		p.AvgPrice = round2((initPrice*float64(initQuantity) + initCommission) / float64(initQuantity))
	}

	p.UpdateMarketValue(curPrice)

	return p
}

// UpdateMarketValue refreshes the market value from the latest price.
func (p *Position) UpdateMarketValue(price float64) {
	p.MarketValue = round2(float64(p.Quantity) * price)
}

// Settle moves today's unavailable shares into the available bucket. Called
// once per new trading day.
func (p *Position) Settle() {
	p.AvailableQuantity += p.UnavailableQuantity
	p.UnavailableQuantity = 0
}

// TransactShares applies a fill to the position via the average-price
// recurrence. The average price is rounded after every fill, not at the end,
// to keep numeric outputs reproducible.
func (p *Position) TransactShares(action eventmodels.Action, quantity int64, price, commission float64) {
	p.LastPrice = round2(price)
	p.TotalCommission += commission

	direction := action.Direction()

	// bought shares settle T+1 and sit unavailable until the next trading
	// day; sold shares come out of the available bucket, which the execution
	// clamp guarantees is large enough
	switch action {
	case eventmodels.ActionBuy:
		p.UnavailableQuantity += quantity
	case eventmodels.ActionSell:
		p.AvailableQuantity -= quantity
	}

	newQuantity := p.Quantity + direction*quantity
	if newQuantity > 0 {
		p.AvgPrice = round2((float64(p.Quantity)*p.AvgPrice + commission + float64(direction*quantity)*price) / float64(newQuantity))
	}

	p.Quantity = newQuantity
}

// Snapshot returns the read-only view handed to strategies.
func (p *Position) Snapshot() eventmodels.PositionSnapshot {
	return eventmodels.PositionSnapshot{
		Symbol:              p.Symbol,
		Quantity:            p.Quantity,
		AvailableQuantity:   p.AvailableQuantity,
		UnavailableQuantity: p.UnavailableQuantity,
		LastPrice:           p.LastPrice,
		AvgPrice:            p.AvgPrice,
		MarketValue:         p.MarketValue,
		TotalCommission:     p.TotalCommission,
	}
}
