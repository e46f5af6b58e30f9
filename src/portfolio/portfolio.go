package portfolio

import (
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/linkenghong/Backtesting/src/datafeed"
	"github.com/linkenghong/Backtesting/src/eventmodels"
	"github.com/linkenghong/Backtesting/src/eventpubsub"
)

// Portfolio owns the open position map, the closed position list, the cash
// balance and the derived equity. It is mutated only by fills and by the
// daily settlement step; the dispatch loop is its single writer.
type Portfolio struct {
	dataHandler datafeed.DataHandler

	Positions       map[string]*Position
	ClosedPositions []*Position
	InitialCash     float64
	Cash            float64
	Equity          float64
}

func NewPortfolio(dataHandler datafeed.DataHandler, cash float64) *Portfolio {
	return &Portfolio{
		dataHandler:     dataHandler,
		Positions:       make(map[string]*Position),
		ClosedPositions: []*Position{},
		InitialCash:     cash,
		Cash:            cash,
		Equity:          cash,
	}
}

// openSymbols returns the open position symbols in lexical order. Equity
// accumulation must visit positions in a fixed order, otherwise float
// summation order varies between runs.
func (p *Portfolio) openSymbols() []string {
	symbols := make([]string, 0, len(p.Positions))
	for symbol := range p.Positions {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	return symbols
}

// UpdatePortfolio marks every open position to market and recomputes equity
// as cash plus the sum of market values. Idempotent.
func (p *Portfolio) UpdatePortfolio() {
	p.Equity = p.Cash

	for _, symbol := range p.openSymbols() {
		position := p.Positions[symbol]

		curPrice, ok := p.dataHandler.LastClose(symbol)
		if !ok {
			// a position can only exist after a priced fill, so the cache
			// should always hit; fall back to the held price if it does not
			log.Warnf("no last close for open position %s; using last transaction price", symbol)
			curPrice = position.LastPrice
		}

		position.UpdateMarketValue(curPrice)
		p.Equity += position.MarketValue
	}
}

// SettlePositions runs the T+1 settlement for every open position. Invoked
// once per first-bar-of-day.
func (p *Portfolio) SettlePositions() {
	for _, symbol := range p.openSymbols() {
		p.Positions[symbol].Settle()
	}
}

func (p *Portfolio) addPosition(action eventmodels.Action, symbol string, quantity int64, transactPrice, commission float64) {
	if _, ok := p.Positions[symbol]; ok {
		log.Warnf("ticker symbol %s is already in the positions list, could not add a new position", symbol)
		return
	}

	curPrice, ok := p.dataHandler.LastClose(symbol)
	if !ok {
		log.Warnf("no last close for %s when opening position; using transaction price", symbol)
		curPrice = transactPrice
	}

	p.Positions[symbol] = NewPosition(action, symbol, quantity, transactPrice, commission, curPrice)
	p.UpdatePortfolio()
}

func (p *Portfolio) modifyPosition(action eventmodels.Action, symbol string, quantity int64, transactPrice, commission float64) {
	position, ok := p.Positions[symbol]
	if !ok {
		log.Warnf("ticker symbol %s not in the current position list, could not modify a current position", symbol)
		return
	}

	position.TransactShares(action, quantity, transactPrice, commission)

	curPrice, ok := p.dataHandler.LastClose(symbol)
	if !ok {
		curPrice = position.LastPrice
	}
	position.UpdateMarketValue(curPrice)

	p.UpdatePortfolio()
}

// TransactPosition applies a fill to the ledger: cash first, then position
// creation or mutation, then the open→closed move when the quantity returns
// to zero. A re-entered symbol always gets a fresh Position object.
func (p *Portfolio) TransactPosition(timestamp time.Time, action eventmodels.Action, symbol string, quantity int64, transactPrice, commission float64) {
	switch action {
	case eventmodels.ActionBuy:
		p.Cash -= float64(quantity)*transactPrice + commission
	case eventmodels.ActionSell:
		p.Cash += float64(quantity)*transactPrice - commission
	}

	if _, ok := p.Positions[symbol]; !ok {
		p.addPosition(action, symbol, quantity, transactPrice, commission)
	} else {
		p.modifyPosition(action, symbol, quantity, transactPrice, commission)
	}

	position, ok := p.Positions[symbol]
	if !ok {
		return
	}

	eventpubsub.PublishPositionUpdated(timestamp, position.Snapshot())

	if position.Quantity == 0 {
		p.ClosedPositions = append(p.ClosedPositions, position)
		delete(p.Positions, symbol)
	}
}

// CurrentCash reports the cash balance for the execution simulator's
// sufficiency check.
func (p *Portfolio) CurrentCash() float64 {
	return p.Cash
}

// AvailableQuantity reports the sellable quantity for the symbol; zero when
// no position is open.
func (p *Portfolio) AvailableQuantity(symbol string) int64 {
	position, ok := p.Positions[symbol]
	if !ok {
		return 0
	}

	return position.AvailableQuantity
}

// PositionSnapshot returns the strategy-facing view of a position; all zeros
// if no position exists.
func (p *Portfolio) PositionSnapshot(symbol string) eventmodels.PositionSnapshot {
	position, ok := p.Positions[symbol]
	if !ok {
		return eventmodels.PositionSnapshot{Symbol: symbol}
	}

	return position.Snapshot()
}
