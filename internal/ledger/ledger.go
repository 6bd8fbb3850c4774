// Package ledger validates and executes trades and keeps the session's
// money honest. All monetary values use shopspring/decimal, never
// float64. Simulated market prices arrive as float64 and are
// cent-rounded here, once, at the execution boundary.
package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Mubymubu/Iqtisad/internal/asset"
)

var (
	// ErrInsufficientFunds is the one rejection the presentation layer
	// must surface distinctly.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrNoPosition rejects a sell with nothing to sell.
	ErrNoPosition = errors.New("no position to sell")
)

// Side is the direction of a trade.
type Side uint8

const (
	SideBuy Side = iota
	SideSell
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "BUY"
	case SideSell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// Trade is an immutable record appended on every buy or sell.
type Trade struct {
	ID      string
	Side    Side
	AssetID asset.ID
	Price   decimal.Decimal // executed price, cent-rounded
	Qty     int64           // always 1 per command
	Win     bool            // sells only: price >= cost basis at sale
	Time    int64           // session unit clock
	At      time.Time
}

// Ledger tracks cash, the trade tape, and running net-worth extremes.
// Positions live on the assets themselves; the ledger mutates them
// under the session's single-loop discipline.
type Ledger struct {
	cash     decimal.Decimal
	starting decimal.Decimal
	trades   []Trade

	maxNetWorth decimal.Decimal
	minNetWorth decimal.Decimal
}

// New creates a Ledger holding the starting balance in cash.
func New(startingBalance decimal.Decimal) *Ledger {
	return &Ledger{
		cash:        startingBalance,
		starting:    startingBalance,
		maxNetWorth: startingBalance,
		minNetWorth: startingBalance,
	}
}

// Cash returns the current cash balance.
func (l *Ledger) Cash() decimal.Decimal { return l.cash }

// StartingBalance returns the configured opening cash.
func (l *Ledger) StartingBalance() decimal.Decimal { return l.starting }

// Trades returns the trade tape. Callers must not mutate records.
func (l *Ledger) Trades() []Trade { return l.trades }

// TradeCount returns the number of executed trades.
func (l *Ledger) TradeCount() int { return len(l.trades) }

// MaxNetWorth and MinNetWorth return the running extremes observed so
// far, used by drawdown-style scoring.
func (l *Ledger) MaxNetWorth() decimal.Decimal { return l.maxNetWorth }
func (l *Ledger) MinNetWorth() decimal.Decimal { return l.minNetWorth }

// execPrice converts a simulated float price into money.
func execPrice(price float64) decimal.Decimal {
	return decimal.NewFromFloat(price).Round(2)
}

// Buy executes a one-unit purchase of the asset at its current price.
// The price read for validation and the price applied to cash are the
// same snapshot by construction.
func (l *Ledger) Buy(a *asset.Asset, now int64) (Trade, error) {
	px := execPrice(a.Price)
	if l.cash.LessThan(px) {
		return Trade{}, ErrInsufficientFunds
	}

	l.cash = l.cash.Sub(px)

	// Weighted average cost basis over the new quantity.
	oldQty := decimal.NewFromInt(a.Quantity)
	newQty := decimal.NewFromInt(a.Quantity + 1)
	a.AvgCost = a.AvgCost.Mul(oldQty).Add(px).Div(newQty)
	a.Quantity++

	tr := Trade{
		ID:      uuid.New().String(),
		Side:    SideBuy,
		AssetID: a.ID,
		Price:   px,
		Qty:     1,
		Time:    now,
		At:      time.Now().UTC(),
	}
	l.trades = append(l.trades, tr)
	return tr, nil
}

// Sell executes a one-unit sale of the asset at its current price. The
// win flag compares against the weighted-average cost basis, falling
// back to the initial price if no basis was ever recorded.
func (l *Ledger) Sell(a *asset.Asset, now int64) (Trade, error) {
	if a.Quantity <= 0 {
		return Trade{}, ErrNoPosition
	}

	px := execPrice(a.Price)
	l.cash = l.cash.Add(px)

	basis := a.AvgCost
	if basis.IsZero() {
		basis = execPrice(a.InitialPrice)
	}
	win := px.GreaterThanOrEqual(basis)

	a.Quantity--
	if a.Quantity == 0 {
		a.AvgCost = decimal.Zero
	}

	tr := Trade{
		ID:      uuid.New().String(),
		Side:    SideSell,
		AssetID: a.ID,
		Price:   px,
		Qty:     1,
		Win:     win,
		Time:    now,
		At:      time.Now().UTC(),
	}
	l.trades = append(l.trades, tr)
	return tr, nil
}

// PortfolioValue sums price × quantity across the positions.
func PortfolioValue(assets []asset.Asset) decimal.Decimal {
	total := decimal.Zero
	for i := range assets {
		total = total.Add(assets[i].MarketValue())
	}
	return total
}

// NetWorth is cash plus portfolio value, always recomputed from its
// inputs and never stored independently.
func (l *Ledger) NetWorth(assets []asset.Asset) decimal.Decimal {
	return l.cash.Add(PortfolioValue(assets))
}

// ObserveNetWorth folds a freshly computed net worth into the running
// max/min trackers.
func (l *Ledger) ObserveNetWorth(nw decimal.Decimal) {
	if nw.GreaterThan(l.maxNetWorth) {
		l.maxNetWorth = nw
	}
	if nw.LessThan(l.minNetWorth) {
		l.minNetWorth = nw
	}
}

// SellStats returns the number of winning and total sell trades.
func (l *Ledger) SellStats() (wins, sells int) {
	for _, tr := range l.trades {
		if tr.Side == SideSell {
			sells++
			if tr.Win {
				wins++
			}
		}
	}
	return wins, sells
}
