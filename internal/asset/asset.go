package asset

import "github.com/shopspring/decimal"

// ID uniquely identifies a tradable asset within a session.
type ID string

// Regime selects which price-movement distribution an asset follows.
type Regime uint8

const (
	// RegimeStandard is a roughly symmetric random walk scaled by
	// volatility, centered slightly below zero.
	RegimeStandard Regime = iota
	// RegimeBullish is the asymmetric tutorial distribution: mostly
	// upward moves of larger magnitude, occasional smaller dips.
	RegimeBullish
)

func (r Regime) String() string {
	switch r {
	case RegimeStandard:
		return "STANDARD"
	case RegimeBullish:
		return "BULLISH"
	default:
		return "UNKNOWN"
	}
}

// Config describes one tradable instrument before a session starts.
type Config struct {
	ID         ID
	Name       string
	Price      float64 // initial price
	Volatility float64 // percent scale per refresh; 0 means DefaultVolatility
	MaxPrice   float64 // valuation ceiling; 0 means uncapped
	Valuation  bool    // display hint for private-company style assets
	Regime     Regime
}

// DefaultVolatility is used when a Config leaves Volatility unset.
const DefaultVolatility = 0.8

// Asset is the live per-session state of one instrument.
type Asset struct {
	Config

	InitialPrice float64

	// Position
	Quantity int64
	AvgCost  decimal.Decimal // defined iff Quantity > 0

	// Display, recomputed every price refresh
	ChangePct float64
	Gain      bool
}

// New creates a session Asset from its configuration.
func New(cfg Config) Asset {
	if cfg.Volatility <= 0 {
		cfg.Volatility = DefaultVolatility
	}
	return Asset{
		Config:       cfg,
		InitialPrice: cfg.Price,
	}
}

// Owned reports whether the player currently holds any units.
func (a *Asset) Owned() bool { return a.Quantity > 0 }

// MarketValue returns Price × Quantity as cent-rounded money.
func (a *Asset) MarketValue() decimal.Decimal {
	if a.Quantity == 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(a.Price).Round(2).Mul(decimal.NewFromInt(a.Quantity))
}
