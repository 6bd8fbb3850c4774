// Package pricing advances asset prices between refreshes. The model is
// a volatility-scaled multiplicative random walk with a hard floor, an
// optional valuation ceiling, and an affordability guard that keeps
// every asset reachable for the player.
package pricing

import (
	"math/rand"

	"github.com/Mubymubu/Iqtisad/internal/asset"
)

// Floor is the minimum price any asset can reach.
const Floor = 1.0

// Result describes one price step.
type Result struct {
	Price     float64
	ChangePct float64 // old vs new, in percent
	Gain      bool
}

// Step computes the next price for a single asset. It is a pure
// function of the asset's previous price and attributes plus the
// player's cash; the only state is the caller's rng.
func Step(a *asset.Asset, cash float64, rng *rand.Rand) Result {
	old := a.Price
	next := old * (1 + drawDelta(a, rng)/100)

	if a.MaxPrice > 0 && next > a.MaxPrice {
		// Randomized pullback below the ceiling, not a hard plateau.
		next = a.MaxPrice * (0.92 + 0.06*rng.Float64())
	}

	// An unowned, uncapped asset must never outrun the player's cash,
	// or they could be locked out of the market for the whole session.
	if !a.Owned() && a.MaxPrice == 0 && next > cash && cash > Floor {
		next = cash * (0.75 + 0.20*rng.Float64())
	}

	if next < Floor {
		next = Floor
	}

	pct := 0.0
	if old > 0 {
		pct = (next - old) / old * 100
	}
	return Result{Price: next, ChangePct: pct, Gain: pct >= 0}
}

// drawDelta returns the raw percent move for this step.
func drawDelta(a *asset.Asset, rng *rand.Rand) float64 {
	vol := a.Volatility
	if vol <= 0 {
		vol = asset.DefaultVolatility
	}

	switch a.Regime {
	case asset.RegimeBullish:
		// Mostly-positive demo walk: 70% larger up moves, 30% small dips.
		if rng.Float64() < 0.7 {
			return (0.5 + 1.5*rng.Float64()) * vol
		}
		return -0.5 * rng.Float64() * vol
	default:
		// Slight negative center keeps long runs from inflating.
		return (rng.Float64() - 0.49) * vol
	}
}

// Apply runs Step and writes the result back onto the asset.
func Apply(a *asset.Asset, cash float64, rng *rand.Rand) {
	r := Step(a, cash, rng)
	a.Price = r.Price
	a.ChangePct = r.ChangePct
	a.Gain = r.Gain
}
