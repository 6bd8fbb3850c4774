// Package scoring converts session performance into a star rating.
// Thresholds are configuration, not code: callers pass a tier table
// and the engine only fixes the evaluation order (highest tier first,
// early exit).
package scoring

import "github.com/shopspring/decimal"

// Input is everything the engine reads at session end.
type Input struct {
	FinalNetWorth   decimal.Decimal
	StartingBalance decimal.Decimal
	TradeCount      int
	SellWins        int
	SellCount       int
	MaxNetWorth     decimal.Decimal
	MinNetWorth     decimal.Decimal
}

// Return is the final net worth as a fraction of the starting balance,
// minus one. Zero starting balance yields zero.
func (in Input) Return() float64 {
	if in.StartingBalance.IsZero() {
		return 0
	}
	r, _ := in.FinalNetWorth.Sub(in.StartingBalance).Div(in.StartingBalance).Float64()
	return r
}

// WinRate is winning sells over total sells; 1 when no sells occurred
// so an unconstrained tier never fails on an untraded session.
func (in Input) WinRate() float64 {
	if in.SellCount == 0 {
		return 1
	}
	return float64(in.SellWins) / float64(in.SellCount)
}

// Drawdown derives a drawdown fraction from the running extremes:
// (max − min) / max. Zero when max is not positive.
func (in Input) Drawdown() float64 {
	if !in.MaxNetWorth.IsPositive() {
		return 0
	}
	d, _ := in.MaxNetWorth.Sub(in.MinNetWorth).Div(in.MaxNetWorth).Float64()
	return d
}

// Tier is one rating threshold. All set constraints must hold for the
// tier to apply. MinReturn is strict (any profit beats zero) unless
// BreakEven is set, which relaxes it to >=.
type Tier struct {
	Stars       int
	MinReturn   float64
	BreakEven   bool
	MinTrades   int     // 0 = unconstrained
	MinWinRate  float64 // 0 = unconstrained
	MaxDrawdown float64 // 0 = unconstrained
}

func (t Tier) satisfied(in Input) bool {
	ret := in.Return()
	if t.BreakEven {
		if ret < t.MinReturn {
			return false
		}
	} else if ret <= t.MinReturn {
		return false
	}
	if t.MinTrades > 0 && in.TradeCount < t.MinTrades {
		return false
	}
	if t.MinWinRate > 0 && in.WinRate() < t.MinWinRate {
		return false
	}
	if t.MaxDrawdown > 0 && in.Drawdown() > t.MaxDrawdown {
		return false
	}
	return true
}

// DefaultTiers reproduces the standard table: three stars above 10%
// profit, two for any profit, one for breaking even.
func DefaultTiers() []Tier {
	return []Tier{
		{Stars: 3, MinReturn: 0.10},
		{Stars: 2, MinReturn: 0},
		{Stars: 1, MinReturn: 0, BreakEven: true},
	}
}

// Tiered assigns the highest tier whose constraints hold, else 0.
// Tiers must be ordered highest first; evaluation exits at the first
// match so a lower tier can never override a satisfied higher one.
func Tiered(tiers []Tier, in Input) int {
	for _, t := range tiers {
		if t.satisfied(in) {
			return t.Stars
		}
	}
	return 0
}

// Goal scores a goal-based session: one star when the final net worth
// reaches starting balance plus the profit goal, else zero.
func Goal(in Input, profitGoal decimal.Decimal) int {
	if in.FinalNetWorth.GreaterThanOrEqual(in.StartingBalance.Add(profitGoal)) {
		return 1
	}
	return 0
}
