// Package levels defines the closed set of playable sessions: the
// onboarding tutorial plus three themed levels of rising volatility
// and stakes.
package levels

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Mubymubu/Iqtisad/internal/asset"
	"github.com/Mubymubu/Iqtisad/internal/session"
)

// Level IDs. The persistence collaborator keys progress by these.
const (
	Tutorial = "tutorial"
	Level1   = "level1"
	Level2   = "level2"
	Level3   = "level3"
)

// Tutorial: one calm, upward-biased asset, one minute, a $5 profit
// goal. Levels: tech stocks, venture valuations (capped), crypto.
func configs() map[string]session.Config {
	return map[string]session.Config{
		Tutorial: {
			LevelID: Tutorial,
			Assets: []asset.Config{
				{ID: "TUT", Name: "Tutorial Asset (TUT)", Price: 53.00, Volatility: 0.5, Regime: asset.RegimeBullish},
			},
			Duration:        60,
			StartingBalance: decimal.NewFromInt(100),
			ProfitGoal:      decimal.NewFromInt(5),
		},
		Level1: {
			LevelID: Level1,
			Assets: []asset.Config{
				{ID: "AUREX", Name: "AUREX COMPUTING", Price: 1200, Volatility: 0.8},
				{ID: "VANTIQ", Name: "VANTIQ LABS", Price: 850.72, Volatility: 0.7},
				{ID: "SYNERON", Name: "SYNERON AI", Price: 949.28, Volatility: 0.9},
				{ID: "KALYX", Name: "KALYX DATAWORKS", Price: 1004.59, Volatility: 1.1},
			},
			Duration:        120,
			StartingBalance: decimal.NewFromInt(10000),
		},
		Level2: {
			LevelID: Level2,
			Assets: []asset.Config{
				{ID: "SEED", Name: "SEEDLINE BIOTECH", Price: 15000, Volatility: 0.5, MaxPrice: 25000, Valuation: true},
				{ID: "ORBIT", Name: "ORBITA ENERGY", Price: 22000, Volatility: 0.8, MaxPrice: 25000, Valuation: true},
				{ID: "NEX", Name: "NEXFIELD MOBILITY", Price: 18000, Volatility: 0.6, MaxPrice: 25000, Valuation: true},
				{ID: "CORTEXA", Name: "CORTEXA HEALTH", Price: 20000, Volatility: 0.4, MaxPrice: 25000, Valuation: true},
			},
			Duration:        180,
			StartingBalance: decimal.NewFromInt(100000),
		},
		Level3: {
			LevelID: Level3,
			Assets: []asset.Config{
				{ID: "ZYNT", Name: "ZYNTRA", Price: 69410, Volatility: 1.5},
				{ID: "HEX", Name: "HEXIUM", Price: 41670.92, Volatility: 1.8},
				{ID: "LEDG", Name: "LEDGERA", Price: 15700.89, Volatility: 2.2},
				{ID: "CRYPT", Name: "CRYPTONEX", Price: 100000, Volatility: 2.5},
			},
			Duration:        420,
			StartingBalance: decimal.NewFromInt(500000),
		},
	}
}

// Get returns the configuration for a level id.
func Get(id string) (session.Config, error) {
	cfg, ok := configs()[id]
	if !ok {
		return session.Config{}, fmt.Errorf("unknown level %q", id)
	}
	return cfg, nil
}

// IDs returns all level ids in play order.
func IDs() []string {
	ids := make([]string, 0, 4)
	for id := range configs() {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return order(ids[i]) < order(ids[j]) })
	return ids
}

// Previous returns the level that must be cleared (at least one star)
// before id unlocks, or "" when id is open from the start. The
// tutorial and level1 are always open.
func Previous(id string) string {
	switch id {
	case Level2:
		return Level1
	case Level3:
		return Level2
	}
	return ""
}

func order(id string) int {
	switch id {
	case Tutorial:
		return 0
	case Level1:
		return 1
	case Level2:
		return 2
	case Level3:
		return 3
	default:
		return 4
	}
}
