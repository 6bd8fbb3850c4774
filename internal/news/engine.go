// Package news generates the scripted market shocks that punctuate a
// trading session. The engine owns headline selection, target choice,
// magnitude, and the first-positive/second-negative direction contract;
// scheduling and price application belong to the session.
package news

import (
	"fmt"
	"math/rand"

	"github.com/Mubymubu/Iqtisad/internal/asset"
)

// Config holds tuning for the event engine. Intervals and windows are
// in session time units.
type Config struct {
	// MinInterval and MaxInterval bound the randomized gap between
	// events, including the first one.
	MinInterval int64
	MaxInterval int64
	// DisplayWindow is how long an event stays active (and visible)
	// before it clears and the schedule re-arms.
	DisplayWindow int64
	// MinImpact and MaxImpact bound the unsigned shock magnitude.
	MinImpact float64
	MaxImpact float64
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		MinInterval:   30,
		MaxInterval:   45,
		DisplayWindow: 5,
		MinImpact:     0.10,
		MaxImpact:     0.25,
	}
}

// Headline pools per direction. Positive leans merger/growth themes,
// negative leans breach/regulatory themes.
var (
	positiveHeadlines = []string{
		"%s announces merger talks with sector leader",
		"%s posts record quarterly growth",
		"%s lands landmark government contract",
		"Analysts upgrade %s on breakthrough product demo",
		"%s expansion into new markets beats expectations",
	}
	negativeHeadlines = []string{
		"%s discloses major data breach",
		"Regulators open probe into %s accounting",
		"%s loses key client to rival",
		"Supply shortage halts %s production lines",
		"%s executive resigns amid controversy",
	}
)

// Engine produces market events. Not safe for concurrent use; the
// session drives it from its own loop.
type Engine struct {
	cfg   Config
	rng   *rand.Rand
	fired int
}

// NewEngine creates an Engine. Fields of cfg left at zero fall back to
// DefaultConfig values.
func NewEngine(cfg Config, rng *rand.Rand) *Engine {
	def := DefaultConfig()
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = def.MinInterval
	}
	if cfg.MaxInterval < cfg.MinInterval {
		cfg.MaxInterval = cfg.MinInterval
	}
	if cfg.DisplayWindow <= 0 {
		cfg.DisplayWindow = def.DisplayWindow
	}
	if cfg.MinImpact <= 0 {
		cfg.MinImpact = def.MinImpact
	}
	if cfg.MaxImpact < cfg.MinImpact {
		cfg.MaxImpact = cfg.MinImpact
	}
	return &Engine{cfg: cfg, rng: rng}
}

// Config returns the engine's effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// NextInterval draws the gap, in units, until the next event is due.
func (e *Engine) NextInterval() int64 {
	span := e.cfg.MaxInterval - e.cfg.MinInterval
	if span == 0 {
		return e.cfg.MinInterval
	}
	return e.cfg.MinInterval + e.rng.Int63n(span+1)
}

// Fired returns how many events this engine has produced.
func (e *Engine) Fired() int { return e.fired }

// Reset clears the fired counter so the direction contract restarts.
func (e *Engine) Reset() { e.fired = 0 }

// Next produces the next event for the given assets, or nil when no
// assets exist. The first event of a session is always positive and the
// second always negative; later events flip a coin.
func (e *Engine) Next(assets []asset.Asset, now int64) *Event {
	if len(assets) == 0 {
		return nil
	}

	target := assets[e.rng.Intn(len(assets))]

	var dir Direction
	switch e.fired {
	case 0:
		dir = DirectionPositive
	case 1:
		dir = DirectionNegative
	default:
		if e.rng.Float64() < 0.5 {
			dir = DirectionPositive
		} else {
			dir = DirectionNegative
		}
	}

	magnitude := e.cfg.MinImpact + e.rng.Float64()*(e.cfg.MaxImpact-e.cfg.MinImpact)
	impact := magnitude
	pool := positiveHeadlines
	if dir == DirectionNegative {
		impact = -magnitude
		pool = negativeHeadlines
	}

	e.fired++
	return &Event{
		Headline:  fmt.Sprintf(pool[e.rng.Intn(len(pool))], target.Name),
		AssetID:   target.ID,
		AssetName: target.Name,
		Impact:    impact,
		Direction: dir,
		Time:      now,
	}
}

// Scripted builds the single hardcoded tutorial event: a forced
// positive shock on the given asset.
func Scripted(target asset.Asset, now int64) *Event {
	return &Event{
		Headline:  fmt.Sprintf("Early adopters flock to %s", target.Name),
		AssetID:   target.ID,
		AssetName: target.Name,
		Impact:    0.10,
		Direction: DirectionPositive,
		Time:      now,
	}
}
