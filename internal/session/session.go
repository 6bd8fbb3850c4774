// Package session owns the aggregate state of one play-through: phase,
// countdown, assets, ledger, and the event schedule. All methods are
// synchronous state transitions; time only moves when the owner calls
// Advance, so the whole machine is deterministic under an injected rng.
package session

import (
	"errors"
	"math/rand"

	"github.com/shopspring/decimal"

	"github.com/Mubymubu/Iqtisad/internal/asset"
	"github.com/Mubymubu/Iqtisad/internal/clock"
	"github.com/Mubymubu/Iqtisad/internal/ledger"
	"github.com/Mubymubu/Iqtisad/internal/news"
	"github.com/Mubymubu/Iqtisad/internal/pricing"
	"github.com/Mubymubu/Iqtisad/internal/scoring"
)

// Phase is the top-level state of a session.
type Phase uint8

const (
	PhaseIntro Phase = iota
	PhaseTrading
	PhaseDebrief
)

func (p Phase) String() string {
	switch p {
	case PhaseIntro:
		return "INTRO"
	case PhaseTrading:
		return "TRADING"
	case PhaseDebrief:
		return "DEBRIEF"
	default:
		return "UNKNOWN"
	}
}

var (
	// ErrInsufficientFunds signals the one rejection the presentation
	// layer shows distinct feedback for.
	ErrInsufficientFunds = ledger.ErrInsufficientFunds
	// ErrNotTrading covers every generic no-op rejection: wrong phase,
	// paused, unknown asset, nothing to sell.
	ErrNotTrading = errors.New("session not accepting commands")
)

const (
	tickPeriod         = 1 // units between countdown ticks
	priceRefreshPeriod = 2 // units between price refreshes

	// defaultScriptedAt is the remaining-time offset at which a
	// goal-based session fires its single scripted event.
	defaultScriptedAt = 30
)

// Config describes one session (level).
type Config struct {
	LevelID         string
	Assets          []asset.Config
	Duration        int64 // units; <= 0 ends the session on start
	StartingBalance decimal.Decimal
	// ProfitGoal switches the session to the goal-based tutorial
	// variant: binary scoring, no random events, one scripted shock.
	ProfitGoal decimal.Decimal
	Events     news.Config
	Tiers      []scoring.Tier
	// ScriptedEventAt is the remaining-time offset for the goal
	// variant's scripted event; 0 uses the default.
	ScriptedEventAt int64
	TapeSize        int
}

// GoalBased reports whether this is a goal-based tutorial session.
func (c Config) GoalBased() bool { return c.ProfitGoal.IsPositive() }

// Session is the aggregate root. It is not safe for concurrent use;
// the service in session/service serializes access on its run loop.
type Session struct {
	cfg Config
	rng *rand.Rand

	sched  *clock.Scheduler
	events *news.Engine
	tape   *news.Tape

	phase         Phase
	paused        bool
	timeRemaining int64
	assets        []asset.Asset
	book          *ledger.Ledger

	activeEvent   *news.Event
	eventHandle   clock.Handle
	clearHandle   clock.Handle
	scriptedFired bool

	stars  int
	scored bool
}

// New creates a Session in the intro phase.
func New(cfg Config, rng *rand.Rand) *Session {
	s := &Session{rng: rng}
	s.init(cfg)
	return s
}

func (s *Session) init(cfg Config) {
	tiers := cfg.Tiers
	if len(tiers) == 0 {
		tiers = scoring.DefaultTiers()
	}
	cfg.Tiers = tiers

	// Reuse the engine across resets of the same event tuning; only
	// its direction contract restarts.
	if s.events != nil && s.cfg.Events == cfg.Events {
		s.events.Reset()
	} else {
		s.events = news.NewEngine(cfg.Events, s.rng)
	}

	s.cfg = cfg
	s.sched = clock.NewScheduler()
	s.tape = news.NewTape(cfg.TapeSize)

	s.phase = PhaseIntro
	s.paused = false
	s.timeRemaining = cfg.Duration
	s.assets = make([]asset.Asset, 0, len(cfg.Assets))
	for _, ac := range cfg.Assets {
		s.assets = append(s.assets, asset.New(ac))
	}
	s.book = ledger.New(cfg.StartingBalance)

	s.activeEvent = nil
	s.scriptedFired = false
	s.stars = 0
	s.scored = false
}

// Config returns the session's configuration.
func (s *Session) Config() Config { return s.cfg }

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// Start begins trading. Valid only from the intro phase. A session
// configured with zero duration ends immediately.
func (s *Session) Start() error {
	if s.phase != PhaseIntro {
		return ErrNotTrading
	}
	s.phase = PhaseTrading
	s.paused = false

	if s.cfg.Duration <= 0 {
		s.finish()
		return nil
	}

	s.sched.Every(tickPeriod, s.onTick)
	s.sched.Every(priceRefreshPeriod, s.onPriceRefresh)
	if !s.cfg.GoalBased() && len(s.assets) > 0 {
		s.armEventSchedule()
	}
	return nil
}

// Advance moves the session forward by n wall units. Frozen while
// paused or outside trading: no catch-up happens on resume.
func (s *Session) Advance(n int64) {
	if s.phase != PhaseTrading || s.paused {
		return
	}
	s.sched.Advance(n)
}

// Pause freezes the clock. Valid only while trading.
func (s *Session) Pause() error {
	if s.phase != PhaseTrading {
		return ErrNotTrading
	}
	s.paused = true
	return nil
}

// Resume unfreezes the clock. Valid only while trading.
func (s *Session) Resume() error {
	if s.phase != PhaseTrading {
		return ErrNotTrading
	}
	s.paused = false
	return nil
}

// EndGame forces scoring and the debrief. Valid only while trading.
func (s *Session) EndGame() error {
	if s.phase != PhaseTrading {
		return ErrNotTrading
	}
	s.finish()
	return nil
}

// Reset reinitializes the session from cfg, returning to intro. Valid
// from any phase. Calling it twice in a row is the same as once.
func (s *Session) Reset(cfg Config) {
	s.sched.StopAll()
	s.init(cfg)
}

// PlayAgain resets using the session's own original configuration, so
// prices return to each asset's initial price.
func (s *Session) PlayAgain() {
	s.Reset(s.cfg)
}

// Buy purchases one unit of the asset at its current price.
func (s *Session) Buy(id asset.ID) error {
	if s.phase != PhaseTrading || s.paused {
		return ErrNotTrading
	}
	a := s.findAsset(id)
	if a == nil {
		return ErrNotTrading
	}
	if _, err := s.book.Buy(a, s.sched.Now()); err != nil {
		return err
	}
	s.observe()
	return nil
}

// Sell sells one unit of the asset at its current price.
func (s *Session) Sell(id asset.ID) error {
	if s.phase != PhaseTrading || s.paused {
		return ErrNotTrading
	}
	a := s.findAsset(id)
	if a == nil {
		return ErrNotTrading
	}
	if _, err := s.book.Sell(a, s.sched.Now()); err != nil {
		// Nothing to sell is a generic no-op, not a user-facing error.
		return ErrNotTrading
	}
	s.observe()
	return nil
}

func (s *Session) findAsset(id asset.ID) *asset.Asset {
	for i := range s.assets {
		if s.assets[i].ID == id {
			return &s.assets[i]
		}
	}
	return nil
}

// observe recomputes net worth and folds it into the running extremes.
func (s *Session) observe() {
	s.book.ObserveNetWorth(s.book.NetWorth(s.assets))
}

func (s *Session) onTick() {
	s.timeRemaining--
	if s.timeRemaining <= 0 {
		s.finish()
		return
	}
	if s.cfg.GoalBased() && !s.scriptedFired && len(s.assets) > 0 {
		at := s.cfg.ScriptedEventAt
		if at <= 0 {
			at = defaultScriptedAt
		}
		if s.timeRemaining == at {
			s.scriptedFired = true
			s.publishEvent(news.Scripted(s.assets[0], s.sched.Now()))
		}
	}
}

func (s *Session) onPriceRefresh() {
	// Normal drift is suspended for the whole refresh while a scripted
	// shock is on display.
	if s.activeEvent != nil {
		return
	}
	cash, _ := s.book.Cash().Float64()
	for i := range s.assets {
		pricing.Apply(&s.assets[i], cash, s.rng)
	}
	s.observe()
}

func (s *Session) armEventSchedule() {
	s.eventHandle = s.sched.After(s.events.NextInterval(), s.fireEvent)
}

func (s *Session) fireEvent() {
	if s.activeEvent != nil {
		return
	}
	ev := s.events.Next(s.assets, s.sched.Now())
	if ev == nil {
		return
	}
	s.publishEvent(ev)
}

// publishEvent applies the shock once, immediately, and schedules the
// auto-clear that re-arms the event cadence.
func (s *Session) publishEvent(ev *news.Event) {
	a := s.findAsset(ev.AssetID)
	if a == nil {
		return
	}

	next := a.Price * (1 + ev.Impact)
	if a.MaxPrice > 0 && next > a.MaxPrice {
		next = a.MaxPrice
	}
	if next < pricing.Floor {
		next = pricing.Floor
	}
	a.ChangePct = (next - a.Price) / a.Price * 100
	a.Gain = a.ChangePct >= 0
	a.Price = next

	s.activeEvent = ev
	s.tape.Append(*ev)
	s.observe()

	window := s.events.Config().DisplayWindow
	s.clearHandle = s.sched.After(window, s.clearEvent)
}

func (s *Session) clearEvent() {
	s.activeEvent = nil
	if !s.cfg.GoalBased() {
		s.armEventSchedule()
	}
}

// finish scores exactly once and enters debrief, cancelling every
// pending timer including an in-flight event auto-clear.
func (s *Session) finish() {
	if s.phase == PhaseDebrief {
		return
	}
	if s.timeRemaining < 0 {
		s.timeRemaining = 0
	}
	s.sched.StopAll()
	s.activeEvent = nil

	if !s.scored {
		s.scored = true
		s.observe()
		in := scoring.Input{
			FinalNetWorth:   s.book.NetWorth(s.assets),
			StartingBalance: s.book.StartingBalance(),
			TradeCount:      s.book.TradeCount(),
			MaxNetWorth:     s.book.MaxNetWorth(),
			MinNetWorth:     s.book.MinNetWorth(),
		}
		in.SellWins, in.SellCount = s.book.SellStats()

		if s.cfg.GoalBased() {
			s.stars = scoring.Goal(in, s.cfg.ProfitGoal)
		} else {
			s.stars = scoring.Tiered(s.cfg.Tiers, in)
		}
	}
	s.phase = PhaseDebrief
}
