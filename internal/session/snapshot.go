package session

import (
	"github.com/shopspring/decimal"

	"github.com/Mubymubu/Iqtisad/internal/asset"
	"github.com/Mubymubu/Iqtisad/internal/ledger"
	"github.com/Mubymubu/Iqtisad/internal/news"
)

// Snapshot is the read-only view of session state handed to the
// presentation layer. It shares no mutable memory with the session.
type Snapshot struct {
	LevelID       string
	Phase         Phase
	Paused        bool
	TimeRemaining int64
	Duration      int64

	Assets []asset.Asset

	StartingBalance decimal.Decimal
	Cash            decimal.Decimal
	PortfolioValue  decimal.Decimal
	NetWorth        decimal.Decimal
	MaxNetWorth     decimal.Decimal
	MinNetWorth     decimal.Decimal

	TradeCount  int
	ActiveEvent *news.Event
	Headlines   []news.Event

	StarRating int
	GoalBased  bool
	ProfitGoal decimal.Decimal
}

// Snapshot builds a point-in-time copy of the session.
func (s *Session) Snapshot() Snapshot {
	assets := make([]asset.Asset, len(s.assets))
	copy(assets, s.assets)

	var ev *news.Event
	if s.activeEvent != nil {
		c := *s.activeEvent
		ev = &c
	}

	pv := ledger.PortfolioValue(s.assets)
	return Snapshot{
		LevelID:         s.cfg.LevelID,
		Phase:           s.phase,
		Paused:          s.paused,
		TimeRemaining:   s.timeRemaining,
		Duration:        s.cfg.Duration,
		Assets:          assets,
		StartingBalance: s.book.StartingBalance(),
		Cash:            s.book.Cash(),
		PortfolioValue:  pv,
		NetWorth:        s.book.Cash().Add(pv),
		MaxNetWorth:     s.book.MaxNetWorth(),
		MinNetWorth:     s.book.MinNetWorth(),
		TradeCount:      s.book.TradeCount(),
		ActiveEvent:     ev,
		Headlines:       s.tape.Latest(s.tape.Count()),
		StarRating:      s.stars,
		GoalBased:       s.cfg.GoalBased(),
		ProfitGoal:      s.cfg.ProfitGoal,
	}
}
