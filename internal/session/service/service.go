// Package service drives a session in real time. A single run-loop
// goroutine owns the aggregate: wall ticks and external commands are
// both funneled through it, so every mutation runs to completion
// before the next one starts and no caller ever sees a half-applied
// state.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Mubymubu/Iqtisad/internal/asset"
	"github.com/Mubymubu/Iqtisad/internal/progress"
	"github.com/Mubymubu/Iqtisad/internal/session"
)

// ErrClosed is returned for commands issued after Close.
var ErrClosed = errors.New("session service closed")

// Service wraps a session with a real-time clock, snapshot publication,
// and the best-effort progress side channel.
type Service struct {
	cfg    Config
	sess   *session.Session
	store  progress.Store // nil disables persistence
	logger *slog.Logger

	cmds      chan func()
	snapshots chan session.Snapshot
	dropped   atomic.Int64

	mu   sync.RWMutex
	last session.Snapshot

	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// New creates and starts a Service around sess. store may be nil;
// logger may be nil for slog's default.
func New(sess *session.Session, store progress.Store, cfg Config, logger *slog.Logger) *Service {
	def := DefaultConfig()
	if cfg.UnitDuration <= 0 {
		cfg.UnitDuration = def.UnitDuration
	}
	if cfg.SnapshotBuffer <= 0 {
		cfg.SnapshotBuffer = def.SnapshotBuffer
	}
	if cfg.SaveTimeout <= 0 {
		cfg.SaveTimeout = def.SaveTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Service{
		cfg:       cfg,
		sess:      sess,
		store:     store,
		logger:    logger,
		cmds:      make(chan func(), 16),
		snapshots: make(chan session.Snapshot, cfg.SnapshotBuffer),
		closed:    make(chan struct{}),
	}
	s.last = sess.Snapshot()

	s.wg.Add(1)
	go s.run()
	return s
}

func (s *Service) run() {
	defer s.wg.Done()
	defer close(s.snapshots)

	ticker := time.NewTicker(s.cfg.UnitDuration)
	defer ticker.Stop()

	for {
		select {
		case <-s.closed:
			return
		case <-ticker.C:
			before := s.sess.Phase()
			s.sess.Advance(1)
			s.afterMutation(before)
		case cmd := <-s.cmds:
			before := s.sess.Phase()
			cmd()
			s.afterMutation(before)
		}
	}
}

// afterMutation publishes the new snapshot and, on the transition into
// debrief, offers the result to the persistence collaborator.
func (s *Service) afterMutation(before session.Phase) {
	snap := s.sess.Snapshot()

	s.mu.Lock()
	s.last = snap
	s.mu.Unlock()

	if before != session.PhaseDebrief && snap.Phase == session.PhaseDebrief {
		s.saveProgress(snap)
	}

	if s.cfg.DropSnapshots {
		select {
		case s.snapshots <- snap:
		default:
			s.dropped.Add(1)
		}
	} else {
		select {
		case s.snapshots <- snap:
		case <-s.closed:
		}
	}
}

// saveProgress is best-effort: failures are logged and absorbed, never
// surfaced into session state.
func (s *Service) saveProgress(snap session.Snapshot) {
	if s.store == nil || snap.LevelID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.SaveTimeout)
	defer cancel()

	if err := s.store.SaveProgress(ctx, snap.LevelID, snap.StarRating); err != nil {
		s.logger.Warn("progress save failed",
			"level", snap.LevelID,
			"stars", snap.StarRating,
			"err", err,
		)
		return
	}
	s.logger.Info("progress saved", "level", snap.LevelID, "stars", snap.StarRating)
}

// do runs fn on the loop goroutine and waits for its result.
func (s *Service) do(fn func() error) error {
	errc := make(chan error, 1)
	select {
	case s.cmds <- func() { errc <- fn() }:
	case <-s.closed:
		return ErrClosed
	}
	select {
	case err := <-errc:
		return err
	case <-s.closed:
		return ErrClosed
	}
}

// Start begins trading.
func (s *Service) Start() error { return s.do(s.sess.Start) }

// Buy purchases one unit of the asset.
func (s *Service) Buy(id asset.ID) error {
	return s.do(func() error { return s.sess.Buy(id) })
}

// Sell sells one unit of the asset.
func (s *Service) Sell(id asset.ID) error {
	return s.do(func() error { return s.sess.Sell(id) })
}

// Pause freezes the session clock.
func (s *Service) Pause() error { return s.do(s.sess.Pause) }

// Resume unfreezes the session clock.
func (s *Service) Resume() error { return s.do(s.sess.Resume) }

// EndGame ends the session early, forcing scoring and the debrief.
func (s *Service) EndGame() error { return s.do(s.sess.EndGame) }

// Reset reinitializes the session from cfg.
func (s *Service) Reset(cfg session.Config) error {
	return s.do(func() error { s.sess.Reset(cfg); return nil })
}

// PlayAgain restarts the session with its original configuration.
func (s *Service) PlayAgain() error {
	return s.do(func() error { s.sess.PlayAgain(); return nil })
}

// Snapshot returns the most recently committed state.
func (s *Service) Snapshot() session.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Snapshots returns the published snapshots channel for subscribers.
func (s *Service) Snapshots() <-chan session.Snapshot {
	return s.snapshots
}

// DroppedSnapshots returns the count of snapshots dropped on overflow.
func (s *Service) DroppedSnapshots() int64 {
	return s.dropped.Load()
}

// BestStars reads the persisted rating for a level, 0 when persistence
// is disabled or fails.
func (s *Service) BestStars(levelID string) int {
	if s.store == nil {
		return 0
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.SaveTimeout)
	defer cancel()
	stars, err := s.store.BestStars(ctx, levelID)
	if err != nil {
		s.logger.Warn("progress read failed", "level", levelID, "err", err)
		return 0
	}
	return stars
}

// Close stops the run loop. The underlying store is not closed; its
// owner does that.
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
	})
	s.wg.Wait()
}
