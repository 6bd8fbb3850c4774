// Package game wires the session service and the progress store into
// one lifecycle.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/Mubymubu/Iqtisad/internal/levels"
	"github.com/Mubymubu/Iqtisad/internal/progress"
	"github.com/Mubymubu/Iqtisad/internal/session"
	"github.com/Mubymubu/Iqtisad/internal/session/service"
)

// Game owns all the game subsystems and manages their lifecycle.
type Game struct {
	Session *service.Service
	Store   progress.Store

	cfg Config
	mu  sync.Mutex
}

// NewGame creates a new Game for the configured level. A progress
// store that fails to open disables persistence instead of aborting;
// stars are only saved best-effort.
func NewGame(cfg Config, logger *slog.Logger) (*Game, error) {
	if logger == nil {
		logger = slog.Default()
	}

	levelCfg, err := levels.Get(cfg.LevelID)
	if err != nil {
		return nil, fmt.Errorf("resolve level: %w", err)
	}

	g := &Game{cfg: cfg}

	if cfg.ProgressPath != "" {
		store, err := progress.OpenSQLite(cfg.ProgressPath)
		if err != nil {
			logger.Warn("progress store unavailable, continuing without persistence", "err", err)
		} else {
			g.Store = store
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sess := session.New(levelCfg, rand.New(rand.NewSource(seed)))
	g.Session = service.New(sess, g.Store, cfg.ServiceConfig, logger)

	return g, nil
}

// Close shuts down the subsystems in reverse dependency order.
func (g *Game) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Session != nil {
		g.Session.Close()
	}
	if g.Store != nil {
		g.Store.Close()
	}
}
