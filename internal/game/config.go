package game

import (
	"github.com/Mubymubu/Iqtisad/internal/levels"
	"github.com/Mubymubu/Iqtisad/internal/session/service"
)

// Config holds configuration for the game.
type Config struct {
	// LevelID selects which level to play.
	LevelID string
	// ServiceConfig is the configuration for the session service.
	ServiceConfig service.Config
	// ProgressPath is the SQLite file for star persistence; empty
	// disables persistence.
	ProgressPath string
	// Seed fixes the simulation rng; 0 seeds from the wall clock.
	Seed int64
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		LevelID:       levels.Level1,
		ServiceConfig: service.DefaultConfig(),
		ProgressPath:  "iqtisad.db",
	}
}
