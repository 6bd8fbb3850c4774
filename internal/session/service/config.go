package service

import "time"

// Config holds configuration for the session service.
type Config struct {
	// UnitDuration is the wall-clock length of one session time unit.
	UnitDuration time.Duration
	// SnapshotBuffer is the size of the published snapshots channel.
	SnapshotBuffer int
	// DropSnapshots determines whether the snapshots channel drops on
	// overflow instead of blocking the loop.
	DropSnapshots bool
	// SaveTimeout bounds each best-effort progress save.
	SaveTimeout time.Duration
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		UnitDuration:   time.Second,
		SnapshotBuffer: 64,
		DropSnapshots:  true,
		SaveTimeout:    2 * time.Second,
	}
}
