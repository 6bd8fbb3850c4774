// Package progress persists the best-ever star rating per level. It is
// a best-effort collaborator: the session core never depends on a save
// succeeding.
package progress

import "context"

// Store is the persistence interface the session service talks to.
type Store interface {
	// BestStars returns the best rating recorded for a level, 0 when
	// the level was never played.
	BestStars(ctx context.Context, levelID string) (int, error)
	// SaveProgress records stars for a level, keeping the maximum of
	// the existing and new values.
	SaveProgress(ctx context.Context, levelID string, stars int) error
	Close() error
}
