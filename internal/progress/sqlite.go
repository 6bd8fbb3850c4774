package progress

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps per-level progress in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the progress database at path and
// initializes the schema. WAL keeps the single writer cheap.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS progress (
			level_id   TEXT    PRIMARY KEY,
			stars      INTEGER NOT NULL,
			updated_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
		);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// BestStars returns the recorded rating for a level, 0 if none.
func (s *SQLiteStore) BestStars(ctx context.Context, levelID string) (int, error) {
	var stars int
	err := s.db.QueryRowContext(ctx,
		`SELECT stars FROM progress WHERE level_id = ?`, levelID).Scan(&stars)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("sqlite query: %w", err)
	}
	return stars, nil
}

// SaveProgress upserts max(existing stars, stars) for the level.
func (s *SQLiteStore) SaveProgress(ctx context.Context, levelID string, stars int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO progress (level_id, stars, updated_at)
		VALUES (?, ?, strftime('%s', 'now'))
		ON CONFLICT(level_id) DO UPDATE SET
			stars      = MAX(stars, excluded.stars),
			updated_at = excluded.updated_at
	`, levelID, stars)
	if err != nil {
		return fmt.Errorf("sqlite upsert: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
