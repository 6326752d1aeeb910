package checkpoint

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/chirp/internal/domain"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS checkpoints (
	agent            TEXT PRIMARY KEY,
	mention_cursor   TEXT NOT NULL DEFAULT '',
	dm_cursor        TEXT NOT NULL DEFAULT '',
	daily_post_count INTEGER NOT NULL DEFAULT 0,
	window_start     TIMESTAMP NOT NULL
);`

// SQLiteStore keeps one checkpoint row per agent in a local database file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if necessary creates) the checkpoint database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize checkpoint schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Load(ctx context.Context, agent string) (domain.Checkpoint, error) {
	var (
		cp          domain.Checkpoint
		mention     string
		dm          string
		windowStart time.Time
	)

	err := s.db.QueryRowContext(ctx,
		"SELECT mention_cursor, dm_cursor, daily_post_count, window_start FROM checkpoints WHERE agent = ?",
		agent,
	).Scan(&mention, &dm, &cp.DailyPostCount, &windowStart)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.Checkpoint{}, nil
	}
	if err != nil {
		return domain.Checkpoint{}, fmt.Errorf("failed to load checkpoint: %w", err)
	}

	cp.MentionCursor = domain.TweetID(mention)
	cp.DMCursor = domain.MessageID(dm)
	cp.WindowStart = windowStart
	return cp, nil
}

func (s *SQLiteStore) Save(ctx context.Context, agent string, cp domain.Checkpoint) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO checkpoints (agent, mention_cursor, dm_cursor, daily_post_count, window_start)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(agent) DO UPDATE SET
			mention_cursor = excluded.mention_cursor,
			dm_cursor = excluded.dm_cursor,
			daily_post_count = excluded.daily_post_count,
			window_start = excluded.window_start`,
		agent, string(cp.MentionCursor), string(cp.DMCursor), cp.DailyPostCount, cp.WindowStart,
	)
	if err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}
