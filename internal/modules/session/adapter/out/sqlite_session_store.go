package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"flowdash/internal/modules/session/domain"
	sessionout "flowdash/internal/modules/session/port/out"

	_ "modernc.org/sqlite"
)

// SQLiteSessionStore is the primary session backend. Timestamps are stored as
// integer unix milliseconds so ordering survives round trips exactly.
type SQLiteSessionStore struct {
	db *sql.DB
}

func NewSQLiteSessionStore(dbPath string) (sessionout.SessionStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteSessionStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteSessionStore) Name() string { return "sqlite" }

func (s *SQLiteSessionStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  goal TEXT NOT NULL,
  tag_id TEXT,
  start_time INTEGER NOT NULL,
  end_time INTEGER NOT NULL,
  lead_time_minutes INTEGER NOT NULL,
  flow_score INTEGER NOT NULL,
  interruptions INTEGER NOT NULL,
  shipped INTEGER NOT NULL,
  bn_thinking INTEGER NOT NULL,
  bn_coding INTEGER NOT NULL,
  bn_debugging INTEGER NOT NULL,
  bn_waiting INTEGER NOT NULL,
  notes TEXT
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) LoadAll(ctx context.Context) ([]domain.Session, error) {
	const query = `
SELECT id, goal, tag_id, start_time, end_time, lead_time_minutes, flow_score,
       interruptions, shipped, bn_thinking, bn_coding, bn_debugging, bn_waiting, notes
FROM sessions
ORDER BY end_time DESC;
`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		var (
			session        domain.Session
			tagID, notes   sql.NullString
			startMS, endMS int64
			shipped        int
		)
		if err := rows.Scan(
			&session.ID,
			&session.Goal,
			&tagID,
			&startMS,
			&endMS,
			&session.LeadTimeMinutes,
			&session.FlowScore,
			&session.Interruptions,
			&shipped,
			&session.Bottleneck.Thinking,
			&session.Bottleneck.Coding,
			&session.Bottleneck.Debugging,
			&session.Bottleneck.Waiting,
			&notes,
		); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		session.TagID = tagID.String
		session.Notes = notes.String
		session.StartTime = time.UnixMilli(startMS)
		session.EndTime = time.UnixMilli(endMS)
		session.Shipped = shipped != 0
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

func (s *SQLiteSessionStore) ReplaceAll(ctx context.Context, sessions []domain.Session) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin session write: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return fmt.Errorf("clear sessions: %w", err)
	}

	const stmt = `
INSERT INTO sessions (id, goal, tag_id, start_time, end_time, lead_time_minutes, flow_score,
                      interruptions, shipped, bn_thinking, bn_coding, bn_debugging, bn_waiting, notes)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`
	for _, session := range sessions {
		shipped := 0
		if session.Shipped {
			shipped = 1
		}
		if _, err := tx.ExecContext(ctx, stmt,
			session.ID,
			session.Goal,
			session.TagID,
			session.StartTime.UnixMilli(),
			session.EndTime.UnixMilli(),
			session.LeadTimeMinutes,
			session.FlowScore,
			session.Interruptions,
			shipped,
			session.Bottleneck.Thinking,
			session.Bottleneck.Coding,
			session.Bottleneck.Debugging,
			session.Bottleneck.Waiting,
			session.Notes,
		); err != nil {
			return fmt.Errorf("insert session %s: %w", session.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session write: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) Close() error {
	return s.db.Close()
}
