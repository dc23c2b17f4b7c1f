package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/joss/ari/internal/memory"
)

// Archive is a sqlite-backed long-term copy of superseded sessions and
// their transcripts. It only ever adds or updates rows; retention and
// cleanup stay outside this subsystem.
type Archive struct {
	db     *sql.DB
	path   string
	closed bool
}

// OpenArchive opens (and migrates) the archive database under dir.
func OpenArchive(dir string) (*Archive, error) {
	dbPath := filepath.Join(dir, "archive.db")
	db, err := sql.Open("sqlite3", dbPath+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return nil, &IOError{Op: "open database", Path: dbPath, Err: err}
	}

	a := &Archive{db: db, path: dbPath}
	if err := a.migrate(); err != nil {
		db.Close()
		return nil, &IOError{Op: "migrate", Path: dbPath, Err: err}
	}
	return a, nil
}

func (a *Archive) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		session_id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		start_time DATETIME NOT NULL,
		last_interaction DATETIME NOT NULL,
		conversation_count INTEGER NOT NULL DEFAULT 0,
		topics_json TEXT NOT NULL,
		moods_json TEXT NOT NULL,
		keywords_json TEXT NOT NULL,
		archived_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_last ON sessions(last_interaction DESC);

	CREATE TABLE IF NOT EXISTS turns (
		session_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		timestamp DATETIME NOT NULL,
		user_input TEXT NOT NULL,
		ari_response TEXT NOT NULL,
		response_type TEXT NOT NULL,
		success INTEGER NOT NULL,
		PRIMARY KEY (session_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session_id);
	`
	_, err := a.db.Exec(schema)
	return err
}

// Close releases the database handle. Further calls on the archive return
// ErrClosed.
func (a *Archive) Close() error {
	a.closed = true
	return a.db.Close()
}

// Path returns the archive database location.
func (a *Archive) Path() string {
	return a.path
}

// ArchiveSession upserts a session's metadata and its turns. Re-archiving
// the same session replaces its row and overlapping turn positions, so the
// call is idempotent.
func (a *Archive) ArchiveSession(ctx context.Context, s *memory.Session, turns []memory.ConversationTurn) error {
	if a.closed {
		return ErrClosed
	}
	topicsJSON, _ := json.Marshal(s.Topics)
	moodsJSON, _ := json.Marshal(s.MoodIndicators)
	keywordsJSON, _ := json.Marshal(s.ContextKeywords)

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (session_id, user_id, start_time, last_interaction,
							  conversation_count, topics_json, moods_json, keywords_json, archived_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(session_id) DO UPDATE SET
			last_interaction = excluded.last_interaction,
			conversation_count = excluded.conversation_count,
			topics_json = excluded.topics_json,
			moods_json = excluded.moods_json,
			keywords_json = excluded.keywords_json,
			archived_at = excluded.archived_at
	`, s.SessionID, s.UserID, s.StartTime, s.LastInteraction,
		s.ConversationCount, topicsJSON, moodsJSON, keywordsJSON)
	if err != nil {
		return err
	}

	for _, t := range turns {
		_, err = tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO turns (session_id, position, timestamp, user_input,
										  ari_response, response_type, success)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, s.SessionID, t.Position, t.Timestamp, t.UserInput,
			t.AriResponse, t.ResponseType, t.Success)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ArchivedSessions lists archived session metadata, most recent first.
func (a *Archive) ArchivedSessions(ctx context.Context, limit int) ([]*memory.Session, error) {
	if a.closed {
		return nil, ErrClosed
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := a.db.QueryContext(ctx, `
		SELECT session_id, user_id, start_time, last_interaction,
			   conversation_count, topics_json, moods_json, keywords_json
		FROM sessions ORDER BY last_interaction DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*memory.Session
	for rows.Next() {
		var s memory.Session
		var topicsJSON, moodsJSON, keywordsJSON string

		if err := rows.Scan(&s.SessionID, &s.UserID, &s.StartTime, &s.LastInteraction,
			&s.ConversationCount, &topicsJSON, &moodsJSON, &keywordsJSON); err != nil {
			return nil, err
		}
		json.Unmarshal([]byte(topicsJSON), &s.Topics)
		json.Unmarshal([]byte(moodsJSON), &s.MoodIndicators)
		json.Unmarshal([]byte(keywordsJSON), &s.ContextKeywords)
		sessions = append(sessions, &s)
	}
	return sessions, rows.Err()
}

// ArchivedTurns returns the archived transcript for a session in position
// order.
func (a *Archive) ArchivedTurns(ctx context.Context, sessionID string) ([]memory.ConversationTurn, error) {
	if a.closed {
		return nil, ErrClosed
	}
	rows, err := a.db.QueryContext(ctx, `
		SELECT position, timestamp, user_input, ari_response, response_type, success
		FROM turns WHERE session_id = ? ORDER BY position ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []memory.ConversationTurn
	for rows.Next() {
		var t memory.ConversationTurn
		if err := rows.Scan(&t.Position, &t.Timestamp, &t.UserInput,
			&t.AriResponse, &t.ResponseType, &t.Success); err != nil {
			return nil, err
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}
