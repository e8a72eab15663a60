package session

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/repgate/repgate/internal/engine"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store handles database operations for workout sessions and rep events.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the sqlite database at path and applies any
// pending migrations.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session db: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewStore wraps an already-open database handle and applies migrations.
// Intended for tests that manage the handle themselves.
func NewStore(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.migrateUp(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrateUp runs all pending embedded migrations.
func (s *Store) migrateUp() error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load embedded migrations: %w", err)
	}

	driver, err := migratesqlite.WithInstance(s.db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	// Note: we don't close m because it would close the underlying DB
	// connection.

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// InsertSession inserts a new session row.
func (s *Store) InsertSession(sess *Session) error {
	_, err := s.db.Exec(`
		INSERT INTO workout_sessions (session_id, exercise, start_unix, rep_count, seconds_held, frame_count)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sess.SessionID, string(sess.Exercise), sess.StartUnix, sess.RepCount, sess.SecondsHeld, sess.FrameCount)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// FinishSession writes the end-of-session fields back to the session row.
func (s *Store) FinishSession(sess *Session) error {
	res, err := s.db.Exec(`
		UPDATE workout_sessions
		SET end_unix = ?, rep_count = ?, seconds_held = ?, frame_count = ?
		WHERE session_id = ?
	`, sess.EndUnix, sess.RepCount, sess.SecondsHeld, sess.FrameCount, sess.SessionID)
	if err != nil {
		return fmt.Errorf("failed to finish session: %w", err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("no session with id %s", sess.SessionID)
	}
	return nil
}

// InsertRepEvent inserts a rep event and fills in its assigned EventID.
func (s *Store) InsertRepEvent(e *RepEvent) error {
	res, err := s.db.Exec(`
		INSERT INTO rep_events (session_id, rep_number, at_unix, metric_deg)
		VALUES (?, ?, ?, ?)
	`, e.SessionID, e.RepNumber, e.AtUnix, e.MetricDeg)
	if err != nil {
		return fmt.Errorf("failed to insert rep event: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		e.EventID = id
	}
	return nil
}

// GetSession returns one session by id.
func (s *Store) GetSession(sessionID string) (*Session, error) {
	row := s.db.QueryRow(`
		SELECT session_id, exercise, start_unix, COALESCE(end_unix, 0), rep_count, seconds_held, frame_count
		FROM workout_sessions WHERE session_id = ?
	`, sessionID)

	var sess Session
	var exercise string
	if err := row.Scan(&sess.SessionID, &exercise, &sess.StartUnix, &sess.EndUnix,
		&sess.RepCount, &sess.SecondsHeld, &sess.FrameCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no session with id %s", sessionID)
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	sess.Exercise = engine.Exercise(exercise)
	return &sess, nil
}

// ListSessions returns the most recent sessions, newest first.
func (s *Store) ListSessions(limit int) ([]*Session, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT session_id, exercise, start_unix, COALESCE(end_unix, 0), rep_count, seconds_held, frame_count
		FROM workout_sessions ORDER BY start_unix DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		var sess Session
		var exercise string
		if err := rows.Scan(&sess.SessionID, &exercise, &sess.StartUnix, &sess.EndUnix,
			&sess.RepCount, &sess.SecondsHeld, &sess.FrameCount); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sess.Exercise = engine.Exercise(exercise)
		sessions = append(sessions, &sess)
	}
	return sessions, rows.Err()
}

// ListRepEvents returns a session's rep events in rep order.
func (s *Store) ListRepEvents(sessionID string) ([]RepEvent, error) {
	rows, err := s.db.Query(`
		SELECT event_id, session_id, rep_number, at_unix, COALESCE(metric_deg, 0)
		FROM rep_events WHERE session_id = ? ORDER BY rep_number
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rep events: %w", err)
	}
	defer rows.Close()

	var events []RepEvent
	for rows.Next() {
		var e RepEvent
		if err := rows.Scan(&e.EventID, &e.SessionID, &e.RepNumber, &e.AtUnix, &e.MetricDeg); err != nil {
			return nil, fmt.Errorf("failed to scan rep event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Summary assembles a finished session's aggregate statistics.
func (s *Store) Summary(sessionID string) (Summary, error) {
	sess, err := s.GetSession(sessionID)
	if err != nil {
		return Summary{}, err
	}
	events, err := s.ListRepEvents(sessionID)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(*sess, events), nil
}
