package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Session is a completed focus session.
type Session struct {
	ID              string  `json:"id"`
	UserID          string  `json:"userId"`
	DurationSeconds int64   `json:"durationSeconds"`
	StartedAt       string  `json:"startedAt"`
	EndedAt         string  `json:"endedAt"`
	Category        *string `json:"category"`
	Notes           *string `json:"notes"`
	CreatedAt       string  `json:"createdAt"`
}

// NewSession holds the fields for RecordSession.
type NewSession struct {
	UserID          string
	DurationSeconds int64
	StartedAt       string // YYYY-MM-DD HH:MM:SS
	EndedAt         string // YYYY-MM-DD HH:MM:SS
	Category        *string
	Notes           *string
}

// DailyStat is the per-(user, date) rollup of focus time.
type DailyStat struct {
	Date              string `json:"date"`
	TotalFocusSeconds int64  `json:"totalFocusSeconds"`
	SessionCount      int64  `json:"sessionCount"`
}

const defaultSessionLimit = 100

const sessionColumns = "id, user_id, duration_seconds, started_at, ended_at, category, notes, created_at"

func scanSession(row interface{ Scan(...any) error }) (*Session, error) {
	sess := &Session{}
	var category, notes sql.NullString
	if err := row.Scan(&sess.ID, &sess.UserID, &sess.DurationSeconds, &sess.StartedAt,
		&sess.EndedAt, &category, &notes, &sess.CreatedAt); err != nil {
		return nil, err
	}
	sess.Category = stringPtr(category)
	sess.Notes = stringPtr(notes)
	return sess, nil
}

func (n NewSession) validate() error {
	if n.DurationSeconds < 0 {
		return fmt.Errorf("%w: duration %d is negative", ErrInvalidInput, n.DurationSeconds)
	}
	if _, err := time.Parse(TimestampLayout, n.StartedAt); err != nil {
		return fmt.Errorf("%w: started_at %q", ErrInvalidInput, n.StartedAt)
	}
	if _, err := time.Parse(TimestampLayout, n.EndedAt); err != nil {
		return fmt.Errorf("%w: ended_at %q", ErrInvalidInput, n.EndedAt)
	}
	return nil
}

// sessionDate is the calendar date a session counts towards: the date part
// of its start timestamp.
func sessionDate(startedAt string) string {
	return startedAt[:len(DateLayout)]
}

// RecordSession stores a session and folds it into the daily rollup for
// its start date. Both writes commit together or not at all.
func (s *Store) RecordSession(n NewSession) (*Session, error) {
	if err := n.validate(); err != nil {
		return nil, fail("recording session", err)
	}

	sess := &Session{
		ID:              newID(),
		UserID:          n.UserID,
		DurationSeconds: n.DurationSeconds,
		StartedAt:       n.StartedAt,
		EndedAt:         n.EndedAt,
		Category:        n.Category,
		Notes:           n.Notes,
		CreatedAt:       s.timestamp(),
	}

	err := s.guard.tx(func(tx *sql.Tx) error {
		ok, err := userExists(tx, sess.UserID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("user %s: %w", sess.UserID, ErrUserNotFound)
		}
		if err := insertSession(tx, sess); err != nil {
			return err
		}
		return addToDailyStat(tx, sess.UserID, sessionDate(sess.StartedAt), sess.DurationSeconds, sess.CreatedAt)
	})
	if err != nil {
		return nil, fail("recording session", err)
	}
	return sess, nil
}

func insertSession(q querier, sess *Session) error {
	_, err := q.Exec(
		"INSERT INTO focus_sessions ("+sessionColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		sess.ID, sess.UserID, sess.DurationSeconds, sess.StartedAt, sess.EndedAt,
		nullString(sess.Category), nullString(sess.Notes), sess.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

// addToDailyStat creates the (user, date) rollup with one session or adds
// to the existing one.
func addToDailyStat(q querier, userID, date string, seconds int64, now string) error {
	_, err := q.Exec(
		`INSERT INTO daily_stats (id, user_id, date, total_focus_seconds, session_count, created_at)
		 VALUES (?, ?, ?, ?, 1, ?)
		 ON CONFLICT(user_id, date) DO UPDATE SET
		   total_focus_seconds = total_focus_seconds + excluded.total_focus_seconds,
		   session_count = session_count + 1`,
		newID(), userID, date, seconds, now,
	)
	if err != nil {
		return fmt.Errorf("updating daily stats for %s: %w", date, err)
	}
	return nil
}

// GetSession returns a session by ID.
func (s *Store) GetSession(id string) (*Session, error) {
	var sess *Session
	err := s.guard.do(func(q querier) error {
		var err error
		sess, err = scanSession(q.QueryRow("SELECT "+sessionColumns+" FROM focus_sessions WHERE id = ?", id))
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("session %s: %w", id, ErrNotFound)
		}
		return err
	})
	return sess, fail("getting session", err)
}

// ListSessions returns a user's most recent sessions, newest first. A
// non-positive limit means the default of 100.
func (s *Store) ListSessions(userID string, limit int) ([]*Session, error) {
	if limit <= 0 {
		limit = defaultSessionLimit
	}
	var sessions []*Session
	err := s.guard.do(func(q querier) error {
		var err error
		sessions, err = querySessions(q,
			"SELECT "+sessionColumns+" FROM focus_sessions WHERE user_id = ? ORDER BY started_at DESC LIMIT ?",
			userID, limit)
		return err
	})
	return sessions, fail("listing sessions", err)
}

func querySessions(q querier, query string, args ...any) ([]*Session, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// DeleteSession removes a session and takes it back out of its daily
// rollup in the same transaction. A rollup left with no sessions is removed.
func (s *Store) DeleteSession(id string) error {
	err := s.guard.tx(func(tx *sql.Tx) error {
		sess, err := scanSession(tx.QueryRow("SELECT "+sessionColumns+" FROM focus_sessions WHERE id = ?", id))
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("session %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return err
		}

		if _, err := tx.Exec("DELETE FROM focus_sessions WHERE id = ?", id); err != nil {
			return err
		}

		date := sessionDate(sess.StartedAt)
		if _, err := tx.Exec(
			`UPDATE daily_stats SET
			   total_focus_seconds = MAX(total_focus_seconds - ?, 0),
			   session_count = MAX(session_count - 1, 0)
			 WHERE user_id = ? AND date = ?`,
			sess.DurationSeconds, sess.UserID, date,
		); err != nil {
			return fmt.Errorf("updating daily stats for %s: %w", date, err)
		}
		_, err = tx.Exec(
			"DELETE FROM daily_stats WHERE user_id = ? AND date = ? AND session_count = 0",
			sess.UserID, date,
		)
		return err
	})
	return fail("deleting session", err)
}

// DailyStats returns the rollups for from..to inclusive, oldest first.
func (s *Store) DailyStats(userID, from, to string) ([]DailyStat, error) {
	var stats []DailyStat
	err := s.guard.do(func(q querier) error {
		rows, err := q.Query(
			`SELECT date, total_focus_seconds, session_count FROM daily_stats
			 WHERE user_id = ? AND date >= ? AND date <= ? ORDER BY date ASC`,
			userID, from, to,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var d DailyStat
			if err := rows.Scan(&d.Date, &d.TotalFocusSeconds, &d.SessionCount); err != nil {
				return err
			}
			stats = append(stats, d)
		}
		return rows.Err()
	})
	return stats, fail("listing daily stats", err)
}
