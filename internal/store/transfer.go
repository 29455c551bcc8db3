package store

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

// SnapshotVersion is the export format version written and accepted.
const SnapshotVersion = "1.0"

// Snapshot is a self-contained export of one user's data.
type Snapshot struct {
	Version       string            `json:"version"`
	ExportedAt    string            `json:"exportedAt"`
	User          User              `json:"user"`
	FocusSessions []*Session        `json:"focusSessions"`
	Tasks         []*Task           `json:"tasks"`
	Achievements  []*Achievement    `json:"achievements"`
	Settings      map[string]string `json:"settings"`
}

// ImportResult reports how many rows an import actually inserted.
type ImportResult struct {
	Success              bool   `json:"success"`
	SessionsImported     int64  `json:"sessionsImported"`
	TasksImported        int64  `json:"tasksImported"`
	AchievementsImported int64  `json:"achievementsImported"`
	SettingsImported     int64  `json:"settingsImported"`
	Message              string `json:"message"`
}

// ExportUser builds a snapshot of everything the user owns.
func (s *Store) ExportUser(userID string) (*Snapshot, error) {
	snap := &Snapshot{Version: SnapshotVersion, ExportedAt: s.timestamp()}
	err := s.guard.do(func(q querier) error {
		u, err := getUser(q, userID)
		if err != nil {
			return err
		}
		snap.User = *u

		if snap.FocusSessions, err = querySessions(q,
			"SELECT "+sessionColumns+" FROM focus_sessions WHERE user_id = ? ORDER BY started_at",
			userID); err != nil {
			return fmt.Errorf("reading sessions: %w", err)
		}
		if snap.Tasks, err = queryTasks(q,
			"SELECT "+taskColumns+" FROM tasks WHERE user_id = ? ORDER BY date, start_time",
			userID); err != nil {
			return fmt.Errorf("reading tasks: %w", err)
		}
		if snap.Achievements, err = queryAchievements(q, userID); err != nil {
			return fmt.Errorf("reading achievements: %w", err)
		}
		if snap.Settings, err = allSettings(q, userID); err != nil {
			return fmt.Errorf("reading settings: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fail("exporting user", err)
	}
	return snap, nil
}

func queryAchievements(q querier, userID string) ([]*Achievement, error) {
	rows, err := q.Query(
		`SELECT id, user_id, achievement_type, unlocked_at, metadata
		 FROM achievements WHERE user_id = ? ORDER BY unlocked_at`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Achievement
	for rows.Next() {
		a := &Achievement{}
		var metadata sql.NullString
		if err := rows.Scan(&a.ID, &a.UserID, &a.Type, &a.UnlockedAt, &metadata); err != nil {
			return nil, err
		}
		a.Metadata = stringPtr(metadata)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (snap *Snapshot) validate() error {
	if snap == nil {
		return fmt.Errorf("%w: empty snapshot", ErrInvalidSnapshot)
	}
	if snap.Version != SnapshotVersion {
		return fmt.Errorf("%w: unsupported version %q", ErrInvalidSnapshot, snap.Version)
	}
	if snap.User.ID == "" {
		return fmt.Errorf("%w: missing user id", ErrInvalidSnapshot)
	}
	if strings.TrimSpace(snap.User.Name) == "" {
		return fmt.Errorf("%w: missing user name", ErrInvalidSnapshot)
	}
	for i, sess := range snap.FocusSessions {
		if sess == nil || sess.ID == "" {
			return fmt.Errorf("%w: session %d has no id", ErrInvalidSnapshot, i)
		}
		n := NewSession{DurationSeconds: sess.DurationSeconds, StartedAt: sess.StartedAt, EndedAt: sess.EndedAt}
		if err := n.validate(); err != nil {
			return fmt.Errorf("%w: session %s: %v", ErrInvalidSnapshot, sess.ID, err)
		}
	}
	for i, t := range snap.Tasks {
		if t == nil || t.ID == "" {
			return fmt.Errorf("%w: task %d has no id", ErrInvalidSnapshot, i)
		}
		if strings.TrimSpace(t.Title) == "" {
			return fmt.Errorf("%w: task %s: title is required", ErrInvalidSnapshot, t.ID)
		}
		if !t.Category.valid() {
			return fmt.Errorf("%w: task %s: category", ErrInvalidSnapshot, t.ID)
		}
		if err := validateTaskFields(&t.Date, &t.StartTime, &t.EndTime); err != nil {
			return fmt.Errorf("%w: task %s: %v", ErrInvalidSnapshot, t.ID, err)
		}
	}
	for i, a := range snap.Achievements {
		if a == nil || a.ID == "" {
			return fmt.Errorf("%w: achievement %d has no id", ErrInvalidSnapshot, i)
		}
		if !a.Type.Valid() {
			return fmt.Errorf("%w: achievement %s: type", ErrInvalidSnapshot, a.ID)
		}
	}
	return nil
}

// ImportSnapshot merges snap into the store in one transaction. The user is
// created only if absent. Sessions, tasks and achievements are inserted only
// when their ID is new, so existing rows win. Settings are upserted, last
// write wins. Newly inserted sessions are also folded into the daily
// rollups. Importing the same snapshot twice inserts nothing the second time.
func (s *Store) ImportSnapshot(snap *Snapshot) (*ImportResult, error) {
	if err := snap.validate(); err != nil {
		return nil, fail("importing snapshot", err)
	}

	res := &ImportResult{}
	userID := snap.User.ID
	now := s.timestamp()

	err := s.guard.tx(func(tx *sql.Tx) error {
		ok, err := userExists(tx, userID)
		if err != nil {
			return err
		}
		if !ok {
			u := snap.User
			if u.JoinDate == "" {
				u.JoinDate = s.today().Format(DateLayout)
			}
			if _, err := tx.Exec(
				"INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
				u.ID, u.Name, nullString(u.Email), nullString(u.AvatarPath), u.JoinDate,
				boolToInt(u.IsPremium), now, now,
			); err != nil {
				return fmt.Errorf("creating user: %w", err)
			}
		}

		for _, sess := range snap.FocusSessions {
			n, err := execCount(tx,
				"INSERT OR IGNORE INTO focus_sessions ("+sessionColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
				sess.ID, userID, sess.DurationSeconds, sess.StartedAt, sess.EndedAt,
				nullString(sess.Category), nullString(sess.Notes), sess.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("importing session %s: %w", sess.ID, err)
			}
			if n == 0 {
				continue
			}
			if err := addToDailyStat(tx, userID, sessionDate(sess.StartedAt), sess.DurationSeconds, now); err != nil {
				return err
			}
			res.SessionsImported++
		}

		for _, t := range snap.Tasks {
			n, err := execCount(tx,
				"INSERT OR IGNORE INTO tasks ("+taskColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
				t.ID, userID, t.Title, t.Category, t.Date, t.StartTime, t.EndTime,
				boolToInt(t.Completed), t.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("importing task %s: %w", t.ID, err)
			}
			res.TasksImported += n
		}

		for _, a := range snap.Achievements {
			n, err := execCount(tx,
				`INSERT OR IGNORE INTO achievements (id, user_id, achievement_type, unlocked_at, metadata)
				 VALUES (?, ?, ?, ?, ?)`,
				a.ID, userID, a.Type, a.UnlockedAt, nullString(a.Metadata),
			)
			if err != nil {
				return fmt.Errorf("importing achievement %s: %w", a.ID, err)
			}
			res.AchievementsImported += n
		}

		keys := make([]string, 0, len(snap.Settings))
		for k := range snap.Settings {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := upsertSetting(tx, userID, k, snap.Settings[k]); err != nil {
				return fmt.Errorf("importing setting %s: %w", k, err)
			}
			res.SettingsImported++
		}
		return nil
	})
	if err != nil {
		return nil, fail("importing snapshot", err)
	}

	res.Success = true
	res.Message = fmt.Sprintf("Imported %d sessions, %d tasks, %d achievements, %d settings",
		res.SessionsImported, res.TasksImported, res.AchievementsImported, res.SettingsImported)
	s.logger.Info("snapshot imported", "user", userID, "sessions", res.SessionsImported,
		"tasks", res.TasksImported, "achievements", res.AchievementsImported,
		"settings", res.SettingsImported)
	return res, nil
}

func execCount(q querier, query string, args ...any) (int64, error) {
	r, err := q.Exec(query, args...)
	if err != nil {
		return 0, err
	}
	return r.RowsAffected()
}
