package store

import (
	"fmt"

	"github.com/swamp-dev/focusflow/internal/achievement"
	"github.com/swamp-dev/focusflow/internal/streak"
)

// heatmapDays is the trailing window covered by Heatmap.
const heatmapDays = 365

// UserStats summarizes a user's activity. A user with no data gets zeros.
type UserStats struct {
	TotalFocusTime int64 `json:"totalFocusTime"` // seconds
	TotalSessions  int64 `json:"totalSessions"`
	CurrentStreak  int   `json:"currentStreak"`
	LongestStreak  int   `json:"longestStreak"`
	TasksCompleted int64 `json:"tasksCompleted"`
}

// HeatmapPoint is one active day in the heatmap.
type HeatmapPoint struct {
	Date  string `json:"date"`
	Value int64  `json:"value"` // minutes
}

// ComputeStats derives the stats summary. It performs no writes.
func (s *Store) ComputeStats(userID string) (*UserStats, error) {
	var st *UserStats
	err := s.guard.do(func(q querier) error {
		snap, longest, err := s.snapshot(q, userID)
		if err != nil {
			return err
		}
		st = &UserStats{
			TotalFocusTime: snap.TotalFocusSeconds,
			TotalSessions:  snap.TotalSessions,
			CurrentStreak:  snap.CurrentStreak,
			LongestStreak:  longest,
			TasksCompleted: snap.TasksCompleted,
		}
		return nil
	})
	return st, fail("computing stats", err)
}

// snapshot gathers everything the achievement rules look at, plus the
// longest streak.
func (s *Store) snapshot(q querier, userID string) (achievement.Stats, int, error) {
	var snap achievement.Stats
	err := q.QueryRow(
		`SELECT COALESCE(SUM(duration_seconds), 0), COUNT(*), COALESCE(MAX(duration_seconds), 0)
		 FROM focus_sessions WHERE user_id = ?`, userID,
	).Scan(&snap.TotalFocusSeconds, &snap.TotalSessions, &snap.MaxSessionSeconds)
	if err != nil {
		return snap, 0, fmt.Errorf("summing sessions: %w", err)
	}

	if err := q.QueryRow(
		"SELECT COUNT(*) FROM tasks WHERE user_id = ? AND completed = 1", userID,
	).Scan(&snap.TasksCompleted); err != nil {
		return snap, 0, fmt.Errorf("counting completed tasks: %w", err)
	}

	dates, err := activeDates(q, userID)
	if err != nil {
		return snap, 0, err
	}
	if snap.CurrentStreak, err = streak.Current(dates, s.today()); err != nil {
		return snap, 0, err
	}
	longest, err := streak.Longest(dates)
	if err != nil {
		return snap, 0, err
	}
	return snap, longest, nil
}

// activeDates returns the distinct dates with positive focus time.
func activeDates(q querier, userID string) ([]string, error) {
	rows, err := q.Query(
		`SELECT DISTINCT date FROM daily_stats
		 WHERE user_id = ? AND total_focus_seconds > 0 ORDER BY date ASC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("reading active dates: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// Heatmap returns focus minutes per active day over the trailing year.
func (s *Store) Heatmap(userID string) ([]HeatmapPoint, error) {
	since := s.today().AddDate(0, 0, -heatmapDays).Format(DateLayout)
	var points []HeatmapPoint
	err := s.guard.do(func(q querier) error {
		rows, err := q.Query(
			`SELECT date, total_focus_seconds / 60 FROM daily_stats
			 WHERE user_id = ? AND date >= ? ORDER BY date ASC`,
			userID, since,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var p HeatmapPoint
			if err := rows.Scan(&p.Date, &p.Value); err != nil {
				return err
			}
			points = append(points, p)
		}
		return rows.Err()
	})
	return points, fail("building heatmap", err)
}
