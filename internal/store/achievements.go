package store

import (
	"database/sql"
	"fmt"

	"github.com/swamp-dev/focusflow/internal/achievement"
)

// Achievement is an unlock record.
type Achievement struct {
	ID         string           `json:"id"`
	UserID     string           `json:"user_id"`
	Type       achievement.Type `json:"achievement_type"`
	UnlockedAt string           `json:"unlocked_at"`
	Metadata   *string          `json:"metadata"`
}

// AchievementInfo describes one catalog entry and whether the user has it.
type AchievementInfo struct {
	Type        achievement.Type `json:"achievement_type"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Unlocked    bool             `json:"unlocked"`
	UnlockedAt  *string          `json:"unlocked_at"`
}

func unlockedAchievements(q querier, userID string) (map[achievement.Type]string, error) {
	rows, err := q.Query(
		"SELECT achievement_type, unlocked_at FROM achievements WHERE user_id = ?", userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	unlocked := make(map[achievement.Type]string)
	for rows.Next() {
		var t achievement.Type
		var at string
		if err := rows.Scan(&t, &at); err != nil {
			return nil, fmt.Errorf("reading achievement: %w", err)
		}
		unlocked[t] = at
	}
	return unlocked, rows.Err()
}

func (s *Store) insertAchievement(q querier, userID string, t achievement.Type, metadata *string) (*Achievement, error) {
	a := &Achievement{
		ID:         newID(),
		UserID:     userID,
		Type:       t,
		UnlockedAt: s.timestamp(),
		Metadata:   metadata,
	}
	_, err := q.Exec(
		`INSERT INTO achievements (id, user_id, achievement_type, unlocked_at, metadata)
		 VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.Type, a.UnlockedAt, nullString(a.Metadata),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting %s: %w", t, err)
	}
	return a, nil
}

// ListAchievements returns the whole catalog with the user's unlock state.
func (s *Store) ListAchievements(userID string) ([]AchievementInfo, error) {
	var infos []AchievementInfo
	err := s.guard.do(func(q querier) error {
		unlocked, err := unlockedAchievements(q, userID)
		if err != nil {
			return err
		}
		for _, t := range achievement.All() {
			info := AchievementInfo{
				Type:        t,
				Name:        t.DisplayName(),
				Description: t.Description(),
			}
			if at, ok := unlocked[t]; ok {
				info.Unlocked = true
				info.UnlockedAt = &at
			}
			infos = append(infos, info)
		}
		return nil
	})
	return infos, fail("listing achievements", err)
}

// UnlockAchievement unlocks t directly. Unlocking an achievement the user
// already has fails with ErrAlreadyUnlocked.
func (s *Store) UnlockAchievement(userID string, t achievement.Type, metadata *string) (*Achievement, error) {
	if !t.Valid() {
		return nil, fail("unlocking achievement", fmt.Errorf("%w: %d", achievement.ErrUnknownType, int(t)))
	}
	var a *Achievement
	err := s.guard.tx(func(tx *sql.Tx) error {
		ok, err := userExists(tx, userID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("user %s: %w", userID, ErrUserNotFound)
		}

		var exists bool
		if err := tx.QueryRow(
			"SELECT EXISTS(SELECT 1 FROM achievements WHERE user_id = ? AND achievement_type = ?)",
			userID, t,
		).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%s: %w", t, ErrAlreadyUnlocked)
		}

		a, err = s.insertAchievement(tx, userID, t, metadata)
		return err
	})
	return a, fail("unlocking achievement", err)
}

// EvaluateAchievements checks the rule table against fresh stats and
// unlocks every satisfied achievement the user does not have yet. It
// returns only the new unlocks; a second call with no intervening change
// returns none.
func (s *Store) EvaluateAchievements(userID string) ([]*Achievement, error) {
	var earned []*Achievement
	err := s.guard.tx(func(tx *sql.Tx) error {
		snap, _, err := s.snapshot(tx, userID)
		if err != nil {
			return err
		}
		unlockedAt, err := unlockedAchievements(tx, userID)
		if err != nil {
			return err
		}
		unlocked := make(map[achievement.Type]bool, len(unlockedAt))
		for t := range unlockedAt {
			unlocked[t] = true
		}

		for _, t := range achievement.Evaluate(snap, unlocked) {
			a, err := s.insertAchievement(tx, userID, t, nil)
			if err != nil {
				return err
			}
			earned = append(earned, a)
		}
		return nil
	})
	if err != nil {
		return nil, fail("evaluating achievements", err)
	}
	return earned, nil
}
