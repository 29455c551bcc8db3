// Package profile scopes store operations to a single user and chains
// writes with achievement evaluation.
package profile

import (
	"errors"
	"fmt"

	"github.com/swamp-dev/focusflow/internal/achievement"
	"github.com/swamp-dev/focusflow/internal/store"
)

// ErrAchievementCheck is returned when a write was saved but the
// achievement evaluation that follows it failed.
var ErrAchievementCheck = errors.New("checking achievements")

// Profile is a thin per-user wrapper over store.
type Profile struct {
	store  *store.Store
	userID string
}

// New creates a profile for the given user.
func New(s *store.Store, userID string) *Profile {
	return &Profile{store: s, userID: userID}
}

// UserID returns the user this profile is bound to.
func (p *Profile) UserID() string {
	return p.userID
}

// User loads the profile's user record.
func (p *Profile) User() (*store.User, error) {
	return p.store.GetUser(p.userID)
}

// RecordSession stores a session for this user and returns it together
// with any achievements it unlocked. If only the evaluation fails, the
// session is still returned and the error wraps ErrAchievementCheck.
func (p *Profile) RecordSession(n store.NewSession) (*store.Session, []*store.Achievement, error) {
	n.UserID = p.userID
	sess, err := p.store.RecordSession(n)
	if err != nil {
		return nil, nil, err
	}
	earned, err := p.evaluate()
	return sess, earned, err
}

// evaluate unlocks newly earned achievements after a committed write.
func (p *Profile) evaluate() ([]*store.Achievement, error) {
	earned, err := p.store.EvaluateAchievements(p.userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAchievementCheck, err)
	}
	return earned, nil
}

// Sessions returns the user's most recent sessions.
func (p *Profile) Sessions(limit int) ([]*store.Session, error) {
	return p.store.ListSessions(p.userID, limit)
}

// DeleteSession removes one of the user's sessions.
func (p *Profile) DeleteSession(id string) error {
	sess, err := p.store.GetSession(id)
	if err != nil {
		return err
	}
	if sess.UserID != p.userID {
		return fmt.Errorf("session %s: %w", id, store.ErrNotFound)
	}
	return p.store.DeleteSession(id)
}

// AddTask creates a task for this user.
func (p *Profile) AddTask(n store.NewTask) (*store.Task, error) {
	n.UserID = p.userID
	return p.store.CreateTask(n)
}

// Tasks lists the user's tasks, restricted to date when it is non-empty.
func (p *Profile) Tasks(date string) ([]*store.Task, error) {
	return p.store.ListTasks(p.userID, date)
}

func (p *Profile) ownTask(id string) error {
	t, err := p.store.GetTask(id)
	if err != nil {
		return err
	}
	if t.UserID != p.userID {
		return fmt.Errorf("task %s: %w", id, store.ErrNotFound)
	}
	return nil
}

// ToggleTask flips a task's completed flag and re-evaluates achievements.
func (p *Profile) ToggleTask(id string) (*store.Task, []*store.Achievement, error) {
	if err := p.ownTask(id); err != nil {
		return nil, nil, err
	}
	t, err := p.store.ToggleTask(id)
	if err != nil {
		return nil, nil, err
	}
	earned, err := p.evaluate()
	return t, earned, err
}

// UpdateTask applies a partial change and re-evaluates achievements.
func (p *Profile) UpdateTask(id string, c store.TaskChanges) (*store.Task, []*store.Achievement, error) {
	if err := p.ownTask(id); err != nil {
		return nil, nil, err
	}
	t, err := p.store.UpdateTask(id, c)
	if err != nil {
		return nil, nil, err
	}
	earned, err := p.evaluate()
	return t, earned, err
}

// DeleteTask removes one of the user's tasks.
func (p *Profile) DeleteTask(id string) error {
	if err := p.ownTask(id); err != nil {
		return err
	}
	return p.store.DeleteTask(id)
}

// Stats computes the user's stats summary.
func (p *Profile) Stats() (*store.UserStats, error) {
	return p.store.ComputeStats(p.userID)
}

// Heatmap returns focus minutes per active day over the trailing year.
func (p *Profile) Heatmap() ([]store.HeatmapPoint, error) {
	return p.store.Heatmap(p.userID)
}

// Achievements returns the catalog with this user's unlock state.
func (p *Profile) Achievements() ([]store.AchievementInfo, error) {
	return p.store.ListAchievements(p.userID)
}

// CheckAchievements runs the rule table and returns new unlocks.
func (p *Profile) CheckAchievements() ([]*store.Achievement, error) {
	return p.store.EvaluateAchievements(p.userID)
}

// Unlock unlocks an achievement directly.
func (p *Profile) Unlock(t achievement.Type, metadata *string) (*store.Achievement, error) {
	return p.store.UnlockAchievement(p.userID, t, metadata)
}

// Setting reads one of the user's settings.
func (p *Profile) Setting(key string) (string, bool, error) {
	return p.store.GetSetting(p.userID, key)
}

// SetSetting writes one of the user's settings.
func (p *Profile) SetSetting(key, value string) error {
	return p.store.SetSetting(p.userID, key, value)
}

// Settings returns all of the user's settings.
func (p *Profile) Settings() (map[string]string, error) {
	return p.store.AllSettings(p.userID)
}

// DeleteSetting removes one of the user's settings.
func (p *Profile) DeleteSetting(key string) error {
	return p.store.DeleteSetting(p.userID, key)
}

// Export builds a snapshot of the user's data.
func (p *Profile) Export() (*store.Snapshot, error) {
	return p.store.ExportUser(p.userID)
}
