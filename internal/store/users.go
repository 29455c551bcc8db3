package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// currentUserKey is the app_settings key holding the current-user pointer.
const currentUserKey = "current_user_id"

// User is a local profile.
type User struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      *string `json:"email"`
	AvatarPath *string `json:"avatarPath"`
	JoinDate   string  `json:"joinDate"`
	IsPremium  bool    `json:"isPremium"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  string  `json:"updatedAt"`
}

// UserChanges is a sparse change-set for UpdateUser; nil fields are left alone.
type UserChanges struct {
	Name       *string
	Email      *string
	AvatarPath *string
	IsPremium  *bool
}

const userColumns = "id, name, email, avatar_path, join_date, is_premium, created_at, updated_at"

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	u := &User{}
	var email, avatar sql.NullString
	var premium int
	if err := row.Scan(&u.ID, &u.Name, &email, &avatar, &u.JoinDate, &premium,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Email = stringPtr(email)
	u.AvatarPath = stringPtr(avatar)
	u.IsPremium = premium == 1
	return u, nil
}

func getUser(q querier, id string) (*User, error) {
	u, err := scanUser(q.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", id, ErrUserNotFound)
	}
	return u, err
}

// CreateUser adds a profile joined today.
func (s *Store) CreateUser(name string, email *string) (*User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fail("creating user", fmt.Errorf("%w: name is required", ErrInvalidInput))
	}
	now := s.timestamp()
	u := &User{
		ID:        newID(),
		Name:      name,
		Email:     email,
		JoinDate:  s.today().Format(DateLayout),
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := s.guard.do(func(q querier) error {
		_, err := q.Exec(
			`INSERT INTO users (id, name, email, join_date, is_premium, created_at, updated_at)
			 VALUES (?, ?, ?, ?, 0, ?, ?)`,
			u.ID, u.Name, nullString(u.Email), u.JoinDate, u.CreatedAt, u.UpdatedAt,
		)
		return err
	})
	if err != nil {
		return nil, fail("creating user", err)
	}
	return u, nil
}

// GetUser returns a user by ID.
func (s *Store) GetUser(id string) (*User, error) {
	var u *User
	err := s.guard.do(func(q querier) error {
		var err error
		u, err = getUser(q, id)
		return err
	})
	return u, fail("getting user", err)
}

// UpdateUser applies a sparse change-set. updated_at moves only when
// something changed.
func (s *Store) UpdateUser(id string, c UserChanges) (*User, error) {
	var cs changeSet
	if c.Name != nil {
		cs.set(colName, *c.Name)
	}
	if c.Email != nil {
		cs.set(colEmail, *c.Email)
	}
	if c.AvatarPath != nil {
		cs.set(colAvatarPath, *c.AvatarPath)
	}
	if c.IsPremium != nil {
		cs.set(colIsPremium, boolToInt(*c.IsPremium))
	}
	if !cs.empty() {
		cs.set(colUpdatedAt, s.timestamp())
	}

	var u *User
	err := s.guard.do(func(q querier) error {
		if err := cs.apply(q, tableUsers, id); err != nil {
			if errors.Is(err, ErrNotFound) {
				return fmt.Errorf("user %s: %w", id, ErrUserNotFound)
			}
			return err
		}
		var err error
		u, err = getUser(q, id)
		return err
	})
	return u, fail("updating user", err)
}

// DeleteUser removes a user with everything they own, and clears the
// current-user pointer if it referenced them.
func (s *Store) DeleteUser(id string) error {
	err := s.guard.tx(func(tx *sql.Tx) error {
		ok, err := userExists(tx, id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("user %s: %w", id, ErrUserNotFound)
		}
		for _, table := range []string{"focus_sessions", "tasks", "achievements", "daily_stats", "user_settings"} {
			if _, err := tx.Exec("DELETE FROM "+table+" WHERE user_id = ?", id); err != nil {
				return fmt.Errorf("deleting %s: %w", table, err)
			}
		}
		if _, err := tx.Exec("DELETE FROM users WHERE id = ?", id); err != nil {
			return err
		}
		_, err = tx.Exec("DELETE FROM app_settings WHERE key = ? AND value = ?", currentUserKey, id)
		return err
	})
	return fail("deleting user", err)
}

// CurrentUserID returns the recorded current-user pointer, or "" if unset.
func (s *Store) CurrentUserID() (string, error) {
	v, ok, err := s.AppSetting(currentUserKey)
	if err != nil || !ok {
		return "", err
	}
	return v, nil
}

// SetCurrentUser records id as the current user. The user must exist.
func (s *Store) SetCurrentUser(id string) error {
	err := s.guard.do(func(q querier) error {
		ok, err := userExists(q, id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("user %s: %w", id, ErrUserNotFound)
		}
		return setAppSetting(q, currentUserKey, id, s.timestamp())
	})
	return fail("setting current user", err)
}
