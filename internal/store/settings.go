package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// GetSetting returns the value for key; ok is false when it is unset.
func (s *Store) GetSetting(userID, key string) (value string, ok bool, err error) {
	err = s.guard.do(func(q querier) error {
		err := q.QueryRow(
			"SELECT value FROM user_settings WHERE user_id = ? AND key = ?", userID, key,
		).Scan(&value)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		ok = true
		return nil
	})
	return value, ok, fail("getting setting", err)
}

// SetSetting stores value under key; the last write wins.
func (s *Store) SetSetting(userID, key, value string) error {
	err := s.guard.do(func(q querier) error {
		ok, err := userExists(q, userID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("user %s: %w", userID, ErrUserNotFound)
		}
		return upsertSetting(q, userID, key, value)
	})
	return fail("setting "+key, err)
}

func upsertSetting(q querier, userID, key, value string) error {
	_, err := q.Exec(
		`INSERT INTO user_settings (id, user_id, key, value) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, key) DO UPDATE SET value = excluded.value`,
		newID(), userID, key, value,
	)
	return err
}

// AllSettings returns every setting for a user.
func (s *Store) AllSettings(userID string) (map[string]string, error) {
	var settings map[string]string
	err := s.guard.do(func(q querier) error {
		var err error
		settings, err = allSettings(q, userID)
		return err
	})
	return settings, fail("listing settings", err)
}

func allSettings(q querier, userID string) (map[string]string, error) {
	rows, err := q.Query("SELECT key, value FROM user_settings WHERE user_id = ?", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		settings[k] = v
	}
	return settings, rows.Err()
}

// DeleteSetting removes key. Deleting an unset key is not an error.
func (s *Store) DeleteSetting(userID, key string) error {
	err := s.guard.do(func(q querier) error {
		_, err := q.Exec("DELETE FROM user_settings WHERE user_id = ? AND key = ?", userID, key)
		return err
	})
	return fail("deleting setting", err)
}

// AppSetting reads a process-wide setting.
func (s *Store) AppSetting(key string) (value string, ok bool, err error) {
	err = s.guard.do(func(q querier) error {
		err := q.QueryRow("SELECT value FROM app_settings WHERE key = ?", key).Scan(&value)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		ok = true
		return nil
	})
	return value, ok, fail("getting app setting", err)
}

// SetAppSetting writes a process-wide setting.
func (s *Store) SetAppSetting(key, value string) error {
	err := s.guard.do(func(q querier) error {
		return setAppSetting(q, key, value, s.timestamp())
	})
	return fail("setting app setting", err)
}

func setAppSetting(q querier, key, value, now string) error {
	_, err := q.Exec(
		`INSERT INTO app_settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, now,
	)
	return err
}
