// Package achievement defines the closed set of achievement types and the
// rule table that decides when each one unlocks.
package achievement

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

// ErrUnknownType is returned when decoding a token that names no achievement.
var ErrUnknownType = errors.New("unknown achievement type")

// Type identifies one achievement. The zero value is not a valid type.
type Type int

const (
	FirstSession Type = iota + 1
	HourMaster
	StreakWeek
	StreakMonth
	TotalHours10
	TotalHours50
	TotalHours100
	EarlyBird
	NightOwl
	TaskMaster
)

type info struct {
	token       string
	name        string
	description string
}

var catalog = map[Type]info{
	FirstSession:  {"first_session", "First Focus", "Complete your first focus session"},
	HourMaster:    {"hour_master", "Hour Master", "Complete a single session over 1 hour"},
	StreakWeek:    {"streak_week", "Week Warrior", "Maintain a 7-day streak"},
	StreakMonth:   {"streak_month", "Monthly Champion", "Maintain a 30-day streak"},
	TotalHours10:  {"total_hours_10", "10 Hours Club", "Accumulate 10 hours of focus time"},
	TotalHours50:  {"total_hours_50", "50 Hours Legend", "Accumulate 50 hours of focus time"},
	TotalHours100: {"total_hours_100", "Century Master", "Accumulate 100 hours of focus time"},
	EarlyBird:     {"early_bird", "Early Bird", "Start a session before 6 AM"},
	NightOwl:      {"night_owl", "Night Owl", "Complete a session after 11 PM"},
	TaskMaster:    {"task_master", "Task Master", "Complete 50 tasks"},
}

// All returns every achievement type in catalog order.
func All() []Type {
	return []Type{
		FirstSession, HourMaster, StreakWeek, StreakMonth,
		TotalHours10, TotalHours50, TotalHours100,
		EarlyBird, NightOwl, TaskMaster,
	}
}

// Parse decodes a persisted token.
func Parse(token string) (Type, error) {
	for t, i := range catalog {
		if i.token == token {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, token)
}

// Valid reports whether t is a member of the catalog.
func (t Type) Valid() bool {
	_, ok := catalog[t]
	return ok
}

// String returns the persisted token.
func (t Type) String() string {
	if i, ok := catalog[t]; ok {
		return i.token
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// DisplayName returns the human-readable title.
func (t Type) DisplayName() string { return catalog[t].name }

// Description explains how the achievement is earned.
func (t Type) Description() string { return catalog[t].description }

func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, int(t))
	}
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value implements driver.Valuer.
func (t Type) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, int(t))
	}
	return t.String(), nil
}

// Scan implements sql.Scanner.
func (t *Type) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return t.UnmarshalText([]byte(v))
	case []byte:
		return t.UnmarshalText(v)
	default:
		return fmt.Errorf("scanning achievement type from %T", src)
	}
}
