package store

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

// TaskCategory is the closed set of task kinds.
type TaskCategory int

const (
	CategoryToDo TaskCategory = iota + 1
	CategoryEvent
	CategoryReminder
)

var categoryTokens = map[TaskCategory]string{
	CategoryToDo:     "To Do",
	CategoryEvent:    "Event",
	CategoryReminder: "Reminder",
}

// ParseTaskCategory decodes a persisted token. Unknown tokens are an error.
func ParseTaskCategory(s string) (TaskCategory, error) {
	for c, tok := range categoryTokens {
		if tok == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

func (c TaskCategory) String() string {
	if tok, ok := categoryTokens[c]; ok {
		return tok
	}
	return fmt.Sprintf("TaskCategory(%d)", int(c))
}

func (c TaskCategory) valid() bool {
	_, ok := categoryTokens[c]
	return ok
}

func (c TaskCategory) MarshalText() ([]byte, error) {
	if !c.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
	return []byte(c.String()), nil
}

func (c *TaskCategory) UnmarshalText(b []byte) error {
	parsed, err := ParseTaskCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Value implements driver.Valuer.
func (c TaskCategory) Value() (driver.Value, error) {
	if !c.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
	return c.String(), nil
}

// Scan implements sql.Scanner.
func (c *TaskCategory) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return c.UnmarshalText([]byte(v))
	case []byte:
		return c.UnmarshalText(v)
	default:
		return fmt.Errorf("scanning task category from %T", src)
	}
}

// Task is a scheduled to-do, event or reminder.
type Task struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	Title     string       `json:"title"`
	Category  TaskCategory `json:"category"`
	Date      string       `json:"date"`       // YYYY-MM-DD
	StartTime string       `json:"start_time"` // HH:MM
	EndTime   string       `json:"end_time"`   // HH:MM
	Completed bool         `json:"completed"`
	CreatedAt string       `json:"created_at"`
}

// NewTask holds the fields for CreateTask.
type NewTask struct {
	UserID    string
	Title     string
	Category  TaskCategory
	Date      string
	StartTime string
	EndTime   string
}

// TaskChanges is a sparse change-set for UpdateTask; nil fields are left alone.
type TaskChanges struct {
	Title     *string
	Category  *TaskCategory
	Date      *string
	StartTime *string
	EndTime   *string
	Completed *bool
}

const taskColumns = "id, user_id, title, category, date, start_time, end_time, completed, created_at"

func scanTask(row interface{ Scan(...any) error }) (*Task, error) {
	t := &Task{}
	var completed int
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Category, &t.Date,
		&t.StartTime, &t.EndTime, &completed, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.Completed = completed == 1
	return t, nil
}

func getTask(q querier, id string) (*Task, error) {
	t, err := scanTask(q.QueryRow("SELECT "+taskColumns+" FROM tasks WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return t, err
}

func validateTaskFields(date, start, end *string) error {
	if date != nil {
		if _, err := time.Parse(DateLayout, *date); err != nil {
			return fmt.Errorf("%w: date %q", ErrInvalidInput, *date)
		}
	}
	for _, hm := range []*string{start, end} {
		if hm == nil {
			continue
		}
		if _, err := time.Parse("15:04", *hm); err != nil {
			return fmt.Errorf("%w: time %q", ErrInvalidInput, *hm)
		}
	}
	return nil
}

// CreateTask adds an incomplete task.
func (s *Store) CreateTask(n NewTask) (*Task, error) {
	if strings.TrimSpace(n.Title) == "" {
		return nil, fail("creating task", fmt.Errorf("%w: title is required", ErrInvalidInput))
	}
	if !n.Category.valid() {
		return nil, fail("creating task", fmt.Errorf("%w: category", ErrInvalidInput))
	}
	if err := validateTaskFields(&n.Date, &n.StartTime, &n.EndTime); err != nil {
		return nil, fail("creating task", err)
	}

	t := &Task{
		ID:        newID(),
		UserID:    n.UserID,
		Title:     n.Title,
		Category:  n.Category,
		Date:      n.Date,
		StartTime: n.StartTime,
		EndTime:   n.EndTime,
		CreatedAt: s.timestamp(),
	}
	err := s.guard.do(func(q querier) error {
		ok, err := userExists(q, n.UserID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("user %s: %w", n.UserID, ErrUserNotFound)
		}
		_, err = q.Exec(
			"INSERT INTO tasks ("+taskColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?)",
			t.ID, t.UserID, t.Title, t.Category, t.Date, t.StartTime, t.EndTime, t.CreatedAt,
		)
		return err
	})
	if err != nil {
		return nil, fail("creating task", err)
	}
	return t, nil
}

// GetTask returns a task by ID.
func (s *Store) GetTask(id string) (*Task, error) {
	var t *Task
	err := s.guard.do(func(q querier) error {
		var err error
		t, err = getTask(q, id)
		return err
	})
	return t, fail("getting task", err)
}

// ListTasks returns a user's tasks, restricted to date when it is non-empty.
func (s *Store) ListTasks(userID, date string) ([]*Task, error) {
	var tasks []*Task
	err := s.guard.do(func(q querier) error {
		var err error
		if date != "" {
			tasks, err = queryTasks(q,
				"SELECT "+taskColumns+" FROM tasks WHERE user_id = ? AND date = ? ORDER BY start_time ASC",
				userID, date)
		} else {
			tasks, err = queryTasks(q,
				"SELECT "+taskColumns+" FROM tasks WHERE user_id = ? ORDER BY date DESC, start_time ASC",
				userID)
		}
		return err
	})
	return tasks, fail("listing tasks", err)
}

func queryTasks(q querier, query string, args ...any) ([]*Task, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpdateTask applies a sparse change-set and returns the resulting row. An
// empty change-set writes nothing and returns the current row.
func (s *Store) UpdateTask(id string, c TaskChanges) (*Task, error) {
	if err := validateTaskFields(c.Date, c.StartTime, c.EndTime); err != nil {
		return nil, fail("updating task", err)
	}
	if c.Category != nil && !c.Category.valid() {
		return nil, fail("updating task", fmt.Errorf("%w: category", ErrInvalidInput))
	}
	if c.Title != nil && strings.TrimSpace(*c.Title) == "" {
		return nil, fail("updating task", fmt.Errorf("%w: title is required", ErrInvalidInput))
	}

	var cs changeSet
	if c.Title != nil {
		cs.set(colTitle, *c.Title)
	}
	if c.Category != nil {
		cs.set(colCategory, *c.Category)
	}
	if c.Date != nil {
		cs.set(colDate, *c.Date)
	}
	if c.StartTime != nil {
		cs.set(colStartTime, *c.StartTime)
	}
	if c.EndTime != nil {
		cs.set(colEndTime, *c.EndTime)
	}
	if c.Completed != nil {
		cs.set(colCompleted, boolToInt(*c.Completed))
	}

	var t *Task
	err := s.guard.do(func(q querier) error {
		if err := cs.apply(q, tableTasks, id); err != nil {
			if errors.Is(err, ErrNotFound) {
				return fmt.Errorf("task %s: %w", id, ErrNotFound)
			}
			return err
		}
		var err error
		t, err = getTask(q, id)
		return err
	})
	return t, fail("updating task", err)
}

// ToggleTask flips the completed flag.
func (s *Store) ToggleTask(id string) (*Task, error) {
	var t *Task
	err := s.guard.tx(func(tx *sql.Tx) error {
		res, err := tx.Exec("UPDATE tasks SET completed = 1 - completed WHERE id = ?", id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("task %s: %w", id, ErrNotFound)
		}
		t, err = getTask(tx, id)
		return err
	})
	return t, fail("toggling task", err)
}

// DeleteTask removes a task.
func (s *Store) DeleteTask(id string) error {
	err := s.guard.do(func(q querier) error {
		res, err := q.Exec("DELETE FROM tasks WHERE id = ?", id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("task %s: %w", id, ErrNotFound)
		}
		return nil
	})
	return fail("deleting task", err)
}
