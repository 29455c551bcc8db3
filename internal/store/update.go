package store

import (
	"fmt"
	"strings"
)

// table and column are only ever constructed from the constants below, so
// statement text assembled from them never carries caller input.
type table string

type column string

const (
	tableTasks table = "tasks"
	tableUsers table = "users"
)

const (
	colID column = "id"

	colTitle     column = "title"
	colCategory  column = "category"
	colDate      column = "date"
	colStartTime column = "start_time"
	colEndTime   column = "end_time"
	colCompleted column = "completed"

	colName       column = "name"
	colEmail      column = "email"
	colAvatarPath column = "avatar_path"
	colIsPremium  column = "is_premium"
	colUpdatedAt  column = "updated_at"
)

// changeSet collects the columns to update, keeping each bound value in
// lockstep with its column.
type changeSet struct {
	cols []column
	args []any
}

func (c *changeSet) set(col column, v any) {
	c.cols = append(c.cols, col)
	c.args = append(c.args, v)
}

func (c *changeSet) empty() bool {
	return len(c.cols) == 0
}

// statement renders UPDATE <t> SET a = ?, b = ? WHERE id = ? with the id
// bound last.
func (c *changeSet) statement(t table, id any) (string, []any) {
	assignments := make([]string, len(c.cols))
	for i, col := range c.cols {
		assignments[i] = string(col) + " = ?"
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", t, strings.Join(assignments, ", "), colID)

	args := make([]any, 0, len(c.args)+1)
	args = append(args, c.args...)
	args = append(args, id)
	return query, args
}

// apply executes the update. An empty change-set writes nothing. A missing
// row is reported as ErrNotFound.
func (c *changeSet) apply(q querier, t table, id any) error {
	if c.empty() {
		return nil
	}
	query, args := c.statement(t, id)
	res, err := q.Exec(query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
