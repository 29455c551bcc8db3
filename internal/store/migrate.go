package store

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"time"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Column names a table column.
type Column struct {
	Table string
	Name  string
}

// Migration is one named schema change, applied as a single batch.
// AddsColumn is set when the whole unit is equivalent to adding that
// column; a store that already has the column records the migration
// without running its script.
type Migration struct {
	Name       string
	Script     string
	AddsColumn *Column
}

// MigrationRecord is one row of the migration ledger.
type MigrationRecord struct {
	Name      string `json:"name"`
	AppliedAt string `json:"applied_at"`
}

// migrations lists the schema history in application order. Names are
// never reused or reordered once released.
var migrations = []struct {
	name       string
	addsColumn *Column
}{
	{"001_initial", nil},
	{"002_app_settings", nil},
	{"003_achievement_metadata", &Column{Table: "achievements", Name: "metadata"}},
	{"004_user_premium", &Column{Table: "users", Name: "is_premium"}},
	{"005_session_indexes", nil},
}

func loadMigrations() ([]Migration, error) {
	out := make([]Migration, 0, len(migrations))
	for _, m := range migrations {
		script, err := migrationFS.ReadFile("migrations/" + m.name + ".sql")
		if err != nil {
			return nil, fmt.Errorf("reading migration %s: %w", m.name, err)
		}
		out = append(out, Migration{Name: m.name, Script: string(script), AddsColumn: m.addsColumn})
	}
	return out, nil
}

const ledgerDDL = `CREATE TABLE IF NOT EXISTS _migrations (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	applied_at TEXT NOT NULL
)`

// applyMigrations applies every migration not yet in the ledger, in order,
// recording each one in the same transaction as its script. Any failure
// aborts the run.
func applyMigrations(db *sql.DB, list []Migration, logger *slog.Logger, now func() time.Time) error {
	if _, err := db.Exec(ledgerDDL); err != nil {
		return fmt.Errorf("creating migration ledger: %w", err)
	}

	applied, err := appliedMigrations(db)
	if err != nil {
		return err
	}

	for _, m := range list {
		if applied[m.Name] {
			continue
		}
		if err := applyMigration(db, m, logger, now); err != nil {
			return fmt.Errorf("migration %s: %w", m.Name, err)
		}
	}
	return nil
}

func applyMigration(db *sql.DB, m Migration, logger *slog.Logger, now func() time.Time) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	skip := false
	if m.AddsColumn != nil {
		skip, err = columnExists(tx, m.AddsColumn.Table, m.AddsColumn.Name)
		if err != nil {
			return err
		}
	}

	if skip {
		logger.Info("column already present, recording migration", "name", m.Name,
			"table", m.AddsColumn.Table, "column", m.AddsColumn.Name)
	} else {
		logger.Info("applying migration", "name", m.Name)
		if _, err := tx.Exec(m.Script); err != nil {
			return fmt.Errorf("executing script: %w", err)
		}
	}

	if _, err := tx.Exec(
		"INSERT INTO _migrations (name, applied_at) VALUES (?, ?)",
		m.Name, now().UTC().Format(TimestampLayout),
	); err != nil {
		return fmt.Errorf("recording migration: %w", err)
	}
	return tx.Commit()
}

func appliedMigrations(q querier) (map[string]bool, error) {
	rows, err := q.Query("SELECT name FROM _migrations")
	if err != nil {
		return nil, fmt.Errorf("reading migration ledger: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

// columnExists probes the live column set of table.
func columnExists(q querier, table, column string) (bool, error) {
	var n int
	err := q.QueryRow(
		"SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?", table, column,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("probing %s.%s: %w", table, column, err)
	}
	return n > 0, nil
}

// Migrations returns the migration ledger in application order.
func (s *Store) Migrations() ([]MigrationRecord, error) {
	var records []MigrationRecord
	err := s.guard.do(func(q querier) error {
		rows, err := q.Query("SELECT name, applied_at FROM _migrations ORDER BY id ASC")
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var r MigrationRecord
			if err := rows.Scan(&r.Name, &r.AppliedAt); err != nil {
				return err
			}
			records = append(records, r)
		}
		return rows.Err()
	})
	return records, fail("listing migrations", err)
}
