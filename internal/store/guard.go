package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// guard serializes all access to the single database handle. Callers get
// the handle only inside do or tx, and the lock is released on every exit
// path. A panic while holding the guard poisons it: the panic continues,
// and every later acquisition fails with ErrPoisoned.
type guard struct {
	mu       sync.Mutex
	db       *sql.DB
	poisoned bool
	closed   bool
	logger   *slog.Logger
}

func newGuard(db *sql.DB, logger *slog.Logger) *guard {
	return &guard{db: db, logger: logger}
}

func (g *guard) do(fn func(q querier) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return ErrClosed
	}
	if g.poisoned {
		return ErrPoisoned
	}
	defer func() {
		if r := recover(); r != nil {
			g.poisoned = true
			g.logger.Error("store operation panicked, handle poisoned", "panic", r)
			panic(r)
		}
	}()

	return fn(g.db)
}

// tx runs fn inside a single transaction; any error or panic rolls it back.
func (g *guard) tx(fn func(tx *sql.Tx) error) error {
	return g.do(func(querier) error {
		tx, err := g.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback()

		if err := fn(tx); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing transaction: %w", err)
		}
		return nil
	})
}

// close waits for any in-flight operation, then closes the handle. Later
// acquisitions fail with ErrClosed.
func (g *guard) close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return nil
	}
	g.closed = true
	return g.db.Close()
}
