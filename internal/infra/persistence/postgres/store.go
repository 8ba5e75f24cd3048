// Package postgres provides a Postgres-backed state store that mirrors the
// in-memory semantics and snapshots the key space to a JSONB table after
// every successful write.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"procuracore/internal/state"
)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/procuracore?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store persists state to Postgres while reusing the in-memory manager for
// reads and version bookkeeping.
type Store struct {
	*state.Manager
	db *sql.DB
	mu sync.Mutex
}

var _ state.Store = (*Store)(nil)

// NewStore opens a Postgres-backed store using the provided DSN (falls back
// to defaultDSN), ensures the state table exists, and hydrates the in-memory
// manager from any existing rows.
func NewStore(dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS state (
		key TEXT PRIMARY KEY,
		payload JSONB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("ensure state table: %w", err)
	}
	s := &Store{Manager: state.NewManager(), db: db}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `SELECT key, payload FROM state`)
	if err != nil {
		return fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()
	snap := state.Snapshot{}
	for rows.Next() {
		var key string
		var payload []byte
		if err := rows.Scan(&key, &payload); err != nil {
			return fmt.Errorf("scan state: %w", err)
		}
		snap[key] = json.RawMessage(payload)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate state: %w", err)
	}
	if len(snap) == 0 {
		return nil
	}
	return s.Manager.Import(snap)
}

func (s *Store) persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.Manager.Export()
	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `DELETE FROM state`); err != nil {
		return fmt.Errorf("clear state: %w", err)
	}
	for key, payload := range snap {
		if _, err := tx.ExecContext(ctx, `INSERT INTO state(key,payload) VALUES($1,$2)`, key, []byte(payload)); err != nil {
			return fmt.Errorf("insert %s: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

// Set stores a raw payload, then snapshots to Postgres.
func (s *Store) Set(key string, raw json.RawMessage) error {
	if err := s.Manager.Set(key, raw); err != nil {
		return err
	}
	return s.persist()
}

// SetModel stores a value, then snapshots to Postgres.
func (s *Store) SetModel(key string, value any) error {
	if err := s.Manager.SetModel(key, value); err != nil {
		return err
	}
	return s.persist()
}

// CompareAndSwapModel performs the versioned write, then snapshots to
// Postgres.
func (s *Store) CompareAndSwapModel(key string, expected uint64, value any) error {
	if err := s.Manager.CompareAndSwapModel(key, expected, value); err != nil {
		return err
	}
	return s.persist()
}

// Clear drops all keys, then snapshots to Postgres.
func (s *Store) Clear() error {
	if err := s.Manager.Clear(); err != nil {
		return err
	}
	return s.persist()
}

// Import replaces the full state, then snapshots to Postgres.
func (s *Store) Import(snap state.Snapshot) error {
	if err := s.Manager.Import(snap); err != nil {
		return err
	}
	return s.persist()
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// OverrideSQLOpen swaps the sql.Open implementation for tests. The returned
// function restores the original.
func OverrideSQLOpen(fn func(driver, dsn string) (*sql.DB, error)) func() {
	openMu.Lock()
	prev := sqlOpen
	sqlOpen = fn
	openMu.Unlock()
	return func() {
		openMu.Lock()
		sqlOpen = prev
		openMu.Unlock()
	}
}
