// Package sqlite provides a SQLite-backed state store. It wraps the in-memory
// manager and snapshots the full key space to a single table after every
// successful write.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"procuracore/internal/state"
)

// Store persists the in-memory state to a SQLite table as JSON payloads.
type Store struct {
	*state.Manager
	db   *sql.DB
	mu   sync.Mutex
	path string
}

var _ state.Store = (*Store)(nil)

// NewStore opens (or creates) the database at path, ensures the state table
// exists, and hydrates the in-memory manager from any existing rows.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = "procuracore.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		key TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create state table: %w", err)
	}
	s := &Store{Manager: state.NewManager(), db: db, path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	rows, err := s.db.Query(`SELECT key, payload FROM state`)
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

func (s *Store) persist() (retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.Manager.Export()
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	// Keys come and go, so replace the whole table each snapshot.
	if _, err := tx.Exec(`DELETE FROM state`); err != nil {
		retErr = fmt.Errorf("clear state: %w", err)
		return retErr
	}
	for key, payload := range snap {
		if _, err := tx.Exec(`INSERT INTO state(key,payload) VALUES(?,?)`, key, []byte(payload)); err != nil {
			retErr = fmt.Errorf("insert %s: %w", key, err)
			return retErr
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	return nil
}

// Set stores a raw payload, then snapshots to SQLite.
func (s *Store) Set(key string, raw json.RawMessage) error {
	if err := s.Manager.Set(key, raw); err != nil {
		return err
	}
	return s.persist()
}

// SetModel stores a value, then snapshots to SQLite.
func (s *Store) SetModel(key string, value any) error {
	if err := s.Manager.SetModel(key, value); err != nil {
		return err
	}
	return s.persist()
}

// CompareAndSwapModel performs the versioned write, then snapshots to SQLite.
func (s *Store) CompareAndSwapModel(key string, expected uint64, value any) error {
	if err := s.Manager.CompareAndSwapModel(key, expected, value); err != nil {
		return err
	}
	return s.persist()
}

// Clear drops all keys, then snapshots to SQLite.
func (s *Store) Clear() error {
	if err := s.Manager.Clear(); err != nil {
		return err
	}
	return s.persist()
}

// Import replaces the full state, then snapshots to SQLite.
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

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }
