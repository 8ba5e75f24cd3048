// Package state implements the process-wide key/value store underlying all
// entity collections, plus the versioning used for optimistic writes.
package state

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"procuracore/pkg/domain"
)

// Snapshot is a point-in-time copy of every stored key and its raw payload.
type Snapshot map[string]json.RawMessage

// MalformedValueError reports that a key exists but its payload cannot be
// decoded into the requested type. Callers can therefore distinguish corrupt
// state from plain absence.
type MalformedValueError struct {
	Key   string
	cause error
}

func (e MalformedValueError) Error() string {
	return fmt.Sprintf("malformed value stored at %s: %v", e.Key, e.cause)
}

// Unwrap exposes the decode failure.
func (e MalformedValueError) Unwrap() error { return e.cause }

// Store is the storage contract consumed by data layers. Manager implements
// it in memory; persistent backends wrap a Manager and add durability.
type Store interface {
	// Get returns a copy of the raw payload stored at key, or ok=false.
	Get(key string) (json.RawMessage, bool)
	// Set stores a raw payload unconditionally.
	Set(key string, raw json.RawMessage) error
	// GetModel decodes the payload at key into dst. Absence is (false, nil);
	// a present but undecodable payload is (true, MalformedValueError).
	GetModel(key string, dst any) (bool, error)
	// SetModel stores the JSON representation of value unconditionally.
	SetModel(key string, value any) error
	// GetModelVersioned is GetModel plus the key's version, read atomically,
	// for use as the expectation in a later CompareAndSwapModel.
	GetModelVersioned(key string, dst any) (bool, uint64, error)
	// CompareAndSwapModel stores value only if the key's version still equals
	// expected; otherwise it returns domain.ConcurrentModificationError.
	CompareAndSwapModel(key string, expected uint64, value any) error
	// Version returns the current version of key, zero when absent.
	Version(key string) uint64
	// Keys returns all stored keys in lexical order.
	Keys() []string
	// Len returns the number of stored keys.
	Len() int
	// Clear drops all keys. Idempotent.
	Clear() error
	// Export copies the full state for persistence or archival.
	Export() Snapshot
	// Import replaces the full state from a snapshot.
	Import(Snapshot) error
}

// Manager is the in-memory Store. Access is mutex-guarded; every write bumps
// a per-key version counter that CompareAndSwapModel checks.
type Manager struct {
	mu       sync.RWMutex
	values   map[string]json.RawMessage
	versions map[string]uint64
}

var _ Store = (*Manager)(nil)

// NewManager constructs an empty in-memory state manager.
func NewManager() *Manager {
	return &Manager{
		values:   make(map[string]json.RawMessage),
		versions: make(map[string]uint64),
	}
}

// Get returns a copy of the raw payload stored at key.
func (m *Manager) Get(key string) (json.RawMessage, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, ok := m.values[key]
	if !ok {
		return nil, false
	}
	return append(json.RawMessage(nil), raw...), true
}

// Set stores a raw payload unconditionally and bumps the key's version.
func (m *Manager) Set(key string, raw json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store(key, raw)
	return nil
}

// GetModel decodes the payload at key into dst.
func (m *Manager) GetModel(key string, dst any) (bool, error) {
	raw, ok := m.Get(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, MalformedValueError{Key: key, cause: err}
	}
	return true, nil
}

// GetModelVersioned decodes the payload at key into dst and returns the
// key's version under the same lock acquisition.
func (m *Manager) GetModelVersioned(key string, dst any) (bool, uint64, error) {
	m.mu.RLock()
	raw, ok := m.values[key]
	version := m.versions[key]
	if ok {
		raw = append(json.RawMessage(nil), raw...)
	}
	m.mu.RUnlock()
	if !ok {
		return false, version, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, version, MalformedValueError{Key: key, cause: err}
	}
	return true, version, nil
}

// SetModel stores the JSON representation of value unconditionally.
func (m *Manager) SetModel(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return m.Set(key, raw)
}

// CompareAndSwapModel stores value only when the key's version matches
// expected. Use Version (or zero for a not-yet-existing key) to obtain the
// expectation at read time.
func (m *Manager) CompareAndSwapModel(key string, expected uint64, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if current := m.versions[key]; current != expected {
		return domain.ConcurrentModificationError{Key: key, ExpectedVersion: expected, ActualVersion: current}
	}
	m.store(key, raw)
	return nil
}

// Version returns the current version of key, zero when absent.
func (m *Manager) Version(key string) uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.versions[key]
}

// Keys returns all stored keys in lexical order.
func (m *Manager) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of stored keys.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

// Clear drops all keys and their versions.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = make(map[string]json.RawMessage)
	m.versions = make(map[string]uint64)
	return nil
}

// Export copies the full state.
func (m *Manager) Export() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(Snapshot, len(m.values))
	for k, v := range m.values {
		snap[k] = append(json.RawMessage(nil), v...)
	}
	return snap
}

// Import replaces the full state from a snapshot. Versions restart at one
// for every imported key.
func (m *Manager) Import(snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = make(map[string]json.RawMessage, len(snap))
	m.versions = make(map[string]uint64, len(snap))
	for k, v := range snap {
		m.values[k] = append(json.RawMessage(nil), v...)
		m.versions[k] = 1
	}
	return nil
}

// store writes under the held write lock.
func (m *Manager) store(key string, raw json.RawMessage) {
	m.values[key] = append(json.RawMessage(nil), raw...)
	m.versions[key]++
}
