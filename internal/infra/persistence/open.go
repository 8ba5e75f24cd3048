// Package persistence selects a state store backend from configuration.
package persistence

import (
	"fmt"

	"procuracore/internal/config"
	"procuracore/internal/infra/persistence/postgres"
	"procuracore/internal/infra/persistence/sqlite"
	"procuracore/internal/state"
)

// Driver identifies a concrete state store implementation.
type Driver string

const (
	DriverMemory   Driver = "memory"   // in-memory only (tests / ephemeral)
	DriverSQLite   Driver = "sqlite"   // embedded sqlite file
	DriverPostgres Driver = "postgres" // PostgreSQL server
)

// Open constructs the state store named by cfg. Defaults to memory when the
// driver is unset.
func Open(cfg config.Storage) (state.Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = string(DriverMemory)
	}
	switch Driver(driver) {
	case DriverMemory:
		return state.NewManager(), nil
	case DriverSQLite:
		return sqlite.NewStore(cfg.SQLitePath)
	case DriverPostgres:
		return postgres.NewStore(cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
