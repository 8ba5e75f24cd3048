package postgres

import (
	"database/sql"
	"errors"
	"testing"
)

func TestNewStoreSurfacesOpenFailure(t *testing.T) {
	restore := OverrideSQLOpen(func(driver, dsn string) (*sql.DB, error) {
		if driver != "pgx" {
			t.Fatalf("unexpected driver %s", driver)
		}
		return nil, errors.New("refused")
	})
	defer restore()

	if _, err := NewStore("postgres://example/db"); err == nil {
		t.Fatalf("expected open failure to surface")
	}
}

func TestNewStoreDefaultsDSN(t *testing.T) {
	var gotDSN string
	restore := OverrideSQLOpen(func(_, dsn string) (*sql.DB, error) {
		gotDSN = dsn
		return nil, errors.New("refused")
	})
	defer restore()

	_, _ = NewStore("")
	if gotDSN != defaultDSN {
		t.Fatalf("expected default dsn, got %s", gotDSN)
	}
}
