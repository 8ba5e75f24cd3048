package state

import (
	"encoding/json"
	"errors"
	"testing"

	"procuracore/pkg/domain"
)

type widget struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestManagerSetAndGetModel(t *testing.T) {
	m := NewManager()

	if err := m.SetModel("widgets/a", widget{Name: "bolt", Count: 3}); err != nil {
		t.Fatalf("set model: %v", err)
	}
	var got widget
	found, err := m.GetModel("widgets/a", &got)
	if err != nil {
		t.Fatalf("get model: %v", err)
	}
	if !found {
		t.Fatalf("expected key to be found")
	}
	if got.Name != "bolt" || got.Count != 3 {
		t.Fatalf("unexpected value %+v", got)
	}
	if m.Len() != 1 {
		t.Fatalf("expected len 1, got %d", m.Len())
	}
}

func TestManagerAbsentVersusMalformed(t *testing.T) {
	m := NewManager()

	var got widget
	found, err := m.GetModel("missing", &got)
	if err != nil {
		t.Fatalf("absent key must not error, got %v", err)
	}
	if found {
		t.Fatalf("absent key reported found")
	}

	if err := m.Set("broken", json.RawMessage(`{"name":`)); err != nil {
		t.Fatalf("set raw: %v", err)
	}
	found, err = m.GetModel("broken", &got)
	if !found {
		t.Fatalf("malformed key must still report found")
	}
	var malformed MalformedValueError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedValueError, got %v", err)
	}
	if malformed.Key != "broken" {
		t.Fatalf("unexpected key in error: %s", malformed.Key)
	}
}

func TestManagerCompareAndSwap(t *testing.T) {
	m := NewManager()

	// A fresh key writes against version zero.
	if err := m.CompareAndSwapModel("widgets/a", 0, widget{Name: "bolt"}); err != nil {
		t.Fatalf("initial cas: %v", err)
	}
	if v := m.Version("widgets/a"); v != 1 {
		t.Fatalf("expected version 1, got %d", v)
	}

	var got widget
	_, version, err := m.GetModelVersioned("widgets/a", &got)
	if err != nil {
		t.Fatalf("get versioned: %v", err)
	}
	if err := m.CompareAndSwapModel("widgets/a", version, widget{Name: "nut"}); err != nil {
		t.Fatalf("cas at current version: %v", err)
	}

	// The stale expectation must be rejected.
	err = m.CompareAndSwapModel("widgets/a", version, widget{Name: "washer"})
	var conflict domain.ConcurrentModificationError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConcurrentModificationError, got %v", err)
	}
	if conflict.ExpectedVersion != version || conflict.ActualVersion != version+1 {
		t.Fatalf("unexpected versions in conflict: %+v", conflict)
	}

	if _, err := m.GetModel("widgets/a", &got); err != nil {
		t.Fatalf("get after conflict: %v", err)
	}
	if got.Name != "nut" {
		t.Fatalf("losing write must not apply, got %q", got.Name)
	}
}

func TestManagerExportImportClear(t *testing.T) {
	m := NewManager()
	if err := m.SetModel("b", widget{Name: "two"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := m.SetModel("a", widget{Name: "one"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := m.SetModel("a", widget{Name: "one again"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v := m.Version("a"); v != 2 {
		t.Fatalf("expected version 2 after rewrite, got %d", v)
	}

	keys := m.Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Fatalf("expected sorted keys [a b], got %v", keys)
	}

	snap := m.Export()
	other := NewManager()
	if err := other.Import(snap); err != nil {
		t.Fatalf("import: %v", err)
	}
	if other.Len() != 2 {
		t.Fatalf("expected 2 keys after import, got %d", other.Len())
	}
	if v := other.Version("a"); v != 1 {
		t.Fatalf("imported versions must restart at 1, got %d", v)
	}

	if err := m.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if m.Len() != 0 {
		t.Fatalf("expected empty manager after clear")
	}
	if v := m.Version("a"); v != 0 {
		t.Fatalf("cleared key must report version 0, got %d", v)
	}
	// Clear is idempotent.
	if err := m.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestManagerExportIsACopy(t *testing.T) {
	m := NewManager()
	if err := m.Set("a", json.RawMessage(`{"name":"x"}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	snap := m.Export()
	snap["a"][2] = '!'
	raw, _ := m.Get("a")
	if string(raw) != `{"name":"x"}` {
		t.Fatalf("mutating the snapshot leaked into the manager: %s", raw)
	}
}
