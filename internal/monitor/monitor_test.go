package monitor

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"procuracore/pkg/domain"
)

type captureMonitor struct {
	errors     int
	operations int
}

func (c *captureMonitor) LogError(string, string, string, map[string]any) { c.errors++ }

func (c *captureMonitor) LogOperation(string, string, bool, map[string]any) { c.operations++ }

type explodingMonitor struct{}

func (explodingMonitor) LogError(string, string, string, map[string]any) { panic("boom") }

func (explodingMonitor) LogOperation(string, string, bool, map[string]any) { panic("boom") }

func TestSlogMonitor(t *testing.T) {
	var buf bytes.Buffer
	mon := NewSlog(slog.New(slog.NewJSONHandler(&buf, nil)))

	mon.LogError("validation", "name required", "material_service", map[string]any{"op_id": "abc"})
	mon.LogOperation("material_service", "create_material", true, nil)
	mon.LogOperation("material_service", "create_material", false, nil)

	out := buf.String()
	for _, want := range []string{"validation", "name required", "material_service", "op_id", "operation completed", "operation failed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestSlogMonitorNilLogger(t *testing.T) {
	mon := NewSlog(nil)
	mon.LogOperation("material_service", "create_material", true, nil)
}

func TestMultiFansOut(t *testing.T) {
	a := &captureMonitor{}
	b := &captureMonitor{}
	mon := Multi{a, b}

	mon.LogError("validation", "bad", "svc", nil)
	mon.LogOperation("svc", "op", true, nil)

	for _, c := range []*captureMonitor{a, b} {
		if c.errors != 1 || c.operations != 1 {
			t.Fatalf("fan-out missed a monitor: %+v", c)
		}
	}
}

func TestGuardRecoversPanics(t *testing.T) {
	g := NewGuard(explodingMonitor{})
	// Must not panic upward.
	g.LogError("validation", "bad", "svc", nil)
	g.LogOperation("svc", "op", false, nil)
}

func TestGuardNilBecomesNoop(t *testing.T) {
	g := NewGuard(nil)
	g.LogError("validation", "bad", "svc", nil)
	g.LogOperation("svc", "op", true, nil)
}

var _ domain.Monitor = &captureMonitor{}
