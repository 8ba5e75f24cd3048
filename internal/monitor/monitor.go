// Package monitor provides Monitor implementations: structured slog output,
// prometheus counters, and a fan-out for running several at once.
package monitor

import (
	"log"
	"log/slog"

	"procuracore/pkg/domain"
)

// Slog logs monitor reports through a structured logger.
type Slog struct {
	logger *slog.Logger
}

var _ domain.Monitor = (*Slog)(nil)

// NewSlog constructs a slog-backed monitor. A nil logger uses slog.Default.
func NewSlog(logger *slog.Logger) *Slog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Slog{logger: logger}
}

// LogError implements Monitor.
func (s *Slog) LogError(errorType, message, component string, context map[string]any) {
	attrs := make([]any, 0, 2+len(context))
	attrs = append(attrs, slog.String("error_type", errorType), slog.String("component", component))
	for k, v := range context {
		attrs = append(attrs, slog.Any(k, v))
	}
	s.logger.Error(message, attrs...)
}

// LogOperation implements Monitor.
func (s *Slog) LogOperation(component, operation string, success bool, context map[string]any) {
	attrs := make([]any, 0, 3+len(context))
	attrs = append(attrs,
		slog.String("component", component),
		slog.String("operation", operation),
		slog.Bool("success", success),
	)
	for k, v := range context {
		attrs = append(attrs, slog.Any(k, v))
	}
	if success {
		s.logger.Info("operation completed", attrs...)
		return
	}
	s.logger.Warn("operation failed", attrs...)
}

// Multi fans reports out to every wrapped monitor.
type Multi []domain.Monitor

var _ domain.Monitor = (Multi)(nil)

// LogError implements Monitor.
func (m Multi) LogError(errorType, message, component string, context map[string]any) {
	for _, mon := range m {
		mon.LogError(errorType, message, component, context)
	}
}

// LogOperation implements Monitor.
func (m Multi) LogOperation(component, operation string, success bool, context map[string]any) {
	for _, mon := range m {
		mon.LogOperation(component, operation, success, context)
	}
}

// Guard wraps a monitor so that a panicking implementation degrades to a
// local diagnostic line instead of failing the primary operation.
type Guard struct {
	inner domain.Monitor
}

var _ domain.Monitor = Guard{}

// NewGuard wraps inner. A nil inner becomes a no-op.
func NewGuard(inner domain.Monitor) Guard {
	if inner == nil {
		inner = domain.NoopMonitor{}
	}
	return Guard{inner: inner}
}

// LogError implements Monitor.
func (g Guard) LogError(errorType, message, component string, context map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("monitor log_error failed for %s/%s: %v", component, errorType, r)
		}
	}()
	g.inner.LogError(errorType, message, component, context)
}

// LogOperation implements Monitor.
func (g Guard) LogOperation(component, operation string, success bool, context map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("monitor log_operation failed for %s/%s: %v", component, operation, r)
		}
	}()
	g.inner.LogOperation(component, operation, success, context)
}
