package domain

// Monitor receives operation outcomes from the service layer. Implementations
// must never panic upward or block the primary operation; services additionally
// guard every call so a misbehaving monitor degrades to a local log line.
type Monitor interface {
	// LogError records a failed operation with structured context.
	LogError(errorType, message, component string, context map[string]any)
	// LogOperation records the outcome of a mutating operation.
	LogOperation(component, operation string, success bool, context map[string]any)
}

// NoopMonitor discards all reports.
type NoopMonitor struct{}

// LogError implements Monitor.
func (NoopMonitor) LogError(string, string, string, map[string]any) {}

// LogOperation implements Monitor.
func (NoopMonitor) LogOperation(string, string, bool, map[string]any) {}
