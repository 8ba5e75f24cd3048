package monitor

import (
	"github.com/prometheus/client_golang/prometheus"

	"procuracore/pkg/domain"
)

// Prometheus counts monitor reports as prometheus metrics. Operation reports
// that carry a "duration_seconds" context entry also feed a latency histogram.
type Prometheus struct {
	operations *prometheus.CounterVec
	errors     *prometheus.CounterVec
	durations  *prometheus.HistogramVec
}

var _ domain.Monitor = (*Prometheus)(nil)

// NewPrometheus constructs a prometheus-backed monitor and registers its
// collectors. A nil registerer uses the default registry.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	p := &Prometheus{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "procuracore_operations_total",
			Help: "Service operations by component, operation, and outcome.",
		}, []string{"component", "operation", "status"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "procuracore_errors_total",
			Help: "Service errors by component and error type.",
		}, []string{"component", "error_type"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "procuracore_operation_duration_seconds",
			Help:    "Service operation latency by component and operation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"component", "operation"}),
	}
	reg.MustRegister(p.operations, p.errors, p.durations)
	return p
}

// LogError implements Monitor.
func (p *Prometheus) LogError(errorType, _, component string, _ map[string]any) {
	p.errors.WithLabelValues(component, errorType).Inc()
}

// LogOperation implements Monitor.
func (p *Prometheus) LogOperation(component, operation string, success bool, ctx map[string]any) {
	status := "error"
	if success {
		status = "success"
	}
	p.operations.WithLabelValues(component, operation, status).Inc()
	if d, ok := ctx["duration_seconds"].(float64); ok {
		p.durations.WithLabelValues(component, operation).Observe(d)
	}
}
