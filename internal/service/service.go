// Package service enforces the business rules the data layers do not know
// about: field validation, status transition tables, delete gating, and
// monitor reporting. It is the only layer that raises domain errors.
package service

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"procuracore/pkg/domain"
)

// Context keys shared with monitor implementations. opContext seeds
// startedAtKey; finish replaces it with the elapsed duration so monitors can
// observe operation latency.
const (
	startedAtKey = "started_at"
	durationKey  = "duration_seconds"
)

// reporter funnels operation outcomes to the monitor collaborator. All calls
// go through monitor.Guard (or an equivalent), so reporting can never fail
// the primary operation.
type reporter struct {
	monitor   domain.Monitor
	component string
}

func (r reporter) success(operation string, ctx map[string]any) {
	r.monitor.LogOperation(r.component, operation, true, finish(ctx))
}

func (r reporter) failure(operation string, err error, ctx map[string]any) {
	ctx = finish(ctx)
	r.monitor.LogError(errorType(err), err.Error(), r.component, ctx)
	r.monitor.LogOperation(r.component, operation, false, ctx)
}

// opContext seeds the monitor context for one service call with a
// correlation id, the operation name, and the start time.
func opContext(operation string, kv ...any) map[string]any {
	ctx := map[string]any{
		"op_id":      uuid.NewString(),
		"operation":  operation,
		startedAtKey: time.Now(),
	}
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			ctx[k] = kv[i+1]
		}
	}
	return ctx
}

func finish(ctx map[string]any) map[string]any {
	if started, ok := ctx[startedAtKey].(time.Time); ok {
		delete(ctx, startedAtKey)
		ctx[durationKey] = time.Since(started).Seconds()
	}
	return ctx
}

// errorType maps a domain error to the monitor's error_type label.
func errorType(err error) string {
	switch {
	case isKind[domain.NotFoundError](err):
		return "not_found"
	case isKind[domain.ValidationError](err):
		return "validation"
	case isKind[domain.ConflictError](err):
		return "conflict"
	case isKind[domain.ConcurrentModificationError](err):
		return "concurrent_modification"
	default:
		return "bad_request"
	}
}

func isKind[E error](err error) bool {
	var target E
	return errors.As(err, &target)
}

// translateValidator converts go-playground validation failures into a
// domain ValidationError carrying the first offending field.
func translateValidator(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.WrapUnexpected("validate", err)
	}
	fe := verrs[0]
	return domain.NewValidationError(
		"invalid value for "+fe.Field(),
		"reason", "invalid_field",
		"field", strings.ToLower(fe.Field()),
		"constraint", fe.Tag(),
	)
}
