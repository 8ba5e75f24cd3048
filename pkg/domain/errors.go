package domain

import "fmt"

// NotFoundError reports that a requested entity identity does not exist.
// Only services raise it; the storage layers signal absence with ok=false.
type NotFoundError struct {
	Entity EntityType
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ConflictError reports a creation attempt with an identity that already exists.
type ConflictError struct {
	Entity EntityType
	ID     string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("%s %s already exists", e.Entity, e.ID)
}

// ValidationError reports a failed business-rule precondition. Details carries
// structured context for per-field rendering, e.g. reason, current_status,
// requested_status.
type ValidationError struct {
	Message string
	Details map[string]string
}

func (e ValidationError) Error() string {
	return e.Message
}

// Reason returns the details reason field, or empty.
func (e ValidationError) Reason() string {
	return e.Details["reason"]
}

// NewValidationError builds a ValidationError from a message and alternating
// detail key/value pairs.
func NewValidationError(message string, kv ...string) ValidationError {
	details := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		details[kv[i]] = kv[i+1]
	}
	return ValidationError{Message: message, Details: details}
}

// ConcurrentModificationError reports that the optimistic read-modify-write
// cycle lost a race: the stored version advanced between read and write.
type ConcurrentModificationError struct {
	Key             string
	ExpectedVersion uint64
	ActualVersion   uint64
}

func (e ConcurrentModificationError) Error() string {
	return fmt.Sprintf("concurrent modification of %s: expected version %d, found %d", e.Key, e.ExpectedVersion, e.ActualVersion)
}

// BadRequestError wraps an unexpected failure at the service boundary with a
// sanitized message so internal error types do not leak to callers. The cause
// is retained for unwrapping in diagnostics.
type BadRequestError struct {
	Message string
	cause   error
}

func (e BadRequestError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause.
func (e BadRequestError) Unwrap() error {
	return e.cause
}

// WrapUnexpected converts err into a BadRequestError unless it is already one
// of the domain error kinds, which pass through unchanged.
func WrapUnexpected(operation string, err error) error {
	if err == nil {
		return nil
	}
	switch err.(type) {
	case NotFoundError, ConflictError, ValidationError, ConcurrentModificationError, BadRequestError:
		return err
	case *NotFoundError, *ConflictError, *ValidationError, *ConcurrentModificationError, *BadRequestError:
		return err
	}
	return BadRequestError{
		Message: fmt.Sprintf("%s failed: internal error", operation),
		cause:   err,
	}
}
