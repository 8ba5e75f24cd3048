package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	nf := NotFoundError{Entity: EntityMaterial, ID: "FIN1"}
	if nf.Error() != "material FIN1 not found" {
		t.Fatalf("unexpected message %q", nf.Error())
	}
	cf := ConflictError{Entity: EntityOrder, ID: "PO1"}
	if cf.Error() != "purchase_order PO1 already exists" {
		t.Fatalf("unexpected message %q", cf.Error())
	}
	cm := ConcurrentModificationError{Key: "k", ExpectedVersion: 1, ActualVersion: 2}
	if !strings.Contains(cm.Error(), "expected version 1, found 2") {
		t.Fatalf("unexpected message %q", cm.Error())
	}
}

func TestNewValidationError(t *testing.T) {
	verr := NewValidationError("bad status",
		"reason", "invalid_status_transition",
		"current_status", "ACTIVE",
	)
	if verr.Error() != "bad status" {
		t.Fatalf("unexpected message %q", verr.Error())
	}
	if verr.Reason() != "invalid_status_transition" {
		t.Fatalf("unexpected reason %q", verr.Reason())
	}
	if verr.Details["current_status"] != "ACTIVE" {
		t.Fatalf("details lost: %+v", verr.Details)
	}

	// Dangling key without a value is dropped.
	partial := NewValidationError("x", "reason")
	if _, ok := partial.Details["reason"]; ok {
		t.Fatalf("dangling key must be ignored")
	}
}

func TestWrapUnexpected(t *testing.T) {
	if WrapUnexpected("op", nil) != nil {
		t.Fatalf("nil must stay nil")
	}

	// Domain kinds pass through untouched.
	nf := NotFoundError{Entity: EntityMaterial, ID: "x"}
	if got := WrapUnexpected("op", nf); got != error(nf) {
		t.Fatalf("domain error was wrapped: %v", got)
	}

	cause := errors.New("disk on fire")
	wrapped := WrapUnexpected("create_material", cause)
	var bad BadRequestError
	if !errors.As(wrapped, &bad) {
		t.Fatalf("expected BadRequestError, got %T", wrapped)
	}
	if strings.Contains(bad.Error(), "disk on fire") {
		t.Fatalf("internal cause leaked into the message: %q", bad.Error())
	}
	if !errors.Is(wrapped, cause) {
		t.Fatalf("cause must remain reachable through Unwrap")
	}

	// Wrapping twice does not stack.
	twice := WrapUnexpected("op", wrapped)
	if twice != wrapped {
		t.Fatalf("BadRequestError was re-wrapped")
	}
}
