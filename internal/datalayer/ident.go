// Package datalayer translates entity CRUD into collection operations against
// the state store, enforcing structural invariants: identity uniqueness,
// timestamp ordering, and the optimistic re-store of mutated collections.
package datalayer

import (
	"crypto/rand"
	"encoding/hex"

	"procuracore/pkg/domain"
)

// newHexSuffix returns 12 hex characters of entropy for generated identities.
func newHexSuffix() string {
	var b [6]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

// NewMaterialNumber generates a material number with the type-specific prefix.
func NewMaterialNumber(t domain.MaterialType) string {
	return t.NumberPrefix() + newHexSuffix()
}

// NewRequisitionNumber generates a purchase requisition identifier.
func NewRequisitionNumber() string {
	return "PR" + newHexSuffix()
}

// NewOrderNumber generates a purchase order identifier.
func NewOrderNumber() string {
	return "PO" + newHexSuffix()
}
