// Package domain defines the core procurement entities, their closed status
// enumerations, and the transition tables that govern status changes.
package domain

import "time"

// EntityType identifies the kind of record stored in a state collection.
type EntityType string

// Supported entity type identifiers used in monitor context and persistence keys.
const (
	// EntityMaterial identifies a material master record.
	EntityMaterial EntityType = "material"
	// EntityRequisition identifies a purchase requisition record.
	EntityRequisition EntityType = "purchase_requisition"
	// EntityOrder identifies a purchase order record.
	EntityOrder EntityType = "purchase_order"
)

// MaterialType classifies a material for procurement purposes and determines
// the prefix of generated material numbers.
type MaterialType string

// Canonical material types. Unknown types fall back to the MAT prefix.
const (
	MaterialTypeRaw      MaterialType = "RAW"
	MaterialTypeFinished MaterialType = "FINISHED"
	MaterialTypeService  MaterialType = "SERVICE"
	MaterialTypeTrading  MaterialType = "TRADING"
)

// MaterialStatus enumerates material master lifecycle states.
type MaterialStatus string

// Canonical material statuses. Deprecated is terminal.
const (
	MaterialStatusActive     MaterialStatus = "ACTIVE"
	MaterialStatusInactive   MaterialStatus = "INACTIVE"
	MaterialStatusPlanned    MaterialStatus = "PLANNED"
	MaterialStatusDeprecated MaterialStatus = "DEPRECATED"
)

// RequisitionStatus enumerates purchase requisition workflow states.
type RequisitionStatus string

// Canonical requisition statuses. Ordered and Cancelled are terminal.
const (
	RequisitionStatusDraft     RequisitionStatus = "DRAFT"
	RequisitionStatusSubmitted RequisitionStatus = "SUBMITTED"
	RequisitionStatusApproved  RequisitionStatus = "APPROVED"
	RequisitionStatusRejected  RequisitionStatus = "REJECTED"
	RequisitionStatusOrdered   RequisitionStatus = "ORDERED"
	RequisitionStatusCancelled RequisitionStatus = "CANCELLED"
)

// OrderStatus enumerates purchase order workflow states.
type OrderStatus string

// Canonical order statuses. Closed and Cancelled are terminal.
const (
	OrderStatusOpen      OrderStatus = "OPEN"
	OrderStatusSent      OrderStatus = "SENT"
	OrderStatusReceived  OrderStatus = "RECEIVED"
	OrderStatusClosed    OrderStatus = "CLOSED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Base contains common fields for all domain records. UpdatedAt is always
// strictly later than CreatedAt once a record has been stored.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Material represents a material master record.
type Material struct {
	Base
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	Type            MaterialType   `json:"type"`
	Status          MaterialStatus `json:"status"`
	BaseUnit        string         `json:"base_unit"`
	Plant           string         `json:"plant,omitempty"`
	StorageLocation string         `json:"storage_location,omitempty"`
}

// RequisitionItem is a single line on a purchase requisition or order.
type RequisitionItem struct {
	MaterialID string  `json:"material_id" validate:"required"`
	Quantity   float64 `json:"quantity" validate:"gt=0"`
	Unit       string  `json:"unit"`
	Note       string  `json:"note,omitempty"`
}

// PurchaseRequisition represents a request to procure materials.
type PurchaseRequisition struct {
	Base
	Requester     string            `json:"requester"`
	CostCenter    string            `json:"cost_center,omitempty"`
	Justification string            `json:"justification,omitempty"`
	Status        RequisitionStatus `json:"status"`
	Items         []RequisitionItem `json:"items"`
	OrderID       *string           `json:"order_id,omitempty"`
}

// PurchaseOrder represents an order issued to a vendor, usually converted
// from an approved requisition.
type PurchaseOrder struct {
	Base
	Vendor        string            `json:"vendor"`
	Status        OrderStatus       `json:"status"`
	Items         []RequisitionItem `json:"items"`
	RequisitionID *string           `json:"requisition_id,omitempty"`
}

// materialTransitions is the fixed table of allowed material status moves.
// Deprecated has no outgoing transitions.
var materialTransitions = map[MaterialStatus][]MaterialStatus{
	MaterialStatusActive:     {MaterialStatusInactive, MaterialStatusDeprecated},
	MaterialStatusInactive:   {MaterialStatusActive, MaterialStatusDeprecated},
	MaterialStatusPlanned:    {MaterialStatusActive, MaterialStatusInactive, MaterialStatusDeprecated},
	MaterialStatusDeprecated: {},
}

var requisitionTransitions = map[RequisitionStatus][]RequisitionStatus{
	RequisitionStatusDraft:     {RequisitionStatusSubmitted, RequisitionStatusCancelled},
	RequisitionStatusSubmitted: {RequisitionStatusApproved, RequisitionStatusRejected, RequisitionStatusCancelled},
	RequisitionStatusApproved:  {RequisitionStatusOrdered},
	RequisitionStatusRejected:  {RequisitionStatusDraft},
	RequisitionStatusOrdered:   {},
	RequisitionStatusCancelled: {},
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusOpen:      {OrderStatusSent, OrderStatusCancelled},
	OrderStatusSent:      {OrderStatusReceived, OrderStatusCancelled},
	OrderStatusReceived:  {OrderStatusClosed},
	OrderStatusClosed:    {},
	OrderStatusCancelled: {},
}

// Valid reports whether s is a member of the closed material status set.
func (s MaterialStatus) Valid() bool {
	_, ok := materialTransitions[s]
	return ok
}

// CanTransitionTo reports whether the move from s to next is allowed.
func (s MaterialStatus) CanTransitionTo(next MaterialStatus) bool {
	for _, allowed := range materialTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a member of the closed requisition status set.
func (s RequisitionStatus) Valid() bool {
	_, ok := requisitionTransitions[s]
	return ok
}

// CanTransitionTo reports whether the move from s to next is allowed.
func (s RequisitionStatus) CanTransitionTo(next RequisitionStatus) bool {
	for _, allowed := range requisitionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a member of the closed order status set.
func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransitionTo reports whether the move from s to next is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// NumberPrefix returns the material-number prefix for a material type.
func (t MaterialType) NumberPrefix() string {
	switch t {
	case MaterialTypeRaw:
		return "RAW"
	case MaterialTypeFinished:
		return "FIN"
	case MaterialTypeService:
		return "SRV"
	case MaterialTypeTrading:
		return "TRD"
	default:
		return "MAT"
	}
}
