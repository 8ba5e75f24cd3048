package domain

// CreateMaterial is the inbound shape for creating a material. A blank
// MaterialNumber means the data layer generates one from the material type.
type CreateMaterial struct {
	MaterialNumber  string         `json:"material_number,omitempty"`
	Name            string         `json:"name" validate:"required"`
	Description     string         `json:"description"`
	Type            MaterialType   `json:"type"`
	Status          MaterialStatus `json:"status"`
	BaseUnit        string         `json:"base_unit"`
	Plant           string         `json:"plant,omitempty"`
	StorageLocation string         `json:"storage_location,omitempty"`
}

// UpdateMaterial carries partial updates; nil fields are left untouched.
type UpdateMaterial struct {
	Name            *string         `json:"name,omitempty" validate:"omitempty,min=1"`
	Description     *string         `json:"description,omitempty"`
	Type            *MaterialType   `json:"type,omitempty"`
	Status          *MaterialStatus `json:"status,omitempty"`
	BaseUnit        *string         `json:"base_unit,omitempty"`
	Plant           *string         `json:"plant,omitempty"`
	StorageLocation *string         `json:"storage_location,omitempty"`
}

// MaterialFilter selects materials by exact match on the provided fields.
// Nil fields are no-ops; set fields compose with AND.
type MaterialFilter struct {
	Status *MaterialStatus
	Type   *MaterialType
	Plant  *string
}

// ListMaterials is the service-level listing query: the exact-match filter
// plus an optional case-insensitive search over name, description, and id.
type ListMaterials struct {
	Status *MaterialStatus
	Type   *MaterialType
	Plant  *string
	Search string
}

// CreateRequisition is the inbound shape for opening a purchase requisition.
type CreateRequisition struct {
	Requester     string            `json:"requester" validate:"required"`
	CostCenter    string            `json:"cost_center,omitempty"`
	Justification string            `json:"justification,omitempty"`
	Items         []RequisitionItem `json:"items" validate:"required,min=1,dive"`
}

// UpdateRequisition carries partial updates; nil fields are left untouched.
type UpdateRequisition struct {
	Requester     *string            `json:"requester,omitempty" validate:"omitempty,min=1"`
	CostCenter    *string            `json:"cost_center,omitempty"`
	Justification *string            `json:"justification,omitempty"`
	Status        *RequisitionStatus `json:"status,omitempty"`
	Items         *[]RequisitionItem `json:"items,omitempty" validate:"omitempty,min=1,dive"`
}

// RequisitionFilter selects requisitions by exact match on the provided fields.
type RequisitionFilter struct {
	Status    *RequisitionStatus
	Requester *string
}

// CreateOrder is the inbound shape for opening a purchase order directly.
// Orders converted from requisitions are built by the service instead.
type CreateOrder struct {
	Vendor string            `json:"vendor" validate:"required"`
	Items  []RequisitionItem `json:"items" validate:"required,min=1,dive"`
}

// UpdateOrder carries partial updates; nil fields are left untouched.
type UpdateOrder struct {
	Vendor *string      `json:"vendor,omitempty" validate:"omitempty,min=1"`
	Status *OrderStatus `json:"status,omitempty"`
}

// OrderFilter selects orders by exact match on the provided fields.
type OrderFilter struct {
	Status *OrderStatus
	Vendor *string
}
