package service

import (
	"context"

	"github.com/go-playground/validator/v10"

	"procuracore/internal/datalayer"
	"procuracore/internal/monitor"
	"procuracore/pkg/domain"
)

const requisitionComponent = "requisition_service"

// RequisitionService manages the purchase requisition workflow: draft,
// submit, approve or reject, and conversion into a purchase order.
type RequisitionService struct {
	requisitions *datalayer.Requisitions
	orders       *datalayer.Orders
	materials    *datalayer.Materials
	validate     *validator.Validate
	reporter     reporter
}

// NewRequisitionService constructs a requisition service. The material layer
// is consulted to verify line items reference usable materials.
func NewRequisitionService(requisitions *datalayer.Requisitions, orders *datalayer.Orders, materials *datalayer.Materials, mon domain.Monitor) *RequisitionService {
	return &RequisitionService{
		requisitions: requisitions,
		orders:       orders,
		materials:    materials,
		validate:     validator.New(),
		reporter:     reporter{monitor: monitor.NewGuard(mon), component: requisitionComponent},
	}
}

// Create opens a draft requisition after checking that every line item
// references an existing, non-deprecated material.
func (s *RequisitionService) Create(_ context.Context, req domain.CreateRequisition) (domain.PurchaseRequisition, error) {
	const op = "create_requisition"
	octx := opContext(op, "requester", req.Requester)

	if err := translateValidator(s.validate.Struct(req)); err != nil {
		s.reporter.failure(op, err, octx)
		return domain.PurchaseRequisition{}, err
	}
	if err := s.checkItems(req.Items); err != nil {
		s.reporter.failure(op, err, octx)
		return domain.PurchaseRequisition{}, err
	}

	pr, err := s.requisitions.Create(req)
	if err != nil {
		err = domain.WrapUnexpected(op, err)
		s.reporter.failure(op, err, octx)
		return domain.PurchaseRequisition{}, err
	}
	octx["requisition_id"] = pr.ID
	s.reporter.success(op, octx)
	return pr, nil
}

// Get retrieves a requisition by id.
func (s *RequisitionService) Get(_ context.Context, id string) (domain.PurchaseRequisition, error) {
	const op = "get_requisition"
	pr, ok, err := s.requisitions.GetByID(id)
	if err != nil {
		err = domain.WrapUnexpected(op, err)
		s.reporter.failure(op, err, opContext(op, "requisition_id", id))
		return domain.PurchaseRequisition{}, err
	}
	if !ok {
		err := domain.NotFoundError{Entity: domain.EntityRequisition, ID: id}
		s.reporter.failure(op, err, opContext(op, "requisition_id", id))
		return domain.PurchaseRequisition{}, err
	}
	return pr, nil
}

// List returns requisitions matching every supplied filter.
func (s *RequisitionService) List(_ context.Context, f domain.RequisitionFilter) ([]domain.PurchaseRequisition, error) {
	out, err := s.requisitions.Filter(f)
	if err != nil {
		return nil, domain.WrapUnexpected("list_requisitions", err)
	}
	return out, nil
}

// Update applies a partial update. Status changes must follow the
// requisition transition table; item changes are re-verified.
func (s *RequisitionService) Update(_ context.Context, id string, req domain.UpdateRequisition) (domain.PurchaseRequisition, error) {
	const op = "update_requisition"
	octx := opContext(op, "requisition_id", id)

	if err := translateValidator(s.validate.Struct(req)); err != nil {
		s.reporter.failure(op, err, octx)
		return domain.PurchaseRequisition{}, err
	}
	current, ok, err := s.requisitions.GetByID(id)
	if err != nil {
		err = domain.WrapUnexpected(op, err)
		s.reporter.failure(op, err, octx)
		return domain.PurchaseRequisition{}, err
	}
	if !ok {
		err := domain.NotFoundError{Entity: domain.EntityRequisition, ID: id}
		s.reporter.failure(op, err, octx)
		return domain.PurchaseRequisition{}, err
	}
	if req.Status != nil && *req.Status != current.Status {
		if err := checkRequisitionTransition(current.Status, *req.Status); err != nil {
			s.reporter.failure(op, err, octx)
			return domain.PurchaseRequisition{}, err
		}
	}
	if req.Items != nil {
		if err := s.checkItems(*req.Items); err != nil {
			s.reporter.failure(op, err, octx)
			return domain.PurchaseRequisition{}, err
		}
	}

	pr, ok, err := s.requisitions.Update(id, req)
	if err != nil {
		err = domain.WrapUnexpected(op, err)
		s.reporter.failure(op, err, octx)
		return domain.PurchaseRequisition{}, err
	}
	if !ok {
		err := domain.NotFoundError{Entity: domain.EntityRequisition, ID: id}
		s.reporter.failure(op, err, octx)
		return domain.PurchaseRequisition{}, err
	}
	s.reporter.success(op, octx)
	return pr, nil
}

// Submit moves a draft requisition into SUBMITTED.
func (s *RequisitionService) Submit(ctx context.Context, id string) (domain.PurchaseRequisition, error) {
	return s.transition(ctx, id, domain.RequisitionStatusSubmitted)
}

// Approve moves a submitted requisition into APPROVED.
func (s *RequisitionService) Approve(ctx context.Context, id string) (domain.PurchaseRequisition, error) {
	return s.transition(ctx, id, domain.RequisitionStatusApproved)
}

// Reject moves a submitted requisition into REJECTED.
func (s *RequisitionService) Reject(ctx context.Context, id string) (domain.PurchaseRequisition, error) {
	return s.transition(ctx, id, domain.RequisitionStatusRejected)
}

// Cancel moves a requisition into the terminal CANCELLED status.
func (s *RequisitionService) Cancel(ctx context.Context, id string) (domain.PurchaseRequisition, error) {
	return s.transition(ctx, id, domain.RequisitionStatusCancelled)
}

func (s *RequisitionService) transition(ctx context.Context, id string, next domain.RequisitionStatus) (domain.PurchaseRequisition, error) {
	return s.Update(ctx, id, domain.UpdateRequisition{Status: &next})
}

// ConvertToOrder turns an approved requisition into a purchase order. The
// requisition moves to ORDERED and records the order reference.
func (s *RequisitionService) ConvertToOrder(_ context.Context, id, vendor string) (domain.PurchaseOrder, error) {
	const op = "convert_requisition"
	octx := opContext(op, "requisition_id", id, "vendor", vendor)

	pr, ok, err := s.requisitions.GetByID(id)
	if err != nil {
		err = domain.WrapUnexpected(op, err)
		s.reporter.failure(op, err, octx)
		return domain.PurchaseOrder{}, err
	}
	if !ok {
		err := domain.NotFoundError{Entity: domain.EntityRequisition, ID: id}
		s.reporter.failure(op, err, octx)
		return domain.PurchaseOrder{}, err
	}
	if pr.Status != domain.RequisitionStatusApproved {
		err := domain.NewValidationError(
			"requisition "+id+" must be approved before conversion",
			"reason", "invalid_status_transition",
			"current_status", string(pr.Status),
			"requested_status", string(domain.RequisitionStatusOrdered),
		)
		s.reporter.failure(op, err, octx)
		return domain.PurchaseOrder{}, err
	}
	if vendor == "" {
		err := domain.NewValidationError(
			"vendor must not be empty",
			"reason", "required",
			"field", "vendor",
		)
		s.reporter.failure(op, err, octx)
		return domain.PurchaseOrder{}, err
	}

	po, err := s.orders.Create(domain.CreateOrder{Vendor: vendor, Items: pr.Items}, &pr.ID)
	if err != nil {
		err = domain.WrapUnexpected(op, err)
		s.reporter.failure(op, err, octx)
		return domain.PurchaseOrder{}, err
	}
	if _, ok, err := s.requisitions.SetOrderRef(id, po.ID); err != nil || !ok {
		if err == nil {
			err = domain.NotFoundError{Entity: domain.EntityRequisition, ID: id}
		}
		// The link write failed after the order was created. Delete the order
		// again so no unlinked order is left behind; the caller can retry the
		// whole conversion.
		if _, delErr := s.orders.Delete(po.ID); delErr != nil {
			octx["compensation_error"] = delErr.Error()
		}
		err = domain.WrapUnexpected(op, err)
		s.reporter.failure(op, err, octx)
		return domain.PurchaseOrder{}, err
	}
	octx["order_id"] = po.ID
	s.reporter.success(op, octx)
	return po, nil
}

// Delete removes a requisition. In-flight requisitions (submitted or
// approved) cannot be deleted.
func (s *RequisitionService) Delete(_ context.Context, id string) error {
	const op = "delete_requisition"
	octx := opContext(op, "requisition_id", id)

	current, ok, err := s.requisitions.GetByID(id)
	if err != nil {
		err = domain.WrapUnexpected(op, err)
		s.reporter.failure(op, err, octx)
		return err
	}
	if !ok {
		err := domain.NotFoundError{Entity: domain.EntityRequisition, ID: id}
		s.reporter.failure(op, err, octx)
		return err
	}
	switch current.Status {
	case domain.RequisitionStatusSubmitted, domain.RequisitionStatusApproved:
		err := domain.NewValidationError(
			"requisition "+id+" is in flight and cannot be deleted",
			"reason", "requisition_in_flight",
			"current_status", string(current.Status),
		)
		s.reporter.failure(op, err, octx)
		return err
	}

	removed, err := s.requisitions.Delete(id)
	if err != nil {
		err = domain.WrapUnexpected(op, err)
		s.reporter.failure(op, err, octx)
		return err
	}
	if !removed {
		err := domain.NotFoundError{Entity: domain.EntityRequisition, ID: id}
		s.reporter.failure(op, err, octx)
		return err
	}
	s.reporter.success(op, octx)
	return nil
}

// checkItems verifies that every line references an existing material that
// has not been deprecated.
func (s *RequisitionService) checkItems(items []domain.RequisitionItem) error {
	for _, item := range items {
		mat, ok, err := s.materials.GetByID(item.MaterialID)
		if err != nil {
			return domain.WrapUnexpected("check_items", err)
		}
		if !ok {
			return domain.NewValidationError(
				"unknown material "+item.MaterialID,
				"reason", "unknown_material",
				"material_id", item.MaterialID,
			)
		}
		if mat.Status == domain.MaterialStatusDeprecated {
			return domain.NewValidationError(
				"material "+item.MaterialID+" is deprecated",
				"reason", "material_deprecated",
				"material_id", item.MaterialID,
			)
		}
	}
	return nil
}

func checkRequisitionTransition(current, requested domain.RequisitionStatus) error {
	if !requested.Valid() {
		return domain.NewValidationError(
			"unknown requisition status "+string(requested),
			"reason", "invalid_field",
			"field", "status",
		)
	}
	if !current.CanTransitionTo(requested) {
		return domain.NewValidationError(
			"cannot move requisition from "+string(current)+" to "+string(requested),
			"reason", "invalid_status_transition",
			"current_status", string(current),
			"requested_status", string(requested),
		)
	}
	return nil
}
