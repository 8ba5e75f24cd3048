package service

import (
	"context"

	"github.com/go-playground/validator/v10"

	"procuracore/internal/datalayer"
	"procuracore/internal/monitor"
	"procuracore/pkg/domain"
)

const orderComponent = "order_service"

// OrderService manages purchase orders: direct creation, dispatch, receipt,
// and closure.
type OrderService struct {
	orders    *datalayer.Orders
	materials *datalayer.Materials
	validate  *validator.Validate
	reporter  reporter
}

// NewOrderService constructs an order service.
func NewOrderService(orders *datalayer.Orders, materials *datalayer.Materials, mon domain.Monitor) *OrderService {
	return &OrderService{
		orders:    orders,
		materials: materials,
		validate:  validator.New(),
		reporter:  reporter{monitor: monitor.NewGuard(mon), component: orderComponent},
	}
}

// Create opens a purchase order directly, without a requisition.
func (s *OrderService) Create(_ context.Context, req domain.CreateOrder) (domain.PurchaseOrder, error) {
	const op = "create_order"
	octx := opContext(op, "vendor", req.Vendor)

	if err := translateValidator(s.validate.Struct(req)); err != nil {
		s.reporter.failure(op, err, octx)
		return domain.PurchaseOrder{}, err
	}
	for _, item := range req.Items {
		if _, ok, err := s.materials.GetByID(item.MaterialID); err != nil {
			err = domain.WrapUnexpected(op, err)
			s.reporter.failure(op, err, octx)
			return domain.PurchaseOrder{}, err
		} else if !ok {
			verr := domain.NewValidationError(
				"unknown material "+item.MaterialID,
				"reason", "unknown_material",
				"material_id", item.MaterialID,
			)
			s.reporter.failure(op, verr, octx)
			return domain.PurchaseOrder{}, verr
		}
	}

	po, err := s.orders.Create(req, nil)
	if err != nil {
		err = domain.WrapUnexpected(op, err)
		s.reporter.failure(op, err, octx)
		return domain.PurchaseOrder{}, err
	}
	octx["order_id"] = po.ID
	s.reporter.success(op, octx)
	return po, nil
}

// Get retrieves an order by id.
func (s *OrderService) Get(_ context.Context, id string) (domain.PurchaseOrder, error) {
	const op = "get_order"
	po, ok, err := s.orders.GetByID(id)
	if err != nil {
		err = domain.WrapUnexpected(op, err)
		s.reporter.failure(op, err, opContext(op, "order_id", id))
		return domain.PurchaseOrder{}, err
	}
	if !ok {
		err := domain.NotFoundError{Entity: domain.EntityOrder, ID: id}
		s.reporter.failure(op, err, opContext(op, "order_id", id))
		return domain.PurchaseOrder{}, err
	}
	return po, nil
}

// List returns orders matching every supplied filter.
func (s *OrderService) List(_ context.Context, f domain.OrderFilter) ([]domain.PurchaseOrder, error) {
	out, err := s.orders.Filter(f)
	if err != nil {
		return nil, domain.WrapUnexpected("list_orders", err)
	}
	return out, nil
}

// Update applies a partial update. Status changes must follow the order
// transition table.
func (s *OrderService) Update(_ context.Context, id string, req domain.UpdateOrder) (domain.PurchaseOrder, error) {
	const op = "update_order"
	octx := opContext(op, "order_id", id)

	if err := translateValidator(s.validate.Struct(req)); err != nil {
		s.reporter.failure(op, err, octx)
		return domain.PurchaseOrder{}, err
	}
	current, ok, err := s.orders.GetByID(id)
	if err != nil {
		err = domain.WrapUnexpected(op, err)
		s.reporter.failure(op, err, octx)
		return domain.PurchaseOrder{}, err
	}
	if !ok {
		err := domain.NotFoundError{Entity: domain.EntityOrder, ID: id}
		s.reporter.failure(op, err, octx)
		return domain.PurchaseOrder{}, err
	}
	if req.Status != nil && *req.Status != current.Status {
		if err := checkOrderTransition(current.Status, *req.Status); err != nil {
			s.reporter.failure(op, err, octx)
			return domain.PurchaseOrder{}, err
		}
	}

	po, ok, err := s.orders.Update(id, req)
	if err != nil {
		err = domain.WrapUnexpected(op, err)
		s.reporter.failure(op, err, octx)
		return domain.PurchaseOrder{}, err
	}
	if !ok {
		err := domain.NotFoundError{Entity: domain.EntityOrder, ID: id}
		s.reporter.failure(op, err, octx)
		return domain.PurchaseOrder{}, err
	}
	s.reporter.success(op, octx)
	return po, nil
}

// Send marks an open order as dispatched to the vendor.
func (s *OrderService) Send(ctx context.Context, id string) (domain.PurchaseOrder, error) {
	return s.transition(ctx, id, domain.OrderStatusSent)
}

// Receive marks a sent order as received.
func (s *OrderService) Receive(ctx context.Context, id string) (domain.PurchaseOrder, error) {
	return s.transition(ctx, id, domain.OrderStatusReceived)
}

// Close moves a received order into the terminal CLOSED status.
func (s *OrderService) Close(ctx context.Context, id string) (domain.PurchaseOrder, error) {
	return s.transition(ctx, id, domain.OrderStatusClosed)
}

// Cancel moves an order into the terminal CANCELLED status.
func (s *OrderService) Cancel(ctx context.Context, id string) (domain.PurchaseOrder, error) {
	return s.transition(ctx, id, domain.OrderStatusCancelled)
}

func (s *OrderService) transition(ctx context.Context, id string, next domain.OrderStatus) (domain.PurchaseOrder, error) {
	return s.Update(ctx, id, domain.UpdateOrder{Status: &next})
}

// Delete removes an order. Only terminal orders can be deleted.
func (s *OrderService) Delete(_ context.Context, id string) error {
	const op = "delete_order"
	octx := opContext(op, "order_id", id)

	current, ok, err := s.orders.GetByID(id)
	if err != nil {
		err = domain.WrapUnexpected(op, err)
		s.reporter.failure(op, err, octx)
		return err
	}
	if !ok {
		err := domain.NotFoundError{Entity: domain.EntityOrder, ID: id}
		s.reporter.failure(op, err, octx)
		return err
	}
	switch current.Status {
	case domain.OrderStatusClosed, domain.OrderStatusCancelled:
	default:
		err := domain.NewValidationError(
			"order "+id+" is open and cannot be deleted",
			"reason", "order_open",
			"current_status", string(current.Status),
		)
		s.reporter.failure(op, err, octx)
		return err
	}

	removed, err := s.orders.Delete(id)
	if err != nil {
		err = domain.WrapUnexpected(op, err)
		s.reporter.failure(op, err, octx)
		return err
	}
	if !removed {
		err := domain.NotFoundError{Entity: domain.EntityOrder, ID: id}
		s.reporter.failure(op, err, octx)
		return err
	}
	s.reporter.success(op, octx)
	return nil
}

func checkOrderTransition(current, requested domain.OrderStatus) error {
	if !requested.Valid() {
		return domain.NewValidationError(
			"unknown order status "+string(requested),
			"reason", "invalid_field",
			"field", "status",
		)
	}
	if !current.CanTransitionTo(requested) {
		return domain.NewValidationError(
			"cannot move order from "+string(current)+" to "+string(requested),
			"reason", "invalid_status_transition",
			"current_status", string(current),
			"requested_status", string(requested),
		)
	}
	return nil
}
