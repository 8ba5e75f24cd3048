package datalayer

import (
	"time"

	"procuracore/internal/state"
	"procuracore/pkg/domain"
)

// OrdersKey is the state-manager key holding the purchase order collection.
const OrdersKey = "collections/purchase_orders"

const ordersCollectionName = "PurchaseOrders"

// Orders is the data layer for purchase orders.
type Orders struct {
	store state.Store
	nowFn func() time.Time
}

// NewOrders constructs an order data layer over the given store.
func NewOrders(store state.Store) *Orders {
	return &Orders{
		store: store,
		nowFn: func() time.Time { return time.Now().UTC() },
	}
}

func (o *Orders) load() (state.Collection[domain.PurchaseOrder], uint64, error) {
	col := state.NewCollection[domain.PurchaseOrder](ordersCollectionName)
	found, version, err := o.store.GetModelVersioned(OrdersKey, &col)
	if err != nil {
		return col, version, err
	}
	if !found {
		col = state.NewCollection[domain.PurchaseOrder](ordersCollectionName)
	}
	return col, version, nil
}

// GetByID looks an order up by its identifier.
func (o *Orders) GetByID(id string) (domain.PurchaseOrder, bool, error) {
	col, _, err := o.load()
	if err != nil {
		return domain.PurchaseOrder{}, false, err
	}
	po, ok := col.Get(id)
	return po, ok, nil
}

// ListAll returns every order in insertion order.
func (o *Orders) ListAll() ([]domain.PurchaseOrder, error) {
	col, _, err := o.load()
	if err != nil {
		return nil, err
	}
	return col.All(), nil
}

// Count returns the number of stored orders.
func (o *Orders) Count() (int, error) {
	col, _, err := o.load()
	if err != nil {
		return 0, err
	}
	return col.Count(), nil
}

// Create opens a purchase order with a generated PO identifier. The optional
// requisition reference links back to the requisition it was converted from.
func (o *Orders) Create(req domain.CreateOrder, requisitionID *string) (domain.PurchaseOrder, error) {
	col, version, err := o.load()
	if err != nil {
		return domain.PurchaseOrder{}, err
	}

	po := domain.PurchaseOrder{
		Vendor:        req.Vendor,
		Status:        domain.OrderStatusOpen,
		Items:         append([]domain.RequisitionItem(nil), req.Items...),
		RequisitionID: requisitionID,
	}
	po.ID = NewOrderNumber()
	if _, exists := col.Get(po.ID); exists {
		return domain.PurchaseOrder{}, domain.ConflictError{Entity: domain.EntityOrder, ID: po.ID}
	}
	stampNew(&po.Base, o.nowFn())

	col = col.Add(po.ID, po)
	if err := o.store.CompareAndSwapModel(OrdersKey, version, col); err != nil {
		return domain.PurchaseOrder{}, err
	}
	return po, nil
}

// Update applies the non-nil fields of req onto the stored order.
func (o *Orders) Update(id string, req domain.UpdateOrder) (domain.PurchaseOrder, bool, error) {
	col, version, err := o.load()
	if err != nil {
		return domain.PurchaseOrder{}, false, err
	}
	po, ok := col.Get(id)
	if !ok {
		return domain.PurchaseOrder{}, false, nil
	}

	if req.Vendor != nil {
		po.Vendor = *req.Vendor
	}
	if req.Status != nil {
		po.Status = *req.Status
	}
	stampUpdated(&po.Base, o.nowFn())

	col = col.Add(id, po)
	if err := o.store.CompareAndSwapModel(OrdersKey, version, col); err != nil {
		return domain.PurchaseOrder{}, false, err
	}
	return po, true, nil
}

// Delete removes the order and re-stores the collection.
func (o *Orders) Delete(id string) (bool, error) {
	col, version, err := o.load()
	if err != nil {
		return false, err
	}
	col, removed := col.Remove(id)
	if !removed {
		return false, nil
	}
	if err := o.store.CompareAndSwapModel(OrdersKey, version, col); err != nil {
		return false, err
	}
	return true, nil
}

// Filter returns orders matching every set field of f, in insertion order.
func (o *Orders) Filter(f domain.OrderFilter) ([]domain.PurchaseOrder, error) {
	col, _, err := o.load()
	if err != nil {
		return nil, err
	}
	out := make([]domain.PurchaseOrder, 0)
	for _, po := range col.All() {
		if f.Status != nil && po.Status != *f.Status {
			continue
		}
		if f.Vendor != nil && po.Vendor != *f.Vendor {
			continue
		}
		out = append(out, po)
	}
	return out, nil
}
