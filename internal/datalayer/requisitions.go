package datalayer

import (
	"time"

	"procuracore/internal/state"
	"procuracore/pkg/domain"
)

// RequisitionsKey is the state-manager key holding the requisition collection.
const RequisitionsKey = "collections/purchase_requisitions"

const requisitionsCollectionName = "PurchaseRequisitions"

// Requisitions is the data layer for purchase requisitions.
type Requisitions struct {
	store state.Store
	nowFn func() time.Time
}

// NewRequisitions constructs a requisition data layer over the given store.
func NewRequisitions(store state.Store) *Requisitions {
	return &Requisitions{
		store: store,
		nowFn: func() time.Time { return time.Now().UTC() },
	}
}

func (r *Requisitions) load() (state.Collection[domain.PurchaseRequisition], uint64, error) {
	col := state.NewCollection[domain.PurchaseRequisition](requisitionsCollectionName)
	found, version, err := r.store.GetModelVersioned(RequisitionsKey, &col)
	if err != nil {
		return col, version, err
	}
	if !found {
		col = state.NewCollection[domain.PurchaseRequisition](requisitionsCollectionName)
	}
	return col, version, nil
}

// GetByID looks a requisition up by its identifier.
func (r *Requisitions) GetByID(id string) (domain.PurchaseRequisition, bool, error) {
	col, _, err := r.load()
	if err != nil {
		return domain.PurchaseRequisition{}, false, err
	}
	req, ok := col.Get(id)
	return req, ok, nil
}

// ListAll returns every requisition in insertion order.
func (r *Requisitions) ListAll() ([]domain.PurchaseRequisition, error) {
	col, _, err := r.load()
	if err != nil {
		return nil, err
	}
	return col.All(), nil
}

// Count returns the number of stored requisitions.
func (r *Requisitions) Count() (int, error) {
	col, _, err := r.load()
	if err != nil {
		return 0, err
	}
	return col.Count(), nil
}

// Create converts the create shape into a draft requisition with a generated
// PR identifier and re-stores the collection.
func (r *Requisitions) Create(req domain.CreateRequisition) (domain.PurchaseRequisition, error) {
	col, version, err := r.load()
	if err != nil {
		return domain.PurchaseRequisition{}, err
	}

	pr := domain.PurchaseRequisition{
		Requester:     req.Requester,
		CostCenter:    req.CostCenter,
		Justification: req.Justification,
		Status:        domain.RequisitionStatusDraft,
		Items:         append([]domain.RequisitionItem(nil), req.Items...),
	}
	pr.ID = NewRequisitionNumber()
	if _, exists := col.Get(pr.ID); exists {
		return domain.PurchaseRequisition{}, domain.ConflictError{Entity: domain.EntityRequisition, ID: pr.ID}
	}
	stampNew(&pr.Base, r.nowFn())

	col = col.Add(pr.ID, pr)
	if err := r.store.CompareAndSwapModel(RequisitionsKey, version, col); err != nil {
		return domain.PurchaseRequisition{}, err
	}
	return pr, nil
}

// Update applies the non-nil fields of req onto the stored requisition.
func (r *Requisitions) Update(id string, req domain.UpdateRequisition) (domain.PurchaseRequisition, bool, error) {
	col, version, err := r.load()
	if err != nil {
		return domain.PurchaseRequisition{}, false, err
	}
	pr, ok := col.Get(id)
	if !ok {
		return domain.PurchaseRequisition{}, false, nil
	}

	if req.Requester != nil {
		pr.Requester = *req.Requester
	}
	if req.CostCenter != nil {
		pr.CostCenter = *req.CostCenter
	}
	if req.Justification != nil {
		pr.Justification = *req.Justification
	}
	if req.Status != nil {
		pr.Status = *req.Status
	}
	if req.Items != nil {
		pr.Items = append([]domain.RequisitionItem(nil), (*req.Items)...)
	}
	stampUpdated(&pr.Base, r.nowFn())

	col = col.Add(id, pr)
	if err := r.store.CompareAndSwapModel(RequisitionsKey, version, col); err != nil {
		return domain.PurchaseRequisition{}, false, err
	}
	return pr, true, nil
}

// SetOrderRef records the purchase order created from this requisition.
func (r *Requisitions) SetOrderRef(id, orderID string) (domain.PurchaseRequisition, bool, error) {
	col, version, err := r.load()
	if err != nil {
		return domain.PurchaseRequisition{}, false, err
	}
	pr, ok := col.Get(id)
	if !ok {
		return domain.PurchaseRequisition{}, false, nil
	}
	pr.OrderID = &orderID
	pr.Status = domain.RequisitionStatusOrdered
	stampUpdated(&pr.Base, r.nowFn())

	col = col.Add(id, pr)
	if err := r.store.CompareAndSwapModel(RequisitionsKey, version, col); err != nil {
		return domain.PurchaseRequisition{}, false, err
	}
	return pr, true, nil
}

// Delete removes the requisition and re-stores the collection.
func (r *Requisitions) Delete(id string) (bool, error) {
	col, version, err := r.load()
	if err != nil {
		return false, err
	}
	col, removed := col.Remove(id)
	if !removed {
		return false, nil
	}
	if err := r.store.CompareAndSwapModel(RequisitionsKey, version, col); err != nil {
		return false, err
	}
	return true, nil
}

// Filter returns requisitions matching every set field of f, in insertion order.
func (r *Requisitions) Filter(f domain.RequisitionFilter) ([]domain.PurchaseRequisition, error) {
	col, _, err := r.load()
	if err != nil {
		return nil, err
	}
	out := make([]domain.PurchaseRequisition, 0)
	for _, pr := range col.All() {
		if f.Status != nil && pr.Status != *f.Status {
			continue
		}
		if f.Requester != nil && pr.Requester != *f.Requester {
			continue
		}
		out = append(out, pr)
	}
	return out, nil
}
