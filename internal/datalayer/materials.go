package datalayer

import (
	"strings"
	"time"

	"procuracore/internal/state"
	"procuracore/pkg/domain"
)

// MaterialsKey is the state-manager key holding the material collection.
const MaterialsKey = "collections/materials"

const materialsCollectionName = "Materials"

// Materials is the data layer for material master records.
type Materials struct {
	store state.Store
	nowFn func() time.Time
}

// NewMaterials constructs a material data layer over the given store.
func NewMaterials(store state.Store) *Materials {
	return &Materials{
		store: store,
		nowFn: func() time.Time { return time.Now().UTC() },
	}
}

// load reads the collection and its version in one shot, creating an empty
// collection when the key is absent. Malformed stored state surfaces as an
// error rather than being silently recreated.
func (m *Materials) load() (state.Collection[domain.Material], uint64, error) {
	col := state.NewCollection[domain.Material](materialsCollectionName)
	found, version, err := m.store.GetModelVersioned(MaterialsKey, &col)
	if err != nil {
		return col, version, err
	}
	if !found {
		col = state.NewCollection[domain.Material](materialsCollectionName)
	}
	return col, version, nil
}

// GetByID looks a material up by its material number.
func (m *Materials) GetByID(id string) (domain.Material, bool, error) {
	col, _, err := m.load()
	if err != nil {
		return domain.Material{}, false, err
	}
	mat, ok := col.Get(id)
	return mat, ok, nil
}

// ListAll returns every material in insertion order.
func (m *Materials) ListAll() ([]domain.Material, error) {
	col, _, err := m.load()
	if err != nil {
		return nil, err
	}
	return col.All(), nil
}

// Count returns the number of stored materials.
func (m *Materials) Count() (int, error) {
	col, _, err := m.load()
	if err != nil {
		return 0, err
	}
	return col.Count(), nil
}

// Create converts the create shape into a full material, generating a
// material number when none was supplied, and re-stores the collection.
func (m *Materials) Create(req domain.CreateMaterial) (domain.Material, error) {
	col, version, err := m.load()
	if err != nil {
		return domain.Material{}, err
	}

	mat := domain.Material{
		Name:            req.Name,
		Description:     req.Description,
		Type:            req.Type,
		Status:          req.Status,
		BaseUnit:        req.BaseUnit,
		Plant:           req.Plant,
		StorageLocation: req.StorageLocation,
	}
	if mat.Type == "" {
		mat.Type = domain.MaterialTypeFinished
	}
	if mat.Status == "" {
		mat.Status = domain.MaterialStatusActive
	}
	if mat.BaseUnit == "" {
		mat.BaseUnit = "EA"
	}
	mat.ID = req.MaterialNumber
	if mat.ID == "" {
		mat.ID = NewMaterialNumber(mat.Type)
	}
	if _, exists := col.Get(mat.ID); exists {
		return domain.Material{}, domain.ConflictError{Entity: domain.EntityMaterial, ID: mat.ID}
	}
	stampNew(&mat.Base, m.nowFn())

	col = col.Add(mat.ID, mat)
	if err := m.store.CompareAndSwapModel(MaterialsKey, version, col); err != nil {
		return domain.Material{}, err
	}
	return mat, nil
}

// Update applies the non-nil fields of req onto the stored material. The
// second return is false when the material does not exist; translating that
// into a domain error is the service's job.
func (m *Materials) Update(id string, req domain.UpdateMaterial) (domain.Material, bool, error) {
	col, version, err := m.load()
	if err != nil {
		return domain.Material{}, false, err
	}
	mat, ok := col.Get(id)
	if !ok {
		return domain.Material{}, false, nil
	}

	if req.Name != nil {
		mat.Name = *req.Name
	}
	if req.Description != nil {
		mat.Description = *req.Description
	}
	if req.Type != nil {
		mat.Type = *req.Type
	}
	if req.Status != nil {
		mat.Status = *req.Status
	}
	if req.BaseUnit != nil {
		mat.BaseUnit = *req.BaseUnit
	}
	if req.Plant != nil {
		mat.Plant = *req.Plant
	}
	if req.StorageLocation != nil {
		mat.StorageLocation = *req.StorageLocation
	}
	stampUpdated(&mat.Base, m.nowFn())

	col = col.Add(id, mat)
	if err := m.store.CompareAndSwapModel(MaterialsKey, version, col); err != nil {
		return domain.Material{}, false, err
	}
	return mat, true, nil
}

// Delete removes the material and re-stores the collection. Returns whether
// a removal occurred.
func (m *Materials) Delete(id string) (bool, error) {
	col, version, err := m.load()
	if err != nil {
		return false, err
	}
	col, removed := col.Remove(id)
	if !removed {
		return false, nil
	}
	if err := m.store.CompareAndSwapModel(MaterialsKey, version, col); err != nil {
		return false, err
	}
	return true, nil
}

// Filter returns materials matching every set field of f, in insertion order.
func (m *Materials) Filter(f domain.MaterialFilter) ([]domain.Material, error) {
	col, _, err := m.load()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Material, 0)
	for _, mat := range col.All() {
		if f.Status != nil && mat.Status != *f.Status {
			continue
		}
		if f.Type != nil && mat.Type != *f.Type {
			continue
		}
		if f.Plant != nil && mat.Plant != *f.Plant {
			continue
		}
		out = append(out, mat)
	}
	return out, nil
}

// Search returns materials whose name, description, or id contains term
// case-insensitively, after applying the exact-match filter.
func (m *Materials) Search(f domain.MaterialFilter, term string) ([]domain.Material, error) {
	matched, err := m.Filter(f)
	if err != nil {
		return nil, err
	}
	if term == "" {
		return matched, nil
	}
	needle := strings.ToLower(term)
	out := make([]domain.Material, 0, len(matched))
	for _, mat := range matched {
		if strings.Contains(strings.ToLower(mat.Name), needle) ||
			strings.Contains(strings.ToLower(mat.Description), needle) ||
			strings.Contains(strings.ToLower(mat.ID), needle) {
			out = append(out, mat)
		}
	}
	return out, nil
}
