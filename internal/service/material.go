package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"procuracore/internal/datalayer"
	"procuracore/internal/monitor"
	"procuracore/pkg/domain"
)

const materialComponent = "material_service"

// MaterialService exposes business-rule-checked CRUD over material masters.
type MaterialService struct {
	materials *datalayer.Materials
	validate  *validator.Validate
	reporter  reporter
}

// NewMaterialService constructs a material service. A nil monitor disables
// reporting.
func NewMaterialService(materials *datalayer.Materials, mon domain.Monitor) *MaterialService {
	return &MaterialService{
		materials: materials,
		validate:  validator.New(),
		reporter:  reporter{monitor: monitor.NewGuard(mon), component: materialComponent},
	}
}

// Create validates and stores a new material. The material number is
// generated from the material type when absent.
func (s *MaterialService) Create(_ context.Context, req domain.CreateMaterial) (domain.Material, error) {
	const op = "create_material"
	octx := opContext(op, "material_number", req.MaterialNumber)

	if err := s.checkCreate(req); err != nil {
		s.reporter.failure(op, err, octx)
		return domain.Material{}, err
	}
	mat, err := s.materials.Create(req)
	if err != nil {
		err = domain.WrapUnexpected(op, err)
		s.reporter.failure(op, err, octx)
		return domain.Material{}, err
	}
	octx["material_id"] = mat.ID
	s.reporter.success(op, octx)
	return mat, nil
}

// Get retrieves a material by its number.
func (s *MaterialService) Get(_ context.Context, id string) (domain.Material, error) {
	const op = "get_material"
	mat, ok, err := s.materials.GetByID(id)
	if err != nil {
		err = domain.WrapUnexpected(op, err)
		s.reporter.failure(op, err, opContext(op, "material_id", id))
		return domain.Material{}, err
	}
	if !ok {
		err := domain.NotFoundError{Entity: domain.EntityMaterial, ID: id}
		s.reporter.failure(op, err, opContext(op, "material_id", id))
		return domain.Material{}, err
	}
	return mat, nil
}

// Update applies a partial update. Status changes must follow the material
// transition table.
func (s *MaterialService) Update(_ context.Context, id string, req domain.UpdateMaterial) (domain.Material, error) {
	const op = "update_material"
	octx := opContext(op, "material_id", id)

	if err := translateValidator(s.validate.Struct(req)); err != nil {
		s.reporter.failure(op, err, octx)
		return domain.Material{}, err
	}
	current, ok, err := s.materials.GetByID(id)
	if err != nil {
		err = domain.WrapUnexpected(op, err)
		s.reporter.failure(op, err, octx)
		return domain.Material{}, err
	}
	if !ok {
		err := domain.NotFoundError{Entity: domain.EntityMaterial, ID: id}
		s.reporter.failure(op, err, octx)
		return domain.Material{}, err
	}
	if req.Status != nil && *req.Status != current.Status {
		if err := checkMaterialTransition(current.Status, *req.Status); err != nil {
			s.reporter.failure(op, err, octx)
			return domain.Material{}, err
		}
	}

	mat, ok, err := s.materials.Update(id, req)
	if err != nil {
		err = domain.WrapUnexpected(op, err)
		s.reporter.failure(op, err, octx)
		return domain.Material{}, err
	}
	if !ok {
		err := domain.NotFoundError{Entity: domain.EntityMaterial, ID: id}
		s.reporter.failure(op, err, octx)
		return domain.Material{}, err
	}
	s.reporter.success(op, octx)
	return mat, nil
}

// Deprecate moves a material into the terminal DEPRECATED status.
func (s *MaterialService) Deprecate(_ context.Context, id string) (domain.Material, error) {
	const op = "deprecate_material"
	octx := opContext(op, "material_id", id)

	current, ok, err := s.materials.GetByID(id)
	if err != nil {
		err = domain.WrapUnexpected(op, err)
		s.reporter.failure(op, err, octx)
		return domain.Material{}, err
	}
	if !ok {
		err := domain.NotFoundError{Entity: domain.EntityMaterial, ID: id}
		s.reporter.failure(op, err, octx)
		return domain.Material{}, err
	}
	if current.Status == domain.MaterialStatusDeprecated {
		err := domain.NewValidationError(
			"material "+id+" is already deprecated",
			"reason", "already_deprecated",
			"material_id", id,
		)
		s.reporter.failure(op, err, octx)
		return domain.Material{}, err
	}

	// Every non-deprecated status may move to DEPRECATED; no transition check.
	status := domain.MaterialStatusDeprecated
	mat, ok, err := s.materials.Update(id, domain.UpdateMaterial{Status: &status})
	if err != nil {
		err = domain.WrapUnexpected(op, err)
		s.reporter.failure(op, err, octx)
		return domain.Material{}, err
	}
	if !ok {
		err := domain.NotFoundError{Entity: domain.EntityMaterial, ID: id}
		s.reporter.failure(op, err, octx)
		return domain.Material{}, err
	}
	octx["previous_status"] = string(current.Status)
	s.reporter.success(op, octx)
	return mat, nil
}

// Delete removes a material. Active materials must be deprecated first.
func (s *MaterialService) Delete(_ context.Context, id string) error {
	const op = "delete_material"
	octx := opContext(op, "material_id", id)

	current, ok, err := s.materials.GetByID(id)
	if err != nil {
		err = domain.WrapUnexpected(op, err)
		s.reporter.failure(op, err, octx)
		return err
	}
	if !ok {
		err := domain.NotFoundError{Entity: domain.EntityMaterial, ID: id}
		s.reporter.failure(op, err, octx)
		return err
	}
	if current.Status == domain.MaterialStatusActive {
		err := domain.NewValidationError(
			"material "+id+" is active; deprecate it before deleting",
			"reason", "material_active",
			"material_id", id,
			"current_status", string(current.Status),
		)
		s.reporter.failure(op, err, octx)
		return err
	}

	removed, err := s.materials.Delete(id)
	if err != nil {
		err = domain.WrapUnexpected(op, err)
		s.reporter.failure(op, err, octx)
		return err
	}
	if !removed {
		err := domain.NotFoundError{Entity: domain.EntityMaterial, ID: id}
		s.reporter.failure(op, err, octx)
		return err
	}
	s.reporter.success(op, octx)
	return nil
}

// List returns materials matching every supplied filter. Omitted filters are
// no-ops; the search term matches name, description, and material number
// case-insensitively.
func (s *MaterialService) List(_ context.Context, q domain.ListMaterials) ([]domain.Material, error) {
	const op = "list_materials"
	out, err := s.materials.Search(domain.MaterialFilter{
		Status: q.Status,
		Type:   q.Type,
		Plant:  q.Plant,
	}, q.Search)
	if err != nil {
		err = domain.WrapUnexpected(op, err)
		s.reporter.failure(op, err, opContext(op))
		return nil, err
	}
	return out, nil
}

// Count returns the number of stored materials.
func (s *MaterialService) Count(_ context.Context) (int, error) {
	n, err := s.materials.Count()
	if err != nil {
		return 0, domain.WrapUnexpected("count_materials", err)
	}
	return n, nil
}

func (s *MaterialService) checkCreate(req domain.CreateMaterial) error {
	if err := translateValidator(s.validate.Struct(req)); err != nil {
		return err
	}
	if strings.TrimSpace(req.Name) == "" {
		return domain.NewValidationError(
			"material name must not be empty",
			"reason", "required",
			"field", "name",
		)
	}
	switch req.Type {
	case "", domain.MaterialTypeRaw, domain.MaterialTypeFinished, domain.MaterialTypeService, domain.MaterialTypeTrading:
	default:
		return domain.NewValidationError(
			"unknown material type "+string(req.Type),
			"reason", "invalid_field",
			"field", "type",
		)
	}
	if req.Status != "" && !req.Status.Valid() {
		return domain.NewValidationError(
			"unknown material status "+string(req.Status),
			"reason", "invalid_field",
			"field", "status",
		)
	}
	return nil
}

func checkMaterialTransition(current, requested domain.MaterialStatus) error {
	if !requested.Valid() {
		return domain.NewValidationError(
			"unknown material status "+string(requested),
			"reason", "invalid_field",
			"field", "status",
		)
	}
	if !current.CanTransitionTo(requested) {
		return domain.NewValidationError(
			"cannot move material from "+string(current)+" to "+string(requested),
			"reason", "invalid_status_transition",
			"current_status", string(current),
			"requested_status", string(requested),
		)
	}
	return nil
}
