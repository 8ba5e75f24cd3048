package datalayer

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procuracore/internal/state"
	"procuracore/pkg/domain"
)

var materialNumberPattern = regexp.MustCompile(`^(RAW|FIN|SRV|TRD|MAT)[0-9a-f]{12}$`)

func newMaterialsLayer(t *testing.T) *Materials {
	t.Helper()
	return NewMaterials(state.NewManager())
}

func TestMaterialsCreateDefaults(t *testing.T) {
	layer := newMaterialsLayer(t)

	mat, err := layer.Create(domain.CreateMaterial{Name: "Steel Sheet"})
	require.NoError(t, err)

	assert.Regexp(t, materialNumberPattern, mat.ID)
	assert.Equal(t, "FIN", mat.ID[:3], "default type FINISHED must yield the FIN prefix")
	assert.Equal(t, domain.MaterialTypeFinished, mat.Type)
	assert.Equal(t, domain.MaterialStatusActive, mat.Status)
	assert.Equal(t, "EA", mat.BaseUnit)
	assert.True(t, mat.UpdatedAt.After(mat.CreatedAt), "updated_at must be strictly after created_at")

	got, found, err := layer.GetByID(mat.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, mat, got)
}

func TestMaterialsCreatePrefixFollowsType(t *testing.T) {
	layer := newMaterialsLayer(t)
	cases := map[domain.MaterialType]string{
		domain.MaterialTypeRaw:      "RAW",
		domain.MaterialTypeFinished: "FIN",
		domain.MaterialTypeService:  "SRV",
		domain.MaterialTypeTrading:  "TRD",
	}
	for typ, prefix := range cases {
		mat, err := layer.Create(domain.CreateMaterial{Name: "x", Type: typ})
		require.NoError(t, err)
		assert.Equal(t, prefix, mat.ID[:3])
	}
}

func TestMaterialsCreateConflict(t *testing.T) {
	layer := newMaterialsLayer(t)

	_, err := layer.Create(domain.CreateMaterial{MaterialNumber: "FIN000000000001", Name: "first"})
	require.NoError(t, err)

	_, err = layer.Create(domain.CreateMaterial{MaterialNumber: "FIN000000000001", Name: "second"})
	var conflict domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, domain.EntityMaterial, conflict.Entity)

	// The losing create must not have replaced the stored entity.
	count, err := layer.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	got, _, err := layer.GetByID("FIN000000000001")
	require.NoError(t, err)
	assert.Equal(t, "first", got.Name)
}

func TestMaterialsUpdateKeepsTimestampOrdering(t *testing.T) {
	layer := newMaterialsLayer(t)
	// Freeze the clock so the strict ordering only holds via the bump rule.
	frozen := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	layer.nowFn = func() time.Time { return frozen }

	mat, err := layer.Create(domain.CreateMaterial{Name: "Widget"})
	require.NoError(t, err)
	require.True(t, mat.UpdatedAt.After(mat.CreatedAt))

	desc := "updated"
	updated, found, err := layer.Update(mat.ID, domain.UpdateMaterial{Description: &desc})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "updated", updated.Description)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt),
		"updated_at must stay strictly after created_at even with a frozen clock")
	assert.Equal(t, mat.CreatedAt, updated.CreatedAt)
}

func TestMaterialsUpdateAbsent(t *testing.T) {
	layer := newMaterialsLayer(t)
	name := "x"
	_, found, err := layer.Update("FIN000000000001", domain.UpdateMaterial{Name: &name})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMaterialsDelete(t *testing.T) {
	layer := newMaterialsLayer(t)
	mat, err := layer.Create(domain.CreateMaterial{Name: "Widget"})
	require.NoError(t, err)

	removed, err := layer.Delete(mat.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	_, found, err := layer.GetByID(mat.ID)
	require.NoError(t, err)
	assert.False(t, found)

	removed, err = layer.Delete(mat.ID)
	require.NoError(t, err)
	assert.False(t, removed, "second delete must be a no-op")
}

func TestMaterialsFilterComposesWithAnd(t *testing.T) {
	layer := newMaterialsLayer(t)
	seed := []domain.CreateMaterial{
		{Name: "Steel Sheet", Type: domain.MaterialTypeRaw, Plant: "1000"},
		{Name: "Steel Rod", Type: domain.MaterialTypeRaw, Plant: "2000"},
		{Name: "Gear Box", Type: domain.MaterialTypeFinished, Plant: "1000"},
		{Name: "Inspection", Type: domain.MaterialTypeService, Status: domain.MaterialStatusInactive},
	}
	for _, req := range seed {
		_, err := layer.Create(req)
		require.NoError(t, err)
	}

	raw := domain.MaterialTypeRaw
	plant := "1000"
	out, err := layer.Filter(domain.MaterialFilter{Type: &raw, Plant: &plant})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Steel Sheet", out[0].Name)

	active := domain.MaterialStatusActive
	out, err = layer.Filter(domain.MaterialFilter{Status: &active})
	require.NoError(t, err)
	assert.Len(t, out, 3)

	// No filters matches everything, in insertion order.
	out, err = layer.Filter(domain.MaterialFilter{})
	require.NoError(t, err)
	require.Len(t, out, 4)
	assert.Equal(t, "Steel Sheet", out[0].Name)
	assert.Equal(t, "Inspection", out[3].Name)
}

func TestMaterialsSearchIsCaseInsensitive(t *testing.T) {
	layer := newMaterialsLayer(t)
	_, err := layer.Create(domain.CreateMaterial{Name: "Steel Sheet", Description: "cold rolled"})
	require.NoError(t, err)
	_, err = layer.Create(domain.CreateMaterial{Name: "Gear Box"})
	require.NoError(t, err)

	out, err := layer.Search(domain.MaterialFilter{}, "sTeEl")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Steel Sheet", out[0].Name)

	out, err = layer.Search(domain.MaterialFilter{}, "ROLLED")
	require.NoError(t, err)
	assert.Len(t, out, 1, "search must also cover the description")

	out, err = layer.Search(domain.MaterialFilter{}, "no such thing")
	require.NoError(t, err)
	assert.Empty(t, out)

	// Search composes with the exact-match filter.
	finished := domain.MaterialTypeFinished
	out, err = layer.Search(domain.MaterialFilter{Type: &finished}, "steel")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestMaterialsMalformedStateSurfaces(t *testing.T) {
	store := state.NewManager()
	require.NoError(t, store.Set(MaterialsKey, []byte(`{"name":`)))
	layer := NewMaterials(store)

	_, _, err := layer.GetByID("anything")
	var malformed state.MalformedValueError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, MaterialsKey, malformed.Key)
}
