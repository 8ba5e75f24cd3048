package datalayer

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procuracore/internal/state"
	"procuracore/pkg/domain"
)

func TestOrdersCreate(t *testing.T) {
	layer := NewOrders(state.NewManager())

	po, err := layer.Create(domain.CreateOrder{Vendor: "ACME", Items: someItems()}, nil)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^PO[0-9a-f]{12}$`), po.ID)
	assert.Equal(t, domain.OrderStatusOpen, po.Status, "new orders always start open")
	assert.Nil(t, po.RequisitionID)
	assert.True(t, po.UpdatedAt.After(po.CreatedAt))
}

func TestOrdersCreateWithRequisitionRef(t *testing.T) {
	layer := NewOrders(state.NewManager())
	ref := "PR000000000001"

	po, err := layer.Create(domain.CreateOrder{Vendor: "ACME", Items: someItems()}, &ref)
	require.NoError(t, err)
	require.NotNil(t, po.RequisitionID)
	assert.Equal(t, ref, *po.RequisitionID)
}

func TestOrdersUpdateAndFilter(t *testing.T) {
	layer := NewOrders(state.NewManager())
	po, err := layer.Create(domain.CreateOrder{Vendor: "ACME", Items: someItems()}, nil)
	require.NoError(t, err)
	_, err = layer.Create(domain.CreateOrder{Vendor: "Globex", Items: someItems()}, nil)
	require.NoError(t, err)

	sent := domain.OrderStatusSent
	updated, found, err := layer.Update(po.ID, domain.UpdateOrder{Status: &sent})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, domain.OrderStatusSent, updated.Status)

	vendor := "ACME"
	out, err := layer.Filter(domain.OrderFilter{Vendor: &vendor, Status: &sent})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, po.ID, out[0].ID)

	open := domain.OrderStatusOpen
	out, err = layer.Filter(domain.OrderFilter{Vendor: &vendor, Status: &open})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestOrdersDelete(t *testing.T) {
	layer := NewOrders(state.NewManager())
	po, err := layer.Create(domain.CreateOrder{Vendor: "ACME", Items: someItems()}, nil)
	require.NoError(t, err)

	removed, err := layer.Delete(po.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = layer.Delete(po.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}
