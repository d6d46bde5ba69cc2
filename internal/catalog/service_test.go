package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenlane/internal/catalog"
	"greenlane/internal/domain"
	"greenlane/internal/storage"
	dErrors "greenlane/pkg/domain-errors"
)

func newTestService(t *testing.T) *catalog.Service {
	t.Helper()
	ctx := context.Background()
	disps := storage.NewInMemoryDispensaryStore()
	products := storage.NewInMemoryProductStore()

	require.NoError(t, disps.Save(ctx, domain.Dispensary{ID: "d1", Name: "Golden State Greens", StateCode: "CA"}))
	require.NoError(t, disps.Save(ctx, domain.Dispensary{ID: "d2", Name: "Alpine Leaf", StateCode: "CO"}))
	require.NoError(t, products.Save(ctx, domain.Product{
		ID: "p1", DispensaryID: "d1", Name: "Gummies", PriceCents: 1500, THCMgPerUnit: 10, Active: true,
	}))
	require.NoError(t, products.Save(ctx, domain.Product{
		ID: "p2", DispensaryID: "d1", Name: "Old Pen", PriceCents: 4000, THCMgPerUnit: 200, Active: false,
	}))

	return catalog.NewService(disps, products)
}

func TestListDispensariesSortedByName(t *testing.T) {
	service := newTestService(t)

	out, err := service.ListDispensaries(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Alpine Leaf", out[0].Name)
	assert.Equal(t, "Golden State Greens", out[1].Name)
}

func TestGetDispensaryNotFound(t *testing.T) {
	service := newTestService(t)

	_, err := service.GetDispensary(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeNotFound, dErrors.CodeOf(err))
}

func TestListProductsOnlyActive(t *testing.T) {
	service := newTestService(t)

	menu, err := service.ListProducts(context.Background(), "d1")
	require.NoError(t, err)
	require.Len(t, menu, 1)
	assert.Equal(t, "p1", menu[0].ID)
}

func TestListProductsUnknownDispensary(t *testing.T) {
	service := newTestService(t)

	_, err := service.ListProducts(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeNotFound, dErrors.CodeOf(err))
}
