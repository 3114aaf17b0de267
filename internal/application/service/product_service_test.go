package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/supplier-intel-api/internal/domain/repository"
	infraRepo "github.com/sangkips/supplier-intel-api/internal/infrastructure/repository"
	dbtest "github.com/sangkips/supplier-intel-api/internal/testutil"
	"github.com/sangkips/supplier-intel-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func newProductServiceForTest(t *testing.T) *ProductService {
	t.Helper()
	return NewProductService(infraRepo.NewProductRepository(dbtest.NewTestDB(t)))
}

func TestUpsertProductCreatesThenUpdatesBySKU(t *testing.T) {
	svc := newProductServiceForTest(t)
	ctx := context.Background()

	created, isNew, err := svc.UpsertProduct(ctx, &UpsertProductInput{
		SKU:         strPtr("SKU-100"),
		Title:       "Cordless Drill",
		Description: strPtr("18V"),
		Price:       int64Ptr(4999),
		Metadata:    map[string]interface{}{"brand": "Acme"},
	})
	require.NoError(t, err)
	assert.True(t, isNew)

	updated, isNew, err := svc.UpsertProduct(ctx, &UpsertProductInput{
		SKU:   strPtr("SKU-100"),
		Title: "Cordless Drill Kit",
		Cost:  int64Ptr(2500),
	})
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, created.ID, updated.ID)

	got, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	// absent fields leave stored values alone
	assert.Equal(t, "18V", *got.Description)
	assert.Equal(t, int64(4999), *got.Price)
	assert.Equal(t, int64(2500), *got.Cost)
	assert.JSONEq(t, `{"brand":"Acme"}`, string(got.Metadata))
	assert.Equal(t, "SKU-100", *got.SKU)
}

func TestUpsertProductMatchesByTitleAndSource(t *testing.T) {
	svc := newProductServiceForTest(t)
	ctx := context.Background()

	first, _, err := svc.UpsertProduct(ctx, &UpsertProductInput{Title: "Box of Mugs", Source: strPtr("pallet")})
	require.NoError(t, err)

	again, isNew, err := svc.UpsertProduct(ctx, &UpsertProductInput{
		Title:  "Box of Mugs",
		Source: strPtr("pallet"),
		Images: []string{"https://img.example.com/mugs.jpg"},
	})
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, first.ID, again.ID)
	assert.JSONEq(t, `["https://img.example.com/mugs.jpg"]`, string(again.Images))

	other, isNew, err := svc.UpsertProduct(ctx, &UpsertProductInput{Title: "Box of Mugs"})
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestUpsertProductEmptySKUFallsBackToTitle(t *testing.T) {
	svc := newProductServiceForTest(t)
	ctx := context.Background()

	first, _, err := svc.UpsertProduct(ctx, &UpsertProductInput{Title: "Lamp", SKU: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, first.SKU)

	again, isNew, err := svc.UpsertProduct(ctx, &UpsertProductInput{Title: "Lamp", SKU: strPtr("")})
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, first.ID, again.ID)
}

func TestGetProductNotFound(t *testing.T) {
	svc := newProductServiceForTest(t)

	_, err := svc.GetProduct(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestListProducts(t *testing.T) {
	svc := newProductServiceForTest(t)
	ctx := context.Background()

	for _, title := range []string{"Chair", "Desk", "Desk Lamp"} {
		_, _, err := svc.UpsertProduct(ctx, &UpsertProductInput{Title: title})
		require.NoError(t, err)
	}

	result, err := svc.ListProducts(ctx, &repository.ProductFilterParams{Search: "desk"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Pagination.Total)
	assert.Len(t, result.Items, 2)
}
