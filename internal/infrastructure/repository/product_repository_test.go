package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/supplier-intel-api/internal/domain/entity"
	domainRepo "github.com/sangkips/supplier-intel-api/internal/domain/repository"
	"github.com/sangkips/supplier-intel-api/internal/testutil"
	"github.com/sangkips/supplier-intel-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func TestProductRepositoryGetByTitleAndSource(t *testing.T) {
	repo := NewProductRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.Product{Title: "Pallet Lamp"}))
	require.NoError(t, repo.Create(ctx, &entity.Product{Title: "Pallet Lamp", Source: strPtr("liquidation")}))

	p, err := repo.GetByTitleAndSource(ctx, "Pallet Lamp", nil)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Nil(t, p.Source)

	p, err = repo.GetByTitleAndSource(ctx, "Pallet Lamp", strPtr("liquidation"))
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "liquidation", *p.Source)

	p, err = repo.GetByTitleAndSource(ctx, "Pallet Lamp", strPtr("amazon"))
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestProductRepositoryGetMissing(t *testing.T) {
	repo := NewProductRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	p, err := repo.GetByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = repo.GetBySKU(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestProductRepositoryDuplicateSKU(t *testing.T) {
	repo := NewProductRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.Product{Title: "A", SKU: strPtr("SKU-1")}))
	err := repo.Create(ctx, &entity.Product{Title: "B", SKU: strPtr("SKU-1")})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestProductRepositoryList(t *testing.T) {
	repo := NewProductRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.Product{Title: "Blue Kettle", SKU: strPtr("KET-1"), Source: strPtr("pallet")}))
	require.NoError(t, repo.Create(ctx, &entity.Product{Title: "Red Kettle", Source: strPtr("amazon")}))
	require.NoError(t, repo.Create(ctx, &entity.Product{Title: "Toaster", Source: strPtr("pallet")}))

	products, total, err := repo.List(ctx, &domainRepo.ProductFilterParams{
		Pagination: pagination.DefaultPagination(),
		Search:     "kettle",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, products, 2)

	products, total, err = repo.List(ctx, &domainRepo.ProductFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 1},
		Source:     "pallet",
		SortBy:     "title",
		SortOrder:  "asc",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, products, 1)
	assert.Equal(t, "Blue Kettle", products[0].Title)
}

func TestProductRepositoryWithTransactionRollsBack(t *testing.T) {
	repo := NewProductRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	err := repo.WithTransaction(ctx, func(tx domainRepo.ProductRepository) error {
		if err := tx.Create(ctx, &entity.Product{Title: "Rolled Back", SKU: strPtr("RB-1")}); err != nil {
			return err
		}
		return gorm.ErrInvalidData
	})
	require.ErrorIs(t, err, gorm.ErrInvalidData)

	p, err := repo.GetBySKU(ctx, "RB-1")
	require.NoError(t, err)
	assert.Nil(t, p)
}
