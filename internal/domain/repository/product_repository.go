package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/supplier-intel-api/internal/domain/entity"
	"github.com/sangkips/supplier-intel-api/pkg/pagination"
)

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// GetByTitleAndSource matches on exact title; a nil source matches NULL
	GetByTitleAndSource(ctx context.Context, title string, source *string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, params *ProductFilterParams) ([]entity.Product, int64, error)
	// WithTransaction runs fn against a repository bound to one transaction
	WithTransaction(ctx context.Context, fn func(tx ProductRepository) error) error
}

// ProductFilterParams represents filter parameters for listing products
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Source     string
	SortBy     string
	SortOrder  string
}
