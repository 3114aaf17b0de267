package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/sangkips/supplier-intel-api/internal/domain/entity"
	"github.com/sangkips/supplier-intel-api/internal/domain/repository"
	"github.com/sangkips/supplier-intel-api/pkg/apperror"
	"github.com/sangkips/supplier-intel-api/pkg/pagination"
	"gorm.io/datatypes"
)

// ProductService handles product-related operations
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// UpsertProductInput represents the upsert product input
type UpsertProductInput struct {
	SKU         *string
	Title       string
	Description *string
	Metadata    map[string]interface{}
	Images      []string
	Source      *string
	Price       *int64
	Cost        *int64
}

// UpsertProduct matches an existing product by SKU, falling back to exact
// title + source, and updates it; otherwise a new product is created.
// Returns whether a new row was created.
func (s *ProductService) UpsertProduct(ctx context.Context, input *UpsertProductInput) (*entity.Product, bool, error) {
	var (
		result  *entity.Product
		created bool
	)

	metadata, err := encodeJSONColumn(input.Metadata, len(input.Metadata) > 0)
	if err != nil {
		return nil, false, err
	}
	images, err := encodeJSONColumn(input.Images, len(input.Images) > 0)
	if err != nil {
		return nil, false, err
	}

	err = s.productRepo.WithTransaction(ctx, func(tx repository.ProductRepository) error {
		var product *entity.Product
		if input.SKU != nil && *input.SKU != "" {
			found, err := tx.GetBySKU(ctx, *input.SKU)
			if err != nil {
				return err
			}
			product = found
		}

		if product == nil {
			found, err := tx.GetByTitleAndSource(ctx, input.Title, input.Source)
			if err != nil {
				return err
			}
			product = found
		}

		if product != nil {
			if input.Description != nil && *input.Description != "" {
				product.Description = input.Description
			}
			if metadata != nil {
				product.Metadata = metadata
			}
			if images != nil {
				product.Images = images
			}
			if input.Price != nil {
				product.Price = input.Price
			}
			if input.Cost != nil {
				product.Cost = input.Cost
			}
			if err := tx.Update(ctx, product); err != nil {
				return err
			}
			result = product
			return nil
		}

		product = &entity.Product{
			SKU:         emptyToNil(input.SKU),
			Title:       input.Title,
			Description: input.Description,
			Metadata:    metadata,
			Images:      images,
			Source:      input.Source,
			Price:       input.Price,
			Cost:        input.Cost,
		}
		if err := tx.Create(ctx, product); err != nil {
			return err
		}
		result = product
		created = true
		return nil
	})
	if err != nil {
		return nil, false, apperror.NewStorageError(err)
	}

	return result, created, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewStorageError(err)
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}

	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, apperror.NewStorageError(err)
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

func encodeJSONColumn(v interface{}, present bool) (datatypes.JSON, error) {
	if !present {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, apperror.NewBadRequestError("invalid JSON field: " + err.Error())
	}
	return datatypes.JSON(raw), nil
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
