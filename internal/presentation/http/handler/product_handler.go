package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/supplier-intel-api/internal/application/service"
	"github.com/sangkips/supplier-intel-api/internal/domain/repository"
	"github.com/sangkips/supplier-intel-api/internal/presentation/http/dto/request"
	"github.com/sangkips/supplier-intel-api/internal/presentation/http/dto/response"
	"github.com/sangkips/supplier-intel-api/internal/presentation/http/middleware"
	"github.com/sangkips/supplier-intel-api/pkg/apperror"
	"github.com/sangkips/supplier-intel-api/pkg/pagination"
)

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	productService     *service.ProductService
	idempotencyService *service.IdempotencyService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService, idempotencyService *service.IdempotencyService) *ProductHandler {
	return &ProductHandler{
		productService:     productService,
		idempotencyService: idempotencyService,
	}
}

// Upsert handles idempotent product create-or-update.
// Validation runs inside the idempotent operation so a rejected payload is
// replayed for the same key.
func (h *ProductHandler) Upsert(c *gin.Context) {
	var req request.UpsertProductRequest
	body, err := readJSONBody(c, &req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	key := middleware.ResolveIdempotencyKey(c, body.Key)
	if err := service.ValidateKey(key); err != nil {
		response.Fail(c, err)
		return
	}

	outcome, err := h.idempotencyService.Execute(c.Request.Context(), "product_upsert", key,
		func(ctx context.Context) (int, interface{}, error) {
			if body.DecodeErr != nil {
				return 0, nil, body.DecodeErr
			}
			if err := validate(&req); err != nil {
				return 0, nil, err
			}

			product, _, err := h.productService.UpsertProduct(ctx, &service.UpsertProductInput{
				SKU:         req.SKU,
				Title:       req.Title,
				Description: req.Description,
				Metadata:    req.Metadata,
				Images:      req.Images,
				Source:      req.Source,
				Price:       req.Price,
				Cost:        req.Cost,
			})
			if err != nil {
				return 0, nil, err
			}
			return http.StatusOK, gin.H{"status": "ok", "product": product}, nil
		})
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Outcome(c, outcome)
}

// List handles listing products
func (h *ProductHandler) List(c *gin.Context) {
	var filter request.ProductFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.ProductFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:    filter.Search,
		Source:    filter.Source,
		SortBy:    filter.SortBy,
		SortOrder: filter.SortOrder,
	}

	result, err := h.productService.ListProducts(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Products retrieved successfully", result)
}

// Get handles getting a product by ID
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.NewBadRequestError("Invalid product ID"))
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}
