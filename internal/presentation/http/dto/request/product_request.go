package request

// UpsertProductRequest represents a product upsert request. Unknown fields are ignored.
type UpsertProductRequest struct {
	IdempotencyKey string                 `json:"idempotency_key"`
	SKU            *string                `json:"sku" binding:"omitempty,max=128"`
	Title          string                 `json:"title" binding:"required,min=3,max=1024"`
	Description    *string                `json:"description"`
	Metadata       map[string]interface{} `json:"metadata"`
	Images         []string               `json:"images" binding:"omitempty,dive,url"`
	Price          *int64                 `json:"price"` // cents
	Cost           *int64                 `json:"cost"`  // cents
	Source         *string                `json:"source" binding:"omitempty,max=128"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search    string `form:"search"`
	Source    string `form:"source"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
