package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Product represents a catalog product ingested from suppliers, pallets or marketplaces
type Product struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SKU         *string        `gorm:"column:sku;size:128;uniqueIndex" json:"sku"`
	Title       string         `gorm:"size:1024;not null;index:idx_products_title_source" json:"title"`
	Description *string        `gorm:"type:text" json:"description"`
	Metadata    datatypes.JSON `gorm:"column:product_metadata" json:"metadata"`
	Images      datatypes.JSON `json:"images"`
	Source      *string        `gorm:"size:128;index:idx_products_title_source" json:"source"`
	Price       *int64         `json:"price"` // Stored in cents
	Cost        *int64         `json:"cost"`  // Stored in cents
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}
