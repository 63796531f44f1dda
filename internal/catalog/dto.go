package catalog

import (
	"time"

	"github.com/farmbasket-app/farmbasket-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductDTO represents the full product payload returned to clients.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	FarmID      uuid.UUID       `json:"farm_id"`
	FarmName    string          `json:"farm_name"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Category    string          `json:"category"`
	Unit        string          `json:"unit"`
	Price       decimal.Decimal `json:"price"`
	StockQty    int             `json:"stock_qty"`
	ImagePath   *string         `json:"image_path,omitempty"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductSummary is the trimmed row used by the browse endpoint.
type ProductSummary struct {
	ID        uuid.UUID       `json:"id"`
	FarmID    uuid.UUID       `json:"farm_id"`
	FarmName  string          `json:"farm_name"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Unit      string          `json:"unit"`
	Price     decimal.Decimal `json:"price"`
	StockQty  int             `json:"stock_qty"`
	ImagePath *string         `json:"image_path,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ProductListResult is one page of product summaries.
type ProductListResult struct {
	Products   []ProductSummary `json:"products"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	return &ProductDTO{
		ID:          product.ID,
		FarmID:      product.FarmID,
		FarmName:    product.FarmName,
		Name:        product.Name,
		Description: product.Description,
		Category:    string(product.Category),
		Unit:        string(product.Unit),
		Price:       product.Price,
		StockQty:    product.StockQty,
		ImagePath:   product.ImagePath,
		IsActive:    product.IsActive,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}
