package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmbasket-app/farmbasket-backend/pkg/enums"
)

// Product is a catalog listing owned by a single farm. The farm name is
// denormalized onto the row so cart and listing reads avoid a join.
type Product struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	FarmID      uuid.UUID             `gorm:"column:farm_id;type:uuid;not null"`
	FarmName    string                `gorm:"column:farm_name;not null"`
	Name        string                `gorm:"column:name;not null"`
	Description *string               `gorm:"column:description"`
	Category    enums.ProductCategory `gorm:"column:category;not null"`
	Unit        enums.ProductUnit     `gorm:"column:unit;not null"`
	Price       decimal.Decimal       `gorm:"column:price;type:numeric(12,2);not null"`
	StockQty    int                   `gorm:"column:stock_qty;not null;default:0"`
	ImagePath   *string               `gorm:"column:image_path"`
	IsActive    bool                  `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table name used by migrations.
func (Product) TableName() string {
	return "products"
}
