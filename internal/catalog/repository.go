package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/farmbasket-app/farmbasket-backend/pkg/db/models"
	"github.com/farmbasket-app/farmbasket-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository wires together product persistence for the catalog.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct updates an existing product row.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

type productSummaryRecord struct {
	ID        uuid.UUID
	FarmID    uuid.UUID
	FarmName  string
	Name      string
	Category  string
	Unit      string
	Price     decimal.Decimal
	StockQty  int
	ImagePath *string
	CreatedAt time.Time
}

func (rec productSummaryRecord) toSummary() ProductSummary {
	return ProductSummary{
		ID:        rec.ID,
		FarmID:    rec.FarmID,
		FarmName:  rec.FarmName,
		Name:      rec.Name,
		Category:  rec.Category,
		Unit:      rec.Unit,
		Price:     rec.Price,
		StockQty:  rec.StockQty,
		ImagePath: rec.ImagePath,
		CreatedAt: rec.CreatedAt,
	}
}

// ListProductSummaries returns one page of active products ordered by
// recency, keyset-paginated on (created_at, id).
func (r *Repository) ListProductSummaries(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	pageSize := pagination.NormalizeLimit(input.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(input.Pagination.Limit)
	if limitWithBuffer <= pageSize {
		limitWithBuffer = pageSize + 1
	}

	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).
		Table("products p").
		Select(strings.Join([]string{
			"p.id",
			"p.farm_id",
			"p.farm_name",
			"p.name",
			"p.category",
			"p.unit",
			"p.price",
			"p.stock_qty",
			"p.image_path",
			"p.created_at",
		}, ", ")).
		Where("p.is_active = ?", true)

	filter := input.Filters
	if filter.Category != nil {
		qb = qb.Where("p.category = ?", *filter.Category)
	}
	if filter.FarmID != nil {
		qb = qb.Where("p.farm_id = ?", *filter.FarmID)
	}
	if filter.InStock != nil {
		if *filter.InStock {
			qb = qb.Where("p.stock_qty > 0")
		} else {
			qb = qb.Where("p.stock_qty <= 0")
		}
	}
	if search := strings.TrimSpace(filter.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(p.name) LIKE ? OR LOWER(p.farm_name) LIKE ?)", pattern, pattern)
	}

	if cursor != nil {
		qb = qb.Where("(p.created_at < ?) OR (p.created_at = ? AND p.id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	qb = qb.Order("p.created_at DESC").Order("p.id DESC").Limit(limitWithBuffer)

	var records []productSummaryRecord
	if err := qb.Scan(&records).Error; err != nil {
		return nil, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > pageSize {
		resultRows = records[:pageSize]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	summaries := make([]ProductSummary, 0, len(resultRows))
	for _, record := range resultRows {
		summaries = append(summaries, record.toSummary())
	}

	return &ProductListResult{
		Products:   summaries,
		NextCursor: nextCursor,
	}, nil
}
