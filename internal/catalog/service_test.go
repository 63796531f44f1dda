package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/farmbasket-app/farmbasket-backend/pkg/db/models"
	"github.com/farmbasket-app/farmbasket-backend/pkg/enums"
	pkgerrors "github.com/farmbasket-app/farmbasket-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type stubLoader struct {
	products map[uuid.UUID]*models.Product
	list     *ProductListResult
	listErr  error
}

func (s *stubLoader) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func (s *stubLoader) ListProductSummaries(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.list, nil
}

func stubProduct(active bool, stock int) *models.Product {
	desc := "Heirloom variety"
	image := "products/tomatoes.jpg"
	return &models.Product{
		ID:          uuid.New(),
		FarmID:      uuid.New(),
		FarmName:    "Sunrise Valley Farm",
		Name:        "Tomatoes",
		Description: &desc,
		Category:    enums.ProductCategoryVegetables,
		Unit:        enums.ProductUnitKilogram,
		Price:       decimal.RequireFromString("4.50"),
		StockQty:    stock,
		ImagePath:   &image,
		IsActive:    active,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
}

func TestGetProduct(t *testing.T) {
	t.Parallel()

	product := stubProduct(true, 12)
	svc, err := NewService(&stubLoader{products: map[uuid.UUID]*models.Product{product.ID: product}})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}

	dto, err := svc.GetProduct(context.Background(), product.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if dto.ID != product.ID || dto.FarmName != "Sunrise Valley Farm" || dto.StockQty != 12 {
		t.Fatalf("unexpected DTO %+v", dto)
	}
}

func TestGetProductNotFound(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubLoader{products: map[uuid.UUID]*models.Product{}})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}

	_, err = svc.GetProduct(context.Background(), uuid.New())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetProductInactiveHidden(t *testing.T) {
	t.Parallel()

	product := stubProduct(false, 12)
	svc, err := NewService(&stubLoader{products: map[uuid.UUID]*models.Product{product.ID: product}})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}

	_, err = svc.GetProduct(context.Background(), product.ID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("inactive products must read as not found, got %v", err)
	}
}

func TestCartProductMapping(t *testing.T) {
	t.Parallel()

	product := stubProduct(true, 7)
	svc, err := NewService(&stubLoader{products: map[uuid.UUID]*models.Product{product.ID: product}})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}

	cartProduct, err := svc.CartProduct(context.Background(), product.ID)
	if err != nil {
		t.Fatalf("mapping failed: %v", err)
	}
	if cartProduct.ProductID != product.ID.String() {
		t.Fatalf("product id = %s", cartProduct.ProductID)
	}
	if cartProduct.SellerID != product.FarmID.String() {
		t.Fatalf("seller id = %s", cartProduct.SellerID)
	}
	if cartProduct.StockLimit == nil || *cartProduct.StockLimit != 7 {
		t.Fatalf("stock limit = %v", cartProduct.StockLimit)
	}
	if !cartProduct.UnitPrice.Equal(product.Price) {
		t.Fatalf("unit price = %s", cartProduct.UnitPrice)
	}
	if cartProduct.ImageRef != "products/tomatoes.jpg" {
		t.Fatalf("image ref = %s", cartProduct.ImageRef)
	}
}

func TestNewServiceRequiresLoader(t *testing.T) {
	t.Parallel()

	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error for nil repository")
	}
}
