package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/farmbasket-app/farmbasket-backend/internal/cart"
	"github.com/farmbasket-app/farmbasket-backend/pkg/db/models"
	pkgerrors "github.com/farmbasket-app/farmbasket-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes the consumer-facing product catalog.
type Service interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	CartProduct(ctx context.Context, productID uuid.UUID) (cart.Product, error)
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProductSummaries(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
}

type service struct {
	products productLoader
}

// NewService validates dependencies and builds the catalog service.
func NewService(products productLoader) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{products: products}, nil
}

func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return NewProductDTO(product), nil
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	result, err := s.products.ListProductSummaries(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing products")
	}
	return result, nil
}

// CartProduct resolves a product into the snapshot the cart carries. The
// cart keeps its own copy of price and stock, so later catalog edits do
// not rewrite lines already in a cart.
func (s *service) CartProduct(ctx context.Context, productID uuid.UUID) (cart.Product, error) {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return cart.Product{}, err
	}

	stock := product.StockQty
	return cart.Product{
		ProductID:  product.ID.String(),
		Name:       product.Name,
		UnitPrice:  product.Price,
		Unit:       string(product.Unit),
		StockLimit: &stock,
		ImageRef:   imageRef(product),
		SellerID:   product.FarmID.String(),
	}, nil
}

func (s *service) loadProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func imageRef(product *models.Product) string {
	if product.ImagePath == nil {
		return ""
	}
	return *product.ImagePath
}
