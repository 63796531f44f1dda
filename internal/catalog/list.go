package catalog

import (
	"github.com/farmbasket-app/farmbasket-backend/pkg/enums"
	"github.com/farmbasket-app/farmbasket-backend/pkg/pagination"
	"github.com/google/uuid"
)

// ProductListFilters describe the supported filter knobs for the browse endpoint.
type ProductListFilters struct {
	Category *enums.ProductCategory `json:"category,omitempty"`
	FarmID   *uuid.UUID             `json:"farm_id,omitempty"`
	InStock  *bool                  `json:"in_stock,omitempty"`
	Query    string                 `json:"q,omitempty"`
}

// ListProductsInput captures the inputs needed to paginate and filter the
// public product listing.
type ListProductsInput struct {
	Filters    ProductListFilters
	Pagination pagination.Params
}
