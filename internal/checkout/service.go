package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/farmbasket-app/farmbasket-backend/internal/cart"
	"github.com/farmbasket-app/farmbasket-backend/pkg/enums"
	pkgerrors "github.com/farmbasket-app/farmbasket-backend/pkg/errors"
	"github.com/farmbasket-app/farmbasket-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type cartReader interface {
	Get(ctx context.Context, sessionID string) (cart.State, error)
	Summary(ctx context.Context, sessionID string) (cart.Summary, error)
}

// Service assembles order drafts from a session's cart.
type Service interface {
	BuildDraft(ctx context.Context, sessionID string, input DraftInput) (*OrderDraft, error)
}

// DraftInput captures the buyer-supplied data for an order draft.
type DraftInput struct {
	ShippingAddress types.Address
	PaymentMethod   enums.PaymentMethod
	Notes           *string
}

// DraftItem is one priced cart line frozen into the draft.
type DraftItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderDraft is the reviewed order handed back to the client before
// submission. It carries the priced cart as of draft time.
type OrderDraft struct {
	DraftID         uuid.UUID           `json:"draft_id"`
	SessionID       string              `json:"session_id"`
	SellerID        string              `json:"seller_id"`
	Items           []DraftItem         `json:"items"`
	ItemCount       int                 `json:"item_count"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	ShippingFee     decimal.Decimal     `json:"shipping_fee"`
	OrderTotal      decimal.Decimal     `json:"order_total"`
	ShippingAddress types.Address       `json:"shipping_address"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method"`
	Notes           *string             `json:"notes,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}

type service struct {
	carts cartReader
}

// NewService builds the checkout service.
func NewService(carts cartReader) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	return &service{carts: carts}, nil
}

// BuildDraft snapshots the cart into an order draft. The cart itself is
// left untouched so the buyer can still go back and edit it.
func (s *service) BuildDraft(ctx context.Context, sessionID string, input DraftInput) (*OrderDraft, error) {
	if !input.ShippingAddress.Complete() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is incomplete")
	}
	if !input.PaymentMethod.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported payment method")
	}

	state, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}

	summary, err := s.carts.Summary(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	items := make([]DraftItem, 0, len(state.Lines))
	for _, line := range state.Lines {
		items = append(items, DraftItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Unit:      line.Unit,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			Subtotal:  line.Subtotal(),
		})
	}

	return &OrderDraft{
		DraftID:         uuid.New(),
		SessionID:       sessionID,
		SellerID:        state.ActiveSellerID,
		Items:           items,
		ItemCount:       summary.ItemCount,
		Subtotal:        summary.Subtotal,
		ShippingFee:     summary.ShippingFee,
		OrderTotal:      summary.OrderTotal,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		Notes:           input.Notes,
		CreatedAt:       time.Now().UTC(),
	}, nil
}
