package cart

import (
	cartsvc "github.com/farmbasket-app/farmbasket-backend/internal/cart"
	"github.com/shopspring/decimal"
)

// CartView is the cart payload returned to clients. Totals are priced
// with the shipping policy applied.
type CartView struct {
	Items          []CartItemView  `json:"items"`
	ItemCount      int             `json:"item_count"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	ShippingFee    decimal.Decimal `json:"shipping_fee"`
	OrderTotal     decimal.Decimal `json:"order_total"`
	ActiveSellerID string          `json:"active_seller_id,omitempty"`
	Version        uint64          `json:"version"`
}

// CartItemView is one line of the cart payload.
type CartItemView struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ImageRef  string          `json:"image_ref,omitempty"`
}

// ProposeAddView reports what happened to an add request.
type ProposeAddView struct {
	Outcome         string   `json:"outcome"`
	Reason          string   `json:"reason,omitempty"`
	ProposalID      string   `json:"proposal_id,omitempty"`
	CurrentSellerID string   `json:"current_seller_id,omitempty"`
	NewSellerID     string   `json:"new_seller_id,omitempty"`
	Cart            CartView `json:"cart"`
}

// SummaryView is the totals-only cart payload.
type SummaryView struct {
	ItemCount   int             `json:"item_count"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shipping_fee"`
	OrderTotal  decimal.Decimal `json:"order_total"`
}

// ConfirmSwitchView reports the settled proposal and resulting cart.
type ConfirmSwitchView struct {
	Switched bool     `json:"switched"`
	Cart     CartView `json:"cart"`
}

func newCartView(state cartsvc.State, summary cartsvc.Summary) CartView {
	items := make([]CartItemView, 0, len(state.Lines))
	for _, line := range state.Lines {
		items = append(items, CartItemView{
			ProductID: line.ProductID,
			Name:      line.Name,
			Unit:      line.Unit,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			Subtotal:  line.Subtotal(),
			ImageRef:  line.ImageRef,
		})
	}

	return CartView{
		Items:          items,
		ItemCount:      summary.ItemCount,
		Subtotal:       summary.Subtotal,
		ShippingFee:    summary.ShippingFee,
		OrderTotal:     summary.OrderTotal,
		ActiveSellerID: state.ActiveSellerID,
		Version:        state.Version,
	}
}
