package cart

import "github.com/shopspring/decimal"

// ShippingPolicy computes the delivery fee for a cart. Orders at or above
// the threshold ship free; everything else pays the flat fee.
type ShippingPolicy struct {
	FreeShippingThreshold decimal.Decimal
	FlatFee               decimal.Decimal
}

// Fee returns the shipping charge for the given merchandise subtotal.
// An empty cart ships nothing and owes nothing.
func (p ShippingPolicy) Fee(subtotal decimal.Decimal, itemCount int) decimal.Decimal {
	if itemCount == 0 {
		return decimal.Zero
	}
	if subtotal.GreaterThanOrEqual(p.FreeShippingThreshold) {
		return decimal.Zero
	}
	return p.FlatFee
}

// Summary is the priced view of a cart handed to checkout and the API.
type Summary struct {
	ItemCount   int             `json:"item_count"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shipping_fee"`
	OrderTotal  decimal.Decimal `json:"order_total"`
}

// Summarize prices a state under the policy.
func (p ShippingPolicy) Summarize(state State) Summary {
	fee := p.Fee(state.TotalPrice, state.TotalItemCount)
	return Summary{
		ItemCount:   state.TotalItemCount,
		Subtotal:    state.TotalPrice,
		ShippingFee: fee,
		OrderTotal:  state.TotalPrice.Add(fee),
	}
}
