package cart

import (
	"github.com/shopspring/decimal"
)

// Product is the catalog snapshot the cart stores per line. IDs are opaque
// strings so the core does not depend on how the catalog keys its rows.
type Product struct {
	ProductID  string          `json:"product_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Unit       string          `json:"unit"`
	StockLimit *int            `json:"stock_limit,omitempty"`
	ImageRef   string          `json:"image_ref,omitempty"`
	SellerID   string          `json:"seller_id,omitempty"`
}

// Line is one product entry in the cart with its quantity.
type Line struct {
	ProductID  string          `json:"product_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	Unit       string          `json:"unit"`
	StockLimit *int            `json:"stock_limit,omitempty"`
	ImageRef   string          `json:"image_ref,omitempty"`
	SellerID   string          `json:"seller_id,omitempty"`
}

// Subtotal returns the line's price contribution.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// State is the cart aggregate. Totals are denormalized and maintained
// incrementally by the reducer so badge counts and summaries are O(1) reads.
// Version increases monotonically on every accepted transition and tags the
// persisted snapshot so a stale write can never clobber a newer one.
type State struct {
	Lines          []Line          `json:"lines"`
	TotalItemCount int             `json:"total_item_count"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	ActiveSellerID string          `json:"active_seller_id,omitempty"`
	Version        uint64          `json:"version"`
}

// Empty returns the zero cart.
func Empty() State {
	return State{TotalPrice: decimal.Zero}
}

// IsEmpty reports whether the cart has no lines.
func (s State) IsEmpty() bool {
	return len(s.Lines) == 0
}

// FindLine returns the line holding the given product, if any.
func (s State) FindLine(productID string) (Line, bool) {
	if idx := lineIndex(s.Lines, productID); idx >= 0 {
		return s.Lines[idx], true
	}
	return Line{}, false
}

// Recomputed returns a copy of the state with both totals rebuilt from the
// lines. Comparing it against the incrementally maintained state catches
// bookkeeping drift.
func (s State) Recomputed() State {
	next := s
	next.TotalItemCount = 0
	next.TotalPrice = decimal.Zero
	for _, line := range s.Lines {
		next.TotalItemCount += line.Quantity
		next.TotalPrice = next.TotalPrice.Add(line.Subtotal())
	}
	return next
}

func lineIndex(lines []Line, productID string) int {
	for i, line := range lines {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}

func cloneLines(lines []Line) []Line {
	if len(lines) == 0 {
		return nil
	}
	cloned := make([]Line, len(lines))
	copy(cloned, lines)
	return cloned
}
