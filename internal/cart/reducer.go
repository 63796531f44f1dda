package cart

import (
	"github.com/shopspring/decimal"
)

// Action is a cart transition. Reduce is the only way state changes.
type Action interface {
	isAction()
}

// AddLine increments an existing line or appends a new one. An increment
// that would breach the product's stock limit is rejected outright, not
// clamped; the caller detects the no-op via the unchanged version.
type AddLine struct {
	Product  Product
	Quantity int
}

// RemoveLine removes a line by product id. Unknown ids are a no-op.
type RemoveLine struct {
	ProductID string
}

// SetQuantity replaces a line's quantity, clamped into [1, stockLimit].
// The service layer turns non-positive quantities into RemoveLine before
// dispatching.
type SetQuantity struct {
	ProductID string
	Quantity  int
}

// Clear resets the cart to empty.
type Clear struct{}

// Replace adopts a stored snapshot wholesale. Only hydration uses it.
type Replace struct {
	Snapshot State
}

func (AddLine) isAction()     {}
func (RemoveLine) isAction()  {}
func (SetQuantity) isAction() {}
func (Clear) isAction()       {}
func (Replace) isAction()     {}

// Reduce maps (state, action) to the next state. It is pure: no I/O, no
// mutation of the input, deterministic. A rejected or inapplicable action
// returns the input state unchanged, version included.
func Reduce(s State, action Action) State {
	switch a := action.(type) {
	case AddLine:
		return reduceAdd(s, a)
	case RemoveLine:
		return reduceRemove(s, a)
	case SetQuantity:
		return reduceSetQuantity(s, a)
	case Clear:
		return reduceClear(s)
	case Replace:
		return a.Snapshot
	}
	return s
}

func reduceAdd(s State, a AddLine) State {
	qty := a.Quantity
	if qty <= 0 {
		qty = 1
	}

	if idx := lineIndex(s.Lines, a.Product.ProductID); idx >= 0 {
		line := s.Lines[idx]
		next := line.Quantity + qty
		if line.StockLimit != nil && next > *line.StockLimit {
			return s
		}
		lines := cloneLines(s.Lines)
		lines[idx].Quantity = next
		return State{
			Lines:          lines,
			TotalItemCount: s.TotalItemCount + qty,
			TotalPrice:     s.TotalPrice.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(qty)))),
			ActiveSellerID: s.ActiveSellerID,
			Version:        s.Version + 1,
		}
	}

	if a.Product.StockLimit != nil && (*a.Product.StockLimit <= 0 || qty > *a.Product.StockLimit) {
		return s
	}

	line := Line{
		ProductID:  a.Product.ProductID,
		Name:       a.Product.Name,
		UnitPrice:  a.Product.UnitPrice,
		Quantity:   qty,
		Unit:       a.Product.Unit,
		StockLimit: a.Product.StockLimit,
		ImageRef:   a.Product.ImageRef,
		SellerID:   a.Product.SellerID,
	}
	lines := append(cloneLines(s.Lines), line)

	active := s.ActiveSellerID
	if active == "" {
		active = a.Product.SellerID
	}

	return State{
		Lines:          lines,
		TotalItemCount: s.TotalItemCount + qty,
		TotalPrice:     s.TotalPrice.Add(line.Subtotal()),
		ActiveSellerID: active,
		Version:        s.Version + 1,
	}
}

func reduceRemove(s State, a RemoveLine) State {
	idx := lineIndex(s.Lines, a.ProductID)
	if idx < 0 {
		return s
	}

	removed := s.Lines[idx]
	lines := make([]Line, 0, len(s.Lines)-1)
	lines = append(lines, s.Lines[:idx]...)
	lines = append(lines, s.Lines[idx+1:]...)
	if len(lines) == 0 {
		lines = nil
	}

	return State{
		Lines:          lines,
		TotalItemCount: s.TotalItemCount - removed.Quantity,
		TotalPrice:     s.TotalPrice.Sub(removed.Subtotal()),
		ActiveSellerID: activeSeller(lines),
		Version:        s.Version + 1,
	}
}

func reduceSetQuantity(s State, a SetQuantity) State {
	idx := lineIndex(s.Lines, a.ProductID)
	if idx < 0 {
		return s
	}

	line := s.Lines[idx]
	qty := a.Quantity
	if qty < 1 {
		qty = 1
	}
	if line.StockLimit != nil && qty > *line.StockLimit {
		qty = *line.StockLimit
	}
	if qty == line.Quantity {
		return s
	}

	delta := qty - line.Quantity
	lines := cloneLines(s.Lines)
	lines[idx].Quantity = qty

	return State{
		Lines:          lines,
		TotalItemCount: s.TotalItemCount + delta,
		TotalPrice:     s.TotalPrice.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(delta)))),
		ActiveSellerID: s.ActiveSellerID,
		Version:        s.Version + 1,
	}
}

func reduceClear(s State) State {
	if s.IsEmpty() {
		return s
	}
	next := Empty()
	next.Version = s.Version + 1
	return next
}

func activeSeller(lines []Line) string {
	for _, line := range lines {
		if line.SellerID != "" {
			return line.SellerID
		}
	}
	return ""
}
