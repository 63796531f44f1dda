package cart

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

func testProduct(id, seller string, price string, stock int) Product {
	limit := stock
	return Product{
		ProductID:  id,
		Name:       "Product " + id,
		UnitPrice:  decimal.RequireFromString(price),
		Unit:       "kg",
		StockLimit: &limit,
		SellerID:   seller,
	}
}

func TestAddLineWithinStock(t *testing.T) {
	t.Parallel()

	p1 := testProduct("p1", "s1", "10", 5)

	state := Reduce(Empty(), AddLine{Product: p1, Quantity: 1})
	if state.TotalItemCount != 1 || state.TotalPrice.String() != "10" {
		t.Fatalf("unexpected totals after first add: count=%d price=%s", state.TotalItemCount, state.TotalPrice)
	}
	if state.ActiveSellerID != "s1" {
		t.Fatalf("expected active seller s1, got %q", state.ActiveSellerID)
	}

	state = Reduce(state, AddLine{Product: p1, Quantity: 1})
	if state.TotalItemCount != 2 || state.TotalPrice.String() != "20" {
		t.Fatalf("unexpected totals after second add: count=%d price=%s", state.TotalItemCount, state.TotalPrice)
	}
	if len(state.Lines) != 1 || state.Lines[0].Quantity != 2 {
		t.Fatalf("expected single line with quantity 2, got %+v", state.Lines)
	}
}

func TestAddLineStockBreachRejected(t *testing.T) {
	t.Parallel()

	p1 := testProduct("p1", "s1", "10", 5)
	state := Reduce(Empty(), AddLine{Product: p1, Quantity: 5})
	if state.Lines[0].Quantity != 5 {
		t.Fatalf("expected quantity at stock limit, got %d", state.Lines[0].Quantity)
	}

	unchanged := Reduce(state, AddLine{Product: p1, Quantity: 1})
	if !reflect.DeepEqual(unchanged, state) {
		t.Fatalf("breach should be a no-op, got %+v", unchanged)
	}
	if unchanged.Version != state.Version {
		t.Fatal("no-op must not bump version")
	}
}

func TestAddLineOutOfStockProductRejected(t *testing.T) {
	t.Parallel()

	state := Reduce(Empty(), AddLine{Product: testProduct("p1", "s1", "10", 0)})
	if !state.IsEmpty() {
		t.Fatalf("expected empty cart, got %+v", state)
	}
}

func TestAddLineNewLineAboveStockRejected(t *testing.T) {
	t.Parallel()

	state := Reduce(Empty(), AddLine{Product: testProduct("p1", "s1", "10", 3), Quantity: 4})
	if !state.IsEmpty() {
		t.Fatalf("expected rejection for fresh line above stock, got %+v", state)
	}
}

func TestAddLineUnconstrainedProduct(t *testing.T) {
	t.Parallel()

	p := Product{ProductID: "p9", Name: "Bulk oats", UnitPrice: decimal.RequireFromString("3.5"), Unit: "kg", SellerID: "s1"}
	state := Empty()
	for i := 0; i < 40; i++ {
		state = Reduce(state, AddLine{Product: p, Quantity: 5})
	}
	if state.TotalItemCount != 200 {
		t.Fatalf("expected 200 items for unconstrained product, got %d", state.TotalItemCount)
	}
}

func TestRemoveLine(t *testing.T) {
	t.Parallel()

	state := Reduce(Empty(), AddLine{Product: testProduct("p1", "s1", "10", 5), Quantity: 2})
	state = Reduce(state, AddLine{Product: testProduct("p2", "s1", "4", 9), Quantity: 1})

	state = Reduce(state, RemoveLine{ProductID: "p1"})
	if state.TotalItemCount != 1 || state.TotalPrice.String() != "4" {
		t.Fatalf("unexpected totals after remove: count=%d price=%s", state.TotalItemCount, state.TotalPrice)
	}
	if state.ActiveSellerID != "s1" {
		t.Fatalf("seller should survive partial removal, got %q", state.ActiveSellerID)
	}

	state = Reduce(state, RemoveLine{ProductID: "p2"})
	if !state.IsEmpty() || state.ActiveSellerID != "" {
		t.Fatalf("expected empty cart with no seller, got %+v", state)
	}
}

func TestRemoveLineMissingIsNoop(t *testing.T) {
	t.Parallel()

	state := Reduce(Empty(), AddLine{Product: testProduct("p1", "s1", "10", 5)})
	unchanged := Reduce(state, RemoveLine{ProductID: "ghost"})
	if !reflect.DeepEqual(unchanged, state) {
		t.Fatalf("removal of unknown product must not change state")
	}
}

func TestSetQuantityClampsToStock(t *testing.T) {
	t.Parallel()

	state := Reduce(Empty(), AddLine{Product: testProduct("p1", "s1", "10", 5), Quantity: 2})

	state = Reduce(state, SetQuantity{ProductID: "p1", Quantity: 50})
	if state.Lines[0].Quantity != 5 {
		t.Fatalf("expected clamp to stock limit 5, got %d", state.Lines[0].Quantity)
	}
	if state.TotalPrice.String() != "50" {
		t.Fatalf("unexpected price after clamp: %s", state.TotalPrice)
	}

	state = Reduce(state, SetQuantity{ProductID: "p1", Quantity: 0})
	if state.Lines[0].Quantity != 1 {
		t.Fatalf("expected clamp to 1, got %d", state.Lines[0].Quantity)
	}
}

func TestClearResetsEverything(t *testing.T) {
	t.Parallel()

	state := Reduce(Empty(), AddLine{Product: testProduct("p1", "s1", "10", 5), Quantity: 3})
	cleared := Reduce(state, Clear{})

	if !cleared.IsEmpty() || cleared.TotalItemCount != 0 || !cleared.TotalPrice.IsZero() || cleared.ActiveSellerID != "" {
		t.Fatalf("unexpected cleared state %+v", cleared)
	}
	if cleared.Version != state.Version+1 {
		t.Fatalf("clear should bump version, got %d", cleared.Version)
	}

	again := Reduce(cleared, Clear{})
	if again.Version != cleared.Version {
		t.Fatal("clearing an empty cart should be a no-op")
	}
}

func TestReplaceAdoptsSnapshotWholesale(t *testing.T) {
	t.Parallel()

	snapshot := Reduce(Empty(), AddLine{Product: testProduct("p1", "s1", "10", 5), Quantity: 2})
	state := Reduce(Empty(), Replace{Snapshot: snapshot})
	if !reflect.DeepEqual(state, snapshot) {
		t.Fatalf("replace should adopt snapshot as-is")
	}
}

func TestReducerDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	state := Reduce(Empty(), AddLine{Product: testProduct("p1", "s1", "10", 5), Quantity: 2})
	before := state.Lines[0].Quantity

	_ = Reduce(state, SetQuantity{ProductID: "p1", Quantity: 4})
	if state.Lines[0].Quantity != before {
		t.Fatal("reducer mutated input state")
	}
}

// Random action sequences must keep the denormalized totals, the stock
// ceilings, and the single-seller rule intact after every transition.
func TestInvariantsUnderRandomActions(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	products := []Product{
		testProduct("p1", "s1", "10", 5),
		testProduct("p2", "s1", "2.25", 12),
		testProduct("p3", "s1", "7.4", 3),
		{ProductID: "p4", Name: "No limit", UnitPrice: decimal.RequireFromString("1.1"), Unit: "piece", SellerID: "s1"},
	}

	state := Empty()
	for i := 0; i < 500; i++ {
		product := products[rng.Intn(len(products))]
		switch rng.Intn(4) {
		case 0:
			state = Reduce(state, AddLine{Product: product, Quantity: rng.Intn(4) + 1})
		case 1:
			state = Reduce(state, RemoveLine{ProductID: product.ProductID})
		case 2:
			state = Reduce(state, SetQuantity{ProductID: product.ProductID, Quantity: rng.Intn(15) + 1})
		case 3:
			if rng.Intn(10) == 0 {
				state = Reduce(state, Clear{})
			}
		}

		recomputed := state.Recomputed()
		if recomputed.TotalItemCount != state.TotalItemCount {
			t.Fatalf("step %d: item count drift %d != %d", i, state.TotalItemCount, recomputed.TotalItemCount)
		}
		if !recomputed.TotalPrice.Sub(state.TotalPrice).Abs().LessThan(decimal.RequireFromString("0.000001")) {
			t.Fatalf("step %d: price drift %s != %s", i, state.TotalPrice, recomputed.TotalPrice)
		}
		for _, line := range state.Lines {
			if line.Quantity <= 0 {
				t.Fatalf("step %d: non-positive quantity on %s", i, line.ProductID)
			}
			if line.StockLimit != nil && line.Quantity > *line.StockLimit {
				t.Fatalf("step %d: stock ceiling breached on %s: %d > %d", i, line.ProductID, line.Quantity, *line.StockLimit)
			}
			if line.SellerID != "" && line.SellerID != state.ActiveSellerID {
				t.Fatalf("step %d: seller invariant broken on %s", i, line.ProductID)
			}
		}
		if state.IsEmpty() && state.ActiveSellerID != "" {
			t.Fatalf("step %d: empty cart retains seller %q", i, state.ActiveSellerID)
		}
	}
}
