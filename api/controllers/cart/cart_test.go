package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmbasket-app/farmbasket-backend/api/middleware"
	cartsvc "github.com/farmbasket-app/farmbasket-backend/internal/cart"
	"github.com/farmbasket-app/farmbasket-backend/internal/catalog"
	pkgerrors "github.com/farmbasket-app/farmbasket-backend/pkg/errors"
	"github.com/farmbasket-app/farmbasket-backend/pkg/types"
)

type stubCartService struct {
	cartsvc.Service

	state    cartsvc.State
	propose  *cartsvc.ProposeResult
	confirm  *cartsvc.ConfirmResult
	err      error
	sessions []string
}

func (s *stubCartService) Get(ctx context.Context, sessionID string) (cartsvc.State, error) {
	s.sessions = append(s.sessions, sessionID)
	return s.state, s.err
}

func (s *stubCartService) Summary(ctx context.Context, sessionID string) (cartsvc.Summary, error) {
	policy := cartsvc.ShippingPolicy{
		FreeShippingThreshold: decimal.RequireFromString("150"),
		FlatFee:               decimal.RequireFromString("20"),
	}
	return policy.Summarize(s.state), s.err
}

func (s *stubCartService) ProposeAdd(ctx context.Context, sessionID string, product cartsvc.Product, quantity int) (*cartsvc.ProposeResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.propose, nil
}

func (s *stubCartService) ConfirmSwitch(ctx context.Context, sessionID, proposalID string, accept bool) (*cartsvc.ConfirmResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.confirm, nil
}

type stubCatalog struct {
	catalog.Service

	product cartsvc.Product
	err     error
}

func (s *stubCatalog) CartProduct(ctx context.Context, productID uuid.UUID) (cartsvc.Product, error) {
	if s.err != nil {
		return cartsvc.Product{}, s.err
	}
	return s.product, nil
}

func filledState() cartsvc.State {
	limit := 10
	return cartsvc.Reduce(cartsvc.Empty(), cartsvc.AddLine{
		Product: cartsvc.Product{
			ProductID:  "p1",
			Name:       "Fresh Eggs",
			UnitPrice:  decimal.RequireFromString("6"),
			Unit:       "dozen",
			StockLimit: &limit,
			SellerID:   "farm-1",
		},
		Quantity: 2,
	})
}

func doRequest(t *testing.T, handler http.HandlerFunc, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	middleware.Session()(handler).ServeHTTP(rec, req)
	return rec
}

func TestCartFetch(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{state: filledState()}
	rec := doRequest(t, CartFetch(svc, nil), http.MethodGet, "/api/v1/cart", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data CartView `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	view := envelope.Data
	if view.ItemCount != 2 || len(view.Items) != 1 || view.ActiveSellerID != "farm-1" {
		t.Fatalf("unexpected view %+v", view)
	}
	if !view.ShippingFee.Equal(decimal.RequireFromString("20")) {
		t.Fatalf("shipping fee = %s", view.ShippingFee)
	}
	if len(svc.sessions) == 0 || svc.sessions[0] == "" {
		t.Fatal("handler must pass the resolved session id through")
	}
}

func TestCartProposeAddNeedsConfirmation(t *testing.T) {
	t.Parallel()

	state := filledState()
	svc := &stubCartService{
		state: state,
		propose: &cartsvc.ProposeResult{
			Outcome:         cartsvc.OutcomeNeedsConfirmation,
			ProposalID:      uuid.NewString(),
			CurrentSellerID: "farm-1",
			NewSellerID:     "farm-2",
			State:           state,
		},
	}
	limit := 5
	cat := &stubCatalog{product: cartsvc.Product{
		ProductID:  uuid.NewString(),
		Name:       "Goat Cheese",
		UnitPrice:  decimal.RequireFromString("9"),
		StockLimit: &limit,
		SellerID:   "farm-2",
	}}

	rec := doRequest(t, CartProposeAdd(svc, cat, nil), http.MethodPost, "/api/v1/cart/items", AddItemRequest{
		ProductID: uuid.New(),
		Quantity:  1,
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data ProposeAddView `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	view := envelope.Data
	if view.Outcome != string(cartsvc.OutcomeNeedsConfirmation) || view.ProposalID == "" {
		t.Fatalf("unexpected view %+v", view)
	}
	if view.NewSellerID != "farm-2" || view.Cart.ItemCount != 2 {
		t.Fatalf("unexpected view %+v", view)
	}
}

func TestCartProposeAddUnknownProduct(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{state: cartsvc.Empty()}
	cat := &stubCatalog{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}

	rec := doRequest(t, CartProposeAdd(svc, cat, nil), http.MethodPost, "/api/v1/cart/items", AddItemRequest{
		ProductID: uuid.New(),
		Quantity:  1,
	})

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}

	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeNotFound) {
		t.Fatalf("code = %s", envelope.Error.Code)
	}
}

func TestCartProposeAddRejectsBadBody(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{state: cartsvc.Empty()}
	cat := &stubCatalog{}

	rec := doRequest(t, CartProposeAdd(svc, cat, nil), http.MethodPost, "/api/v1/cart/items", map[string]any{
		"quantity": 1,
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
}

func TestCartConfirmSwitch(t *testing.T) {
	t.Parallel()

	state := filledState()
	svc := &stubCartService{
		state:   state,
		confirm: &cartsvc.ConfirmResult{Switched: true, State: state},
	}

	router := chi.NewRouter()
	router.Use(middleware.Session())
	router.Post("/api/v1/cart/proposals/{proposalID}", CartConfirmSwitch(svc, nil))

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(ConfirmSwitchRequest{Accept: true}); err != nil {
		t.Fatalf("encoding request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/proposals/"+uuid.NewString(), &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data ConfirmSwitchView `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if !envelope.Data.Switched {
		t.Fatal("expected switched result")
	}
}
