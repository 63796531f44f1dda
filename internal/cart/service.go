package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	pkgerrors "github.com/farmbasket-app/farmbasket-backend/pkg/errors"
	"github.com/farmbasket-app/farmbasket-backend/pkg/logger"
	"github.com/farmbasket-app/farmbasket-backend/pkg/metrics"
	"github.com/google/uuid"
)

// Outcome classifies what happened to a propose-add request.
type Outcome string

const (
	OutcomeAdded             Outcome = "added"
	OutcomeNeedsConfirmation Outcome = "needs_confirmation"
	OutcomeRejected          Outcome = "rejected"
)

// Rejection reasons surfaced to clients.
const (
	ReasonOutOfStock = "out_of_stock"
	ReasonStockLimit = "stock_limit"
)

// ProposeResult reports the outcome of ProposeAdd. ProposalID and the
// seller fields are set only for OutcomeNeedsConfirmation; Reason only
// for OutcomeRejected.
type ProposeResult struct {
	Outcome         Outcome `json:"outcome"`
	Reason          string  `json:"reason,omitempty"`
	ProposalID      string  `json:"proposal_id,omitempty"`
	CurrentSellerID string  `json:"current_seller_id,omitempty"`
	NewSellerID     string  `json:"new_seller_id,omitempty"`
	State           State   `json:"cart"`
}

// ConfirmResult reports the outcome of ConfirmSwitch. Switched is true
// when the cart was cleared and rebuilt around the new seller's item.
type ConfirmResult struct {
	Switched bool  `json:"switched"`
	State    State `json:"cart"`
}

// Service owns per-session cart state. All mutations flow through the
// reducer; the in-memory copy is authoritative and the snapshot store
// trails it.
type Service interface {
	Get(ctx context.Context, sessionID string) (State, error)
	ProposeAdd(ctx context.Context, sessionID string, product Product, quantity int) (*ProposeResult, error)
	ConfirmSwitch(ctx context.Context, sessionID, proposalID string, accept bool) (*ConfirmResult, error)
	SetQuantity(ctx context.Context, sessionID, productID string, quantity int) (State, error)
	RemoveItem(ctx context.Context, sessionID, productID string) (State, error)
	ClearCart(ctx context.Context, sessionID string) (State, error)
	Summary(ctx context.Context, sessionID string) (Summary, error)
}

// ServiceParams carries the dependencies for NewService.
type ServiceParams struct {
	Snapshots    SnapshotStore
	Proposals    ProposalStore
	Shipping     ShippingPolicy
	Logger       *logger.Logger
	Metrics      *metrics.CartMetrics
	VerifyTotals bool
}

type sessionEntry struct {
	mu       sync.Mutex
	hydrated bool
	state    State
}

type service struct {
	snapshots    SnapshotStore
	proposals    ProposalStore
	shipping     ShippingPolicy
	logg         *logger.Logger
	metrics      *metrics.CartMetrics
	verifyTotals bool

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

// NewService validates dependencies and builds the cart service.
func NewService(params ServiceParams) (Service, error) {
	if params.Snapshots == nil {
		return nil, fmt.Errorf("snapshot store required")
	}
	if params.Proposals == nil {
		return nil, fmt.Errorf("proposal store required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		snapshots:    params.Snapshots,
		proposals:    params.Proposals,
		shipping:     params.Shipping,
		logg:         params.Logger,
		metrics:      params.Metrics,
		verifyTotals: params.VerifyTotals,
		sessions:     map[string]*sessionEntry{},
	}, nil
}

func (s *service) entry(sessionID string) *sessionEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[sessionID]
	if !ok {
		e = &sessionEntry{state: Empty()}
		s.sessions[sessionID] = e
	}
	return e
}

// withSession runs fn while holding the session's lock, hydrating the
// in-memory state from the snapshot store on first touch.
func (s *service) withSession(ctx context.Context, sessionID string, fn func(e *sessionEntry) error) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	e := s.entry(sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.hydrated {
		snapshot, found, err := s.snapshots.Load(ctx, sessionID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
		}
		if found {
			e.state = Reduce(Empty(), Replace{Snapshot: snapshot})
		}
		e.hydrated = true
	}
	return fn(e)
}

// apply runs the actions through the reducer, commits the result in
// memory, and writes the snapshot before returning. A failed write is
// logged and counted but does not roll back the in-memory state.
func (s *service) apply(ctx context.Context, sessionID string, e *sessionEntry, actions ...Action) bool {
	next := e.state
	for _, action := range actions {
		next = Reduce(next, action)
	}
	if next.Version == e.state.Version {
		return false
	}

	if s.verifyTotals {
		if clean := next.Recomputed(); clean.TotalItemCount != next.TotalItemCount || !clean.TotalPrice.Equal(next.TotalPrice) {
			s.logg.Warn(s.logg.WithSessionID(ctx, sessionID), "cart totals drifted from line items, recomputing")
			next = clean
		}
	}

	e.state = next
	if err := s.snapshots.Save(ctx, sessionID, next); err != nil {
		s.metrics.IncSaveFailure()
		s.logg.Error(s.logg.WithSessionID(ctx, sessionID), "persisting cart snapshot", err)
	}
	return true
}

func (s *service) Get(ctx context.Context, sessionID string) (State, error) {
	var out State
	err := s.withSession(ctx, sessionID, func(e *sessionEntry) error {
		out = e.state
		return nil
	})
	return out, err
}

func (s *service) Summary(ctx context.Context, sessionID string) (Summary, error) {
	state, err := s.Get(ctx, sessionID)
	if err != nil {
		return Summary{}, err
	}
	return s.shipping.Summarize(state), nil
}

func (s *service) ProposeAdd(ctx context.Context, sessionID string, product Product, quantity int) (*ProposeResult, error) {
	if product.ProductID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity <= 0 {
		quantity = 1
	}

	var result *ProposeResult
	err := s.withSession(ctx, sessionID, func(e *sessionEntry) error {
		if product.StockLimit != nil && *product.StockLimit <= 0 {
			s.metrics.IncPropose(string(OutcomeRejected))
			result = &ProposeResult{Outcome: OutcomeRejected, Reason: ReasonOutOfStock, State: e.state}
			return nil
		}

		if e.state.ActiveSellerID != "" && product.SellerID != "" && product.SellerID != e.state.ActiveSellerID {
			proposal := Proposal{
				ID:              uuid.NewString(),
				SessionID:       sessionID,
				Product:         product,
				Quantity:        quantity,
				CurrentSellerID: e.state.ActiveSellerID,
				NewSellerID:     product.SellerID,
				CreatedAt:       time.Now().UTC(),
			}
			if err := s.proposals.Put(ctx, proposal); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing seller switch proposal")
			}
			s.metrics.IncPropose(string(OutcomeNeedsConfirmation))
			result = &ProposeResult{
				Outcome:         OutcomeNeedsConfirmation,
				ProposalID:      proposal.ID,
				CurrentSellerID: proposal.CurrentSellerID,
				NewSellerID:     proposal.NewSellerID,
				State:           e.state,
			}
			return nil
		}

		if !s.apply(ctx, sessionID, e, AddLine{Product: product, Quantity: quantity}) {
			s.metrics.IncPropose(string(OutcomeRejected))
			result = &ProposeResult{Outcome: OutcomeRejected, Reason: ReasonStockLimit, State: e.state}
			return nil
		}
		s.metrics.IncPropose(string(OutcomeAdded))
		result = &ProposeResult{Outcome: OutcomeAdded, State: e.state}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ConfirmSwitch settles a pending seller switch. Accepting clears the
// cart and adds the proposed item; declining leaves the cart untouched.
// A proposal can be settled at most once, and an expired one counts as
// declined.
func (s *service) ConfirmSwitch(ctx context.Context, sessionID, proposalID string, accept bool) (*ConfirmResult, error) {
	if proposalID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "proposal id is required")
	}

	var result *ConfirmResult
	err := s.withSession(ctx, sessionID, func(e *sessionEntry) error {
		proposal, found, err := s.proposals.Take(ctx, sessionID, proposalID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading seller switch proposal")
		}

		if !accept {
			s.metrics.IncConfirmation("declined")
			result = &ConfirmResult{Switched: false, State: e.state}
			return nil
		}
		if !found {
			return pkgerrors.New(pkgerrors.CodeNotFound, "proposal not found or expired")
		}

		s.apply(ctx, sessionID, e,
			Clear{},
			AddLine{Product: proposal.Product, Quantity: proposal.Quantity},
		)
		s.metrics.IncConfirmation("accepted")
		result = &ConfirmResult{Switched: true, State: e.state}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SetQuantity updates a line's quantity. Zero or negative removes the
// line instead.
func (s *service) SetQuantity(ctx context.Context, sessionID, productID string, quantity int) (State, error) {
	if productID == "" {
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity <= 0 {
		return s.RemoveItem(ctx, sessionID, productID)
	}

	var out State
	err := s.withSession(ctx, sessionID, func(e *sessionEntry) error {
		if _, ok := e.state.FindLine(productID); !ok {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart")
		}
		s.apply(ctx, sessionID, e, SetQuantity{ProductID: productID, Quantity: quantity})
		out = e.state
		return nil
	})
	return out, err
}

func (s *service) RemoveItem(ctx context.Context, sessionID, productID string) (State, error) {
	if productID == "" {
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	var out State
	err := s.withSession(ctx, sessionID, func(e *sessionEntry) error {
		s.apply(ctx, sessionID, e, RemoveLine{ProductID: productID})
		out = e.state
		return nil
	})
	return out, err
}

func (s *service) ClearCart(ctx context.Context, sessionID string) (State, error) {
	var out State
	err := s.withSession(ctx, sessionID, func(e *sessionEntry) error {
		s.apply(ctx, sessionID, e, Clear{})
		out = e.state
		return nil
	})
	return out, err
}
