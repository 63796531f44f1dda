package controllers

import (
	"net/http"

	"github.com/farmbasket-app/farmbasket-backend/api/middleware"
	"github.com/farmbasket-app/farmbasket-backend/api/responses"
	"github.com/farmbasket-app/farmbasket-backend/api/validators"
	"github.com/farmbasket-app/farmbasket-backend/internal/checkout"
	"github.com/farmbasket-app/farmbasket-backend/pkg/enums"
	pkgerrors "github.com/farmbasket-app/farmbasket-backend/pkg/errors"
	"github.com/farmbasket-app/farmbasket-backend/pkg/logger"
	"github.com/farmbasket-app/farmbasket-backend/pkg/types"
)

// CheckoutDraftRequest captures the buyer's review-step submission.
type CheckoutDraftRequest struct {
	ShippingAddress types.Address `json:"shipping_address" validate:"required"`
	PaymentMethod   string        `json:"payment_method" validate:"required"`
	Notes           *string       `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// CheckoutDraft turns the session's cart into a reviewable order draft.
func CheckoutDraft(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
			return
		}

		var payload CheckoutDraftRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draft, err := svc.BuildDraft(r.Context(), sessionID, checkout.DraftInput{
			ShippingAddress: payload.ShippingAddress,
			PaymentMethod:   enums.PaymentMethod(payload.PaymentMethod),
			Notes:           payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, draft)
	}
}
