package cart

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/farmbasket-app/farmbasket-backend/api/middleware"
	pkgerrors "github.com/farmbasket-app/farmbasket-backend/pkg/errors"
)

// AddItemRequest asks to put a product into the cart.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"omitempty,min=1,max=999"`
}

// ConfirmSwitchRequest settles the seller-switch proposal named in the URL.
type ConfirmSwitchRequest struct {
	Accept bool `json:"accept"`
}

// SetQuantityRequest changes the quantity of a line already in the cart.
type SetQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=0,max=999"`
}

func sessionIDFromRequest(r *http.Request) (string, error) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "session context missing")
	}
	return sessionID, nil
}
