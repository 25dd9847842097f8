package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/talesbyhand-backend/api/middleware"
	"github.com/angelmondragon/talesbyhand-backend/api/responses"
	"github.com/angelmondragon/talesbyhand-backend/api/validators"
	"github.com/angelmondragon/talesbyhand-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/talesbyhand-backend/pkg/errors"
	"github.com/angelmondragon/talesbyhand-backend/pkg/logger"
)

const cartPath = "/cart/"

// CartAdd upserts one line in the caller's cart. Form posts are redirected to
// the cart view; JSON clients receive the resulting line.
func CartAdd(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())

		productID, err := validators.ParsePathUint(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quantity, err := validators.ParseQuantity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.AddItem(r.Context(), userID, productID, quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			ctx := logg.WithFields(r.Context(), map[string]any{
				"cart_id":    result.CartID,
				"product_id": result.ProductID,
				"quantity":   result.Quantity,
				"created":    result.Created,
			})
			logg.Info(ctx, "cart.item_added")
		}

		if acceptsJSON(r) {
			status := http.StatusOK
			if result.Created {
				status = http.StatusCreated
			}
			responses.WriteSuccessStatus(w, status, result)
			return
		}
		responses.SeeOther(w, r, cartPath)
	}
}

// CartView renders the caller's cart; a user without a cart sees an empty one.
func CartView(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		view, err := svc.GetCart(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func acceptsJSON(r *http.Request) bool {
	return strings.Contains(strings.ToLower(r.Header.Get("Accept")), "application/json")
}
