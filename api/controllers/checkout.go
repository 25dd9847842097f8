package controllers

import (
	"net/http"

	"github.com/angelmondragon/talesbyhand-backend/api/responses"
	pkgerrors "github.com/angelmondragon/talesbyhand-backend/pkg/errors"
	"github.com/angelmondragon/talesbyhand-backend/pkg/logger"
)

// Checkout is a placeholder until orders exist; it always answers 501.
func Checkout(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotImplemented, "checkout is not available yet"))
	}
}
