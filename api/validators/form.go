package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/angelmondragon/talesbyhand-backend/pkg/errors"
)

// ParseQuantity reads the quantity form value. A missing value means one unit.
func ParseQuantity(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.FormValue("quantity"))
	if raw == "" {
		return 1, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive integer").
			WithDetails(map[string]any{"field": "quantity", "value": raw})
	}
	if value < 1 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive integer").
			WithDetails(map[string]any{"field": "quantity", "value": value})
	}
	return value, nil
}

// ParsePathUint reads a positive numeric chi URL parameter. Values outside
// the BIGINT id range cannot name a row and are reported as not found.
func ParsePathUint(r *http.Request, key string) (uint64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	value, err := strconv.ParseUint(raw, 10, 63)
	if err != nil || value == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeNotFound, "resource not found").
			WithDetails(map[string]any{"field": key})
	}
	return value, nil
}
