package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/talesbyhand-backend/api/middleware"
	"github.com/angelmondragon/talesbyhand-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/talesbyhand-backend/pkg/errors"
)

func cartAddRequest(t *testing.T, userID uuid.UUID, productID, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/cart/add/"+productID+"/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = withURLParams(req, map[string]string{"productID": productID})
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func TestCartAddRedirectsToCart(t *testing.T) {
	userID := uuid.New()
	svc := &stubCartService{result: &cart.AddItemResult{CartID: 1, ProductID: 42, Quantity: 3, Created: true}}

	rec := httptest.NewRecorder()
	CartAdd(svc, testLogger()).ServeHTTP(rec, cartAddRequest(t, userID, "42", "quantity=3"))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/cart/", rec.Header().Get("Location"))
	require.Len(t, svc.calls, 1)
	assert.Equal(t, addCall{userID: userID, productID: 42, quantity: 3}, svc.calls[0])
}

func TestCartAddDefaultsQuantityToOne(t *testing.T) {
	svc := &stubCartService{result: &cart.AddItemResult{Quantity: 1}}
	rec := httptest.NewRecorder()
	CartAdd(svc, testLogger()).ServeHTTP(rec, cartAddRequest(t, uuid.New(), "42", ""))

	require.Len(t, svc.calls, 1)
	assert.Equal(t, 1, svc.calls[0].quantity)
}

func TestCartAddRejectsMalformedQuantityBeforeService(t *testing.T) {
	svc := &stubCartService{}
	for _, body := range []string{"quantity=abc", "quantity=0", "quantity=-1"} {
		rec := httptest.NewRecorder()
		CartAdd(svc, testLogger()).ServeHTTP(rec, cartAddRequest(t, uuid.New(), "42", body))
		assert.Equalf(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.Empty(t, svc.calls)
}

func TestCartAddMissingProductIs404(t *testing.T) {
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	rec := httptest.NewRecorder()
	CartAdd(svc, testLogger()).ServeHTTP(rec, cartAddRequest(t, uuid.New(), "999", "quantity=1"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartAddJSONClientGetsLine(t *testing.T) {
	svc := &stubCartService{result: &cart.AddItemResult{CartID: 1, ProductID: 42, Quantity: 5}}
	req := cartAddRequest(t, uuid.New(), "42", "quantity=2")
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	CartAdd(svc, testLogger()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"quantity":5`)
}

func TestCartView(t *testing.T) {
	svc := &stubCartService{view: &cart.CartDTO{Lines: []cart.LineDTO{}, Total: "0.00"}}
	req := httptest.NewRequest(http.MethodGet, "/cart/", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New()))
	rec := httptest.NewRecorder()
	CartView(svc, testLogger()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":"0.00"`)
}

func TestCheckoutNotImplemented(t *testing.T) {
	rec := httptest.NewRecorder()
	Checkout(testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/checkout/", nil))
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}
