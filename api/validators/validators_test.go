package validators

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/talesbyhand-backend/pkg/errors"
)

func formRequest(values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/cart/add/42/", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestParseQuantity(t *testing.T) {
	qty, err := ParseQuantity(formRequest(url.Values{}))
	require.NoError(t, err)
	assert.Equal(t, 1, qty)

	qty, err = ParseQuantity(formRequest(url.Values{"quantity": {" 3 "}}))
	require.NoError(t, err)
	assert.Equal(t, 3, qty)

	for _, raw := range []string{"0", "-2", "abc", "1.5"} {
		_, err := ParseQuantity(formRequest(url.Values{"quantity": {raw}}))
		assert.Truef(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation), "raw %q", raw)
	}
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestParsePathUint(t *testing.T) {
	r := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "productID", "42")
	id, err := ParsePathUint(r, "productID")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	r = withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "productID", "9223372036854775807")
	id, err = ParsePathUint(r, "productID")
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxInt64), id)

	for _, raw := range []string{"", "0", "-1", "x", "9223372036854775808", "18446744073709551615"} {
		r := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "productID", raw)
		_, err := ParsePathUint(r, "productID")
		assert.Truef(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound), "raw %q", raw)
	}
}

type loginBody struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=1"`
}

func TestDecodeJSONBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/login/", strings.NewReader(`{"username":"a","password":"b"}`))
	var body loginBody
	require.NoError(t, DecodeJSONBody(r, &body))
	assert.Equal(t, "a", body.Username)

	r = httptest.NewRequest(http.MethodPost, "/login/", strings.NewReader(`{"username":"a","extra":1}`))
	assert.True(t, pkgerrors.HasCode(DecodeJSONBody(r, &body), pkgerrors.CodeValidation))

	err := ValidateStruct(&loginBody{})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details := typed.Details().(map[string]string)
	assert.Equal(t, "is required", details["username"])
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "abc", SanitizeString("  abcdef ", 3))
	assert.Equal(t, "abc", SanitizeString("abc", 0))
}
