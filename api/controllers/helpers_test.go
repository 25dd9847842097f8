package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/talesbyhand-backend/internal/auth"
	"github.com/angelmondragon/talesbyhand-backend/internal/cart"
	"github.com/angelmondragon/talesbyhand-backend/internal/catalog"
	"github.com/angelmondragon/talesbyhand-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func withURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

type stubCatalogService struct {
	regions    []catalog.RegionDTO
	list       *catalog.ProductListResult
	detail     *catalog.ProductDetailDTO
	err        error
	gotSlug    *string
	gotProduct uint64
}

func (s *stubCatalogService) ListRegions(ctx context.Context) ([]catalog.RegionDTO, error) {
	return s.regions, s.err
}

func (s *stubCatalogService) ListProducts(ctx context.Context, regionSlug *string) (*catalog.ProductListResult, error) {
	s.gotSlug = regionSlug
	return s.list, s.err
}

func (s *stubCatalogService) GetProductDetail(ctx context.Context, productID uint64) (*catalog.ProductDetailDTO, error) {
	s.gotProduct = productID
	return s.detail, s.err
}

type addCall struct {
	userID    uuid.UUID
	productID uint64
	quantity  int
}

type stubCartService struct {
	result *cart.AddItemResult
	view   *cart.CartDTO
	err    error
	calls  []addCall
}

func (s *stubCartService) AddItem(ctx context.Context, userID uuid.UUID, productID uint64, quantity int) (*cart.AddItemResult, error) {
	s.calls = append(s.calls, addCall{userID: userID, productID: productID, quantity: quantity})
	return s.result, s.err
}

func (s *stubCartService) GetCart(ctx context.Context, userID uuid.UUID) (*cart.CartDTO, error) {
	return s.view, s.err
}

type stubAuthService struct {
	resp       *auth.LoginResponse
	err        error
	gotLogin   auth.LoginRequest
	gotSession string
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	s.gotLogin = req
	return s.resp, s.err
}

func (s *stubAuthService) Logout(ctx context.Context, sessionID string) error {
	s.gotSession = sessionID
	return s.err
}
