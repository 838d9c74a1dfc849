package adaptor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"shop-api/internal/dto/request"
	"shop-api/internal/dto/response"
	"shop-api/internal/usecase"
	"shop-api/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) utils.Response {
	t.Helper()
	var body utils.Response
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func withUser(r *http.Request, id uuid.UUID) *http.Request {
	return r.WithContext(utils.SetUserContext(r.Context(), id))
}

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"validation", &usecase.ValidationError{Fields: map[string]string{"email": "Invalid email format"}}, http.StatusBadRequest, "Validation failed"},
		{"invalid", &usecase.Error{Kind: usecase.ErrInvalidInput, Msg: "Invalid item id"}, http.StatusBadRequest, "Invalid item id"},
		{"unauthorized", &usecase.Error{Kind: usecase.ErrUnauthorized, Msg: "Invalid email or password"}, http.StatusUnauthorized, "Invalid email or password"},
		{"forbidden", &usecase.Error{Kind: usecase.ErrForbidden, Msg: "Please sign in again"}, http.StatusForbidden, "Please sign in again"},
		{"not found", &usecase.Error{Kind: usecase.ErrNotFound, Msg: "Product not found"}, http.StatusNotFound, "Product not found"},
		{"not acceptable", &usecase.Error{Kind: usecase.ErrNotAcceptable, Msg: "Token is invalid"}, http.StatusNotAcceptable, "Token is invalid"},
		{"conflict", &usecase.Error{Kind: usecase.ErrConflict, Msg: "Email already registered"}, http.StatusConflict, "Email already registered"},
		{"wrapped kind", fmt.Errorf("outer: %w", &usecase.Error{Kind: usecase.ErrNotFound, Msg: "Cart missing"}), http.StatusNotFound, "outer: Cart missing"},
		{"driver error", errors.New("pq: connection reset"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleServiceError(rec, zap.NewNop(), tt.err, "test")

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			body := decodeBody(t, rec)
			if body.Success || body.Message != tt.msg {
				t.Fatalf("body = %+v, want message %q", body, tt.msg)
			}
		})
	}
}

func TestValidationErrorCarriesFields(t *testing.T) {
	rec := httptest.NewRecorder()
	handleServiceError(rec, zap.NewNop(), &usecase.ValidationError{Fields: map[string]string{"quantity": "This field is required"}}, "test")

	body := decodeBody(t, rec)
	fields, ok := body.Errors.(map[string]any)
	if !ok || fields["quantity"] != "This field is required" {
		t.Fatalf("errors = %#v", body.Errors)
	}
}

// cartStub records the item id it was called with and returns canned carts.
type cartStub struct {
	usecase.CartService
	itemID string
	err    error
}

func (s *cartStub) GetCart(_ context.Context, userID uuid.UUID) (*response.CartResponse, error) {
	return &response.CartResponse{UserID: userID.String(), Items: []response.CartItemResponse{}}, s.err
}

func (s *cartStub) UpdateItem(_ context.Context, userID uuid.UUID, itemID string, req *request.UpdateCartItemRequest) (*response.CartResponse, error) {
	s.itemID = itemID
	if s.err != nil {
		return nil, s.err
	}
	return &response.CartResponse{UserID: userID.String(), TotalItems: *req.Quantity, Items: []response.CartItemResponse{}}, nil
}

func TestCartHandlerRequiresUser(t *testing.T) {
	h := NewCartHandler(&cartStub{}, zap.NewNop())
	rec := httptest.NewRecorder()

	h.GetCart(rec, httptest.NewRequest(http.MethodGet, "/api/v1/carts", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestCartHandlerUpdateItem(t *testing.T) {
	stub := &cartStub{}
	h := NewCartHandler(stub, zap.NewNop())
	r := chi.NewRouter()
	r.Put("/carts/{itemId}", h.UpdateItem)
	userID := uuid.New()
	itemID := uuid.NewString()

	req := withUser(httptest.NewRequest(http.MethodPut, "/carts/"+itemID, strings.NewReader(`{"quantity":3}`)), userID)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if stub.itemID != itemID {
		t.Fatalf("item id = %q, want %q", stub.itemID, itemID)
	}

	var body struct {
		Data response.CartResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Data.UserID != userID.String() || body.Data.TotalItems != 3 {
		t.Fatalf("cart = %+v", body.Data)
	}
}

func TestCartHandlerBadBody(t *testing.T) {
	h := NewCartHandler(&cartStub{}, zap.NewNop())
	req := withUser(httptest.NewRequest(http.MethodPut, "/carts/x", strings.NewReader(`{"quantity":`)), uuid.New())
	rec := httptest.NewRecorder()

	h.UpdateItem(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

// authStub implements the login and refresh flows with fixed tokens.
type authStub struct {
	usecase.AuthService
	refreshSeen string
	loggedOut   string
}

func (s *authStub) Login(context.Context, *request.LoginRequest, usecase.ClientMeta) (*response.AuthResponse, error) {
	exp := time.Now().Add(time.Hour)
	return &response.AuthResponse{
		AccessToken:      "access-1",
		AccessExpiresAt:  exp,
		RefreshToken:     "refresh-1",
		RefreshExpiresAt: exp,
	}, nil
}

func (s *authStub) Refresh(_ context.Context, tok string) (*response.TokenResponse, error) {
	s.refreshSeen = tok
	if tok != "refresh-1" {
		return nil, &usecase.Error{Kind: usecase.ErrForbidden, Msg: "Please sign in again"}
	}
	return &response.TokenResponse{AccessToken: "access-2", AccessExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (s *authStub) Logout(_ context.Context, tok string) error {
	s.loggedOut = tok
	return nil
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLoginSetsCookies(t *testing.T) {
	h := NewAuthHandler(&authStub{}, &utils.Config{}, zap.NewNop())
	rec := httptest.NewRecorder()

	h.Login(rec, httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader(`{"email":"a@b.co","password":"x"}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	access := cookieNamed(rec, utils.AccessTokenCookie)
	refresh := cookieNamed(rec, utils.RefreshTokenCookie)
	if access == nil || access.Value != "access-1" || !access.HttpOnly {
		t.Fatalf("access cookie = %+v", access)
	}
	if refresh == nil || refresh.Value != "refresh-1" || !refresh.HttpOnly {
		t.Fatalf("refresh cookie = %+v", refresh)
	}
}

func TestRefreshTokenSources(t *testing.T) {
	stub := &authStub{}
	h := NewAuthHandler(stub, &utils.Config{}, zap.NewNop())

	// cookie
	req := httptest.NewRequest(http.MethodGet, "/users/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: utils.RefreshTokenCookie, Value: "refresh-1"})
	rec := httptest.NewRecorder()
	h.RefreshToken(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("cookie: status = %d", rec.Code)
	}
	if c := cookieNamed(rec, utils.AccessTokenCookie); c == nil || c.Value != "access-2" {
		t.Fatalf("new access cookie = %+v", c)
	}

	// body
	rec = httptest.NewRecorder()
	h.RefreshToken(rec, httptest.NewRequest(http.MethodGet, "/users/refresh-token", strings.NewReader(`{"refreshToken":"refresh-1"}`)))
	if rec.Code != http.StatusOK || stub.refreshSeen != "refresh-1" {
		t.Fatalf("body: status = %d, token seen %q", rec.Code, stub.refreshSeen)
	}

	// nothing
	rec = httptest.NewRecorder()
	h.RefreshToken(rec, httptest.NewRequest(http.MethodGet, "/users/refresh-token", nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("missing token: status = %d, want 403", rec.Code)
	}
}

func TestLogoutClearsCookies(t *testing.T) {
	stub := &authStub{}
	h := NewAuthHandler(stub, &utils.Config{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodDelete, "/users/logout", nil)
	req.AddCookie(&http.Cookie{Name: utils.RefreshTokenCookie, Value: "refresh-1"})
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if stub.loggedOut != "refresh-1" {
		t.Fatalf("revoked %q", stub.loggedOut)
	}
	for _, name := range []string{utils.AccessTokenCookie, utils.RefreshTokenCookie} {
		c := cookieNamed(rec, name)
		if c == nil || c.MaxAge >= 0 {
			t.Fatalf("%s not cleared: %+v", name, c)
		}
	}
}
