package adaptor

import (
	"net/http"

	"shop-api/internal/dto/request"
	"shop-api/internal/usecase"
	"shop-api/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CartHandler serves the caller's own cart. Every mutation answers with the
// full cart as it is after the change.
type CartHandler struct {
	service usecase.CartService
	log     *zap.Logger
}

func NewCartHandler(service usecase.CartService, log *zap.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		log:     log.With(zap.String("handler", "cart")),
	}
}

// GetCart handles GET /api/v1/carts
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	cart, err := h.service.GetCart(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get cart")
		return
	}

	utils.ResponseSuccess(w, "success", cart)
}

// AddItem handles POST /api/v1/carts
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.AddCartItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	cart, err := h.service.AddItem(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "add cart item")
		return
	}

	utils.ResponseSuccess(w, "Item added to cart", cart)
}

// UpdateItem handles PUT /api/v1/carts/{itemId}
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.UpdateCartItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	cart, err := h.service.UpdateItem(r.Context(), userID, chi.URLParam(r, "itemId"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update cart item")
		return
	}

	utils.ResponseSuccess(w, "Cart updated", cart)
}

// RemoveItem handles DELETE /api/v1/carts/{itemId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	cart, err := h.service.RemoveItem(r.Context(), userID, chi.URLParam(r, "itemId"))
	if err != nil {
		handleServiceError(w, h.log, err, "remove cart item")
		return
	}

	utils.ResponseSuccess(w, "Item removed from cart", cart)
}

// ClearCart handles DELETE /api/v1/carts
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	cart, err := h.service.ClearCart(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "clear cart")
		return
	}

	utils.ResponseSuccess(w, "Cart cleared", cart)
}
