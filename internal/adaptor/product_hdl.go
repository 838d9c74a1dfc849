package adaptor

import (
	"net/http"

	"shop-api/internal/dto/request"
	"shop-api/internal/usecase"
	"shop-api/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ProductHandler struct {
	service usecase.ProductService
	log     *zap.Logger
}

func NewProductHandler(service usecase.ProductService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		log:     log.With(zap.String("handler", "product")),
	}
}

// ListProducts handles GET /api/v1/products
//
// Query: q, category, inStock, onSale, minPrice, maxPrice, minRating,
// sortBy, sortOrder, page, itemsPerPage.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	req := request.ProductListFromQuery(r.URL.Query())

	products, err := h.service.ListProducts(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "list products")
		return
	}

	utils.ResponseSuccess(w, "success", products)
}

// GetProduct handles GET /api/v1/products/{id}; id may also be a slug.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"), viewerFrom(r))
	if err != nil {
		handleServiceError(w, h.log, err, "get product")
		return
	}

	utils.ResponseSuccess(w, "success", product)
}

// GetSimilarProducts handles GET /api/v1/products/{id}/similar
func (h *ProductHandler) GetSimilarProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetSimilarProducts(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get similar products")
		return
	}

	utils.ResponseSuccess(w, "success", products)
}

// GetCategories handles GET /api/v1/products/categories
func (h *ProductHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.GetCategories(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get categories")
		return
	}

	utils.ResponseSuccess(w, "success", categories)
}

// GetRecentlyViewed handles GET /api/v1/recently-viewed
func (h *ProductHandler) GetRecentlyViewed(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	products, err := h.service.GetRecentlyViewed(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get recently viewed")
		return
	}

	utils.ResponseSuccess(w, "success", products)
}

// CreateProduct handles POST /api/v1/admin/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req request.ProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	product, err := h.service.CreateProduct(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create product")
		return
	}

	utils.ResponseCreated(w, "Product created", product)
}

// UpdateProduct handles PUT /api/v1/admin/products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req request.ProductUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update product")
		return
	}

	utils.ResponseSuccess(w, "Product updated", product)
}

// DeleteProduct handles DELETE /api/v1/admin/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete product")
		return
	}

	utils.ResponseSuccess(w, "Product deleted", nil)
}
