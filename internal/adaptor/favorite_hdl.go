package adaptor

import (
	"net/http"

	"shop-api/internal/dto/request"
	"shop-api/internal/usecase"
	"shop-api/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type FavoriteHandler struct {
	service usecase.FavoriteService
	log     *zap.Logger
}

func NewFavoriteHandler(service usecase.FavoriteService, log *zap.Logger) *FavoriteHandler {
	return &FavoriteHandler{
		service: service,
		log:     log.With(zap.String("handler", "favorite")),
	}
}

// ListFavorites handles GET /api/v1/favorites
func (h *FavoriteHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	page := request.PaginationFromQuery(r.URL.Query())
	favorites, err := h.service.ListFavorites(r.Context(), userID, &page)
	if err != nil {
		handleServiceError(w, h.log, err, "list favorites")
		return
	}

	utils.ResponseSuccess(w, "success", favorites)
}

// AddFavorite handles POST /api/v1/favorites
func (h *FavoriteHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.AddFavoriteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.AddFavorite(r.Context(), userID, &req); err != nil {
		handleServiceError(w, h.log, err, "add favorite")
		return
	}

	utils.ResponseCreated(w, "Added to favorites", nil)
}

// RemoveFavorite handles DELETE /api/v1/favorites/{productId}
func (h *FavoriteHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.service.RemoveFavorite(r.Context(), userID, chi.URLParam(r, "productId")); err != nil {
		handleServiceError(w, h.log, err, "remove favorite")
		return
	}

	utils.ResponseSuccess(w, "Removed from favorites", nil)
}
