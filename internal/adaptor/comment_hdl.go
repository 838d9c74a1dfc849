package adaptor

import (
	"net/http"

	"shop-api/internal/dto/request"
	"shop-api/internal/usecase"
	"shop-api/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CommentHandler struct {
	service usecase.CommentService
	log     *zap.Logger
}

func NewCommentHandler(service usecase.CommentService, log *zap.Logger) *CommentHandler {
	return &CommentHandler{
		service: service,
		log:     log.With(zap.String("handler", "comment")),
	}
}

// CreateComment handles POST /api/v1/comments (protected)
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.CreateCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	comment, err := h.service.AddComment(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create comment")
		return
	}

	utils.ResponseCreated(w, "success", comment)
}

// GetProductComments handles GET /api/v1/products/{id}/comments (public)
func (h *CommentHandler) GetProductComments(w http.ResponseWriter, r *http.Request) {
	page := request.PaginationFromQuery(r.URL.Query())

	comments, err := h.service.GetProductComments(r.Context(), chi.URLParam(r, "id"), &page)
	if err != nil {
		handleServiceError(w, h.log, err, "get product comments")
		return
	}

	utils.ResponseSuccess(w, "success", comments)
}

// DeleteComment handles DELETE /api/v1/comments/{commentId} (author only)
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteComment(r.Context(), userID, chi.URLParam(r, "commentId")); err != nil {
		handleServiceError(w, h.log, err, "delete comment")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
