package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"shop-api/internal/usecase"
	"shop-api/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	Auth     *AuthHandler
	User     *UserHandler
	Product  *ProductHandler
	Cart     *CartHandler
	Property *PropertyHandler
	Comment  *CommentHandler
	Favorite *FavoriteHandler
}

func NewHandler(service *usecase.Service, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(service.Auth, config, log),
		User:     NewUserHandler(service.User, log),
		Product:  NewProductHandler(service.Product, log),
		Cart:     NewCartHandler(service.Cart, log),
		Property: NewPropertyHandler(service.Property, log),
		Comment:  NewCommentHandler(service.Comment, log),
		Favorite: NewFavoriteHandler(service.Favorite, log),
	}
}

const maxBodyBytes = 1 << 20

// decodeJSON reads the request body into dst and answers 400 when it cannot.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

// currentUser returns the id set by the auth middleware, answering 401 when absent.
func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return userID, false
	}
	return userID, true
}

// viewerFrom returns the optional caller identity, or nil for anonymous requests.
func viewerFrom(r *http.Request) *uuid.UUID {
	if id, ok := utils.GetUserIDFromContext(r.Context()); ok {
		return &id
	}
	return nil
}

// handleServiceError maps usecase error kinds to HTTP responses.
// Anything unrecognised is logged and hidden behind a generic 500.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var verr *usecase.ValidationError
	if errors.As(err, &verr) {
		log.Debug(operation+" validation failed", zap.Any("fields", verr.Fields))
		utils.ResponseBadRequest(w, "Validation failed", verr.Fields)
		return
	}

	msg := err.Error()
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		utils.ResponseBadRequest(w, msg, nil)
	case errors.Is(err, usecase.ErrUnauthorized):
		utils.ResponseUnauthorized(w, msg)
	case errors.Is(err, usecase.ErrForbidden):
		utils.ResponseForbidden(w, msg)
	case errors.Is(err, usecase.ErrNotFound):
		utils.ResponseNotFound(w, msg)
	case errors.Is(err, usecase.ErrNotAcceptable):
		utils.ResponseNotAcceptable(w, msg)
	case errors.Is(err, usecase.ErrConflict):
		utils.ResponseConflict(w, msg)
	default:
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	log.Warn(operation+" failed", zap.Error(err), zap.String("operation", operation))
}
