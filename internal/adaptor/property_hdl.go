package adaptor

import (
	"net/http"

	"shop-api/internal/dto/request"
	"shop-api/internal/usecase"
	"shop-api/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PropertyHandler struct {
	service usecase.PropertyService
	log     *zap.Logger
}

func NewPropertyHandler(service usecase.PropertyService, log *zap.Logger) *PropertyHandler {
	return &PropertyHandler{
		service: service,
		log:     log.With(zap.String("handler", "property")),
	}
}

// GetProperties handles GET /api/v1/properties. Private listings are only
// returned to their owner, so the optional caller identity is passed along.
func (h *PropertyHandler) GetProperties(w http.ResponseWriter, r *http.Request) {
	req := request.PropertyListFromQuery(r.URL.Query())

	properties, err := h.service.GetProperties(r.Context(), &req, viewerFrom(r))
	if err != nil {
		handleServiceError(w, h.log, err, "get properties")
		return
	}

	utils.ResponseSuccess(w, "success", properties)
}

// GetPropertyDetails handles GET /api/v1/properties/{id}
func (h *PropertyHandler) GetPropertyDetails(w http.ResponseWriter, r *http.Request) {
	property, err := h.service.GetPropertyDetails(r.Context(), chi.URLParam(r, "id"), viewerFrom(r))
	if err != nil {
		handleServiceError(w, h.log, err, "get property details")
		return
	}

	utils.ResponseSuccess(w, "success", property)
}

// CreateProperty handles POST /api/v1/properties
func (h *PropertyHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.CreatePropertyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	property, err := h.service.CreateProperty(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create property")
		return
	}

	utils.ResponseCreated(w, "Property created", property)
}

// AddMedia handles POST /api/v1/properties/{id}/media
func (h *PropertyHandler) AddMedia(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.AddMediaRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	property, err := h.service.AddMedia(r.Context(), userID, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "add property media")
		return
	}

	utils.ResponseSuccess(w, "Media added", property)
}
