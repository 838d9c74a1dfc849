package usecase

import (
	"context"
	"time"

	"shop-api/internal/data/entity"
	"shop-api/internal/data/repository"
	"shop-api/internal/dto/request"
	"shop-api/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PropertyService interface {
	// GetProperties returns a page of listings joined with their owners.
	// viewerID may be nil for anonymous callers.
	GetProperties(ctx context.Context, req *request.PropertyListRequest, viewerID *uuid.UUID) (*response.PaginatedResponse[response.PropertyResponse], error)
	GetPropertyDetails(ctx context.Context, id string, viewerID *uuid.UUID) (*response.PropertyResponse, error)
	CreateProperty(ctx context.Context, ownerID uuid.UUID, req *request.CreatePropertyRequest) (*response.PropertyResponse, error)
	// AddMedia is restricted to the listing owner.
	AddMedia(ctx context.Context, userID uuid.UUID, id string, req *request.AddMediaRequest) (*response.PropertyResponse, error)
}

type propertyService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewPropertyService(repo *repository.Repository, log *zap.Logger) PropertyService {
	return &propertyService{
		repo: repo,
		log:  log.With(zap.String("service", "property")),
	}
}

func (s *propertyService) GetProperties(ctx context.Context, req *request.PropertyListRequest, viewerID *uuid.UUID) (*response.PaginatedResponse[response.PropertyResponse], error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	filter := repository.PropertyFilter{
		ViewerID:    viewerID,
		Purpose:     req.Purpose,
		Type:        req.Type,
		Status:      req.Status,
		Province:    req.Province,
		District:    req.District,
		MinPrice:    req.MinPrice,
		MaxPrice:    req.MaxPrice,
		MinBedrooms: req.MinBedrooms,
		Query:       req.Q,
		SortBy:      req.SortBy,
		SortOrder:   req.SortOrder,
		Limit:       req.Limit(),
		Offset:      req.Offset(),
	}
	if req.Owner != "" {
		owner, err := uuid.Parse(req.Owner)
		if err != nil {
			return nil, newError(ErrInvalidInput, "Invalid owner id")
		}
		filter.OwnerID = &owner
	}

	properties, total, err := s.repo.Property.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return response.NewPaginatedResponse(
		response.PropertiesToResponse(properties), req.Page, req.Limit(), total,
	), nil
}

func (s *propertyService) find(ctx context.Context, id string) (*entity.Property, error) {
	propertyID, err := uuid.Parse(id)
	if err != nil {
		return nil, newError(ErrInvalidInput, "Invalid property id")
	}

	property, err := s.repo.Property.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, newError(ErrNotFound, "Property not found")
	}
	return property, nil
}

// GetPropertyDetails hides private and draft listings from everyone but the
// owner.
func (s *propertyService) GetPropertyDetails(ctx context.Context, id string, viewerID *uuid.UUID) (*response.PropertyResponse, error) {
	property, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visibleTo(property, viewerID) {
		return nil, newError(ErrNotFound, "Property not found")
	}

	resp := response.PropertyToResponse(property)
	return &resp, nil
}

func visibleTo(p *entity.Property, viewerID *uuid.UUID) bool {
	if viewerID != nil && *viewerID == p.OwnerID {
		return true
	}
	return p.Visibility == entity.VisibilityPublic && p.Status != entity.PropertyDraft
}

func toMedia(in []request.MediaRequest) []entity.Media {
	now := time.Now()
	media := make([]entity.Media, 0, len(in))
	for _, m := range in {
		item := entity.Media{URL: m.URL, Type: m.Type}
		if m.Filename != "" || m.MimeType != "" || m.Size > 0 {
			item.Metadata = &entity.MediaMetadata{
				Filename:   m.Filename,
				Size:       m.Size,
				MimeType:   m.MimeType,
				UploadedAt: &now,
			}
		}
		media = append(media, item)
	}
	return media
}

func (s *propertyService) CreateProperty(ctx context.Context, ownerID uuid.UUID, req *request.CreatePropertyRequest) (*response.PropertyResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	slug, err := uniqueSlug(ctx, req.Title, "property", s.repo.Property.SlugExists)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	property := &entity.Property{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:       req.Title,
		Slug:        slug,
		Description: req.Description,
		Status:      entity.PropertyActive,
		Visibility:  entity.VisibilityPublic,
		Purpose:     req.Purpose,
		Type:        req.Type,
		YearBuilt:   req.YearBuilt,
		Area:        req.Area,
		Rooms: entity.Rooms{
			Bedrooms:    req.Rooms.Bedrooms,
			Bathrooms:   req.Rooms.Bathrooms,
			LivingRooms: req.Rooms.LivingRooms,
			Kitchens:    req.Rooms.Kitchens,
		},
		Amenities: nonNil(req.Amenities),
		Address: entity.Address{
			FullAddress: req.Address.FullAddress,
			Country:     req.Address.Country,
			Province:    req.Address.Province,
			District:    req.Address.District,
			Ward:        req.Address.Ward,
			Street:      req.Address.Street,
			Latitude:    req.Address.Latitude,
			Longitude:   req.Address.Longitude,
		},
		Price: entity.Price{
			Value:    req.Price.Value,
			Currency: "VND",
			Period:   "month",
		},
		Media:   toMedia(req.Media),
		OwnerID: ownerID,
	}
	if req.Status != "" {
		property.Status = entity.PropertyStatus(req.Status)
	}
	if req.Visibility != "" {
		property.Visibility = entity.Visibility(req.Visibility)
	}
	if req.Price.Currency != "" {
		property.Price.Currency = req.Price.Currency
	}
	if req.Price.Period != "" {
		property.Price.Period = req.Price.Period
	}

	if err := s.repo.Property.Create(ctx, property); err != nil {
		return nil, err
	}

	return s.GetPropertyDetails(ctx, property.ID.String(), &ownerID)
}

func (s *propertyService) AddMedia(ctx context.Context, userID uuid.UUID, id string, req *request.AddMediaRequest) (*response.PropertyResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	property, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if property.OwnerID != userID {
		return nil, newError(ErrForbidden, "Only the owner can add media")
	}

	if err := s.repo.Property.AddMedia(ctx, property.ID, toMedia(req.Media)); err != nil {
		return nil, notFoundAs(err, "Property not found")
	}

	s.log.Info("Media added",
		zap.String("property_id", property.ID.String()),
		zap.Int("count", len(req.Media)),
	)
	return s.GetPropertyDetails(ctx, property.ID.String(), &userID)
}
