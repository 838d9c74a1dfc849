package response

import (
	"time"

	"shop-api/internal/data/entity"
)

type PropertyResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Slug        string                `json:"slug"`
	Description string                `json:"description"`
	Status      entity.PropertyStatus `json:"status"`
	Visibility  entity.Visibility     `json:"visibility"`
	Purpose     string                `json:"purpose"`
	Type        string                `json:"type"`
	YearBuilt   *int                  `json:"yearBuilt,omitempty"`
	Area        float64               `json:"area"`
	Rooms       entity.Rooms          `json:"rooms"`
	Amenities   []string              `json:"amenities"`
	Address     entity.Address        `json:"address"`
	Price       entity.Price          `json:"price"`
	Media       []entity.Media        `json:"media"`
	OwnerID     string                `json:"ownerId"`
	Owner       *entity.UserProfile   `json:"owner"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

func PropertyToResponse(p *entity.Property) PropertyResponse {
	resp := PropertyResponse{
		ID:          p.ID.String(),
		Title:       p.Title,
		Slug:        p.Slug,
		Description: p.Description,
		Status:      p.Status,
		Visibility:  p.Visibility,
		Purpose:     p.Purpose,
		Type:        p.Type,
		YearBuilt:   p.YearBuilt,
		Area:        p.Area,
		Rooms:       p.Rooms,
		Amenities:   p.Amenities,
		Address:     p.Address,
		Price:       p.Price,
		Media:       p.Media,
		OwnerID:     p.OwnerID.String(),
		Owner:       p.Owner,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if resp.Amenities == nil {
		resp.Amenities = []string{}
	}
	if resp.Media == nil {
		resp.Media = []entity.Media{}
	}
	return resp
}

func PropertiesToResponse(properties []*entity.Property) []PropertyResponse {
	out := make([]PropertyResponse, 0, len(properties))
	for _, p := range properties {
		out = append(out, PropertyToResponse(p))
	}
	return out
}
