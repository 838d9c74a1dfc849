package response

import (
	"time"

	"shop-api/internal/data/entity"
)

type ProductResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   *string   `json:"description,omitempty"`
	Category      string    `json:"category"`
	Price         float64   `json:"price"`
	OriginalPrice *float64  `json:"originalPrice,omitempty"`
	Discount      int       `json:"discount"`
	Image         *string   `json:"image,omitempty"`
	Images        []string  `json:"images"`
	Tags          []string  `json:"tags"`
	InStock       bool      `json:"inStock"`
	IsOnSale      bool      `json:"isOnSale"`
	Rating        float64   `json:"rating"`
	RatingCount   int       `json:"ratingCount"`
	ViewCount     int64     `json:"viewCount"`
	CommentCount  int       `json:"commentCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func ProductToResponse(p *entity.Product) ProductResponse {
	resp := ProductResponse{
		ID:            p.ID.String(),
		Name:          p.Name,
		Slug:          p.Slug,
		Description:   p.Description,
		Category:      p.Category,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Discount:      p.Discount,
		Image:         p.Image,
		Images:        p.Images,
		Tags:          p.Tags,
		InStock:       p.InStock,
		IsOnSale:      p.IsOnSale,
		Rating:        p.Rating,
		RatingCount:   p.RatingCount,
		ViewCount:     p.ViewCount,
		CommentCount:  p.CommentCount,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if resp.Images == nil {
		resp.Images = []string{}
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	return resp
}

func ProductsToResponse(products []*entity.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, ProductToResponse(p))
	}
	return out
}
