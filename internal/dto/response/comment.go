package response

import (
	"time"

	"shop-api/internal/data/entity"
)

type CommentResponse struct {
	ID        string              `json:"id"`
	ProductID string              `json:"productId"`
	UserID    string              `json:"userId"`
	Content   string              `json:"content"`
	Rating    *int                `json:"rating,omitempty"`
	Author    *entity.UserProfile `json:"author,omitempty"`
	CreatedAt time.Time           `json:"createdAt"`
}

func CommentToResponse(c *entity.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID.String(),
		ProductID: c.ProductID.String(),
		UserID:    c.UserID.String(),
		Content:   c.Content,
		Rating:    c.Rating,
		Author:    c.Author,
		CreatedAt: c.CreatedAt,
	}
}
