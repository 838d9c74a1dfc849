package request

type CreateCommentRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Content   string `json:"content" validate:"required,max=2000"`
	Rating    *int   `json:"rating,omitempty"`
}
