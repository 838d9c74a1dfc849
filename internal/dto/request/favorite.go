package request

type AddFavoriteRequest struct {
	ProductID string `json:"productId" validate:"required"`
}
