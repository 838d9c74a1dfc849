package request

type AddCartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  *int   `json:"quantity,omitempty" validate:"omitempty,min=1,max=999"`
}

// UpdateCartItemRequest accepts zero or negative quantities, which remove the line.
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" validate:"required,max=999"`
}
