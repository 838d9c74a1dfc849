package response

import (
	"math"
	"time"

	"shop-api/internal/data/entity"
)

type CartItemResponse struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"productId"`
	Name         string    `json:"name"`
	Price        float64   `json:"price"`
	Quantity     int       `json:"quantity"`
	LineTotal    float64   `json:"lineTotal"`
	Slug         string    `json:"slug"`
	Image        *string   `json:"image,omitempty"`
	InStock      bool      `json:"inStock"`
	CurrentPrice float64   `json:"currentPrice"`
	AddedAt      time.Time `json:"addedAt"`
}

type CartResponse struct {
	ID         string             `json:"id"`
	UserID     string             `json:"userId"`
	Items      []CartItemResponse `json:"items"`
	TotalItems int                `json:"totalItems"`
	TotalPrice float64            `json:"totalPrice"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// CartToResponse prices every line at its snapshot price.
func CartToResponse(cart *entity.Cart) CartResponse {
	resp := CartResponse{
		ID:        cart.ID.String(),
		UserID:    cart.UserID.String(),
		Items:     make([]CartItemResponse, 0, len(cart.Items)),
		UpdatedAt: cart.UpdatedAt,
	}

	var total float64
	for _, item := range cart.Items {
		line := item.Price * float64(item.Quantity)
		total += line
		resp.TotalItems += item.Quantity

		resp.Items = append(resp.Items, CartItemResponse{
			ID:           item.ID.String(),
			ProductID:    item.ProductID.String(),
			Name:         item.Name,
			Price:        item.Price,
			Quantity:     item.Quantity,
			LineTotal:    roundMoney(line),
			Slug:         item.ProductSlug,
			Image:        item.ProductImage,
			InStock:      item.InStock,
			CurrentPrice: item.CurrentPrice,
			AddedAt:      item.AddedAt,
		})
	}
	resp.TotalPrice = roundMoney(total)

	return resp
}
