package request

import (
	"net/url"
	"strings"

	"shop-api/pkg/utils"
)

// ProductListRequest is the typed form of the product list query string.
type ProductListRequest struct {
	PaginatedRequest
	Q         string   `json:"q" validate:"max=200"`
	Category  string   `json:"category" validate:"max=100"`
	InStock   *bool    `json:"inStock"`
	OnSale    *bool    `json:"onSale"`
	MinPrice  *float64 `json:"minPrice" validate:"omitempty,gte=0"`
	MaxPrice  *float64 `json:"maxPrice" validate:"omitempty,gte=0"`
	MinRating *float64 `json:"minRating" validate:"omitempty,gte=0,lte=5"`
	SortBy    string   `json:"sortBy" validate:"omitempty,oneof=name price rating views createdAt"`
	SortOrder string   `json:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

func ProductListFromQuery(q url.Values) ProductListRequest {
	return ProductListRequest{
		PaginatedRequest: PaginationFromQuery(q),
		Q:                strings.TrimSpace(q.Get("q")),
		Category:         strings.TrimSpace(q.Get("category")),
		InStock:          utils.ParseBoolPtr(q.Get("inStock")),
		OnSale:           utils.ParseBoolPtr(q.Get("onSale")),
		MinPrice:         utils.ParseFloatPtr(q.Get("minPrice")),
		MaxPrice:         utils.ParseFloatPtr(q.Get("maxPrice")),
		MinRating:        utils.ParseFloatPtr(q.Get("minRating")),
		SortBy:           q.Get("sortBy"),
		SortOrder:        strings.ToLower(q.Get("sortOrder")),
	}
}

type ProductRequest struct {
	Name          string   `json:"name" validate:"required,min=1,max=255"`
	Description   *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	Category      string   `json:"category" validate:"required,max=100"`
	Price         float64  `json:"price" validate:"gte=0"`
	OriginalPrice *float64 `json:"originalPrice,omitempty" validate:"omitempty,gte=0"`
	Discount      int      `json:"discount" validate:"gte=0,lte=100"`
	Image         *string  `json:"image,omitempty" validate:"omitempty,url"`
	Images        []string `json:"images,omitempty" validate:"omitempty,dive,url"`
	Tags          []string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=50"`
	InStock       *bool    `json:"inStock,omitempty"`
	IsOnSale      bool     `json:"isOnSale"`
}

type ProductUpdateRequest struct {
	Name          *string  `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description   *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	Category      *string  `json:"category,omitempty" validate:"omitempty,max=100"`
	Price         *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	OriginalPrice *float64 `json:"originalPrice,omitempty" validate:"omitempty,gte=0"`
	Discount      *int     `json:"discount,omitempty" validate:"omitempty,gte=0,lte=100"`
	Image         *string  `json:"image,omitempty" validate:"omitempty,url"`
	Images        []string `json:"images,omitempty" validate:"omitempty,dive,url"`
	Tags          []string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=50"`
	InStock       *bool    `json:"inStock,omitempty"`
	IsOnSale      *bool    `json:"isOnSale,omitempty"`
}
