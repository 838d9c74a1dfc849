package request

import (
	"net/url"
	"strings"

	"shop-api/pkg/utils"
)

type PropertyListRequest struct {
	PaginatedRequest
	Owner       string   `json:"owner" validate:"omitempty,uuid"`
	Purpose     string   `json:"purpose" validate:"omitempty,oneof=sale rent"`
	Type        string   `json:"type" validate:"omitempty,oneof=apartment house condo land commercial office villa townhouse other"`
	Status      string   `json:"status" validate:"omitempty,oneof=active hidden sold rented draft"`
	Province    string   `json:"province" validate:"max=100"`
	District    string   `json:"district" validate:"max=100"`
	MinPrice    *float64 `json:"minPrice" validate:"omitempty,gte=0"`
	MaxPrice    *float64 `json:"maxPrice" validate:"omitempty,gte=0"`
	MinBedrooms *int     `json:"minBedrooms" validate:"omitempty,gte=0"`
	Q           string   `json:"q" validate:"max=200"`
	SortBy      string   `json:"sortBy" validate:"omitempty,oneof=title price area createdAt"`
	SortOrder   string   `json:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

func PropertyListFromQuery(q url.Values) PropertyListRequest {
	return PropertyListRequest{
		PaginatedRequest: PaginationFromQuery(q),
		Owner:            strings.TrimSpace(q.Get("owner")),
		Purpose:          q.Get("purpose"),
		Type:             q.Get("type"),
		Status:           q.Get("status"),
		Province:         strings.TrimSpace(q.Get("province")),
		District:         strings.TrimSpace(q.Get("district")),
		MinPrice:         utils.ParseFloatPtr(q.Get("minPrice")),
		MaxPrice:         utils.ParseFloatPtr(q.Get("maxPrice")),
		MinBedrooms:      utils.ParseIntPtr(q.Get("minBedrooms")),
		Q:                strings.TrimSpace(q.Get("q")),
		SortBy:           q.Get("sortBy"),
		SortOrder:        strings.ToLower(q.Get("sortOrder")),
	}
}

type AddressRequest struct {
	FullAddress string   `json:"fullAddress" validate:"required,max=500"`
	Country     string   `json:"country" validate:"required,max=100"`
	Province    string   `json:"province" validate:"required,max=100"`
	District    string   `json:"district" validate:"required,max=100"`
	Ward        string   `json:"ward" validate:"required,max=100"`
	Street      string   `json:"street" validate:"required,max=255"`
	Latitude    *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
}

type RoomsRequest struct {
	Bedrooms    int `json:"bedrooms" validate:"gte=0"`
	Bathrooms   int `json:"bathrooms" validate:"gte=0"`
	LivingRooms int `json:"livingRooms" validate:"gte=0"`
	Kitchens    int `json:"kitchens" validate:"gte=0"`
}

type PriceRequest struct {
	Value    float64 `json:"value" validate:"gte=0"`
	Currency string  `json:"currency" validate:"omitempty,oneof=VND USD EUR"`
	Period   string  `json:"period" validate:"omitempty,oneof=month year other"`
}

type MediaRequest struct {
	URL      string `json:"url" validate:"required,url"`
	Type     string `json:"type" validate:"required,oneof=image video"`
	Filename string `json:"filename,omitempty" validate:"omitempty,max=255"`
	Size     int64  `json:"size,omitempty" validate:"omitempty,gte=0"`
	MimeType string `json:"mimetype,omitempty" validate:"omitempty,max=100"`
}

type CreatePropertyRequest struct {
	Title       string         `json:"title" validate:"required,min=5,max=255"`
	Description string         `json:"description" validate:"required,min=10,max=10000"`
	Status      string         `json:"status" validate:"omitempty,oneof=active hidden sold rented draft"`
	Visibility  string         `json:"visibility" validate:"omitempty,oneof=public private"`
	Purpose     string         `json:"purpose" validate:"required,oneof=sale rent"`
	Type        string         `json:"type" validate:"required,oneof=apartment house condo land commercial office villa townhouse other"`
	YearBuilt   *int           `json:"yearBuilt,omitempty" validate:"omitempty,gte=1800,lte=2100"`
	Area        float64        `json:"area" validate:"gte=0"`
	Rooms       RoomsRequest   `json:"rooms"`
	Amenities   []string       `json:"amenities,omitempty" validate:"omitempty,dive,min=1,max=100"`
	Address     AddressRequest `json:"address"`
	Price       PriceRequest   `json:"price"`
	Media       []MediaRequest `json:"media,omitempty" validate:"omitempty,dive"`
}

type AddMediaRequest struct {
	Media []MediaRequest `json:"media" validate:"required,min=1,max=50,dive"`
}
