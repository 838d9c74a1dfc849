package entity

import (
	"time"

	"github.com/google/uuid"
)

type PropertyStatus string

const (
	PropertyActive PropertyStatus = "active"
	PropertyHidden PropertyStatus = "hidden"
	PropertySold   PropertyStatus = "sold"
	PropertyRented PropertyStatus = "rented"
	PropertyDraft  PropertyStatus = "draft"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

type Address struct {
	FullAddress string   `json:"fullAddress"`
	Country     string   `json:"country"`
	Province    string   `json:"province"`
	District    string   `json:"district"`
	Ward        string   `json:"ward"`
	Street      string   `json:"street"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

type Rooms struct {
	Bedrooms    int `json:"bedrooms"`
	Bathrooms   int `json:"bathrooms"`
	LivingRooms int `json:"livingRooms"`
	Kitchens    int `json:"kitchens"`
}

type Price struct {
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
	Period   string  `json:"period"`
}

type MediaMetadata struct {
	Filename   string     `json:"filename,omitempty"`
	Size       int64      `json:"size,omitempty"`
	MimeType   string     `json:"mimetype,omitempty"`
	UploadedAt *time.Time `json:"uploadedAt,omitempty"`
}

type Media struct {
	URL      string         `json:"url"`
	Type     string         `json:"type"`
	Metadata *MediaMetadata `json:"metadata,omitempty"`
}

// Property is a listing owned by a user. Owner is filled only by joined reads.
type Property struct {
	Base
	Title       string         `db:"title"`
	Slug        string         `db:"slug"`
	Description string         `db:"description"`
	Status      PropertyStatus `db:"status"`
	Visibility  Visibility     `db:"visibility"`
	Purpose     string         `db:"purpose"`
	Type        string         `db:"type"`
	YearBuilt   *int           `db:"year_built"`
	Area        float64        `db:"area"`
	Rooms       Rooms          `db:"-"`
	Amenities   []string       `db:"amenities"`
	Address     Address        `db:"-"`
	Price       Price          `db:"-"`
	Media       []Media        `db:"media"`
	OwnerID     uuid.UUID      `db:"owner_id"`
	Owner       *UserProfile   `db:"-"`
}
