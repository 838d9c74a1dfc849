package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shop-api/internal/data/entity"
	"shop-api/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PropertyRepository interface {
	List(ctx context.Context, filter PropertyFilter) ([]*entity.Property, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Property, error)
	Create(ctx context.Context, property *entity.Property) error
	AddMedia(ctx context.Context, id uuid.UUID, media []entity.Media) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}

type propertyRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPropertyRepository(db database.PgxIface, log *zap.Logger) PropertyRepository {
	return &propertyRepository{
		db:  db,
		log: log.With(zap.String("repository", "property")),
	}
}

// propertyDoc mirrors the object built by propertyJSON.
type propertyDoc struct {
	ID            uuid.UUID           `json:"id"`
	Title         string              `json:"title"`
	Slug          string              `json:"slug"`
	Description   string              `json:"description"`
	Status        string              `json:"status"`
	Visibility    string              `json:"visibility"`
	Purpose       string              `json:"purpose"`
	Type          string              `json:"type"`
	YearBuilt     *int                `json:"yearBuilt"`
	Area          float64             `json:"area"`
	Bedrooms      int                 `json:"bedrooms"`
	Bathrooms     int                 `json:"bathrooms"`
	LivingRooms   int                 `json:"livingRooms"`
	Kitchens      int                 `json:"kitchens"`
	Amenities     []string            `json:"amenities"`
	FullAddress   string              `json:"fullAddress"`
	Country       string              `json:"country"`
	Province      string              `json:"province"`
	District      string              `json:"district"`
	Ward          string              `json:"ward"`
	Street        string              `json:"street"`
	Latitude      *float64            `json:"latitude"`
	Longitude     *float64            `json:"longitude"`
	PriceValue    float64             `json:"priceValue"`
	PriceCurrency string              `json:"priceCurrency"`
	PricePeriod   string              `json:"pricePeriod"`
	Media         []entity.Media      `json:"media"`
	OwnerID       uuid.UUID           `json:"ownerId"`
	Owner         *entity.UserProfile `json:"owner"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

func (d *propertyDoc) toEntity() *entity.Property {
	p := &entity.Property{
		Title:       d.Title,
		Slug:        d.Slug,
		Description: d.Description,
		Status:      entity.PropertyStatus(d.Status),
		Visibility:  entity.Visibility(d.Visibility),
		Purpose:     d.Purpose,
		Type:        d.Type,
		YearBuilt:   d.YearBuilt,
		Area:        d.Area,
		Rooms: entity.Rooms{
			Bedrooms:    d.Bedrooms,
			Bathrooms:   d.Bathrooms,
			LivingRooms: d.LivingRooms,
			Kitchens:    d.Kitchens,
		},
		Amenities: d.Amenities,
		Address: entity.Address{
			FullAddress: d.FullAddress,
			Country:     d.Country,
			Province:    d.Province,
			District:    d.District,
			Ward:        d.Ward,
			Street:      d.Street,
			Latitude:    d.Latitude,
			Longitude:   d.Longitude,
		},
		Price: entity.Price{
			Value:    d.PriceValue,
			Currency: d.PriceCurrency,
			Period:   d.PricePeriod,
		},
		Media:   d.Media,
		OwnerID: d.OwnerID,
		Owner:   d.Owner,
	}
	p.ID = d.ID
	p.CreatedAt = d.CreatedAt
	p.UpdatedAt = d.UpdatedAt
	if p.Amenities == nil {
		p.Amenities = []string{}
	}
	if p.Media == nil {
		p.Media = []entity.Media{}
	}
	return p
}

// List runs the whole aggregation in one round trip.
func (r *propertyRepository) List(ctx context.Context, filter PropertyFilter) ([]*entity.Property, int64, error) {
	query, args := BuildPropertyListQuery(filter)

	var (
		total int64
		raw   []byte
	)
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total, &raw); err != nil {
		r.log.Error("Failed to list properties", zap.Error(err))
		return nil, 0, fmt.Errorf("list properties: %w", err)
	}

	var docs []propertyDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		r.log.Error("Failed to decode properties page", zap.Error(err))
		return nil, 0, fmt.Errorf("decode properties page: %w", err)
	}

	properties := make([]*entity.Property, 0, len(docs))
	for i := range docs {
		properties = append(properties, docs[i].toEntity())
	}

	r.log.Debug("Properties listed", zap.Int("count", len(properties)), zap.Int64("total", total))
	return properties, total, nil
}

func (r *propertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Property, error) {
	var raw []byte
	err := r.db.QueryRow(ctx, BuildPropertyDetailQuery(), id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find property", zap.Error(err), zap.String("property_id", id.String()))
		return nil, fmt.Errorf("find property %s: %w", id, err)
	}

	var doc propertyDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode property %s: %w", id, err)
	}
	return doc.toEntity(), nil
}

func (r *propertyRepository) Create(ctx context.Context, p *entity.Property) error {
	media, err := json.Marshal(p.Media)
	if err != nil {
		return fmt.Errorf("encode media: %w", err)
	}

	query := `
		INSERT INTO properties (id, title, slug, description, status, visibility, purpose, type,
		                        year_built, area, bedrooms, bathrooms, living_rooms, kitchens,
		                        amenities, full_address, country, province, district, ward, street,
		                        latitude, longitude, price_value, price_currency, price_period,
		                        media, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
		        $19, $20, $21, $22, $23, $24, $25, $26, $27::jsonb, $28, $29, $30)
	`

	_, err = r.db.Exec(ctx, query,
		p.ID,
		p.Title,
		p.Slug,
		p.Description,
		p.Status,
		p.Visibility,
		p.Purpose,
		p.Type,
		p.YearBuilt,
		p.Area,
		p.Rooms.Bedrooms,
		p.Rooms.Bathrooms,
		p.Rooms.LivingRooms,
		p.Rooms.Kitchens,
		p.Amenities,
		p.Address.FullAddress,
		p.Address.Country,
		p.Address.Province,
		p.Address.District,
		p.Address.Ward,
		p.Address.Street,
		p.Address.Latitude,
		p.Address.Longitude,
		p.Price.Value,
		p.Price.Currency,
		p.Price.Period,
		string(media),
		p.OwnerID,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create property",
			zap.Error(err),
			zap.String("title", p.Title),
			zap.String("owner_id", p.OwnerID.String()),
		)
		return fmt.Errorf("create property %s: %w", p.Title, err)
	}

	r.log.Info("Property created", zap.String("property_id", p.ID.String()))
	return nil
}

func (r *propertyRepository) AddMedia(ctx context.Context, id uuid.UUID, media []entity.Media) error {
	payload, err := json.Marshal(media)
	if err != nil {
		return fmt.Errorf("encode media: %w", err)
	}

	result, err := r.db.Exec(ctx, `
		UPDATE properties SET media = media || $2::jsonb, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, id, string(payload))
	if err != nil {
		r.log.Error("Failed to add media", zap.Error(err), zap.String("property_id", id.String()))
		return fmt.Errorf("add media to %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("property %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *propertyRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM properties WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check property slug", zap.Error(err), zap.String("slug", slug))
		return false, fmt.Errorf("check property slug: %w", err)
	}
	return exists, nil
}
