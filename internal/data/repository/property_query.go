package repository

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type PropertyFilter struct {
	OwnerID     *uuid.UUID
	ViewerID    *uuid.UUID
	Purpose     string
	Type        string
	Status      string
	Province    string
	District    string
	MinPrice    *float64
	MaxPrice    *float64
	MinBedrooms *int
	Query       string
	SortBy      string
	SortOrder   string
	Limit       int
	Offset      int
}

// Text columns sort with the vi_ci collation.
var propertySortColumns = map[string]struct {
	column string
	text   bool
}{
	"title":     {"title", true},
	"price":     {"price_value", false},
	"area":      {"area", false},
	"createdAt": {"created_at", false},
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func propertyOrder(f PropertyFilter, alias string) string {
	sort, ok := propertySortColumns[f.SortBy]
	if !ok {
		return fmt.Sprintf("%s.created_at DESC, %s.id DESC", alias, alias)
	}

	dir := "DESC"
	if strings.EqualFold(f.SortOrder, "asc") || (f.SortOrder == "" && sort.text) {
		dir = "ASC"
	}

	expr := alias + "." + sort.column
	if sort.text {
		expr += " COLLATE vi_ci"
	}
	return fmt.Sprintf("%s %s, %s.id %s", expr, dir, alias, dir)
}

// ownsListing reports whether the caller asked for their own listings, which
// lifts the public-only visibility rule.
func ownsListing(f PropertyFilter) bool {
	return f.OwnerID != nil && f.ViewerID != nil && *f.OwnerID == *f.ViewerID
}

func buildPropertyWhere(f PropertyFilter) (string, []any) {
	var sb strings.Builder
	sb.WriteString("WHERE p.deleted_at IS NULL")

	args := []any{}
	argCount := 1

	add := func(cond string, arg any) {
		sb.WriteString(" AND ")
		sb.WriteString(fmt.Sprintf(cond, argCount))
		args = append(args, arg)
		argCount++
	}

	if !ownsListing(f) {
		sb.WriteString(" AND p.visibility = 'public' AND p.status <> 'draft'")
	}
	if f.OwnerID != nil {
		add("p.owner_id = $%d", *f.OwnerID)
	}
	if f.Purpose != "" {
		add("p.purpose = $%d", f.Purpose)
	}
	if f.Type != "" {
		add("p.type = $%d", f.Type)
	}
	if f.Status != "" {
		add("p.status = $%d", f.Status)
	}
	if f.Province != "" {
		add("p.province = $%d", f.Province)
	}
	if f.District != "" {
		add("p.district = $%d", f.District)
	}
	if f.MinPrice != nil {
		add("p.price_value >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("p.price_value <= $%d", *f.MaxPrice)
	}
	if f.MinBedrooms != nil {
		add("p.bedrooms >= $%d", *f.MinBedrooms)
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		add("p.title ILIKE '%%' || $%d || '%%'", likeEscaper.Replace(q))
	}

	return sb.String(), args
}

// propertyJSON renders one row of propertyWithOwner (aliased) as a JSON object.
func propertyJSON(alias string) string {
	return strings.NewReplacer("X.", alias+".").Replace(`json_build_object(
		'id', X.id, 'title', X.title, 'slug', X.slug, 'description', X.description,
		'status', X.status, 'visibility', X.visibility, 'purpose', X.purpose, 'type', X.type,
		'yearBuilt', X.year_built, 'area', X.area,
		'bedrooms', X.bedrooms, 'bathrooms', X.bathrooms, 'livingRooms', X.living_rooms, 'kitchens', X.kitchens,
		'amenities', X.amenities,
		'fullAddress', X.full_address, 'country', X.country, 'province', X.province,
		'district', X.district, 'ward', X.ward, 'street', X.street,
		'latitude', X.latitude, 'longitude', X.longitude,
		'priceValue', X.price_value, 'priceCurrency', X.price_currency, 'pricePeriod', X.price_period,
		'media', X.media, 'ownerId', X.owner_id,
		'owner', CASE WHEN X.o_id IS NULL THEN NULL ELSE json_build_object(
			'id', X.o_id, 'username', X.o_username, 'fullName', X.o_full_name,
			'avatar', X.o_avatar, 'email', X.o_email, 'phone', X.o_phone) END,
		'createdAt', X.created_at, 'updatedAt', X.updated_at)`)
}

const propertyWithOwner = `SELECT p.*, u.id AS o_id, u.username AS o_username, u.full_name AS o_full_name,
	       u.avatar AS o_avatar, u.email AS o_email, u.phone AS o_phone
	FROM properties p
	LEFT JOIN users u ON u.id = p.owner_id AND u.deleted_at IS NULL`

// BuildPropertyListQuery returns a statement yielding exactly one row:
// the filtered total and a JSON array holding the requested page.
func BuildPropertyListQuery(f PropertyFilter) (string, []any) {
	where, args := buildPropertyWhere(f)
	limitArg, offsetArg := len(args)+1, len(args)+2
	args = append(args, f.Limit, f.Offset)

	query := fmt.Sprintf(`
		WITH filtered AS (
			SELECT p.* FROM properties p
			%s
		),
		total AS (
			SELECT COUNT(*) AS n FROM filtered
		),
		page AS (
			%s
			WHERE p.id IN (SELECT id FROM filtered)
			ORDER BY %s
			LIMIT $%d OFFSET $%d
		)
		SELECT t.n,
		       COALESCE((SELECT json_agg(%s ORDER BY %s) FROM page pg), '[]'::json)
		FROM total t
	`,
		where,
		propertyWithOwner,
		propertyOrder(f, "p"),
		limitArg, offsetArg,
		propertyJSON("pg"),
		propertyOrder(f, "pg"),
	)

	return query, args
}

// BuildPropertyDetailQuery selects one live listing by id as a JSON object.
func BuildPropertyDetailQuery() string {
	return fmt.Sprintf(`
		SELECT %s
		FROM (%s WHERE p.id = $1 AND p.deleted_at IS NULL) d
	`, propertyJSON("d"), propertyWithOwner)
}
