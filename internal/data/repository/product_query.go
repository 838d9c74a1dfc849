package repository

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// AllCategories is the sentinel category value that disables the category filter.
const AllCategories = "All Categories"

// SearchMode selects how the free text part of a ProductFilter is matched.
type SearchMode int

const (
	// SearchNone ignores Query.
	SearchNone SearchMode = iota
	// SearchFullText matches Query against the generated search_vector.
	SearchFullText
	// SearchIDs restricts rows to IDs resolved by the external search index.
	SearchIDs
	// SearchRegex matches any Query token as a case-insensitive substring.
	SearchRegex
)

func (m SearchMode) String() string {
	switch m {
	case SearchFullText:
		return "fulltext"
	case SearchIDs:
		return "ids"
	case SearchRegex:
		return "regex"
	default:
		return "none"
	}
}

type ProductFilter struct {
	Query     string
	Category  string
	InStock   *bool
	OnSale    *bool
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int

	// IDs is only read in SearchIDs mode.
	IDs []uuid.UUID
}

var productSortColumns = map[string]string{
	"name":      "p.name",
	"price":     "p.price",
	"rating":    "p.rating",
	"views":     "p.view_count",
	"createdAt": "p.created_at",
}

// IsValidProductSort reports whether field can be used as sortBy.
func IsValidProductSort(field string) bool {
	_, ok := productSortColumns[field]
	return ok
}

const productColumns = `p.id, p.name, p.slug, p.description, p.category, p.price, p.original_price,
		       p.discount, p.image, p.images, p.tags, p.in_stock, p.is_on_sale, p.rating,
		       p.rating_count, p.view_count, p.comment_count, p.created_at, p.updated_at, p.deleted_at`

// SearchTokens splits q into lowercase words, dropping punctuation and operators.
func SearchTokens(q string) []string {
	fields := strings.FieldsFunc(q, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		t := strings.ToLower(f)
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tokens = append(tokens, t)
	}
	return tokens
}

// TSQuery builds an OR tsquery ("a | b") from q. Empty when q has no words.
func TSQuery(q string) string {
	return strings.Join(SearchTokens(q), " | ")
}

// RegexPattern builds a POSIX alternation of the escaped tokens of q.
func RegexPattern(q string) string {
	tokens := SearchTokens(q)
	for i, t := range tokens {
		tokens[i] = regexp.QuoteMeta(t)
	}
	return strings.Join(tokens, "|")
}

func buildProductWhere(f ProductFilter, mode SearchMode) (string, []any) {
	var sb strings.Builder
	sb.WriteString(" WHERE p.deleted_at IS NULL")

	args := []any{}
	argCount := 1

	if f.Category != "" && f.Category != AllCategories {
		sb.WriteString(fmt.Sprintf(" AND p.category = $%d", argCount))
		args = append(args, f.Category)
		argCount++
	}
	if f.InStock != nil {
		sb.WriteString(fmt.Sprintf(" AND p.in_stock = $%d", argCount))
		args = append(args, *f.InStock)
		argCount++
	}
	if f.OnSale != nil {
		sb.WriteString(fmt.Sprintf(" AND p.is_on_sale = $%d", argCount))
		args = append(args, *f.OnSale)
		argCount++
	}
	if f.MinPrice != nil {
		sb.WriteString(fmt.Sprintf(" AND p.price >= $%d", argCount))
		args = append(args, *f.MinPrice)
		argCount++
	}
	if f.MaxPrice != nil {
		sb.WriteString(fmt.Sprintf(" AND p.price <= $%d", argCount))
		args = append(args, *f.MaxPrice)
		argCount++
	}
	if f.MinRating != nil {
		sb.WriteString(fmt.Sprintf(" AND p.rating >= $%d", argCount))
		args = append(args, *f.MinRating)
		argCount++
	}

	switch mode {
	case SearchFullText:
		if ts := TSQuery(f.Query); ts != "" {
			sb.WriteString(fmt.Sprintf(" AND p.search_vector @@ to_tsquery('simple', $%d)", argCount))
			args = append(args, ts)
		}
	case SearchRegex:
		if pattern := RegexPattern(f.Query); pattern != "" {
			sb.WriteString(fmt.Sprintf(
				" AND (p.name ~* $%d OR coalesce(p.description, '') ~* $%d OR array_to_string(p.tags, ' ') ~* $%d)",
				argCount, argCount, argCount))
			args = append(args, pattern)
		}
	case SearchIDs:
		ids := make([]string, len(f.IDs))
		for i, id := range f.IDs {
			ids[i] = id.String()
		}
		sb.WriteString(fmt.Sprintf(" AND p.id = ANY($%d::uuid[])", argCount))
		args = append(args, ids)
	}

	return sb.String(), args
}

func productOrderBy(f ProductFilter) string {
	column, ok := productSortColumns[f.SortBy]
	if !ok {
		return " ORDER BY p.created_at DESC, p.id DESC"
	}

	dir := "DESC"
	switch strings.ToLower(f.SortOrder) {
	case "asc":
		dir = "ASC"
	case "":
		if f.SortBy == "name" {
			dir = "ASC"
		}
	}
	return fmt.Sprintf(" ORDER BY %s %s, p.id %s", column, dir, dir)
}

// BuildProductQuery returns the page query for f. Every row carries the
// filtered total in its last column.
func BuildProductQuery(f ProductFilter, mode SearchMode) (string, []any) {
	where, args := buildProductWhere(f, mode)

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(productColumns)
	sb.WriteString(", COUNT(*) OVER() AS total_count FROM products p")
	sb.WriteString(where)
	sb.WriteString(productOrderBy(f))
	sb.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2))
	args = append(args, f.Limit, f.Offset)

	return sb.String(), args
}

// BuildProductCountQuery counts the rows BuildProductQuery would page over.
func BuildProductCountQuery(f ProductFilter, mode SearchMode) (string, []any) {
	where, args := buildProductWhere(f, mode)
	return "SELECT COUNT(*) FROM products p" + where, args
}
