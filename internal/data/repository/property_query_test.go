package repository

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestBuildPropertyListQuery_Shape(t *testing.T) {
	query, args := BuildPropertyListQuery(PropertyFilter{Limit: 9})

	for _, frag := range []string{
		"WITH filtered AS",
		"total AS",
		"page AS",
		"LEFT JOIN users u ON u.id = p.owner_id",
		"json_agg(",
		"'[]'::json",
		"p.visibility = 'public'",
		"LIMIT $1 OFFSET $2",
	} {
		if !strings.Contains(query, frag) {
			t.Errorf("missing %q", frag)
		}
	}
	if len(args) != 2 || args[0] != 9 || args[1] != 0 {
		t.Fatalf("args = %v", args)
	}
}

func TestBuildPropertyListQuery_Filters(t *testing.T) {
	f := PropertyFilter{
		Purpose:     "rent",
		Province:    "Hà Nội",
		MinPrice:    ptr(1000.0),
		MinBedrooms: ptr(2),
		Query:       "50%_off",
		Limit:       9,
		Offset:      18,
	}

	query, args := BuildPropertyListQuery(f)

	for _, frag := range []string{
		"p.purpose = $1",
		"p.province = $2",
		"p.price_value >= $3",
		"p.bedrooms >= $4",
		"p.title ILIKE '%' || $5 || '%'",
		"LIMIT $6 OFFSET $7",
	} {
		if !strings.Contains(query, frag) {
			t.Errorf("missing %q in query", frag)
		}
	}
	if args[4] != `50\%\_off` {
		t.Fatalf("like arg = %v", args[4])
	}
	if args[6] != 18 {
		t.Fatalf("offset arg = %v", args[6])
	}
}

func TestBuildPropertyListQuery_OwnerVisibility(t *testing.T) {
	owner := uuid.New()

	query, _ := BuildPropertyListQuery(PropertyFilter{OwnerID: &owner, ViewerID: &owner, Limit: 9})
	if strings.Contains(query, "p.visibility = 'public'") {
		t.Fatal("owner browsing own listings should see private ones")
	}

	other := uuid.New()
	query, _ = BuildPropertyListQuery(PropertyFilter{OwnerID: &owner, ViewerID: &other, Limit: 9})
	if !strings.Contains(query, "p.visibility = 'public'") {
		t.Fatal("other viewers only see public listings")
	}
	if !strings.Contains(query, "p.status <> 'draft'") {
		t.Fatal("other viewers never see drafts")
	}
}

func TestBuildPropertyListQuery_SortCollation(t *testing.T) {
	query, _ := BuildPropertyListQuery(PropertyFilter{SortBy: "title", Limit: 9})
	if !strings.Contains(query, "p.title COLLATE vi_ci ASC") {
		t.Fatalf("title sort should use vi_ci: %q", query)
	}
	if !strings.Contains(query, "ORDER BY pg.title COLLATE vi_ci ASC") {
		t.Fatal("json_agg must keep the page order")
	}

	query, _ = BuildPropertyListQuery(PropertyFilter{SortBy: "price", SortOrder: "desc", Limit: 9})
	if !strings.Contains(query, "p.price_value DESC, p.id DESC") {
		t.Fatalf("price sort missing: %q", query)
	}
}

func TestBuildPropertyDetailQuery(t *testing.T) {
	query := BuildPropertyDetailQuery()
	if !strings.Contains(query, "p.id = $1 AND p.deleted_at IS NULL") {
		t.Fatalf("detail query should filter live rows by id: %q", query)
	}
	if !strings.Contains(query, "'owner', CASE WHEN d.o_id IS NULL") {
		t.Fatal("detail query should embed the owner")
	}
}
