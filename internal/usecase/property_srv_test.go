package usecase

import (
	"context"
	"errors"
	"testing"

	"shop-api/internal/data/entity"
	"shop-api/internal/dto/request"

	"github.com/google/uuid"
)

func newPropertyRequest(title string) *request.CreatePropertyRequest {
	return &request.CreatePropertyRequest{
		Title:       title,
		Description: "Two bedrooms close to the river",
		Purpose:     "rent",
		Type:        "apartment",
		Area:        72.5,
		Rooms:       request.RoomsRequest{Bedrooms: 2, Bathrooms: 1},
		Address: request.AddressRequest{
			FullAddress: "12 Tran Phu, Hai Chau, Da Nang",
			Country:     "Vietnam",
			Province:    "Da Nang",
			District:    "Hai Chau",
			Ward:        "Thach Thang",
			Street:      "Tran Phu",
		},
		Price: request.PriceRequest{Value: 9000000},
	}
}

func TestCreatePropertyDefaults(t *testing.T) {
	env := newTestEnv()
	svc := NewPropertyService(env.repo, env.log)
	owner := uuid.New()

	resp, err := svc.CreateProperty(context.Background(), owner, newPropertyRequest("Riverside apartment"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.Slug != "riverside-apartment" {
		t.Fatalf("slug = %q", resp.Slug)
	}
	if resp.Status != "active" || resp.Visibility != "public" {
		t.Fatalf("status %q visibility %q, want active and public", resp.Status, resp.Visibility)
	}
	if resp.Price.Currency != "VND" || resp.Price.Period != "month" {
		t.Fatalf("price defaults = %+v", resp.Price)
	}
	if resp.OwnerID != owner.String() {
		t.Fatalf("owner = %s, want %s", resp.OwnerID, owner)
	}
}

func TestCreatePropertyValidation(t *testing.T) {
	env := newTestEnv()
	svc := NewPropertyService(env.repo, env.log)

	req := newPropertyRequest("Flat")
	req.Purpose = "swap"
	_, err := svc.CreateProperty(context.Background(), uuid.New(), req)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	for _, field := range []string{"title", "purpose"} {
		if _, ok := verr.Fields[field]; !ok {
			t.Fatalf("no error for %s: %v", field, verr.Fields)
		}
	}
}

func TestAddMediaOwnerOnly(t *testing.T) {
	env := newTestEnv()
	svc := NewPropertyService(env.repo, env.log)
	ctx := context.Background()
	owner := uuid.New()

	created, err := svc.CreateProperty(ctx, owner, newPropertyRequest("Garden house"))
	if err != nil {
		t.Fatal(err)
	}
	media := &request.AddMediaRequest{Media: []request.MediaRequest{
		{URL: "https://cdn.example.com/a.jpg", Type: "image", Filename: "a.jpg", MimeType: "image/jpeg"},
	}}

	if _, err := svc.AddMedia(ctx, uuid.New(), created.ID, media); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger: err = %v, want ErrForbidden", err)
	}

	updated, err := svc.AddMedia(ctx, owner, created.ID, media)
	if err != nil {
		t.Fatalf("owner: %v", err)
	}
	if len(updated.Media) != 1 || updated.Media[0].Metadata == nil || updated.Media[0].Metadata.Filename != "a.jpg" {
		t.Fatalf("media = %+v", updated.Media)
	}

	if _, err := svc.AddMedia(ctx, owner, uuid.NewString(), media); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing listing: err = %v, want ErrNotFound", err)
	}
}

func TestGetPropertiesPassesViewerAndOwner(t *testing.T) {
	env := newTestEnv()
	svc := NewPropertyService(env.repo, env.log)
	viewer := uuid.New()

	req := &request.PropertyListRequest{
		PaginatedRequest: request.PaginatedRequest{Page: 2, PerPage: 5},
		Owner:            viewer.String(),
	}
	if _, err := svc.GetProperties(context.Background(), req, &viewer); err != nil {
		t.Fatalf("list: %v", err)
	}

	f := env.props.filters[0]
	if f.OwnerID == nil || *f.OwnerID != viewer || f.ViewerID == nil || *f.ViewerID != viewer {
		t.Fatalf("filter owner/viewer not set: %+v", f)
	}
	if f.Limit != 5 || f.Offset != 5 {
		t.Fatalf("limit %d offset %d, want 5 and 5", f.Limit, f.Offset)
	}

	req.Owner = "someone"
	if _, err := svc.GetProperties(context.Background(), req, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad owner: err = %v, want ErrInvalidInput", err)
	}
}

func TestGetPropertyDetailsHidesPrivateAndDraftListings(t *testing.T) {
	env := newTestEnv()
	svc := NewPropertyService(env.repo, env.log)
	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()

	created, err := svc.CreateProperty(ctx, owner, newPropertyRequest("Hidden loft"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetPropertyDetails(ctx, created.ID, nil); err != nil {
		t.Fatalf("public listing: %v", err)
	}

	id := uuid.MustParse(created.ID)
	for name, hide := range map[string]func(p *entity.Property){
		"private": func(p *entity.Property) { p.Visibility = entity.VisibilityPrivate },
		"draft":   func(p *entity.Property) { p.Status = entity.PropertyDraft },
	} {
		t.Run(name, func(t *testing.T) {
			original := *env.props.properties[id]
			defer func() { env.props.properties[id] = &original }()
			hidden := original
			hide(&hidden)
			env.props.properties[id] = &hidden

			if _, err := svc.GetPropertyDetails(ctx, created.ID, nil); !errors.Is(err, ErrNotFound) {
				t.Fatalf("anonymous: err = %v, want ErrNotFound", err)
			}
			if _, err := svc.GetPropertyDetails(ctx, created.ID, &stranger); !errors.Is(err, ErrNotFound) {
				t.Fatalf("stranger: err = %v, want ErrNotFound", err)
			}
			resp, err := svc.GetPropertyDetails(ctx, created.ID, &owner)
			if err != nil {
				t.Fatalf("owner: %v", err)
			}
			if resp.ID != created.ID {
				t.Fatalf("owner got %s, want %s", resp.ID, created.ID)
			}
		})
	}
}
