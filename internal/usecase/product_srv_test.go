package usecase

import (
	"context"
	"errors"
	"testing"

	"shop-api/internal/data/entity"
	"shop-api/internal/data/repository"
	"shop-api/internal/dto/request"

	"github.com/google/uuid"
)

func listReq(q string) *request.ProductListRequest {
	return &request.ProductListRequest{
		PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 10},
		Q:                q,
	}
}

func modes(calls []listCall) []repository.SearchMode {
	out := make([]repository.SearchMode, 0, len(calls))
	for _, c := range calls {
		out = append(out, c.mode)
	}
	return out
}

func sameModes(got, want []repository.SearchMode) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestListProductsSearchModes(t *testing.T) {
	hit := newProduct("usb cable", 5)
	indexErr := errors.New("connection refused")

	tests := []struct {
		name    string
		q       string
		index   *fakeIndex
		results map[repository.SearchMode][]*entity.Product
		want    []repository.SearchMode
		total   int64
	}{
		{
			name: "no query lists the catalog",
			q:    "  ",
			results: map[repository.SearchMode][]*entity.Product{
				repository.SearchNone: {hit},
			},
			want:  []repository.SearchMode{repository.SearchNone},
			total: 1,
		},
		{
			name: "full text hit skips regex",
			q:    "cable",
			results: map[repository.SearchMode][]*entity.Product{
				repository.SearchFullText: {hit},
			},
			want:  []repository.SearchMode{repository.SearchFullText},
			total: 1,
		},
		{
			name: "empty full text falls back to regex",
			q:    "cab",
			results: map[repository.SearchMode][]*entity.Product{
				repository.SearchRegex: {hit},
			},
			want:  []repository.SearchMode{repository.SearchFullText, repository.SearchRegex},
			total: 1,
		},
		{
			name:  "index hits filter by id",
			q:     "cable",
			index: &fakeIndex{hits: []uuid.UUID{hit.ID}},
			results: map[repository.SearchMode][]*entity.Product{
				repository.SearchIDs: {hit},
			},
			want:  []repository.SearchMode{repository.SearchIDs},
			total: 1,
		},
		{
			name:  "index miss goes straight to regex",
			q:     "cab",
			index: &fakeIndex{},
			results: map[repository.SearchMode][]*entity.Product{
				repository.SearchRegex: {hit},
			},
			want:  []repository.SearchMode{repository.SearchRegex},
			total: 1,
		},
		{
			name:  "index error uses full text",
			q:     "cable",
			index: &fakeIndex{err: indexErr},
			results: map[repository.SearchMode][]*entity.Product{
				repository.SearchFullText: {hit},
			},
			want:  []repository.SearchMode{repository.SearchFullText},
			total: 1,
		},
		{
			name:  "nothing anywhere is an empty page",
			q:     "zzz",
			want:  []repository.SearchMode{repository.SearchFullText, repository.SearchRegex},
			total: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			if tt.results != nil {
				env.products.results = tt.results
			}
			if tt.index != nil {
				env.deps.Search = tt.index
			}
			svc := NewProductService(env.repo, env.deps, env.log)

			resp, err := svc.ListProducts(context.Background(), listReq(tt.q))
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if got := modes(env.products.calls); !sameModes(got, tt.want) {
				t.Fatalf("modes = %v, want %v", got, tt.want)
			}
			if resp.Pagination.Total != tt.total {
				t.Fatalf("total = %d, want %d", resp.Pagination.Total, tt.total)
			}
			if resp.Data == nil {
				t.Fatal("data must be an empty slice, not nil")
			}
		})
	}
}

func TestListProductsPassesIndexHits(t *testing.T) {
	env := newTestEnv()
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	env.deps.Search = &fakeIndex{hits: ids}
	env.products.results[repository.SearchIDs] = []*entity.Product{newProduct("x", 1)}
	svc := NewProductService(env.repo, env.deps, env.log)

	if _, err := svc.ListProducts(context.Background(), listReq("x")); err != nil {
		t.Fatal(err)
	}
	got := env.products.calls[0].filter.IDs
	if len(got) != 2 || got[0] != ids[0] || got[1] != ids[1] {
		t.Fatalf("ids = %v, want %v", got, ids)
	}
}

func TestListProductsRejectsInvertedPriceRange(t *testing.T) {
	env := newTestEnv()
	svc := NewProductService(env.repo, env.deps, env.log)

	req := listReq("")
	req.MinPrice = ptr(50.0)
	req.MaxPrice = ptr(10.0)
	if _, err := svc.ListProducts(context.Background(), req); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}

	req = listReq("")
	req.SortBy = "password"
	if _, err := svc.ListProducts(context.Background(), req); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad sort: err = %v, want ErrInvalidInput", err)
	}
}

func TestGetProductCountsViewAndRecordsViewer(t *testing.T) {
	env := newTestEnv()
	svc := NewProductService(env.repo, env.deps, env.log)
	ctx := context.Background()
	p := env.products.add(newProduct("desk", 120))
	viewer := uuid.New()

	resp, err := svc.GetProduct(ctx, p.Slug, &viewer)
	if err != nil {
		t.Fatalf("by slug: %v", err)
	}
	if resp.ViewCount != 1 {
		t.Fatalf("view count = %d, want 1", resp.ViewCount)
	}
	if _, err := svc.GetProduct(ctx, p.ID.String(), nil); err != nil {
		t.Fatalf("by id: %v", err)
	}

	if env.products.views[p.ID] != 2 {
		t.Fatalf("views = %d, want 2", env.products.views[p.ID])
	}
	recent, err := svc.GetRecentlyViewed(ctx, viewer)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 || recent[0].ID != p.ID.String() {
		t.Fatalf("recently viewed = %+v", recent)
	}
}

func TestGetProductMissing(t *testing.T) {
	env := newTestEnv()
	svc := NewProductService(env.repo, env.deps, env.log)

	for _, key := range []string{uuid.NewString(), "no-such-slug"} {
		if _, err := svc.GetProduct(context.Background(), key, nil); !errors.Is(err, ErrNotFound) {
			t.Fatalf("GetProduct(%q) err = %v, want ErrNotFound", key, err)
		}
	}
}

func TestSimilarProductsShareCategory(t *testing.T) {
	env := newTestEnv()
	svc := NewProductService(env.repo, env.deps, env.log)
	base := env.products.add(newProduct("chair", 40))
	env.products.add(newProduct("stool", 20))
	other := newProduct("apple", 1)
	other.Category = "Food"
	env.products.add(other)

	similar, err := svc.GetSimilarProducts(context.Background(), base.ID.String())
	if err != nil {
		t.Fatal(err)
	}
	if len(similar) != 1 || similar[0].Name != "stool" {
		t.Fatalf("similar = %+v", similar)
	}
}

func TestCreateProductAssignsUniqueSlug(t *testing.T) {
	env := newTestEnv()
	svc := NewProductService(env.repo, env.deps, env.log)
	ctx := context.Background()

	first, err := svc.CreateProduct(ctx, &request.ProductRequest{Name: "Gaming Mouse", Category: "Electronics", Price: 30})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := svc.CreateProduct(ctx, &request.ProductRequest{Name: "Gaming Mouse", Category: "Electronics", Price: 35})
	if err != nil {
		t.Fatalf("create again: %v", err)
	}

	if first.Slug != "gaming-mouse" || second.Slug != "gaming-mouse-2" {
		t.Fatalf("slugs = %q, %q", first.Slug, second.Slug)
	}
	if !first.InStock {
		t.Fatal("products default to in stock")
	}
}

func TestDeleteProductHidesIt(t *testing.T) {
	env := newTestEnv()
	svc := NewProductService(env.repo, env.deps, env.log)
	ctx := context.Background()
	p := env.products.add(newProduct("vase", 15))

	if err := svc.DeleteProduct(ctx, p.ID.String()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetProduct(ctx, p.ID.String(), nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted product still visible: %v", err)
	}
	if err := svc.DeleteProduct(ctx, p.ID.String()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: err = %v, want ErrNotFound", err)
	}
}

func TestGetCategoriesWithoutCache(t *testing.T) {
	env := newTestEnv()
	svc := NewProductService(env.repo, env.deps, env.log)
	env.products.add(newProduct("a", 1))
	b := newProduct("b", 1)
	b.Category = "Books"
	env.products.add(b)

	got, err := svc.GetCategories(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "Books" || got[1] != "General" {
		t.Fatalf("categories = %v", got)
	}
}

func TestListProductsLargeIndexMatchSetUsesFullText(t *testing.T) {
	env := newTestEnv()
	ids := make([]uuid.UUID, searchWindow)
	for i := range ids {
		ids[i] = uuid.New()
	}
	env.deps.Search = &fakeIndex{hits: ids, total: 800}
	matches := []*entity.Product{newProduct("cable a", 1), newProduct("cable b", 2), newProduct("cable c", 3)}
	env.products.results[repository.SearchFullText] = matches
	svc := NewProductService(env.repo, env.deps, env.log)

	resp, err := svc.ListProducts(context.Background(), listReq("cable"))
	if err != nil {
		t.Fatal(err)
	}
	if got := modes(env.products.calls); !sameModes(got, []repository.SearchMode{repository.SearchFullText}) {
		t.Fatalf("modes = %v, want full text only", got)
	}
	if resp.Pagination.Total != int64(len(matches)) {
		t.Fatalf("total = %d, want %d", resp.Pagination.Total, len(matches))
	}
}

func TestListProductsIndexWindowCountsFromPostgres(t *testing.T) {
	env := newTestEnv()
	ids := make([]uuid.UUID, searchWindow)
	for i := range ids {
		ids[i] = uuid.New()
	}
	index := &fakeIndex{hits: ids}
	env.deps.Search = index
	// postgres narrows the 500 index hits with the rating floor the index lacks
	env.products.results[repository.SearchIDs] = []*entity.Product{newProduct("cable a", 1), newProduct("cable b", 2)}
	svc := NewProductService(env.repo, env.deps, env.log)

	req := listReq("cable")
	req.Category = "General"
	req.MinPrice = ptr(1.0)
	req.MinRating = ptr(4.0)
	resp, err := svc.ListProducts(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Pagination.Total != 2 {
		t.Fatalf("total = %d, want 2", resp.Pagination.Total)
	}
	if len(env.products.calls[0].filter.IDs) != searchWindow {
		t.Fatalf("ids passed = %d, want %d", len(env.products.calls[0].filter.IDs), searchWindow)
	}

	q := index.queries[0]
	if q.Category != "General" || q.MinPrice == nil || *q.MinPrice != 1 || q.Size != searchWindow {
		t.Fatalf("index query = %+v, want the catalog filters pushed down", q)
	}
}

func TestListProductsAllCategoriesIsNotAnIndexFilter(t *testing.T) {
	env := newTestEnv()
	index := &fakeIndex{}
	env.deps.Search = index
	svc := NewProductService(env.repo, env.deps, env.log)

	req := listReq("cable")
	req.Category = repository.AllCategories
	if _, err := svc.ListProducts(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	if index.queries[0].Category != "" {
		t.Fatalf("category = %q, want no filter", index.queries[0].Category)
	}
}

func TestReindexWritesEveryProduct(t *testing.T) {
	env := newTestEnv()
	index := &fakeIndex{}
	env.deps.Search = index
	cable := newProduct("usb cable", 5)
	env.products.results[repository.SearchNone] = []*entity.Product{cable, newProduct("hdmi cable", 9)}
	svc := NewProductService(env.repo, env.deps, env.log)

	n, err := svc.Reindex(context.Background())
	if err != nil {
		t.Fatalf("reindex: %v", err)
	}
	if n != 2 || len(index.indexed) != 2 {
		t.Fatalf("written = %d indexed = %d, want 2", n, len(index.indexed))
	}
	doc := index.indexed[0]
	if doc.ID != cable.ID.String() || doc.Price != 5 || !doc.InStock {
		t.Fatalf("doc = %+v", doc)
	}
}

func TestReindexWithoutIndexIsNoop(t *testing.T) {
	env := newTestEnv()
	svc := NewProductService(env.repo, env.deps, env.log)

	n, err := svc.Reindex(context.Background())
	if err != nil || n != 0 {
		t.Fatalf("reindex = %d, %v", n, err)
	}
	if len(env.products.calls) != 0 {
		t.Fatalf("catalog read without an index: %v", env.products.calls)
	}
}
