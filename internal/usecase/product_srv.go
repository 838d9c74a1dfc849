package usecase

import (
	"context"
	"time"

	"shop-api/internal/data/entity"
	"shop-api/internal/data/repository"
	"shop-api/internal/dto/request"
	"shop-api/internal/dto/response"
	"shop-api/pkg/cache"
	"shop-api/pkg/search"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	categoriesCacheKey = "products:categories"
	categoriesCacheTTL = 5 * time.Minute
	similarLimit       = 4
	recentlyViewedMax  = 10
	// searchWindow bounds how many index hits feed the id filter. A larger
	// match set is searched with postgres full text instead.
	searchWindow = 500
	reindexBatch = 200
)

type ProductService interface {
	// ListProducts filters, searches, sorts and pages the catalog. Free text
	// goes to the search index first and falls back to a substring match
	// when the index finds nothing.
	ListProducts(ctx context.Context, req *request.ProductListRequest) (*response.PaginatedResponse[response.ProductResponse], error)
	// GetProduct accepts an id or a slug. It counts the view and, for a known
	// viewer, records it in their recently viewed list.
	GetProduct(ctx context.Context, idOrSlug string, viewerID *uuid.UUID) (*response.ProductResponse, error)
	GetSimilarProducts(ctx context.Context, idOrSlug string) ([]response.ProductResponse, error)
	GetCategories(ctx context.Context) ([]string, error)
	GetRecentlyViewed(ctx context.Context, userID uuid.UUID) ([]response.ProductResponse, error)

	CreateProduct(ctx context.Context, req *request.ProductRequest) (*response.ProductResponse, error)
	UpdateProduct(ctx context.Context, id string, req *request.ProductUpdateRequest) (*response.ProductResponse, error)
	DeleteProduct(ctx context.Context, id string) error
	// Reindex copies every live product into the search index and returns how
	// many were written. It is a no-op without a search index.
	Reindex(ctx context.Context) (int, error)
}

type productService struct {
	repo *repository.Repository
	deps Deps
	log  *zap.Logger
}

func NewProductService(repo *repository.Repository, deps Deps, log *zap.Logger) ProductService {
	return &productService{
		repo: repo,
		deps: deps,
		log:  log.With(zap.String("service", "product")),
	}
}

func toProductFilter(req *request.ProductListRequest) repository.ProductFilter {
	return repository.ProductFilter{
		Query:     req.Q,
		Category:  req.Category,
		InStock:   req.InStock,
		OnSale:    req.OnSale,
		MinPrice:  req.MinPrice,
		MaxPrice:  req.MaxPrice,
		MinRating: req.MinRating,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
		Limit:     req.Limit(),
		Offset:    req.Offset(),
	}
}

func (s *productService) ListProducts(ctx context.Context, req *request.ProductListRequest) (*response.PaginatedResponse[response.ProductResponse], error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.MinPrice != nil && req.MaxPrice != nil && *req.MinPrice > *req.MaxPrice {
		return nil, newError(ErrInvalidInput, "minPrice must not exceed maxPrice")
	}

	filter := toProductFilter(req)

	var (
		products []*entity.Product
		total    int64
		err      error
	)
	if len(repository.SearchTokens(filter.Query)) == 0 {
		products, total, err = s.repo.Product.List(ctx, filter, repository.SearchNone)
	} else {
		products, total, err = s.search(ctx, filter)
	}
	if err != nil {
		return nil, err
	}

	return response.NewPaginatedResponse(
		response.ProductsToResponse(products), req.Page, req.Limit(), total,
	), nil
}

// search runs the indexed path and falls back to the regex path on zero rows.
func (s *productService) search(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, int64, error) {
	mode := repository.SearchFullText

	if s.deps.Search != nil {
		res, err := s.deps.Search.Search(ctx, indexQuery(filter))
		switch {
		case err != nil:
			s.log.Warn("Search index unavailable, using full text", zap.Error(err))
		case res.Total == 0:
			mode = repository.SearchNone
		case !res.Complete():
			s.log.Debug("Index match set exceeds the id window, using full text",
				zap.String("q", filter.Query), zap.Int64("matches", res.Total))
		default:
			filter.IDs = res.IDs
			mode = repository.SearchIDs
		}
	}

	if mode != repository.SearchNone {
		products, total, err := s.repo.Product.List(ctx, filter, mode)
		if err != nil {
			return nil, 0, err
		}
		if total > 0 {
			return products, total, nil
		}
	}

	s.log.Debug("Indexed search found nothing, falling back to regex", zap.String("q", filter.Query))
	return s.repo.Product.List(ctx, filter, repository.SearchRegex)
}

// indexQuery carries the filters the index knows about, so the id window is
// cut after filtering. Postgres applies the full filter again on the ids.
func indexQuery(f repository.ProductFilter) search.Query {
	q := search.Query{
		Text:     f.Query,
		InStock:  f.InStock,
		OnSale:   f.OnSale,
		MinPrice: f.MinPrice,
		MaxPrice: f.MaxPrice,
		Size:     searchWindow,
	}
	if f.Category != repository.AllCategories {
		q.Category = f.Category
	}
	return q
}

func (s *productService) findByIDOrSlug(ctx context.Context, idOrSlug string) (*entity.Product, error) {
	var (
		product *entity.Product
		err     error
	)
	if id, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		product, err = s.repo.Product.FindByID(ctx, id)
	} else {
		product, err = s.repo.Product.FindBySlug(ctx, idOrSlug)
	}
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, newError(ErrNotFound, "Product not found")
	}
	return product, nil
}

func (s *productService) GetProduct(ctx context.Context, idOrSlug string, viewerID *uuid.UUID) (*response.ProductResponse, error) {
	product, err := s.findByIDOrSlug(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Product.IncrementViews(ctx, product.ID); err != nil {
		s.log.Warn("Failed to count view", zap.Error(err), zap.String("product_id", product.ID.String()))
	} else {
		product.ViewCount++
	}

	if viewerID != nil {
		if err := s.repo.RecentlyViewed.Touch(ctx, *viewerID, product.ID); err != nil {
			s.log.Warn("Failed to record recently viewed", zap.Error(err))
		}
	}

	resp := response.ProductToResponse(product)
	return &resp, nil
}

func (s *productService) GetSimilarProducts(ctx context.Context, idOrSlug string) ([]response.ProductResponse, error) {
	product, err := s.findByIDOrSlug(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}

	similar, err := s.repo.Product.FindSimilar(ctx, product, similarLimit)
	if err != nil {
		return nil, err
	}
	return response.ProductsToResponse(similar), nil
}

func (s *productService) GetCategories(ctx context.Context) ([]string, error) {
	var categories []string
	hit, err := cache.GetJSON(ctx, s.deps.Cache, categoriesCacheKey, &categories)
	if err != nil {
		s.log.Warn("Categories cache read failed", zap.Error(err))
	}
	if hit {
		return categories, nil
	}

	categories, err = s.repo.Product.Categories(ctx)
	if err != nil {
		return nil, err
	}

	if err := cache.SetJSON(ctx, s.deps.Cache, categoriesCacheKey, categories, categoriesCacheTTL); err != nil {
		s.log.Warn("Categories cache write failed", zap.Error(err))
	}
	return categories, nil
}

func (s *productService) GetRecentlyViewed(ctx context.Context, userID uuid.UUID) ([]response.ProductResponse, error) {
	products, err := s.repo.RecentlyViewed.List(ctx, userID, recentlyViewedMax)
	if err != nil {
		return nil, err
	}
	return response.ProductsToResponse(products), nil
}

func (s *productService) CreateProduct(ctx context.Context, req *request.ProductRequest) (*response.ProductResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	productSlug, err := uniqueSlug(ctx, req.Name, "product", s.repo.Product.SlugExists)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	product := &entity.Product{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:          req.Name,
		Slug:          productSlug,
		Description:   req.Description,
		Category:      req.Category,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Discount:      req.Discount,
		Image:         req.Image,
		Images:        nonNil(req.Images),
		Tags:          nonNil(req.Tags),
		InStock:       true,
		IsOnSale:      req.IsOnSale,
	}
	if req.InStock != nil {
		product.InStock = *req.InStock
	}

	if err := s.repo.Product.Create(ctx, product); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, product)

	resp := response.ProductToResponse(product)
	return &resp, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id string, req *request.ProductUpdateRequest) (*response.ProductResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, newError(ErrInvalidInput, "Invalid product id")
	}
	product, err := s.repo.Product.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, newError(ErrNotFound, "Product not found")
	}

	if req.Name != nil && *req.Name != product.Name {
		product.Name = *req.Name
		product.Slug, err = uniqueSlug(ctx, product.Name, "product", s.repo.Product.SlugExists)
		if err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.OriginalPrice != nil {
		product.OriginalPrice = req.OriginalPrice
	}
	if req.Discount != nil {
		product.Discount = *req.Discount
	}
	if req.Image != nil {
		product.Image = req.Image
	}
	if req.Images != nil {
		product.Images = req.Images
	}
	if req.Tags != nil {
		product.Tags = req.Tags
	}
	if req.InStock != nil {
		product.InStock = *req.InStock
	}
	if req.IsOnSale != nil {
		product.IsOnSale = *req.IsOnSale
	}
	product.UpdatedAt = time.Now()

	if err := s.repo.Product.Update(ctx, product); err != nil {
		return nil, notFoundAs(err, "Product not found")
	}
	s.afterWrite(ctx, product)

	resp := response.ProductToResponse(product)
	return &resp, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	productID, err := uuid.Parse(id)
	if err != nil {
		return newError(ErrInvalidInput, "Invalid product id")
	}
	product, err := s.repo.Product.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return newError(ErrNotFound, "Product not found")
	}

	if err := s.repo.Product.SoftDelete(ctx, productID); err != nil {
		return notFoundAs(err, "Product not found")
	}

	if s.deps.Search != nil {
		if err := s.deps.Search.Delete(ctx, productID); err != nil {
			s.log.Warn("Failed to remove product from index", zap.Error(err), zap.String("product_id", id))
		}
	}
	s.invalidateCategories(ctx)
	return nil
}

func (s *productService) Reindex(ctx context.Context) (int, error) {
	if s.deps.Search == nil {
		return 0, nil
	}
	if err := s.deps.Search.EnsureIndex(ctx); err != nil {
		return 0, err
	}

	written := 0
	for offset := 0; ; {
		page, total, err := s.repo.Product.List(ctx, repository.ProductFilter{Limit: reindexBatch, Offset: offset}, repository.SearchNone)
		if err != nil {
			return written, err
		}
		if len(page) == 0 {
			break
		}

		docs := make([]search.ProductDocument, 0, len(page))
		for _, p := range page {
			docs = append(docs, toDocument(p))
		}
		if err := s.deps.Search.Bulk(ctx, docs); err != nil {
			return written, err
		}
		written += len(docs)
		offset += len(page)
		if int64(offset) >= total {
			break
		}
	}

	s.log.Info("Search index rebuilt", zap.Int("products", written))
	return written, nil
}

func toDocument(p *entity.Product) search.ProductDocument {
	doc := search.ProductDocument{
		ID:       p.ID.String(),
		Name:     p.Name,
		Category: p.Category,
		Tags:     p.Tags,
		Price:    p.Price,
		InStock:  p.InStock,
		IsOnSale: p.IsOnSale,
	}
	if p.Description != nil {
		doc.Description = *p.Description
	}
	return doc
}

// afterWrite reindexes the product and drops the categories cache.
func (s *productService) afterWrite(ctx context.Context, p *entity.Product) {
	if s.deps.Search != nil {
		if err := s.deps.Search.Index(ctx, toDocument(p)); err != nil {
			s.log.Warn("Failed to index product", zap.Error(err), zap.String("product_id", p.ID.String()))
		}
	}
	s.invalidateCategories(ctx)
}

func (s *productService) invalidateCategories(ctx context.Context) {
	if err := cache.Del(ctx, s.deps.Cache, categoriesCacheKey); err != nil {
		s.log.Warn("Failed to drop categories cache", zap.Error(err))
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
