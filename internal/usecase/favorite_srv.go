package usecase

import (
	"context"
	"time"

	"shop-api/internal/data/entity"
	"shop-api/internal/data/repository"
	"shop-api/internal/dto/request"
	"shop-api/internal/dto/response"
	"shop-api/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type FavoriteService interface {
	// AddFavorite fails with ErrConflict when the pair already exists.
	AddFavorite(ctx context.Context, userID uuid.UUID, req *request.AddFavoriteRequest) error
	RemoveFavorite(ctx context.Context, userID uuid.UUID, productID string) error
	ListFavorites(ctx context.Context, userID uuid.UUID, page *request.PaginatedRequest) (*response.PaginatedResponse[response.ProductResponse], error)
}

type favoriteService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewFavoriteService(repo *repository.Repository, log *zap.Logger) FavoriteService {
	return &favoriteService{
		repo: repo,
		log:  log.With(zap.String("service", "favorite")),
	}
}

func (s *favoriteService) AddFavorite(ctx context.Context, userID uuid.UUID, req *request.AddFavoriteRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	productID, err := uuid.Parse(req.ProductID)
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

	err = s.repo.Favorite.Add(ctx, &entity.Favorite{
		UserID:    userID,
		ProductID: productID,
		CreatedAt: time.Now(),
	})
	if database.IsUniqueViolation(err) {
		return newError(ErrConflict, "Product already in favorites")
	}
	return err
}

func (s *favoriteService) RemoveFavorite(ctx context.Context, userID uuid.UUID, productID string) error {
	id, err := uuid.Parse(productID)
	if err != nil {
		return newError(ErrInvalidInput, "Invalid product id")
	}
	return s.repo.Favorite.Remove(ctx, userID, id)
}

func (s *favoriteService) ListFavorites(ctx context.Context, userID uuid.UUID, page *request.PaginatedRequest) (*response.PaginatedResponse[response.ProductResponse], error) {
	products, total, err := s.repo.Favorite.ListProducts(ctx, userID, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}

	return response.NewPaginatedResponse(
		response.ProductsToResponse(products), page.Page, page.Limit(), total,
	), nil
}
