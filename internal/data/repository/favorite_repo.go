package repository

import (
	"context"
	"fmt"

	"shop-api/internal/data/entity"
	"shop-api/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type FavoriteRepository interface {
	Add(ctx context.Context, fav *entity.Favorite) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	ListProducts(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Product, int64, error)
}

type favoriteRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewFavoriteRepository(db database.PgxIface, log *zap.Logger) FavoriteRepository {
	return &favoriteRepository{
		db:  db,
		log: log.With(zap.String("repository", "favorite")),
	}
}

// Add inserts the pair. A duplicate surfaces as a wrapped unique violation.
func (r *favoriteRepository) Add(ctx context.Context, fav *entity.Favorite) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO favorites (user_id, product_id, created_at) VALUES ($1, $2, $3)`,
		fav.UserID, fav.ProductID, fav.CreatedAt)
	if err != nil {
		if !database.IsUniqueViolation(err) {
			r.log.Error("Failed to add favorite",
				zap.Error(err),
				zap.String("user_id", fav.UserID.String()),
				zap.String("product_id", fav.ProductID.String()),
			)
		}
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

func (r *favoriteRepository) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		r.log.Error("Failed to remove favorite", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

func (r *favoriteRepository) ListProducts(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Product, int64, error) {
	query := `
		SELECT ` + productColumns + `, COUNT(*) OVER() AS total_count
		FROM favorites f
		JOIN products p ON p.id = f.product_id AND p.deleted_at IS NULL
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC, p.id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to list favorites", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, 0, fmt.Errorf("list favorites: %w", err)
	}

	products, total, err := scanProducts(rows, true)
	if err != nil {
		return nil, 0, fmt.Errorf("scan favorites: %w", err)
	}

	if len(products) == 0 && offset > 0 {
		err := r.db.QueryRow(ctx, `
			SELECT COUNT(*) FROM favorites f
			JOIN products p ON p.id = f.product_id AND p.deleted_at IS NULL
			WHERE f.user_id = $1`, userID).Scan(&total)
		if err != nil {
			return nil, 0, fmt.Errorf("count favorites: %w", err)
		}
	}

	return products, total, nil
}
