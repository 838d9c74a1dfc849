package repository

import (
	"context"
	"fmt"

	"shop-api/internal/data/entity"
	"shop-api/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RecentlyViewedRepository interface {
	Touch(ctx context.Context, userID, productID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.Product, error)
}

type recentlyViewedRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRecentlyViewedRepository(db database.PgxIface, log *zap.Logger) RecentlyViewedRepository {
	return &recentlyViewedRepository{
		db:  db,
		log: log.With(zap.String("repository", "recently_viewed")),
	}
}

func (r *recentlyViewedRepository) Touch(ctx context.Context, userID, productID uuid.UUID) error {
	query := `
		INSERT INTO recently_viewed (user_id, product_id, viewed_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, product_id) DO UPDATE SET viewed_at = EXCLUDED.viewed_at
	`

	if _, err := r.db.Exec(ctx, query, userID, productID); err != nil {
		r.log.Warn("Failed to record view",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("product_id", productID.String()),
		)
		return fmt.Errorf("record view: %w", err)
	}
	return nil
}

func (r *recentlyViewedRepository) List(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM recently_viewed rv
		JOIN products p ON p.id = rv.product_id AND p.deleted_at IS NULL
		WHERE rv.user_id = $1
		ORDER BY rv.viewed_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		r.log.Error("Failed to list recently viewed", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("list recently viewed: %w", err)
	}

	products, _, err := scanProducts(rows, false)
	if err != nil {
		return nil, fmt.Errorf("scan recently viewed: %w", err)
	}
	return products, nil
}
