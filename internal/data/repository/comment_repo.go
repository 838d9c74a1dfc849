package repository

import (
	"context"
	"errors"
	"fmt"

	"shop-api/internal/data/entity"
	"shop-api/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CommentRepository interface {
	// Create inserts the comment and refreshes the product counters in one transaction.
	Create(ctx context.Context, comment *entity.Comment) error
	// Delete removes the comment and refreshes the product counters in one transaction.
	Delete(ctx context.Context, comment *entity.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, limit, offset int) ([]*entity.Comment, int64, error)
}

type commentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCommentRepository(db database.PgxIface, log *zap.Logger) CommentRepository {
	return &commentRepository{
		db:  db,
		log: log.With(zap.String("repository", "comment")),
	}
}

// refreshProductStats adds $2 to comment_count, floored at 0, and recomputes the rating.
const refreshProductStats = `
	UPDATE products SET
		comment_count = GREATEST(comment_count + $2, 0),
		rating = COALESCE((
			SELECT ROUND(AVG(c.rating)::numeric, 2) FROM comments c
			WHERE c.product_id = $1 AND c.rating IS NOT NULL
		), 0),
		rating_count = (
			SELECT COUNT(c.rating) FROM comments c WHERE c.product_id = $1
		)
	WHERE id = $1
`

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin comment tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO comments (id, user_id, product_id, content, rating, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		comment.ID,
		comment.UserID,
		comment.ProductID,
		comment.Content,
		comment.Rating,
		comment.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create comment",
			zap.Error(err),
			zap.String("user_id", comment.UserID.String()),
			zap.String("product_id", comment.ProductID.String()),
		)
		return fmt.Errorf("create comment on %s: %w", comment.ProductID, err)
	}

	if _, err := tx.Exec(ctx, refreshProductStats, comment.ProductID, 1); err != nil {
		r.log.Error("Failed to update product stats", zap.Error(err), zap.String("product_id", comment.ProductID.String()))
		return fmt.Errorf("update product stats: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *commentRepository) Delete(ctx context.Context, comment *entity.Comment) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin comment tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	result, err := tx.Exec(ctx, `DELETE FROM comments WHERE id = $1`, comment.ID)
	if err != nil {
		r.log.Error("Failed to delete comment", zap.Error(err), zap.String("comment_id", comment.ID.String()))
		return fmt.Errorf("delete comment %s: %w", comment.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("comment %s: %w", comment.ID, ErrNotFound)
	}

	if _, err := tx.Exec(ctx, refreshProductStats, comment.ProductID, -1); err != nil {
		r.log.Error("Failed to update product stats", zap.Error(err), zap.String("product_id", comment.ProductID.String()))
		return fmt.Errorf("update product stats: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *commentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error) {
	query := `
		SELECT id, user_id, product_id, content, rating, created_at
		FROM comments
		WHERE id = $1
	`

	var c entity.Comment
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.UserID,
		&c.ProductID,
		&c.Content,
		&c.Rating,
		&c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find comment", zap.Error(err), zap.String("comment_id", id.String()))
		return nil, fmt.Errorf("find comment %s: %w", id, err)
	}
	return &c, nil
}

func (r *commentRepository) ListByProduct(ctx context.Context, productID uuid.UUID, limit, offset int) ([]*entity.Comment, int64, error) {
	query := `
		SELECT c.id, c.user_id, c.product_id, c.content, c.rating, c.created_at,
		       u.id::text, u.username, u.full_name, u.avatar,
		       COUNT(*) OVER() AS total_count
		FROM comments c
		LEFT JOIN users u ON u.id = c.user_id AND u.deleted_at IS NULL
		WHERE c.product_id = $1
		ORDER BY c.created_at DESC, c.id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, productID, limit, offset)
	if err != nil {
		r.log.Error("Failed to list comments", zap.Error(err), zap.String("product_id", productID.String()))
		return nil, 0, fmt.Errorf("list comments of %s: %w", productID, err)
	}
	defer rows.Close()

	var (
		comments []*entity.Comment
		total    int64
	)
	for rows.Next() {
		var (
			c                  entity.Comment
			authorID, username *string
			fullName, avatar   *string
		)
		err := rows.Scan(
			&c.ID,
			&c.UserID,
			&c.ProductID,
			&c.Content,
			&c.Rating,
			&c.CreatedAt,
			&authorID,
			&username,
			&fullName,
			&avatar,
			&total,
		)
		if err != nil {
			r.log.Error("Failed to scan comment", zap.Error(err))
			return nil, 0, fmt.Errorf("scan comment: %w", err)
		}
		if authorID != nil {
			c.Author = &entity.UserProfile{ID: *authorID, FullName: fullName, Avatar: avatar}
			if username != nil {
				c.Author.Username = *username
			}
		}
		comments = append(comments, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate comments: %w", err)
	}

	if len(comments) == 0 && offset > 0 {
		err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM comments WHERE product_id = $1`, productID).Scan(&total)
		if err != nil {
			return nil, 0, fmt.Errorf("count comments of %s: %w", productID, err)
		}
	}

	return comments, total, nil
}
