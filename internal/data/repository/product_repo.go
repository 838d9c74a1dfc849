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

type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter, mode SearchMode) ([]*entity.Product, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Product, error)
	FindSimilar(ctx context.Context, product *entity.Product, limit int) ([]*entity.Product, error)
	Categories(ctx context.Context) ([]string, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error

	// Admin
	Create(ctx context.Context, product *entity.Product) error
	Update(ctx context.Context, product *entity.Product) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type productRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewProductRepository(db database.PgxIface, log *zap.Logger) ProductRepository {
	return &productRepository{
		db:  db,
		log: log.With(zap.String("repository", "product")),
	}
}

func productScanTargets(p *entity.Product) []any {
	return []any{
		&p.ID,
		&p.Name,
		&p.Slug,
		&p.Description,
		&p.Category,
		&p.Price,
		&p.OriginalPrice,
		&p.Discount,
		&p.Image,
		&p.Images,
		&p.Tags,
		&p.InStock,
		&p.IsOnSale,
		&p.Rating,
		&p.RatingCount,
		&p.ViewCount,
		&p.CommentCount,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.DeletedAt,
	}
}

// scanProducts reads rows selected with productColumns. When withTotal is set
// the row carries one extra trailing count column.
func scanProducts(rows pgx.Rows, withTotal bool) ([]*entity.Product, int64, error) {
	defer rows.Close()

	var (
		products []*entity.Product
		total    int64
	)
	for rows.Next() {
		var p entity.Product
		targets := productScanTargets(&p)
		if withTotal {
			targets = append(targets, &total)
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, 0, err
		}
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// List returns one page of products and the total matching the filter.
func (r *productRepository) List(ctx context.Context, filter ProductFilter, mode SearchMode) ([]*entity.Product, int64, error) {
	query, args := BuildProductQuery(filter, mode)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list products",
			zap.Error(err),
			zap.String("mode", mode.String()),
			zap.String("q", filter.Query),
		)
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	products, total, err := scanProducts(rows, true)
	if err != nil {
		r.log.Error("Failed to scan products", zap.Error(err))
		return nil, 0, fmt.Errorf("scan products: %w", err)
	}

	// A page past the end has no rows to carry the window count.
	if len(products) == 0 && filter.Offset > 0 {
		countQuery, countArgs := BuildProductCountQuery(filter, mode)
		if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
			r.log.Error("Failed to count products", zap.Error(err), zap.String("mode", mode.String()))
			return nil, 0, fmt.Errorf("count products: %w", err)
		}
	}

	r.log.Debug("Products listed",
		zap.String("mode", mode.String()),
		zap.Int("count", len(products)),
		zap.Int64("total", total),
	)

	return products, total, nil
}

func (r *productRepository) findOne(ctx context.Context, where string, arg any) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE ` + where + ` AND p.deleted_at IS NULL`

	var p entity.Product
	err := r.db.QueryRow(ctx, query, arg).Scan(productScanTargets(&p)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find product", zap.Error(err), zap.Any("key", arg))
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &p, nil
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	return r.findOne(ctx, "p.id = $1", id)
}

func (r *productRepository) FindBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	return r.findOne(ctx, "p.slug = $1", slug)
}

func (r *productRepository) FindSimilar(ctx context.Context, product *entity.Product, limit int) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		WHERE p.deleted_at IS NULL
		  AND p.category = $1
		  AND p.id <> $2
		ORDER BY p.rating DESC, p.view_count DESC, p.id
		LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, product.Category, product.ID, limit)
	if err != nil {
		r.log.Error("Failed to find similar products", zap.Error(err), zap.String("product_id", product.ID.String()))
		return nil, fmt.Errorf("find similar products: %w", err)
	}

	products, _, err := scanProducts(rows, false)
	if err != nil {
		return nil, fmt.Errorf("scan similar products: %w", err)
	}
	return products, nil
}

func (r *productRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT category FROM products WHERE deleted_at IS NULL ORDER BY category`)
	if err != nil {
		r.log.Error("Failed to list categories", zap.Error(err))
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// SlugExists also sees soft-deleted rows, since the unique index does.
func (r *productRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check product slug", zap.Error(err), zap.String("slug", slug))
		return false, fmt.Errorf("check product slug: %w", err)
	}
	return exists, nil
}

func (r *productRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE products SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to increment views", zap.Error(err), zap.String("product_id", id.String()))
		return fmt.Errorf("increment views of %s: %w", id, err)
	}
	return nil
}

func (r *productRepository) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, name, slug, description, category, price, original_price,
		                      discount, image, images, tags, in_stock, is_on_sale,
		                      created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.Exec(ctx, query,
		p.ID,
		p.Name,
		p.Slug,
		p.Description,
		p.Category,
		p.Price,
		p.OriginalPrice,
		p.Discount,
		p.Image,
		p.Images,
		p.Tags,
		p.InStock,
		p.IsOnSale,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create product", zap.Error(err), zap.String("name", p.Name))
		return fmt.Errorf("create product %s: %w", p.Name, err)
	}

	r.log.Info("Product created", zap.String("product_id", p.ID.String()), zap.String("slug", p.Slug))
	return nil
}

func (r *productRepository) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, slug = $3, description = $4, category = $5, price = $6,
		    original_price = $7, discount = $8, image = $9, images = $10, tags = $11,
		    in_stock = $12, is_on_sale = $13, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		p.ID,
		p.Name,
		p.Slug,
		p.Description,
		p.Category,
		p.Price,
		p.OriginalPrice,
		p.Discount,
		p.Image,
		p.Images,
		p.Tags,
		p.InStock,
		p.IsOnSale,
	)
	if err != nil {
		r.log.Error("Failed to update product", zap.Error(err), zap.String("product_id", p.ID.String()))
		return fmt.Errorf("update product %s: %w", p.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", p.ID, ErrNotFound)
	}
	return nil
}

func (r *productRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx,
		`UPDATE products SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		r.log.Error("Failed to delete product", zap.Error(err), zap.String("product_id", id.String()))
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}

	r.log.Info("Product deleted", zap.String("product_id", id.String()))
	return nil
}
