package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shop-api/internal/data/entity"
	"shop-api/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CartRepository interface {
	// GetOrCreate returns the user's cart id, creating the cart when absent.
	GetOrCreate(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
	// UpsertItem adds quantity to the product's line, creating it with a
	// snapshot of the product name and price when absent.
	UpsertItem(ctx context.Context, cartID uuid.UUID, product *entity.Product, quantity int) error
	UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (bool, error)
	DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) (bool, error)
	Clear(ctx context.Context, cartID uuid.UUID) error
	// View reads the cart with its lines joined to the current products.
	View(ctx context.Context, cartID uuid.UUID) (*entity.Cart, error)
}

type cartRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCartRepository(db database.PgxIface, log *zap.Logger) CartRepository {
	return &cartRepository{
		db:  db,
		log: log.With(zap.String("repository", "cart")),
	}
}

func (r *cartRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	query := `
		INSERT INTO carts (id, user_id, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET updated_at = carts.updated_at
		RETURNING id
	`

	var cartID uuid.UUID
	if err := r.db.QueryRow(ctx, query, uuid.New(), userID).Scan(&cartID); err != nil {
		r.log.Error("Failed to get or create cart", zap.Error(err), zap.String("user_id", userID.String()))
		return uuid.Nil, fmt.Errorf("get or create cart for %s: %w", userID, err)
	}
	return cartID, nil
}

func (r *cartRepository) UpsertItem(ctx context.Context, cartID uuid.UUID, product *entity.Product, quantity int) error {
	query := `
		INSERT INTO cart_items (id, cart_id, product_id, name, price, quantity, added_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
	`

	_, err := r.db.Exec(ctx, query,
		uuid.New(),
		cartID,
		product.ID,
		product.Name,
		product.Price,
		quantity,
		time.Now(),
	)
	if err != nil {
		r.log.Error("Failed to upsert cart item",
			zap.Error(err),
			zap.String("cart_id", cartID.String()),
			zap.String("product_id", product.ID.String()),
		)
		return fmt.Errorf("upsert cart item: %w", err)
	}

	r.touch(ctx, cartID)
	return nil
}

// UpdateItemQuantity reports false when the item is not in the cart.
func (r *cartRepository) UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (bool, error) {
	result, err := r.db.Exec(ctx,
		`UPDATE cart_items SET quantity = $3 WHERE id = $1 AND cart_id = $2`,
		itemID, cartID, quantity)
	if err != nil {
		r.log.Error("Failed to update cart item", zap.Error(err), zap.String("item_id", itemID.String()))
		return false, fmt.Errorf("update cart item %s: %w", itemID, err)
	}
	if result.RowsAffected() == 0 {
		return false, nil
	}

	r.touch(ctx, cartID)
	return true, nil
}

// DeleteItem reports false when the item is not in the cart.
func (r *cartRepository) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE id = $1 AND cart_id = $2`, itemID, cartID)
	if err != nil {
		r.log.Error("Failed to delete cart item", zap.Error(err), zap.String("item_id", itemID.String()))
		return false, fmt.Errorf("delete cart item %s: %w", itemID, err)
	}
	if result.RowsAffected() == 0 {
		return false, nil
	}

	r.touch(ctx, cartID)
	return true, nil
}

func (r *cartRepository) Clear(ctx context.Context, cartID uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		r.log.Error("Failed to clear cart", zap.Error(err), zap.String("cart_id", cartID.String()))
		return fmt.Errorf("clear cart %s: %w", cartID, err)
	}

	r.log.Debug("Cart cleared",
		zap.String("cart_id", cartID.String()),
		zap.Int64("removed", result.RowsAffected()),
	)
	r.touch(ctx, cartID)
	return nil
}

func (r *cartRepository) touch(ctx context.Context, cartID uuid.UUID) {
	if _, err := r.db.Exec(ctx, `UPDATE carts SET updated_at = NOW() WHERE id = $1`, cartID); err != nil {
		r.log.Warn("Failed to touch cart", zap.Error(err), zap.String("cart_id", cartID.String()))
	}
}

func (r *cartRepository) View(ctx context.Context, cartID uuid.UUID) (*entity.Cart, error) {
	var cart entity.Cart
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, created_at, updated_at FROM carts WHERE id = $1`, cartID,
	).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find cart", zap.Error(err), zap.String("cart_id", cartID.String()))
		return nil, fmt.Errorf("find cart %s: %w", cartID, err)
	}

	query := `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.name, ci.price, ci.quantity, ci.added_at,
		       p.slug, p.image, p.in_stock AND p.deleted_at IS NULL, p.price
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.added_at, ci.id
	`

	rows, err := r.db.Query(ctx, query, cartID)
	if err != nil {
		r.log.Error("Failed to load cart items", zap.Error(err), zap.String("cart_id", cartID.String()))
		return nil, fmt.Errorf("load cart items: %w", err)
	}
	defer rows.Close()

	cart.Items = []entity.CartItem{}
	for rows.Next() {
		var item entity.CartItem
		err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.ProductID,
			&item.Name,
			&item.Price,
			&item.Quantity,
			&item.AddedAt,
			&item.ProductSlug,
			&item.ProductImage,
			&item.InStock,
			&item.CurrentPrice,
		)
		if err != nil {
			r.log.Error("Failed to scan cart item", zap.Error(err))
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart items: %w", err)
	}

	return &cart, nil
}
