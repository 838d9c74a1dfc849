package entity

import (
	"time"

	"github.com/google/uuid"
)

// Cart is owned by exactly one user.
type Cart struct {
	BaseNoDelete
	UserID uuid.UUID  `db:"user_id"`
	Items  []CartItem `db:"-"`
}

// CartItem keeps the name and price of the product at the time it was added.
type CartItem struct {
	ID        uuid.UUID `db:"id"`
	CartID    uuid.UUID `db:"cart_id"`
	ProductID uuid.UUID `db:"product_id"`
	Name      string    `db:"name"`
	Price     float64   `db:"price"`
	Quantity  int       `db:"quantity"`
	AddedAt   time.Time `db:"added_at"`

	// joined from products on read
	ProductSlug  string  `db:"slug"`
	ProductImage *string `db:"image"`
	InStock      bool    `db:"in_stock"`
	CurrentPrice float64 `db:"current_price"`
}
