package entity

import (
	"time"

	"github.com/google/uuid"
)

// Favorite is unique per (user, product); the primary key enforces it.
type Favorite struct {
	UserID    uuid.UUID `db:"user_id"`
	ProductID uuid.UUID `db:"product_id"`
	CreatedAt time.Time `db:"created_at"`
}
