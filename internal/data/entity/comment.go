package entity

import "github.com/google/uuid"

type Comment struct {
	BaseSimple
	UserID    uuid.UUID    `db:"user_id"`
	ProductID uuid.UUID    `db:"product_id"`
	Content   string       `db:"content"`
	Rating    *int         `db:"rating"`
	Author    *UserProfile `db:"-"`
}
