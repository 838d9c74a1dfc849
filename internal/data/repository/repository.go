package repository

import (
	"errors"

	"shop-api/pkg/database"

	"go.uber.org/zap"
)

// ErrNotFound is returned by writes that matched no row.
var ErrNotFound = errors.New("record not found")

type Repository struct {
	User           UserRepository
	Session        SessionRepository
	UserToken      UserTokenRepository
	Product        ProductRepository
	Cart           CartRepository
	Property       PropertyRepository
	Comment        CommentRepository
	Favorite       FavoriteRepository
	RecentlyViewed RecentlyViewedRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:           NewUserRepository(db, log),
		Session:        NewSessionRepository(db, log),
		UserToken:      NewUserTokenRepository(db, log),
		Product:        NewProductRepository(db, log),
		Cart:           NewCartRepository(db, log),
		Property:       NewPropertyRepository(db, log),
		Comment:        NewCommentRepository(db, log),
		Favorite:       NewFavoriteRepository(db, log),
		RecentlyViewed: NewRecentlyViewedRepository(db, log),
	}
}
