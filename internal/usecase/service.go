package usecase

import (
	"context"

	"shop-api/internal/data/repository"
	"shop-api/pkg/mailer"
	"shop-api/pkg/search"
	"shop-api/pkg/token"
	"shop-api/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Deps are the infrastructure clients the services share.
type Deps struct {
	Tokens *token.Manager
	Mailer mailer.Publisher
	// Search is nil when Elasticsearch is not configured.
	Search search.ProductIndex
	// Cache is nil when Redis is not configured.
	Cache *redis.Client
}

type Service struct {
	Auth     AuthService
	User     UserService
	Product  ProductService
	Cart     CartService
	Property PropertyService
	Comment  CommentService
	Favorite FavoriteService
}

func NewService(repo *repository.Repository, deps Deps, config *utils.Config, log *zap.Logger) *Service {
	if deps.Mailer == nil {
		deps.Mailer = mailer.NewLogPublisher(log, config.App.Debug)
	}

	return &Service{
		Auth:     NewAuthService(repo, deps, config, log),
		User:     NewUserService(repo, log),
		Product:  NewProductService(repo, deps, log),
		Cart:     NewCartService(repo, log),
		Property: NewPropertyService(repo, log),
		Comment:  NewCommentService(repo, log),
		Favorite: NewFavoriteService(repo, log),
	}
}

// publish hands a job to the mailer. Delivery is best effort.
func publish(ctx context.Context, pub mailer.Publisher, job mailer.EmailJob, log *zap.Logger) {
	if err := pub.Publish(ctx, job); err != nil {
		log.Warn("Failed to publish email job",
			zap.Error(err),
			zap.String("to", job.To),
			zap.String("template", job.Template),
		)
	}
}
