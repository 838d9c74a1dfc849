// main.go
package main

import (
	"context"
	"log"
	"time"

	"shop-api/cmd"
	"shop-api/internal/data/repository"
	"shop-api/internal/usecase"
	"shop-api/internal/wire"
	"shop-api/pkg/cache"
	"shop-api/pkg/database"
	"shop-api/pkg/mailer"
	"shop-api/pkg/search"
	"shop-api/pkg/token"
	"shop-api/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const reindexTimeout = 5 * time.Minute

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("env", config.App.Env),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Apply migrations before the pool opens
	if config.Migrations != "" {
		if err := database.RunMigrations(config.Database.DSN(), config.Migrations, logger); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	deps := usecase.Deps{
		Tokens: token.NewManager(config.JWT.AccessSecret, config.JWT.RefreshSecret, config.JWT.AccessTTL, config.JWT.RefreshTTL),
		Mailer: mailer.NewLogPublisher(logger, config.App.Debug),
		Cache:  connectRedis(config, logger),
	}
	if deps.Cache != nil {
		defer func() { _ = deps.Cache.Close() }()
	}

	if config.Elastic.Enabled() {
		es, err := search.NewESClient(config.Elastic.Addresses, config.Elastic.Username, config.Elastic.Password)
		if err != nil {
			logger.Warn("Elasticsearch unavailable, using postgres search only", zap.Error(err))
		} else {
			deps.Search = search.NewProductIndex(es, config.Elastic.ProductIndex, logger)
		}
	}

	if config.RabbitMQ.URL != "" {
		publisher, err := mailer.NewRabbitPublisher(config.RabbitMQ.URL, config.RabbitMQ.EmailQueue)
		if err != nil {
			logger.Warn("RabbitMQ unavailable, emails will only be logged", zap.Error(err))
		} else {
			deps.Mailer = publisher
		}
	}
	defer deps.Mailer.Close()

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(db, repos, deps, config, logger)

	// Products written while the index was down or before it existed are
	// only searchable after a rebuild.
	if deps.Search != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), reindexTimeout)
			defer cancel()
			if _, err := app.Service.Product.Reindex(ctx); err != nil {
				logger.Warn("Failed to rebuild search index", zap.Error(err))
			}
		}()
	}

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}
}

// connectRedis returns nil when redis is not configured or not reachable, which
// disables caching and rate limiting.
func connectRedis(config *utils.Config, logger *zap.Logger) *redis.Client {
	if config.Redis.Addr == "" {
		return nil
	}
	rdb := cache.NewRedisClient(config.Redis.Addr, config.Redis.Password, config.Redis.DB)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unavailable, cache and rate limiting disabled", zap.Error(err))
		_ = rdb.Close()
		return nil
	}
	return rdb
}
