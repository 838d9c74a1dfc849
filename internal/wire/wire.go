// internal/wire/wire.go
package wire

import (
	"context"
	"net/http"
	"time"

	"shop-api/internal/adaptor"
	"shop-api/internal/data/repository"
	"shop-api/internal/usecase"
	"shop-api/pkg/database"
	"shop-api/pkg/middleware"
	"shop-api/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// App menyimpan semua dependencies
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// guards are the route middlewares shared by the wire* functions.
type guards struct {
	auth      func(http.Handler) http.Handler
	optional  func(http.Handler) http.Handler
	admin     func(http.Handler) http.Handler
	rateLimit func(scope string) func(http.Handler) http.Handler
}

// Wiring menginisialisasi semua dependencies
func Wiring(db database.PgxIface, repo *repository.Repository, deps usecase.Deps, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, deps, config, logger)
	handler := adaptor.NewHandler(service, config, logger)

	g := guards{
		auth:     middleware.Auth(deps.Tokens, logger),
		optional: middleware.OptionalAuth(deps.Tokens, repo.User, logger),
		admin:    middleware.Admin(repo.User, logger),
		rateLimit: func(scope string) func(http.Handler) http.Handler {
			return middleware.RateLimit(deps.Cache, scope, config.Redis.RateLimitMax, config.Redis.RateLimitWindow, logger)
		},
	}

	return &App{
		Router:  setupRouter(handler, g, db, config, logger),
		Service: service,
	}
}

// setupRouter konfigurasi Chi router
func setupRouter(handler *adaptor.Handler, g guards, db database.PgxIface, config *utils.Config, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.TrustedRealIP(config.App.TrustedProxies))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger, config.App.Debug))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.App.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if db != nil {
			if err := db.Ping(ctx); err != nil {
				logger.Error("Health check failed", zap.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("DB UNAVAILABLE"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
			utils.ResponseSuccess(w, "OK", map[string]any{
				"name": config.App.Name,
				"env":  config.App.Env,
				"time": time.Now().UTC(),
			})
		})

		r.Route("/users", func(r chi.Router) {
			wireAuth(r, handler.Auth, g)
			wireUser(r, handler.User, g)
		})
		wireProduct(r, handler.Product, handler.Comment, g)
		wireCart(r, handler.Cart, g)
		wireFavorite(r, handler.Favorite, g)
		wireComment(r, handler.Comment, g)
		wireProperty(r, handler.Property, g)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseJSON(w, http.StatusMethodNotAllowed, false, "Method not allowed", nil, nil)
	})

	return r
}
