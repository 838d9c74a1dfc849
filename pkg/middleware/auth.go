package middleware

import (
	"net/http"
	"strings"

	"shop-api/internal/data/entity"
	"shop-api/internal/data/repository"
	"shop-api/pkg/token"
	"shop-api/pkg/utils"

	"go.uber.org/zap"
)

// extractToken reads the access token from the cookie, then from a Bearer header.
func extractToken(r *http.Request) string {
	if tok := utils.CookieValue(r, utils.AccessTokenCookie); tok != "" {
		return tok
	}

	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Auth rejects requests without a valid access token.
// An expired token answers 410 so the client knows to call refresh-token.
func Auth(tokens *token.Manager, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := extractToken(r)
			if tok == "" {
				utils.ResponseUnauthorized(w, "Token not found")
				return
			}

			claims, err := tokens.ParseAccessToken(tok)
			if err != nil {
				if token.IsExpired(err) {
					utils.ResponseGone(w, "Need to refresh token.")
					return
				}
				logger.Debug("Access token rejected", zap.Error(err), zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Unauthorized")
				return
			}

			userID, err := claims.UID()
			if err != nil {
				utils.ResponseUnauthorized(w, "Unauthorized")
				return
			}

			ctx := utils.SetUserContext(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches the caller's identity when the token is valid and the
// user is still active. It never rejects a request.
func OptionalAuth(tokens *token.Manager, userRepo repository.UserRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := extractToken(r)
			if tok == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.ParseAccessToken(tok)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			userID, err := claims.UID()
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := userRepo.FindByID(r.Context(), userID)
			if err != nil {
				logger.Warn("Optional auth: user lookup failed", zap.Error(err), zap.String("user_id", userID.String()))
				next.ServeHTTP(w, r)
				return
			}
			if user == nil || !user.IsActive {
				next.ServeHTTP(w, r)
				return
			}

			ctx := utils.SetUserContext(r.Context(), user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Admin - middleware cek role admin. Must run after Auth.
func Admin(userRepo repository.UserRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. Get user ID dari context (sudah diset Auth)
			userID, ok := utils.GetUserIDFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			// 2. Role comes from the database, not the token
			user, err := userRepo.FindByID(r.Context(), userID)
			if err != nil {
				logger.Error("Admin check: failed to get user",
					zap.Error(err), zap.String("user_id", userID.String()))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			// 3. Check if admin
			if user == nil || user.Role != entity.RoleAdmin {
				logger.Warn("Admin check: non-admin access attempt",
					zap.String("user_id", userID.String()),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
