package wire

import (
	"shop-api/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireUser configures the caller's own profile routes under /users
func wireUser(r chi.Router, userHandler *adaptor.UserHandler, g guards) {
	// ==================== PROTECTED USER ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(g.auth)
		r.Get("/me", userHandler.GetProfile)
		r.Put("/me", userHandler.UpdateProfile)
		r.Put("/me/password", userHandler.ChangePassword)
	})
}
