package wire

import (
	"shop-api/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireAuth registers the account routes under /users
func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, g guards) {
	// ==================== PUBLIC ROUTES ====================
	r.With(g.rateLimit("register")).Post("/register", authHandler.Register)
	r.With(g.rateLimit("login")).Post("/login", authHandler.Login)
	r.With(g.rateLimit("otp")).Post("/send-otp", authHandler.SendOTP)
	r.With(g.rateLimit("forgot")).Post("/forgot-password", authHandler.ForgotPassword)
	r.With(g.rateLimit("reset")).Post("/reset-password", authHandler.ResetPassword)
	r.With(g.rateLimit("verify")).Put("/verify", authHandler.Verify)

	// Refresh and logout read the refresh token, so the access guard is not applied
	r.Get("/refresh-token", authHandler.RefreshToken)
	r.Delete("/logout", authHandler.Logout)
}
