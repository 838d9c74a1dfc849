package adaptor

import (
	"encoding/json"
	"net"
	"net/http"

	"shop-api/internal/dto/request"
	"shop-api/internal/usecase"
	"shop-api/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	config  *utils.Config
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, config *utils.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		config:  config,
		log:     log.With(zap.String("handler", "auth")),
	}
}

func clientMeta(r *http.Request) usecase.ClientMeta {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return usecase.ClientMeta{UserAgent: r.UserAgent(), IP: ip}
}

// refreshTokenFrom reads the refresh token from its cookie, falling back to
// a JSON body of the form {"refreshToken": "..."}.
func refreshTokenFrom(r *http.Request) string {
	if tok := utils.CookieValue(r, utils.RefreshTokenCookie); tok != "" {
		return tok
	}
	if r.Body == nil {
		return ""
	}
	var body request.RefreshTokenRequest
	_ = json.NewDecoder(r.Body).Decode(&body)
	return body.RefreshToken
}

// Register handles POST /api/v1/users/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Register(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "register")
		return
	}

	utils.ResponseCreated(w, "Registration successful. Check your email for the verification code.", resp)
}

// Verify handles PUT /api/v1/users/verify
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.Verify(r.Context(), &req); err != nil {
		handleServiceError(w, h.log, err, "verify email")
		return
	}

	utils.ResponseSuccess(w, "Email verified successfully", nil)
}

// SendOTP handles POST /api/v1/users/send-otp
func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req request.EmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.SendOTP(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "send OTP")
		return
	}

	utils.ResponseSuccess(w, "Verification code sent", resp)
}

// Login handles POST /api/v1/users/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Login(r.Context(), &req, clientMeta(r))
	if err != nil {
		handleServiceError(w, h.log, err, "login")
		return
	}

	utils.SetAccessCookie(w, resp.AccessToken, resp.AccessExpiresAt, h.config.Cookie)
	utils.SetRefreshCookie(w, resp.RefreshToken, resp.RefreshExpiresAt, h.config.Cookie)
	utils.ResponseSuccess(w, "Login successful", resp)
}

// RefreshToken handles GET /api/v1/users/refresh-token
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Refresh(r.Context(), refreshTokenFrom(r))
	if err != nil {
		handleServiceError(w, h.log, err, "refresh token")
		return
	}

	utils.SetAccessCookie(w, resp.AccessToken, resp.AccessExpiresAt, h.config.Cookie)
	utils.ResponseSuccess(w, "Token refreshed", resp)
}

// Logout handles DELETE /api/v1/users/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), refreshTokenFrom(r)); err != nil {
		handleServiceError(w, h.log, err, "logout")
		return
	}

	utils.ClearAuthCookies(w, h.config.Cookie)
	utils.ResponseSuccess(w, "Logout successful", nil)
}

// ForgotPassword handles POST /api/v1/users/forgot-password
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req request.EmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.ForgotPassword(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "forgot password")
		return
	}

	utils.ResponseSuccess(w, "If the account exists, a reset code has been sent", resp)
}

// ResetPassword handles POST /api/v1/users/reset-password
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req request.ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.ResetPassword(r.Context(), &req); err != nil {
		handleServiceError(w, h.log, err, "reset password")
		return
	}

	utils.ClearAuthCookies(w, h.config.Cookie)
	utils.ResponseSuccess(w, "Password has been reset. Please sign in again.", nil)
}
