package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shop-api/internal/data/entity"
	"shop-api/internal/data/repository"
	"shop-api/internal/dto/request"
	"shop-api/internal/dto/response"
	"shop-api/pkg/database"
	"shop-api/pkg/mailer"
	"shop-api/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	verifyTokenBytes = 4 // 8 hex characters
	verifyTokenTTL   = 24 * time.Hour
	resetOTPLength   = 6
	resetTokenTTL    = 15 * time.Minute
	// wrong guesses allowed before the live token is burned
	maxTokenAttempts = 5
)

// ClientMeta describes the client a session is issued to.
type ClientMeta struct {
	UserAgent string
	IP        string
}

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.RegisterResponse, error)
	Verify(ctx context.Context, req *request.VerifyRequest) error
	SendOTP(ctx context.Context, req *request.EmailRequest) (*response.DebugTokenResponse, error)
	Login(ctx context.Context, req *request.LoginRequest, meta ClientMeta) (*response.AuthResponse, error)
	// Refresh issues a new access token for a live refresh session.
	Refresh(ctx context.Context, refreshToken string) (*response.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	// ForgotPassword never reveals whether the account exists.
	ForgotPassword(ctx context.Context, req *request.EmailRequest) (*response.DebugTokenResponse, error)
	ResetPassword(ctx context.Context, req *request.ResetPasswordRequest) error
}

type authService struct {
	repo   *repository.Repository
	deps   Deps
	config *utils.Config
	log    *zap.Logger
}

func NewAuthService(repo *repository.Repository, deps Deps, config *utils.Config, log *zap.Logger) AuthService {
	return &authService{
		repo:   repo,
		deps:   deps,
		config: config,
		log:    log.With(zap.String("service", "auth")),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.RegisterResponse, error) {
	// 1. Validate input
	if err := validate(req); err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)
	username := email
	if req.Username != nil && strings.TrimSpace(*req.Username) != "" {
		username = strings.TrimSpace(*req.Username)
	}

	// 2. Email and username must be free
	existing, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, newError(ErrConflict, "Email already registered")
	}

	existing, err = s.repo.User.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if existing != nil {
		return nil, newError(ErrConflict, "Username already taken")
	}

	// 3. Create the inactive user
	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:        email,
		Username:     username,
		PasswordHash: hashed,
		FullName:     req.FullName,
		Phone:        req.Phone,
		Role:         entity.RoleUser,
		IsActive:     false,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, newError(ErrConflict, "Email or username already registered")
		}
		return nil, err
	}

	// 4. Issue the verification token and queue the email
	token, err := s.issueToken(ctx, user, entity.TokenPurposeVerify)
	if err != nil {
		return nil, err
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
	)

	resp := &response.RegisterResponse{User: response.UserToResponse(user)}
	if s.config.App.Debug {
		resp.VerifyToken = token
	}
	return resp, nil
}

// issueToken stores a fresh token for purpose and queues the matching email.
func (s *authService) issueToken(ctx context.Context, user *entity.User, purpose entity.TokenPurpose) (string, error) {
	var (
		value    string
		ttl      time.Duration
		template string
	)
	switch purpose {
	case entity.TokenPurposeReset:
		value, ttl, template = utils.GenerateOTP(resetOTPLength), resetTokenTTL, mailer.TemplateForgotPassword
	default:
		value, ttl, template = utils.GenerateToken(verifyTokenBytes), verifyTokenTTL, mailer.TemplateVerifyEmail
	}

	now := time.Now()
	t := &entity.UserToken{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
		UserID:     user.ID,
		Email:      user.Email,
		Token:      value,
		Purpose:    purpose,
		ExpiresAt:  now.Add(ttl),
	}
	if err := s.repo.UserToken.Create(ctx, t); err != nil {
		return "", err
	}

	publish(ctx, s.deps.Mailer, mailer.EmailJob{
		To:       user.Email,
		Template: template,
		Data: map[string]string{
			"username":   user.Username,
			"token":      value,
			"expires_in": ttl.String(),
		},
	}, s.log)

	return value, nil
}

func (s *authService) Verify(ctx context.Context, req *request.VerifyRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	email := normalizeEmail(req.Email)
	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return newError(ErrNotFound, "User not found")
	}
	if user.IsActive {
		return newError(ErrNotAcceptable, "Account already activated")
	}

	token, err := s.repo.UserToken.FindValid(ctx, email, strings.ToLower(req.Token), entity.TokenPurposeVerify)
	if err != nil {
		return err
	}
	if token == nil || token.UserID != user.ID {
		return s.rejectToken(ctx, user.ID, entity.TokenPurposeVerify)
	}

	if err := s.repo.User.Activate(ctx, user.ID); err != nil {
		return err
	}
	if err := s.repo.UserToken.MarkAsUsed(ctx, token.ID); err != nil {
		s.log.Warn("Failed to mark verify token used", zap.Error(err), zap.String("user_id", user.ID.String()))
	}

	s.log.Info("User verified", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *authService) SendOTP(ctx context.Context, req *request.EmailRequest) (*response.DebugTokenResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, newError(ErrNotFound, "User not found")
	}
	if user.IsActive {
		return nil, newError(ErrNotAcceptable, "Account already activated")
	}

	token, err := s.issueToken(ctx, user, entity.TokenPurposeVerify)
	if err != nil {
		return nil, err
	}

	resp := &response.DebugTokenResponse{}
	if s.config.App.Debug {
		resp.Token = token
	}
	return resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest, meta ClientMeta) (*response.AuthResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}
	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid login attempt", zap.String("email", req.Email))
		return nil, newError(ErrUnauthorized, "Invalid email or password")
	}
	if !user.IsActive {
		return nil, newError(ErrNotAcceptable, "Account is not activated")
	}

	accessToken, accessExp, err := s.deps.Tokens.GenerateAccessToken(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refreshToken, jti, refreshExp, err := s.deps.Tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	session := &entity.Session{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		UserID:     user.ID,
		TokenID:    jti,
		ExpiresAt:  refreshExp,
	}
	if meta.UserAgent != "" {
		session.UserAgent = &meta.UserAgent
	}
	if meta.IP != "" {
		session.IPAddress = &meta.IP
	}
	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, err
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))

	return &response.AuthResponse{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExp,
		User:             response.UserToResponse(user),
	}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*response.TokenResponse, error) {
	signIn := newError(ErrForbidden, "Please sign in again")

	if refreshToken == "" {
		return nil, signIn
	}
	claims, err := s.deps.Tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		s.log.Debug("Refresh token rejected", zap.Error(err))
		return nil, signIn
	}
	jti, err := claims.TokenID()
	if err != nil {
		return nil, signIn
	}

	session, err := s.repo.Session.FindValid(ctx, jti)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, signIn
	}

	user, err := s.repo.User.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, signIn
	}

	accessToken, exp, err := s.deps.Tokens.GenerateAccessToken(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	return &response.TokenResponse{AccessToken: accessToken, AccessExpiresAt: exp}, nil
}

// Logout revokes the session behind refreshToken. Unknown or unparsable
// tokens are ignored so logging out is always safe to repeat.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	claims, err := s.deps.Tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil
	}
	jti, err := claims.TokenID()
	if err != nil {
		return nil
	}

	if err := s.repo.Session.Revoke(ctx, jti); err != nil {
		return err
	}

	s.log.Info("User logged out", zap.String("user_id", claims.UserID))
	return nil
}

func (s *authService) ForgotPassword(ctx context.Context, req *request.EmailRequest) (*response.DebugTokenResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	resp := &response.DebugTokenResponse{}

	user, err := s.repo.User.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		s.log.Info("Password reset requested for unknown or inactive account")
		return resp, nil
	}

	token, err := s.issueToken(ctx, user, entity.TokenPurposeReset)
	if err != nil {
		return nil, err
	}
	if s.config.App.Debug {
		resp.Token = token
	}
	return resp, nil
}

func (s *authService) ResetPassword(ctx context.Context, req *request.ResetPasswordRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	invalid := newError(ErrNotAcceptable, "Token is invalid")

	email := normalizeEmail(req.Email)
	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return invalid
	}

	token, err := s.repo.UserToken.FindValid(ctx, email, req.Token, entity.TokenPurposeReset)
	if err != nil {
		return err
	}
	if token == nil || token.UserID != user.ID {
		return s.rejectToken(ctx, user.ID, entity.TokenPurposeReset)
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.User.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return err
	}
	if err := s.repo.UserToken.MarkAsUsed(ctx, token.ID); err != nil {
		s.log.Warn("Failed to mark reset token used", zap.Error(err), zap.String("user_id", user.ID.String()))
	}
	if err := s.repo.Session.RevokeAllUserSessions(ctx, user.ID); err != nil {
		return err
	}

	s.log.Info("Password reset", zap.String("user_id", user.ID.String()))
	return nil
}

// rejectToken counts a failed guess so a short code cannot be brute forced
// within its lifetime.
func (s *authService) rejectToken(ctx context.Context, userID uuid.UUID, purpose entity.TokenPurpose) error {
	if err := s.repo.UserToken.RecordFailure(ctx, userID, purpose, maxTokenAttempts); err != nil {
		return err
	}
	s.log.Warn("Invalid token attempt", zap.String("user_id", userID.String()), zap.String("purpose", string(purpose)))
	return newError(ErrNotAcceptable, "Token is invalid")
}
