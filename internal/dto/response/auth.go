package response

import (
	"time"

	"shop-api/internal/data/entity"
)

type UserResponse struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	Username  string          `json:"username"`
	FullName  *string         `json:"fullName,omitempty"`
	Avatar    *string         `json:"avatar,omitempty"`
	Phone     *string         `json:"phone,omitempty"`
	Gender    *entity.Gender  `json:"gender,omitempty"`
	Address   *string         `json:"address,omitempty"`
	Role      entity.UserRole `json:"role"`
	IsActive  bool            `json:"isActive"`
	CreatedAt time.Time       `json:"createdAt"`
}

type AuthResponse struct {
	AccessToken      string       `json:"accessToken"`
	AccessExpiresAt  time.Time    `json:"accessExpiresAt"`
	RefreshToken     string       `json:"refreshToken"`
	RefreshExpiresAt time.Time    `json:"refreshExpiresAt"`
	User             UserResponse `json:"user"`
}

type TokenResponse struct {
	AccessToken     string    `json:"accessToken"`
	AccessExpiresAt time.Time `json:"accessExpiresAt"`
}

// RegisterResponse carries the verification token only when running in debug mode.
type RegisterResponse struct {
	User        UserResponse `json:"user"`
	VerifyToken string       `json:"verifyToken,omitempty"`
}

// DebugTokenResponse carries a one-time token only when running in debug mode.
type DebugTokenResponse struct {
	Token string `json:"token,omitempty"`
}

func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Username:  user.Username,
		FullName:  user.FullName,
		Avatar:    user.Avatar,
		Phone:     user.Phone,
		Gender:    user.Gender,
		Address:   user.Address,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}
