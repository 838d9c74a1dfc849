package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Manager issues and verifies the access/refresh token pair.
type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func NewManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
	}
}

const (
	typeAccess  = "access"
	typeRefresh = "refresh"
)

// ErrNoSecret is returned when the manager was built without a signing key.
var ErrNoSecret = errors.New("token secret is not configured")

type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role,omitempty"`
	Type   string `json:"typ"`
	jwt.RegisteredClaims
}

// UID parses the user id claim.
func (c *Claims) UID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}

// TokenID parses the jti claim of a refresh token.
func (c *Claims) TokenID() (uuid.UUID, error) {
	return uuid.Parse(c.ID)
}

func (m *Manager) GenerateAccessToken(userID uuid.UUID, role string) (string, time.Time, error) {
	if len(m.accessSecret) == 0 {
		return "", time.Time{}, ErrNoSecret
	}
	now := time.Now()
	exp := now.Add(m.AccessTTL)
	claims := &Claims{
		UserID: userID.String(),
		Role:   role,
		Type:   typeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.accessSecret)
	return s, exp, err
}

// GenerateRefreshToken returns the signed token plus its jti so the caller can record a session.
func (m *Manager) GenerateRefreshToken(userID uuid.UUID) (string, uuid.UUID, time.Time, error) {
	if len(m.refreshSecret) == 0 {
		return "", uuid.Nil, time.Time{}, ErrNoSecret
	}
	now := time.Now()
	exp := now.Add(m.RefreshTTL)
	jti := uuid.New()
	claims := &Claims{
		UserID: userID.String(),
		Type:   typeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti.String(),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.refreshSecret)
	return s, jti, exp, err
}

func (m *Manager) ParseAccessToken(tokenStr string) (*Claims, error) {
	return parseToken(tokenStr, m.accessSecret, typeAccess)
}

func (m *Manager) ParseRefreshToken(tokenStr string) (*Claims, error) {
	return parseToken(tokenStr, m.refreshSecret, typeRefresh)
}

// IsExpired reports whether a parse error was caused only by the exp claim.
func IsExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}

func parseToken(tokenStr string, secret []byte, typ string) (*Claims, error) {
	if len(secret) == 0 {
		return nil, ErrNoSecret
	}
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Type != typ {
		return nil, fmt.Errorf("token type %q, want %q", claims.Type, typ)
	}
	return claims, nil
}
