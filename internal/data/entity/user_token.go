package entity

import (
	"time"

	"github.com/google/uuid"
)

type TokenPurpose string

const (
	TokenPurposeVerify TokenPurpose = "verify"
	TokenPurposeReset  TokenPurpose = "reset"
)

// UserToken is a one-time verification or password reset code.
type UserToken struct {
	BaseSimple
	UserID    uuid.UUID    `db:"user_id"`
	Email     string       `db:"email"`
	Token     string       `db:"token"`
	Purpose   TokenPurpose `db:"purpose"`
	ExpiresAt time.Time    `db:"expires_at"`
	UsedAt    *time.Time   `db:"used_at"`
	Attempts  int          `db:"attempts"`
}
