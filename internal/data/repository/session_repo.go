package repository

import (
	"context"
	"errors"
	"fmt"

	"shop-api/internal/data/entity"
	"shop-api/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	FindValid(ctx context.Context, tokenID uuid.UUID) (*entity.Session, error)
	Revoke(ctx context.Context, tokenID uuid.UUID) error
	RevokeAllUserSessions(ctx context.Context, userID uuid.UUID) error
}

type sessionRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSessionRepository(db database.PgxIface, log *zap.Logger) SessionRepository {
	return &sessionRepository{
		db:  db,
		log: log.With(zap.String("repository", "session")),
	}
}

func (r *sessionRepository) Create(ctx context.Context, session *entity.Session) error {
	query := `
		INSERT INTO sessions (id, user_id, token_id, user_agent, ip_address, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.TokenID,
		session.UserAgent,
		session.IPAddress,
		session.ExpiresAt,
		session.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create session",
			zap.Error(err),
			zap.String("user_id", session.UserID.String()),
		)
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

// FindValid returns the unrevoked, unexpired session for a refresh token id, or nil.
func (r *sessionRepository) FindValid(ctx context.Context, tokenID uuid.UUID) (*entity.Session, error) {
	query := `
		SELECT id, user_id, token_id, user_agent, ip_address, expires_at, revoked_at, created_at
		FROM sessions
		WHERE token_id = $1
		  AND revoked_at IS NULL
		  AND expires_at > NOW()
	`

	var session entity.Session
	err := r.db.QueryRow(ctx, query, tokenID).Scan(
		&session.ID,
		&session.UserID,
		&session.TokenID,
		&session.UserAgent,
		&session.IPAddress,
		&session.ExpiresAt,
		&session.RevokedAt,
		&session.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find session", zap.Error(err), zap.String("token_id", tokenID.String()))
		return nil, fmt.Errorf("find session %s: %w", tokenID, err)
	}

	return &session, nil
}

func (r *sessionRepository) Revoke(ctx context.Context, tokenID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`UPDATE sessions SET revoked_at = NOW() WHERE token_id = $1 AND revoked_at IS NULL`, tokenID)
	if err != nil {
		r.log.Error("Failed to revoke session", zap.Error(err), zap.String("token_id", tokenID.String()))
		return fmt.Errorf("revoke session %s: %w", tokenID, err)
	}
	return nil
}

func (r *sessionRepository) RevokeAllUserSessions(ctx context.Context, userID uuid.UUID) error {
	result, err := r.db.Exec(ctx,
		`UPDATE sessions SET revoked_at = NOW() WHERE user_id = $1 AND revoked_at IS NULL`, userID)
	if err != nil {
		r.log.Error("Failed to revoke user sessions", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("revoke sessions of %s: %w", userID, err)
	}

	r.log.Info("User sessions revoked",
		zap.String("user_id", userID.String()),
		zap.Int64("count", result.RowsAffected()),
	)
	return nil
}
