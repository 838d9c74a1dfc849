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

type UserTokenRepository interface {
	// Create stores token and invalidates earlier unused tokens of the same purpose.
	Create(ctx context.Context, token *entity.UserToken) error
	FindValid(ctx context.Context, email, token string, purpose entity.TokenPurpose) (*entity.UserToken, error)
	MarkAsUsed(ctx context.Context, id uuid.UUID) error
	// RecordFailure counts a wrong guess against the user's live token of the
	// given purpose and burns the token once maxAttempts is reached.
	RecordFailure(ctx context.Context, userID uuid.UUID, purpose entity.TokenPurpose, maxAttempts int) error
}

type userTokenRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserTokenRepository(db database.PgxIface, log *zap.Logger) UserTokenRepository {
	return &userTokenRepository{
		db:  db,
		log: log.With(zap.String("repository", "user_token")),
	}
}

func (r *userTokenRepository) Create(ctx context.Context, token *entity.UserToken) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin token tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		UPDATE user_tokens SET used_at = NOW()
		WHERE user_id = $1 AND purpose = $2 AND used_at IS NULL
	`, token.UserID, token.Purpose)
	if err != nil {
		r.log.Error("Failed to invalidate previous tokens", zap.Error(err), zap.String("email", token.Email))
		return fmt.Errorf("invalidate %s tokens for %s: %w", token.Purpose, token.Email, err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO user_tokens (id, user_id, email, token, purpose, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		token.ID,
		token.UserID,
		token.Email,
		token.Token,
		token.Purpose,
		token.ExpiresAt,
		token.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create token",
			zap.Error(err),
			zap.String("email", token.Email),
			zap.String("purpose", string(token.Purpose)),
		)
		return fmt.Errorf("create %s token for %s: %w", token.Purpose, token.Email, err)
	}

	return tx.Commit(ctx)
}

func (r *userTokenRepository) FindValid(ctx context.Context, email, token string, purpose entity.TokenPurpose) (*entity.UserToken, error) {
	query := `
		SELECT id, user_id, email, token, purpose, expires_at, used_at, attempts, created_at
		FROM user_tokens
		WHERE lower(email) = lower($1)
		  AND token = $2
		  AND purpose = $3
		  AND used_at IS NULL
		  AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1
	`

	var t entity.UserToken
	err := r.db.QueryRow(ctx, query, email, token, purpose).Scan(
		&t.ID,
		&t.UserID,
		&t.Email,
		&t.Token,
		&t.Purpose,
		&t.ExpiresAt,
		&t.UsedAt,
		&t.Attempts,
		&t.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find token", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("find %s token for %s: %w", purpose, email, err)
	}

	return &t, nil
}

func (r *userTokenRepository) MarkAsUsed(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE user_tokens SET used_at = NOW() WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to mark token as used", zap.Error(err), zap.String("token_id", id.String()))
		return fmt.Errorf("mark token %s used: %w", id, err)
	}
	return nil
}

func (r *userTokenRepository) RecordFailure(ctx context.Context, userID uuid.UUID, purpose entity.TokenPurpose, maxAttempts int) error {
	_, err := r.db.Exec(ctx, `
		UPDATE user_tokens
		SET attempts = attempts + 1,
		    used_at = CASE WHEN attempts + 1 >= $3 THEN NOW() ELSE used_at END
		WHERE user_id = $1 AND purpose = $2 AND used_at IS NULL
	`, userID, purpose, maxAttempts)
	if err != nil {
		r.log.Error("Failed to record token attempt", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("record %s token attempt for %s: %w", purpose, userID, err)
	}
	return nil
}
