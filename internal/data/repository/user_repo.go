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

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	UpdateProfile(ctx context.Context, user *entity.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	Activate(ctx context.Context, id uuid.UUID) error
}

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

const userColumns = `id, email, username, password, full_name, avatar, phone, gender, address,
		       role, is_active, created_at, updated_at, deleted_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.PasswordHash,
		&u.FullName,
		&u.Avatar,
		&u.Phone,
		&u.Gender,
		&u.Address,
		&u.Role,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user. Unique violations on email/username are returned wrapped.
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, email, username, password, full_name, phone, role,
		                   is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Email,
		user.Username,
		user.PasswordHash,
		user.FullName,
		user.Phone,
		user.Role,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if !database.IsUniqueViolation(err) {
			ur.log.Error("Failed to create user",
				zap.Error(err),
				zap.String("email", user.Email),
			)
		}
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}

	return nil
}

func (ur *userRepository) findOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where + ` AND deleted_at IS NULL`

	user, err := scanUser(ur.db.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user", zap.Error(err), zap.String("where", where))
		return nil, fmt.Errorf("find user by %s: %w", where, err)
	}
	return user, nil
}

func (ur *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return ur.findOne(ctx, "id = $1", id)
}

func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return ur.findOne(ctx, "lower(email) = lower($1)", email)
}

func (ur *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return ur.findOne(ctx, "username = $1", username)
}

// UpdateProfile writes the mutable profile fields. Email, username and role never change here.
func (ur *userRepository) UpdateProfile(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET full_name = $2, avatar = $3, phone = $4, gender = $5, address = $6, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := ur.db.Exec(ctx, query,
		user.ID,
		user.FullName,
		user.Avatar,
		user.Phone,
		user.Gender,
		user.Address,
	)
	if err != nil {
		ur.log.Error("Failed to update user profile", zap.Error(err), zap.String("user_id", user.ID.String()))
		return fmt.Errorf("update user %s: %w", user.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", user.ID, ErrNotFound)
	}
	return nil
}

func (ur *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	result, err := ur.db.Exec(ctx,
		`UPDATE users SET password = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`,
		id, passwordHash)
	if err != nil {
		ur.log.Error("Failed to update password", zap.Error(err), zap.String("user_id", id.String()))
		return fmt.Errorf("update password for %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return nil
}

func (ur *userRepository) Activate(ctx context.Context, id uuid.UUID) error {
	result, err := ur.db.Exec(ctx,
		`UPDATE users SET is_active = TRUE, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		ur.log.Error("Failed to activate user", zap.Error(err), zap.String("user_id", id.String()))
		return fmt.Errorf("activate user %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}

	ur.log.Info("User activated", zap.String("user_id", id.String()))
	return nil
}
