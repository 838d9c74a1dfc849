package usecase

import (
	"context"
	"fmt"

	"shop-api/internal/data/entity"
	"shop-api/internal/data/repository"
	"shop-api/internal/dto/request"
	"shop-api/internal/dto/response"
	"shop-api/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error)
	// ChangePassword also revokes every refresh session of the user.
	ChangePassword(ctx context.Context, userID uuid.UUID, req *request.ChangePasswordRequest) error
}

type userService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewUserService(repo *repository.Repository, log *zap.Logger) UserService {
	return &userService{
		repo: repo,
		log:  log.With(zap.String("service", "user")),
	}
}

func (us *userService) findUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := us.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, newError(ErrNotFound, "User not found")
	}
	return user, nil
}

func (us *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := us.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := us.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Only fields present in the request change
	if req.FullName != nil {
		user.FullName = req.FullName
	}
	if req.Avatar != nil {
		user.Avatar = req.Avatar
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Gender != nil {
		g := entity.Gender(*req.Gender)
		user.Gender = &g
	}
	if req.Address != nil {
		user.Address = req.Address
	}

	if err := us.repo.User.UpdateProfile(ctx, user); err != nil {
		return nil, notFoundAs(err, "User not found")
	}

	us.log.Info("Profile updated", zap.String("user_id", userID.String()))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) ChangePassword(ctx context.Context, userID uuid.UUID, req *request.ChangePasswordRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	user, err := us.findUser(ctx, userID)
	if err != nil {
		return err
	}
	if !utils.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		return newError(ErrInvalidInput, "Current password is incorrect")
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := us.repo.User.UpdatePassword(ctx, userID, hashed); err != nil {
		return err
	}
	if err := us.repo.Session.RevokeAllUserSessions(ctx, userID); err != nil {
		return err
	}

	us.log.Info("Password changed", zap.String("user_id", userID.String()))
	return nil
}
