package usecase

import (
	"context"
	"strings"
	"time"

	"shop-api/internal/data/entity"
	"shop-api/internal/data/repository"
	"shop-api/internal/dto/request"
	"shop-api/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CommentService interface {
	AddComment(ctx context.Context, userID uuid.UUID, req *request.CreateCommentRequest) (*response.CommentResponse, error)
	GetProductComments(ctx context.Context, productID string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.CommentResponse], error)
	// DeleteComment is allowed for the author only.
	DeleteComment(ctx context.Context, userID uuid.UUID, commentID string) error
}

type commentService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCommentService(repo *repository.Repository, log *zap.Logger) CommentService {
	return &commentService{
		repo: repo,
		log:  log.With(zap.String("service", "comment")),
	}
}

func (s *commentService) AddComment(ctx context.Context, userID uuid.UUID, req *request.CreateCommentRequest) (*response.CommentResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, newError(ErrInvalidInput, "Content must not be empty")
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		return nil, newError(ErrInvalidInput, "Rating must be between 1 and 5")
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, newError(ErrInvalidInput, "Invalid product id")
	}
	product, err := s.repo.Product.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, newError(ErrNotFound, "Product not found")
	}

	comment := &entity.Comment{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		UserID:     userID,
		ProductID:  productID,
		Content:    content,
		Rating:     req.Rating,
	}
	if err := s.repo.Comment.Create(ctx, comment); err != nil {
		return nil, err
	}

	author, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		s.log.Warn("Failed to load comment author", zap.Error(err), zap.String("user_id", userID.String()))
	} else if author != nil {
		comment.Author = &entity.UserProfile{
			ID:       author.ID.String(),
			Username: author.Username,
			FullName: author.FullName,
			Avatar:   author.Avatar,
		}
	}

	resp := response.CommentToResponse(comment)
	return &resp, nil
}

func (s *commentService) GetProductComments(ctx context.Context, productID string, page *request.PaginatedRequest) (*response.PaginatedResponse[response.CommentResponse], error) {
	id, err := uuid.Parse(productID)
	if err != nil {
		return nil, newError(ErrInvalidInput, "Invalid product id")
	}

	comments, total, err := s.repo.Comment.ListByProduct(ctx, id, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}

	out := make([]response.CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, response.CommentToResponse(c))
	}
	return response.NewPaginatedResponse(out, page.Page, page.Limit(), total), nil
}

func (s *commentService) DeleteComment(ctx context.Context, userID uuid.UUID, commentID string) error {
	id, err := uuid.Parse(commentID)
	if err != nil {
		return newError(ErrInvalidInput, "Invalid comment id")
	}

	comment, err := s.repo.Comment.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if comment == nil {
		return newError(ErrNotFound, "Comment not found")
	}
	if comment.UserID != userID {
		return newError(ErrForbidden, "You can only delete your own comments")
	}

	if err := s.repo.Comment.Delete(ctx, comment); err != nil {
		return notFoundAs(err, "Comment not found")
	}

	s.log.Info("Comment deleted",
		zap.String("comment_id", id.String()),
		zap.String("product_id", comment.ProductID.String()),
	)
	return nil
}
