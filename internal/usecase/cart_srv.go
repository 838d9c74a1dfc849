package usecase

import (
	"context"
	"fmt"

	"shop-api/internal/data/repository"
	"shop-api/internal/dto/request"
	"shop-api/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartService manages the single cart each user owns.
//
// Every mutating method persists its change and then re-reads the cart with
// the current product details joined in. The returned CartResponse always
// reflects the write that produced it.
type CartService interface {
	// GetOrCreateCart is idempotent: repeated calls return the same cart.
	GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*response.CartResponse, error)
	GetCart(ctx context.Context, userID uuid.UUID) (*response.CartResponse, error)
	// AddItem merges into an existing line for the product. The increment is atomic.
	AddItem(ctx context.Context, userID uuid.UUID, req *request.AddCartItemRequest) (*response.CartResponse, error)
	// UpdateItem overwrites the quantity; a quantity <= 0 removes the line.
	UpdateItem(ctx context.Context, userID uuid.UUID, itemID string, req *request.UpdateCartItemRequest) (*response.CartResponse, error)
	// RemoveItem succeeds even when the line is already gone.
	RemoveItem(ctx context.Context, userID uuid.UUID, itemID string) (*response.CartResponse, error)
	ClearCart(ctx context.Context, userID uuid.UUID) (*response.CartResponse, error)
}

type cartService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCartService(repo *repository.Repository, log *zap.Logger) CartService {
	return &cartService{
		repo: repo,
		log:  log.With(zap.String("service", "cart")),
	}
}

func (s *cartService) view(ctx context.Context, cartID uuid.UUID) (*response.CartResponse, error) {
	cart, err := s.repo.Cart.View(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, fmt.Errorf("cart %s vanished after write", cartID)
	}

	resp := response.CartToResponse(cart)
	return &resp, nil
}

func (s *cartService) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*response.CartResponse, error) {
	cartID, err := s.repo.Cart.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cartID)
}

func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*response.CartResponse, error) {
	return s.GetOrCreateCart(ctx, userID)
}

func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req *request.AddCartItemRequest) (*response.CartResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, newError(ErrInvalidInput, "Invalid product id")
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity < 1 {
		return nil, newError(ErrInvalidInput, "Quantity must be at least 1")
	}

	product, err := s.repo.Product.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, newError(ErrNotFound, "Product not found")
	}

	cartID, err := s.repo.Cart.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Cart.UpsertItem(ctx, cartID, product, quantity); err != nil {
		return nil, err
	}

	s.log.Debug("Item added to cart",
		zap.String("user_id", userID.String()),
		zap.String("product_id", productID.String()),
		zap.Int("quantity", quantity),
	)

	return s.view(ctx, cartID)
}

func (s *cartService) UpdateItem(ctx context.Context, userID uuid.UUID, itemID string, req *request.UpdateCartItemRequest) (*response.CartResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(itemID)
	if err != nil {
		return nil, newError(ErrInvalidInput, "Invalid item id")
	}

	cartID, err := s.repo.Cart.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	var found bool
	if *req.Quantity <= 0 {
		found, err = s.repo.Cart.DeleteItem(ctx, cartID, id)
	} else {
		found, err = s.repo.Cart.UpdateItemQuantity(ctx, cartID, id, *req.Quantity)
	}
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, newError(ErrNotFound, "Item not found in cart")
	}

	return s.view(ctx, cartID)
}

func (s *cartService) RemoveItem(ctx context.Context, userID uuid.UUID, itemID string) (*response.CartResponse, error) {
	id, err := uuid.Parse(itemID)
	if err != nil {
		return nil, newError(ErrInvalidInput, "Invalid item id")
	}

	cartID, err := s.repo.Cart.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.Cart.DeleteItem(ctx, cartID, id); err != nil {
		return nil, err
	}

	return s.view(ctx, cartID)
}

func (s *cartService) ClearCart(ctx context.Context, userID uuid.UUID) (*response.CartResponse, error) {
	cartID, err := s.repo.Cart.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Cart.Clear(ctx, cartID); err != nil {
		return nil, err
	}

	s.log.Info("Cart cleared", zap.String("user_id", userID.String()))
	return s.view(ctx, cartID)
}
