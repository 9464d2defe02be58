package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/oakmart/shopcore/internal/domain"
	"github.com/oakmart/shopcore/internal/repository"
)

// WishlistService implements the business logic for wishlist operations.
type WishlistService struct {
	repo     repository.WishlistRepository
	products repository.ProductRepository
	logger   *slog.Logger
}

// NewWishlistService creates a new wishlist service.
func NewWishlistService(repo repository.WishlistRepository, products repository.ProductRepository, logger *slog.Logger) *WishlistService {
	return &WishlistService{
		repo:     repo,
		products: products,
		logger:   logger,
	}
}

// GetWishlist retrieves the user's wishlist.
func (s *WishlistService) GetWishlist(ctx context.Context, userID string) (*domain.Wishlist, error) {
	wishlist, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get wishlist: %w", err)
	}
	return wishlist, nil
}

// AddProduct saves a product to the user's wishlist. Adding the same product
// twice is a no-op.
func (s *WishlistService) AddProduct(ctx context.Context, userID, productID string) error {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return fmt.Errorf("verify product: %w", err)
	}

	if err := s.repo.Add(ctx, userID, productID); err != nil {
		return fmt.Errorf("add to wishlist: %w", err)
	}

	s.logger.InfoContext(ctx, "wishlist product added",
		slog.String("user_id", userID),
		slog.String("product_id", productID),
	)

	return nil
}

// RemoveProduct takes a product off the user's wishlist.
func (s *WishlistService) RemoveProduct(ctx context.Context, userID, productID string) error {
	if err := s.repo.Remove(ctx, userID, productID); err != nil {
		return fmt.Errorf("remove from wishlist: %w", err)
	}
	return nil
}

// ClearWishlist removes the user's entire wishlist.
func (s *WishlistService) ClearWishlist(ctx context.Context, userID string) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return fmt.Errorf("clear wishlist: %w", err)
	}
	return nil
}
