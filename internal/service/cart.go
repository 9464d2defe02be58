package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/oakmart/shopcore/internal/domain"
	"github.com/oakmart/shopcore/internal/repository"
	apperrors "github.com/oakmart/shopcore/pkg/errors"
)

// maxCartQuantity caps the quantity of a single cart line.
const maxCartQuantity = 99

// CartService implements the business logic for cart operations.
type CartService struct {
	repo     repository.CartRepository
	products repository.ProductRepository
	offers   repository.OfferRepository
	logger   *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, products repository.ProductRepository, offers repository.OfferRepository, logger *slog.Logger) *CartService {
	return &CartService{
		repo:     repo,
		products: products,
		offers:   offers,
		logger:   logger,
	}
}

// AddItemInput holds the parameters for adding an item to the cart.
type AddItemInput struct {
	ProductID string
	Quantity  int
	OfferID   string
}

// GetCart retrieves the user's cart. A user without a cart gets an empty one.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return emptyCart(userID), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}

// AddItem adds a product to the user's cart, snapshotting the current price.
// When an offer is referenced the snapshot uses the discounted price, but the
// offer unit itself is only consumed at checkout.
func (s *CartService) AddItem(ctx context.Context, userID string, input *AddItemInput) (*domain.Cart, error) {
	if input.Quantity <= 0 {
		return nil, apperrors.InvalidInput("quantity must be positive")
	}
	if input.Quantity > maxCartQuantity {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", maxCartQuantity))
	}

	product, err := s.products.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, fmt.Errorf("get product for cart: %w", err)
	}
	if product.Status != domain.ProductStatusPublished {
		return nil, apperrors.InvalidInput("product is not available for purchase")
	}

	price := product.Price
	if input.OfferID != "" {
		offer, err := s.offers.GetByID(ctx, input.OfferID)
		if err != nil {
			return nil, fmt.Errorf("get offer for cart: %w", err)
		}
		if offer.ProductID != product.ID {
			return nil, apperrors.InvalidInput("offer does not apply to this product")
		}
		if !offer.IsActive(time.Now().UTC()) {
			return nil, apperrors.InvalidInput("offer is not active")
		}
		price = domain.DiscountedPrice(product.Price, offer.DiscountPercent)
	}

	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if idx := cart.FindItemIndex(product.ID); idx >= 0 {
		cart.Items[idx].Quantity += input.Quantity
		if cart.Items[idx].Quantity > maxCartQuantity {
			cart.Items[idx].Quantity = maxCartQuantity
		}
		cart.Items[idx].Price = price
		cart.Items[idx].OfferID = input.OfferID
	} else {
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     price,
			Quantity:  input.Quantity,
			ImageURL:  product.ImageURL,
			OfferID:   input.OfferID,
		})
	}

	cart.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	s.logger.InfoContext(ctx, "cart item added",
		slog.String("user_id", userID),
		slog.String("product_id", product.ID),
		slog.Int("quantity", input.Quantity),
	)

	return cart, nil
}

// UpdateItemQuantity changes the quantity of a cart line. Quantity zero
// removes the line.
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if quantity < 0 {
		return nil, apperrors.InvalidInput("quantity must not be negative")
	}
	if quantity > maxCartQuantity {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", maxCartQuantity))
	}

	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	idx := cart.FindItemIndex(productID)
	if idx < 0 {
		return nil, apperrors.NotFound("cart item", productID)
	}

	if quantity == 0 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	} else {
		cart.Items[idx].Quantity = quantity
	}

	cart.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	return cart, nil
}

// RemoveItem removes a product from the user's cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	return s.UpdateItemQuantity(ctx, userID, productID, 0)
}

// ClearCart removes the user's entire cart.
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	s.logger.InfoContext(ctx, "cart cleared", slog.String("user_id", userID))

	return nil
}

func emptyCart(userID string) *domain.Cart {
	now := time.Now().UTC()
	return &domain.Cart{
		ID:        uuid.New().String(),
		UserID:    userID,
		Items:     []domain.CartItem{},
		Currency:  "USD",
		CreatedAt: now,
		UpdatedAt: now,
	}
}
