package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/oakmart/shopcore/internal/domain"
	"github.com/oakmart/shopcore/internal/event"
	"github.com/oakmart/shopcore/internal/repository"
	apperrors "github.com/oakmart/shopcore/pkg/errors"
)

// OfferService implements the business logic for offer operations.
type OfferService struct {
	repo     repository.OfferRepository
	products repository.ProductRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewOfferService creates a new offer service.
func NewOfferService(repo repository.OfferRepository, products repository.ProductRepository, producer *event.Producer, logger *slog.Logger) *OfferService {
	return &OfferService{
		repo:     repo,
		products: products,
		producer: producer,
		logger:   logger,
	}
}

// CreateOfferInput holds the parameters for creating an offer.
type CreateOfferInput struct {
	ProductID       string
	Name            string
	DiscountPercent int
	StartDate       time.Time
	EndDate         time.Time
	TotalQuantity   int
}

// UpdateOfferInput holds the parameters for updating an offer. Quantities are
// deliberately not updatable: the remaining count only moves through
// redemptions.
type UpdateOfferInput struct {
	Name            *string
	DiscountPercent *int
	StartDate       *time.Time
	EndDate         *time.Time
}

// Redemption is the result of a successful offer redemption.
type Redemption struct {
	OfferID           string `json:"offer_id"`
	ProductID         string `json:"product_id"`
	RemainingQuantity int    `json:"remaining_quantity"`
	DiscountedPrice   int64  `json:"discounted_price"`
}

// CreateOffer creates a new offer with the given input.
func (s *OfferService) CreateOffer(ctx context.Context, input *CreateOfferInput) (*domain.Offer, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("offer name is required")
	}
	if input.DiscountPercent < 0 || input.DiscountPercent > 100 {
		return nil, apperrors.InvalidInput("discount percent must be between 0 and 100")
	}
	if input.TotalQuantity <= 0 {
		return nil, apperrors.InvalidInput("total quantity must be positive")
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, apperrors.InvalidInput("end date must be after start date")
	}

	if _, err := s.products.GetByID(ctx, input.ProductID); err != nil {
		return nil, fmt.Errorf("verify product: %w", err)
	}

	now := time.Now().UTC()
	offer := &domain.Offer{
		ID:                uuid.New().String(),
		ProductID:         input.ProductID,
		Name:              input.Name,
		DiscountPercent:   input.DiscountPercent,
		StartDate:         input.StartDate,
		EndDate:           input.EndDate,
		TotalQuantity:     input.TotalQuantity,
		RemainingQuantity: input.TotalQuantity,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Create(ctx, offer); err != nil {
		return nil, fmt.Errorf("create offer: %w", err)
	}

	s.logger.InfoContext(ctx, "offer created",
		slog.String("offer_id", offer.ID),
		slog.String("product_id", offer.ProductID),
		slog.Int("total_quantity", offer.TotalQuantity),
	)

	return offer, nil
}

// GetOffer retrieves an offer by its ID.
func (s *OfferService) GetOffer(ctx context.Context, id string) (*domain.Offer, error) {
	offer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get offer by id: %w", err)
	}
	return offer, nil
}

// ListActiveOffers returns offers currently inside their validity window with
// quantity remaining, joined with product details.
func (s *OfferService) ListActiveOffers(ctx context.Context, page, perPage int) ([]domain.ActiveOffer, int, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	offers, total, err := s.repo.ListActive(ctx, time.Now().UTC(), page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list active offers: %w", err)
	}

	return offers, total, nil
}

// RedeemOffer consumes one unit of an offer for the given user. The offer
// must be inside its validity window; the quantity decrement itself is
// delegated to the store so concurrent redemptions can never oversell.
func (s *OfferService) RedeemOffer(ctx context.Context, id, userID string) (*Redemption, error) {
	offer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get offer for redemption: %w", err)
	}

	now := time.Now().UTC()
	if now.Before(offer.StartDate) {
		return nil, apperrors.InvalidInput("offer has not started yet")
	}
	if now.After(offer.EndDate) {
		return nil, apperrors.InvalidInput("offer has expired")
	}

	remaining, err := s.repo.Redeem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("redeem offer: %w", err)
	}

	product, err := s.products.GetByID(ctx, offer.ProductID)
	if err != nil {
		return nil, fmt.Errorf("get product for redemption: %w", err)
	}

	if err := s.producer.PublishOfferRedeemed(ctx, offer.ID, offer.ProductID, userID, remaining); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish offer.redeemed event",
			slog.String("offer_id", offer.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "offer redeemed",
		slog.String("offer_id", offer.ID),
		slog.String("user_id", userID),
		slog.Int("remaining_quantity", remaining),
	)

	return &Redemption{
		OfferID:           offer.ID,
		ProductID:         offer.ProductID,
		RemainingQuantity: remaining,
		DiscountedPrice:   domain.DiscountedPrice(product.Price, offer.DiscountPercent),
	}, nil
}

// UpdateOffer applies partial updates to an existing offer.
func (s *OfferService) UpdateOffer(ctx context.Context, id string, input *UpdateOfferInput) (*domain.Offer, error) {
	offer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get offer for update: %w", err)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.InvalidInput("offer name must not be empty")
		}
		offer.Name = *input.Name
	}

	if input.DiscountPercent != nil {
		if *input.DiscountPercent < 0 || *input.DiscountPercent > 100 {
			return nil, apperrors.InvalidInput("discount percent must be between 0 and 100")
		}
		offer.DiscountPercent = *input.DiscountPercent
	}

	if input.StartDate != nil {
		offer.StartDate = *input.StartDate
	}

	if input.EndDate != nil {
		offer.EndDate = *input.EndDate
	}

	if !offer.EndDate.After(offer.StartDate) {
		return nil, apperrors.InvalidInput("end date must be after start date")
	}

	if err := s.repo.Update(ctx, offer); err != nil {
		return nil, fmt.Errorf("update offer: %w", err)
	}

	s.logger.InfoContext(ctx, "offer updated", slog.String("offer_id", offer.ID))

	return offer, nil
}

// DeleteOffer removes an offer by its ID.
func (s *OfferService) DeleteOffer(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete offer: %w", err)
	}

	s.logger.InfoContext(ctx, "offer deleted", slog.String("offer_id", id))

	return nil
}
