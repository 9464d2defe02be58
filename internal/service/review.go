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

// ReviewService implements the business logic for review operations.
type ReviewService struct {
	repo     repository.ReviewRepository
	products repository.ProductRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(repo repository.ReviewRepository, products repository.ProductRepository, producer *event.Producer, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		repo:     repo,
		products: products,
		producer: producer,
		logger:   logger,
	}
}

// CreateReviewInput holds the parameters for creating a review. Rating
// accepts fractional input and is rounded to the nearest whole star before
// validation and storage.
type CreateReviewInput struct {
	ProductID        string
	UserID           string
	Rating           float64
	Comment          string
	VerifiedPurchase bool
}

// UpdateReviewInput holds the parameters for updating a review.
type UpdateReviewInput struct {
	Rating  *float64
	Comment *string
}

// CreateReview creates a new review for a product. A user may review a
// product at most once.
func (s *ReviewService) CreateReview(ctx context.Context, input *CreateReviewInput) (*domain.Review, error) {
	if input.UserID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}

	rating := domain.NormalizeRating(input.Rating)
	if rating < 1 || rating > 5 {
		return nil, apperrors.InvalidInput("rating must be between 1 and 5")
	}

	if _, err := s.products.GetByID(ctx, input.ProductID); err != nil {
		return nil, fmt.Errorf("verify product: %w", err)
	}

	now := time.Now().UTC()
	review := &domain.Review{
		ID:               uuid.New().String(),
		ProductID:        input.ProductID,
		UserID:           input.UserID,
		Rating:           rating,
		Comment:          input.Comment,
		VerifiedPurchase: input.VerifiedPurchase,
		Helpful:          0,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	if err := s.producer.PublishReviewCreated(ctx, review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.created event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "review created",
		slog.String("review_id", review.ID),
		slog.String("product_id", review.ProductID),
		slog.Int("rating", review.Rating),
	)

	return review, nil
}

// GetReview retrieves a review by its ID.
func (s *ReviewService) GetReview(ctx context.Context, id string) (*domain.Review, error) {
	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get review by id: %w", err)
	}
	return review, nil
}

// ListReviews returns paginated reviews for a product.
func (s *ReviewService) ListReviews(ctx context.Context, productID string, filter repository.ReviewFilter) ([]domain.Review, int, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}
	if filter.Rating != nil && (*filter.Rating < 1 || *filter.Rating > 5) {
		return nil, 0, apperrors.InvalidInput("rating filter must be between 1 and 5")
	}

	reviews, total, err := s.repo.ListByProductID(ctx, productID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}

	return reviews, total, nil
}

// UpdateReview modifies a review. Only the review's author may update it.
func (s *ReviewService) UpdateReview(ctx context.Context, id, userID string, input *UpdateReviewInput) (*domain.Review, error) {
	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get review for update: %w", err)
	}

	if review.UserID != userID {
		return nil, apperrors.Forbidden("only the review author may update it")
	}

	if input.Rating != nil {
		rating := domain.NormalizeRating(*input.Rating)
		if rating < 1 || rating > 5 {
			return nil, apperrors.InvalidInput("rating must be between 1 and 5")
		}
		review.Rating = rating
	}

	if input.Comment != nil {
		review.Comment = *input.Comment
	}

	if err := s.repo.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	s.logger.InfoContext(ctx, "review updated", slog.String("review_id", review.ID))

	return review, nil
}

// DeleteReview removes a review. The author may delete their own review; an
// admin may delete any review.
func (s *ReviewService) DeleteReview(ctx context.Context, id, userID string, isAdmin bool) error {
	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get review for delete: %w", err)
	}

	if !isAdmin && review.UserID != userID {
		return apperrors.Forbidden("only the review author may delete it")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	if err := s.producer.PublishReviewDeleted(ctx, review.ID, review.ProductID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.deleted event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "review deleted",
		slog.String("review_id", review.ID),
		slog.String("product_id", review.ProductID),
	)

	return nil
}

// GetReviewStats returns aggregate statistics over a product's review set.
func (s *ReviewService) GetReviewStats(ctx context.Context, productID string) (*domain.ReviewStats, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, fmt.Errorf("verify product: %w", err)
	}

	stats, err := s.repo.GetStats(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get review stats: %w", err)
	}

	return stats, nil
}

// MarkHelpful bumps a review's helpful counter by one.
func (s *ReviewService) MarkHelpful(ctx context.Context, id string) error {
	if err := s.repo.IncrementHelpful(ctx, id); err != nil {
		return fmt.Errorf("mark review helpful: %w", err)
	}
	return nil
}
