package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oakmart/shopcore/internal/domain"
	"github.com/oakmart/shopcore/internal/repository"
	apperrors "github.com/oakmart/shopcore/pkg/errors"
)

// CouponService implements the business logic for coupon operations.
type CouponService struct {
	repo   repository.CouponRepository
	logger *slog.Logger
}

// NewCouponService creates a new coupon service.
func NewCouponService(repo repository.CouponRepository, logger *slog.Logger) *CouponService {
	return &CouponService{
		repo:   repo,
		logger: logger,
	}
}

// CreateCouponInput holds the parameters for creating a coupon.
type CreateCouponInput struct {
	Code            string
	Description     string
	DiscountType    string
	DiscountValue   int64
	MinimumPurchase int64
	MaxUses         *int
	StartDate       time.Time
	ExpiryDate      time.Time
}

// CouponValidation holds the result of a coupon validation.
type CouponValidation struct {
	Valid          bool   `json:"valid"`
	CouponID       string `json:"coupon_id,omitempty"`
	DiscountAmount int64  `json:"discount_amount"`
	Message        string `json:"message"`
}

// CreateCoupon creates a new coupon with the given input.
func (s *CouponService) CreateCoupon(ctx context.Context, input *CreateCouponInput) (*domain.Coupon, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, apperrors.InvalidInput("coupon code is required")
	}
	if !domain.IsValidCouponType(input.DiscountType) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid discount type %q", input.DiscountType))
	}
	if input.DiscountValue <= 0 {
		return nil, apperrors.InvalidInput("discount value must be positive")
	}
	if input.DiscountType == domain.CouponTypePercentage && input.DiscountValue > 100 {
		return nil, apperrors.InvalidInput("percentage discount must not exceed 100")
	}
	if input.MinimumPurchase < 0 {
		return nil, apperrors.InvalidInput("minimum purchase must not be negative")
	}
	if input.MaxUses != nil && *input.MaxUses <= 0 {
		return nil, apperrors.InvalidInput("max uses must be positive")
	}
	if !input.ExpiryDate.After(input.StartDate) {
		return nil, apperrors.InvalidInput("expiry date must be after start date")
	}

	now := time.Now().UTC()
	coupon := &domain.Coupon{
		ID:              uuid.New().String(),
		Code:            code,
		Description:     input.Description,
		DiscountType:    input.DiscountType,
		DiscountValue:   input.DiscountValue,
		MinimumPurchase: input.MinimumPurchase,
		MaxUses:         input.MaxUses,
		UsedCount:       0,
		IsActive:        true,
		StartDate:       input.StartDate,
		ExpiryDate:      input.ExpiryDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, coupon); err != nil {
		return nil, fmt.Errorf("create coupon: %w", err)
	}

	s.logger.InfoContext(ctx, "coupon created",
		slog.String("coupon_id", coupon.ID),
		slog.String("code", coupon.Code),
	)

	return coupon, nil
}

// ListCoupons returns paginated coupons.
func (s *CouponService) ListCoupons(ctx context.Context, page, perPage int) ([]domain.Coupon, int, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	coupons, total, err := s.repo.List(ctx, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list coupons: %w", err)
	}

	return coupons, total, nil
}

// ValidateCoupon checks whether a coupon can be applied to an order of the
// given amount without consuming a use.
func (s *CouponService) ValidateCoupon(ctx context.Context, code string, orderAmount int64) (*CouponValidation, error) {
	coupon, err := s.repo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &CouponValidation{Valid: false, Message: "coupon not found"}, nil
		}
		return nil, fmt.Errorf("get coupon by code: %w", err)
	}

	now := time.Now().UTC()

	switch {
	case !coupon.IsActive:
		return &CouponValidation{Valid: false, Message: "coupon is not active"}, nil
	case now.Before(coupon.StartDate):
		return &CouponValidation{Valid: false, Message: "coupon is not valid yet"}, nil
	case coupon.IsExpired(now):
		return &CouponValidation{Valid: false, Message: "coupon has expired"}, nil
	case coupon.IsMaxedOut():
		return &CouponValidation{Valid: false, Message: "coupon usage limit reached"}, nil
	case orderAmount < coupon.MinimumPurchase:
		return &CouponValidation{Valid: false, Message: "order amount below coupon minimum"}, nil
	}

	return &CouponValidation{
		Valid:          true,
		CouponID:       coupon.ID,
		DiscountAmount: coupon.Discount(orderAmount),
		Message:        "coupon is valid",
	}, nil
}

// ApplyCoupon validates a coupon and consumes one use. The usage increment is
// guarded in the store, so a coupon can never be applied past its limit even
// under concurrent checkouts.
func (s *CouponService) ApplyCoupon(ctx context.Context, code string, orderAmount int64) (*CouponValidation, error) {
	validation, err := s.ValidateCoupon(ctx, code, orderAmount)
	if err != nil {
		return nil, err
	}
	if !validation.Valid {
		return nil, apperrors.InvalidInput(validation.Message)
	}

	if err := s.repo.IncrementUsage(ctx, validation.CouponID); err != nil {
		return nil, fmt.Errorf("apply coupon: %w", err)
	}

	s.logger.InfoContext(ctx, "coupon applied",
		slog.String("coupon_id", validation.CouponID),
		slog.Int64("discount_amount", validation.DiscountAmount),
	)

	return validation, nil
}

// DeleteCoupon removes a coupon by its ID.
func (s *CouponService) DeleteCoupon(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete coupon: %w", err)
	}

	s.logger.InfoContext(ctx, "coupon deleted", slog.String("coupon_id", id))

	return nil
}
