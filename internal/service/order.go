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

// OrderService implements the business logic for order operations. Checkout
// pulls the user's cart, consumes any referenced offer units, applies an
// optional coupon, and persists the order.
type OrderService struct {
	repo     repository.OrderRepository
	carts    repository.CartRepository
	coupons  *CouponService
	producer *event.Producer
	logger   *slog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	repo repository.OrderRepository,
	carts repository.CartRepository,
	coupons *CouponService,
	producer *event.Producer,
	logger *slog.Logger,
) *OrderService {
	return &OrderService{
		repo:     repo,
		carts:    carts,
		coupons:  coupons,
		producer: producer,
		logger:   logger,
	}
}

// CheckoutInput holds the parameters for creating an order from the cart.
type CheckoutInput struct {
	CouponCode string
}

// Checkout creates an order from the user's cart. Each cart line that
// references an offer consumes one redemption per unit; the redemptions run
// in the same transaction as the order insert, so a sold out offer fails the
// checkout with every offer quantity left as it was.
func (s *OrderService) Checkout(ctx context.Context, userID string, input *CheckoutInput) (*domain.Order, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart for checkout: %w", err)
	}
	if len(cart.Items) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	orderID := uuid.New().String()
	now := time.Now().UTC()

	items := make([]domain.OrderItem, 0, len(cart.Items))
	var (
		subtotal    int64
		redemptions []repository.OfferRedemption
	)

	for _, line := range cart.Items {
		item := domain.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   orderID,
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.Price,
			Quantity:  line.Quantity,
		}

		if line.OfferID != "" {
			redemptions = append(redemptions, repository.OfferRedemption{
				OfferID:   line.OfferID,
				ProductID: line.ProductID,
				Units:     line.Quantity,
			})
			offerID := line.OfferID
			item.OfferID = &offerID
		}

		subtotal += item.LineTotal()
		items = append(items, item)
	}

	var (
		discount   int64
		couponCode *string
	)

	if input.CouponCode != "" {
		validation, err := s.coupons.ApplyCoupon(ctx, input.CouponCode, subtotal)
		if err != nil {
			return nil, fmt.Errorf("apply coupon at checkout: %w", err)
		}
		discount = validation.DiscountAmount
		code := input.CouponCode
		couponCode = &code
	}

	order := &domain.Order{
		ID:             orderID,
		UserID:         userID,
		Status:         domain.OrderStatusPending,
		Items:          items,
		Subtotal:       subtotal,
		DiscountAmount: discount,
		TotalAmount:    subtotal - discount,
		Currency:       cart.Currency,
		CouponCode:     couponCode,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	redeemed, err := s.repo.Create(ctx, order, redemptions)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// Events go out only once the order is committed; a rolled back checkout
	// must not announce redemptions that never happened.
	for _, unit := range redeemed {
		if err := s.producer.PublishOfferRedeemed(ctx, unit.OfferID, unit.ProductID, userID, unit.Remaining); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish offer.redeemed event",
				slog.String("offer_id", unit.OfferID),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := s.carts.Delete(ctx, userID); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear cart after checkout",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		// The order is already persisted; a stale cart is recoverable.
	}

	if err := s.producer.PublishOrderCreated(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.created event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "order created",
		slog.String("order_id", order.ID),
		slog.String("user_id", userID),
		slog.Int64("total_amount", order.TotalAmount),
	)

	return order, nil
}

// GetOrder retrieves an order. Non-admin callers may only see their own orders.
func (s *OrderService) GetOrder(ctx context.Context, id, userID string, isAdmin bool) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order by id: %w", err)
	}

	if !isAdmin && order.UserID != userID {
		return nil, apperrors.Forbidden("order belongs to another user")
	}

	return order, nil
}

// ListOrders returns a filtered, paginated list of orders.
func (s *OrderService) ListOrders(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}

	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	return orders, total, nil
}

// CancelOrder cancels an order on behalf of its owner. Only pending orders
// can be cancelled this way; later stages require the admin status surface.
func (s *OrderService) CancelOrder(ctx context.Context, id, userID string) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order for cancel: %w", err)
	}

	if order.UserID != userID {
		return nil, apperrors.Forbidden("order belongs to another user")
	}
	if order.Status != domain.OrderStatusPending {
		return nil, apperrors.Conflict(fmt.Sprintf("cannot cancel order in status %s", order.Status))
	}

	if err := s.repo.UpdateStatus(ctx, id, domain.OrderStatusCancelled); err != nil {
		return nil, fmt.Errorf("cancel order: %w", err)
	}

	order.Status = domain.OrderStatusCancelled

	s.logger.InfoContext(ctx, "order cancelled",
		slog.String("order_id", id),
		slog.String("user_id", userID),
	)

	return order, nil
}

// UpdateOrderStatus moves an order to a new status, enforcing the allowed
// transitions.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	if !domain.IsValidOrderStatus(status) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid order status %q", status))
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order for status update: %w", err)
	}

	if !domain.CanTransition(order.Status, status) {
		return nil, apperrors.Conflict(fmt.Sprintf("cannot transition order from %s to %s", order.Status, status))
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	order.Status = status

	s.logger.InfoContext(ctx, "order status updated",
		slog.String("order_id", id),
		slog.String("status", status),
	)

	return order, nil
}
