package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/oakmart/shopcore/internal/domain"
	pkgkafka "github.com/oakmart/shopcore/pkg/kafka"
)

// Kafka topic constants for shopcore domain events.
const (
	TopicOfferRedeemed = "shopcore.offer.redeemed"
	TopicReviewCreated = "shopcore.review.created"
	TopicReviewDeleted = "shopcore.review.deleted"
	TopicOrderCreated  = "shopcore.order.created"
)

// Aggregate type constants.
const (
	AggregateTypeOffer  = "offer"
	AggregateTypeReview = "review"
	AggregateTypeOrder  = "order"
)

// Source identifier for events originating from this service.
const SourceShopcore = "shopcore"

// OfferRedeemedData is the payload for an offer.redeemed event.
type OfferRedeemedData struct {
	OfferID           string `json:"offer_id"`
	ProductID         string `json:"product_id"`
	UserID            string `json:"user_id"`
	RemainingQuantity int    `json:"remaining_quantity"`
}

// ReviewCreatedData is the payload for a review.created event.
type ReviewCreatedData struct {
	ReviewID  string `json:"review_id"`
	ProductID string `json:"product_id"`
	UserID    string `json:"user_id"`
	Rating    int    `json:"rating"`
}

// ReviewDeletedData is the payload for a review.deleted event.
type ReviewDeletedData struct {
	ReviewID  string `json:"review_id"`
	ProductID string `json:"product_id"`
}

// OrderCreatedData is the payload for an order.created event.
type OrderCreatedData struct {
	OrderID     string `json:"order_id"`
	UserID      string `json:"user_id"`
	TotalAmount int64  `json:"total_amount"`
	Currency    string `json:"currency"`
	ItemCount   int    `json:"item_count"`
}

// Producer publishes shopcore domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishOfferRedeemed publishes an offer.redeemed event.
func (p *Producer) PublishOfferRedeemed(ctx context.Context, offerID, productID, userID string, remaining int) error {
	data := OfferRedeemedData{
		OfferID:           offerID,
		ProductID:         productID,
		UserID:            userID,
		RemainingQuantity: remaining,
	}

	event, err := pkgkafka.NewEvent(TopicOfferRedeemed, offerID, AggregateTypeOffer, SourceShopcore, data)
	if err != nil {
		return fmt.Errorf("create offer.redeemed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOfferRedeemed, event); err != nil {
		return fmt.Errorf("publish offer.redeemed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published offer.redeemed event",
		slog.String("offer_id", offerID),
		slog.Int("remaining_quantity", remaining),
	)

	return nil
}

// PublishReviewCreated publishes a review.created event.
func (p *Producer) PublishReviewCreated(ctx context.Context, review *domain.Review) error {
	data := ReviewCreatedData{
		ReviewID:  review.ID,
		ProductID: review.ProductID,
		UserID:    review.UserID,
		Rating:    review.Rating,
	}

	event, err := pkgkafka.NewEvent(TopicReviewCreated, review.ID, AggregateTypeReview, SourceShopcore, data)
	if err != nil {
		return fmt.Errorf("create review.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewCreated, event); err != nil {
		return fmt.Errorf("publish review.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.created event",
		slog.String("review_id", review.ID),
		slog.String("product_id", review.ProductID),
	)

	return nil
}

// PublishReviewDeleted publishes a review.deleted event.
func (p *Producer) PublishReviewDeleted(ctx context.Context, reviewID, productID string) error {
	data := ReviewDeletedData{
		ReviewID:  reviewID,
		ProductID: productID,
	}

	event, err := pkgkafka.NewEvent(TopicReviewDeleted, reviewID, AggregateTypeReview, SourceShopcore, data)
	if err != nil {
		return fmt.Errorf("create review.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewDeleted, event); err != nil {
		return fmt.Errorf("publish review.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.deleted event",
		slog.String("review_id", reviewID),
	)

	return nil
}

// PublishOrderCreated publishes an order.created event.
func (p *Producer) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	data := OrderCreatedData{
		OrderID:     order.ID,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		Currency:    order.Currency,
		ItemCount:   len(order.Items),
	}

	event, err := pkgkafka.NewEvent(TopicOrderCreated, order.ID, AggregateTypeOrder, SourceShopcore, data)
	if err != nil {
		return fmt.Errorf("create order.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderCreated, event); err != nil {
		return fmt.Errorf("publish order.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.created event",
		slog.String("order_id", order.ID),
		slog.String("user_id", order.UserID),
	)

	return nil
}
