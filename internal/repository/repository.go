package repository

import (
	"context"
	"time"

	"github.com/oakmart/shopcore/internal/domain"
)

// ProductFilter defines filter criteria for listing products.
type ProductFilter struct {
	CategoryID *string
	Status     *string
	Search     *string
	MinPrice   *int64
	MaxPrice   *int64
	MinRating  *float64
	Page       int
	PerPage    int
}

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	// Create inserts a new product into the store.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// GetBySlug retrieves a product by its URL-friendly slug.
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)

	// List returns products matching the given filter along with the total count.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)

	// Update modifies an existing product in the store.
	Update(ctx context.Context, product *domain.Product) error

	// Delete removes a product from the store by its identifier.
	Delete(ctx context.Context, id string) error
}

// CategoryRepository defines the interface for category persistence operations.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id string) error
}

// OfferRepository defines the interface for offer persistence operations.
type OfferRepository interface {
	// Create inserts a new offer into the store.
	Create(ctx context.Context, offer *domain.Offer) error

	// GetByID retrieves an offer by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Offer, error)

	// ListActive returns offers whose validity window contains now and which
	// still have quantity remaining, joined with their product.
	ListActive(ctx context.Context, now time.Time, page, perPage int) ([]domain.ActiveOffer, int, error)

	// Redeem decrements the offer's remaining quantity by one, but only if
	// quantity remains. It returns the quantity left after the decrement.
	// Returns ErrNotFound if the offer does not exist and an out of stock
	// error if the quantity is exhausted.
	Redeem(ctx context.Context, id string) (int, error)

	// Update modifies an existing offer in the store.
	Update(ctx context.Context, offer *domain.Offer) error

	// Delete removes an offer from the store by its identifier.
	Delete(ctx context.Context, id string) error
}

// ReviewFilter defines filter criteria for listing reviews.
type ReviewFilter struct {
	Rating  *int
	Sort    string // "newest", "oldest", "highest", "lowest", "helpful"
	Page    int
	PerPage int
}

// ReviewRepository defines the interface for review persistence operations.
// Mutating operations recompute the owning product's rating summary in the
// same transaction as the review write.
type ReviewRepository interface {
	// Create inserts a review and refreshes the product summary atomically.
	Create(ctx context.Context, review *domain.Review) error

	// GetByID retrieves a review by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Review, error)

	// ListByProductID returns paginated reviews for a product with the total count.
	ListByProductID(ctx context.Context, productID string, filter ReviewFilter) ([]domain.Review, int, error)

	// Update modifies a review and refreshes the product summary atomically.
	Update(ctx context.Context, review *domain.Review) error

	// Delete removes a review and refreshes the product summary atomically.
	Delete(ctx context.Context, id string) error

	// GetStats returns aggregate statistics over a product's live review set.
	GetStats(ctx context.Context, productID string) (*domain.ReviewStats, error)

	// IncrementHelpful bumps a review's helpful counter by one.
	IncrementHelpful(ctx context.Context, id string) error
}

// CouponRepository defines the interface for coupon persistence operations.
type CouponRepository interface {
	Create(ctx context.Context, coupon *domain.Coupon) error
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	List(ctx context.Context, page, perPage int) ([]domain.Coupon, int, error)
	Update(ctx context.Context, coupon *domain.Coupon) error
	Delete(ctx context.Context, id string) error

	// IncrementUsage bumps the coupon's used count by one, but only while the
	// usage limit has not been reached. Returns a conflict error when the
	// coupon is already maxed out.
	IncrementUsage(ctx context.Context, id string) error
}

// OrderFilter defines filter criteria for listing orders.
type OrderFilter struct {
	UserID  *string
	Status  *string
	Page    int
	PerPage int
}

// OfferRedemption names an offer consumed during checkout and how many units
// of it the order takes.
type OfferRedemption struct {
	OfferID   string
	ProductID string
	Units     int
}

// RedeemedUnit records one consumed offer unit and the quantity left after
// the decrement.
type RedeemedUnit struct {
	OfferID   string
	ProductID string
	Remaining int
}

// OrderRepository defines the interface for order persistence operations.
type OrderRepository interface {
	// Create inserts an order and its items and consumes the referenced offer
	// units in a single transaction. A sold out or missing offer rolls the
	// whole order back, leaving every offer's quantity untouched. One
	// RedeemedUnit is returned per consumed unit, in redemption order.
	Create(ctx context.Context, order *domain.Order, redemptions []OfferRedemption) ([]RedeemedUnit, error)

	// GetByID retrieves an order by its ID, eagerly loading its items.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// List returns orders matching the given filter with the total count.
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, int, error)

	// UpdateStatus changes an order's status.
	UpdateStatus(ctx context.Context, id, status string) error
}

// CartRepository defines the interface for cart persistence operations.
type CartRepository interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, userID string) error
}

// WishlistRepository defines the interface for wishlist persistence operations.
type WishlistRepository interface {
	Get(ctx context.Context, userID string) (*domain.Wishlist, error)
	Add(ctx context.Context, userID, productID string) error
	Remove(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
}
