package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oakmart/shopcore/internal/domain"
)

const wishlistKeyPrefix = "wishlist:"

// WishlistRepository implements repository.WishlistRepository using Redis.
// Each wishlist is a Redis set of product IDs keyed by user ID, so membership
// is enforced by the store and adds are naturally idempotent.
type WishlistRepository struct {
	client *redis.Client
}

// NewWishlistRepository creates a new Redis-backed wishlist repository.
func NewWishlistRepository(client *redis.Client) *WishlistRepository {
	return &WishlistRepository{client: client}
}

// Get retrieves a user's wishlist. A user with no saved products gets an
// empty wishlist, not an error.
func (r *WishlistRepository) Get(ctx context.Context, userID string) (*domain.Wishlist, error) {
	key := wishlistKeyPrefix + userID

	ids, err := r.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis smembers wishlist: %w", err)
	}

	if ids == nil {
		ids = []string{}
	}

	return &domain.Wishlist{
		UserID:     userID,
		ProductIDs: ids,
		UpdatedAt:  time.Now().UTC(),
	}, nil
}

// Add saves a product to the user's wishlist.
func (r *WishlistRepository) Add(ctx context.Context, userID, productID string) error {
	key := wishlistKeyPrefix + userID

	if err := r.client.SAdd(ctx, key, productID).Err(); err != nil {
		return fmt.Errorf("redis sadd wishlist: %w", err)
	}

	return nil
}

// Remove takes a product off the user's wishlist. Removing a product that is
// not present is a no-op.
func (r *WishlistRepository) Remove(ctx context.Context, userID, productID string) error {
	key := wishlistKeyPrefix + userID

	if err := r.client.SRem(ctx, key, productID).Err(); err != nil {
		return fmt.Errorf("redis srem wishlist: %w", err)
	}

	return nil
}

// Clear removes the user's entire wishlist.
func (r *WishlistRepository) Clear(ctx context.Context, userID string) error {
	key := wishlistKeyPrefix + userID

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del wishlist: %w", err)
	}

	return nil
}
