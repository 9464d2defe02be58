package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oakmart/shopcore/internal/domain"
	"github.com/oakmart/shopcore/pkg/database"
	apperrors "github.com/oakmart/shopcore/pkg/errors"
)

// OfferRepository implements repository.OfferRepository using PostgreSQL.
type OfferRepository struct {
	pool database.DBTX
}

// NewOfferRepository creates a new PostgreSQL-backed offer repository.
func NewOfferRepository(pool database.DBTX) *OfferRepository {
	return &OfferRepository{pool: pool}
}

// Create inserts a new offer into the database.
func (r *OfferRepository) Create(ctx context.Context, o *domain.Offer) error {
	query := `
		INSERT INTO offers (id, product_id, name, discount_percent, start_date, end_date, total_quantity, remaining_quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		o.ID,
		o.ProductID,
		o.Name,
		o.DiscountPercent,
		o.StartDate,
		o.EndDate,
		o.TotalQuantity,
		o.RemainingQuantity,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert offer: %w", err)
	}

	return nil
}

// GetByID retrieves an offer by its ID.
func (r *OfferRepository) GetByID(ctx context.Context, id string) (*domain.Offer, error) {
	query := `
		SELECT id, product_id, name, discount_percent, start_date, end_date, total_quantity, remaining_quantity, created_at, updated_at
		FROM offers
		WHERE id = $1`

	var o domain.Offer

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&o.ID,
		&o.ProductID,
		&o.Name,
		&o.DiscountPercent,
		&o.StartDate,
		&o.EndDate,
		&o.TotalQuantity,
		&o.RemainingQuantity,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan offer: %w", err)
	}

	return &o, nil
}

// ListActive returns offers inside their validity window with quantity
// remaining, joined with their product. Presentation fields that depend on
// the clock (discounted price, time left) are computed from the scanned rows.
func (r *OfferRepository) ListActive(ctx context.Context, now time.Time, page, perPage int) ([]domain.ActiveOffer, int, error) {
	limit := perPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * limit
	}

	query := `
		SELECT o.id, o.name, o.product_id, p.name, p.image_url, p.price,
		       o.discount_percent, o.remaining_quantity, o.total_quantity,
		       o.start_date, o.end_date,
		       count(*) OVER() AS total_count
		FROM offers o
		JOIN products p ON p.id = o.product_id
		WHERE o.start_date <= $1
		  AND o.end_date >= $1
		  AND o.remaining_quantity > 0
		ORDER BY o.end_date ASC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, now, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list active offers: %w", err)
	}
	defer rows.Close()

	var (
		offers     []domain.ActiveOffer
		totalCount int
	)

	for rows.Next() {
		var ao domain.ActiveOffer

		if err := rows.Scan(
			&ao.ID,
			&ao.Name,
			&ao.ProductID,
			&ao.ProductName,
			&ao.ImageURL,
			&ao.Price,
			&ao.DiscountPercent,
			&ao.RemainingQuantity,
			&ao.TotalQuantity,
			&ao.StartDate,
			&ao.EndDate,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan active offer row: %w", err)
		}

		ao.DiscountedPrice = domain.DiscountedPrice(ao.Price, ao.DiscountPercent)
		ao.TimeLeft = (&domain.Offer{EndDate: ao.EndDate}).TimeLeft(now)

		offers = append(offers, ao)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate active offer rows: %w", err)
	}

	if offers == nil {
		offers = []domain.ActiveOffer{}
	}

	return offers, totalCount, nil
}

// Redeem atomically decrements the offer's remaining quantity. The guard in
// the WHERE clause ensures the quantity never drops below zero, so concurrent
// redemptions of the last unit produce exactly one success.
func (r *OfferRepository) Redeem(ctx context.Context, id string) (int, error) {
	return redeemOffer(ctx, r.pool, id)
}

// redeemOffer performs the guarded decrement against q, which may be the pool
// or an open transaction. Checkout runs it inside the order-insert transaction
// so a later failure rolls the consumed units back.
func redeemOffer(ctx context.Context, q database.DBTX, id string) (int, error) {
	query := `
		UPDATE offers
		SET remaining_quantity = remaining_quantity - 1, updated_at = $2
		WHERE id = $1 AND remaining_quantity > 0
		RETURNING remaining_quantity`

	var remaining int

	err := q.QueryRow(ctx, query, id, time.Now().UTC()).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("redeem offer: %w", err)
	}

	// No row matched: either the offer does not exist or it is sold out.
	// Distinguish the two so callers can report the right error.
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM offers WHERE id = $1)`, id).Scan(&exists); err != nil {
		return 0, fmt.Errorf("check offer existence: %w", err)
	}
	if !exists {
		return 0, apperrors.NotFound("offer", id)
	}

	return 0, apperrors.OutOfStock("offer", id)
}

// Update modifies an existing offer in the database.
func (r *OfferRepository) Update(ctx context.Context, o *domain.Offer) error {
	o.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE offers
		SET name = $1, discount_percent = $2, start_date = $3, end_date = $4, updated_at = $5
		WHERE id = $6`

	ct, err := r.pool.Exec(ctx, query,
		o.Name,
		o.DiscountPercent,
		o.StartDate,
		o.EndDate,
		o.UpdatedAt,
		o.ID,
	)
	if err != nil {
		return fmt.Errorf("update offer: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("offer", o.ID)
	}

	return nil
}

// Delete removes an offer from the database by its ID.
func (r *OfferRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM offers WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete offer: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("offer", id)
	}

	return nil
}
