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

// CouponRepository implements repository.CouponRepository using PostgreSQL.
type CouponRepository struct {
	pool database.DBTX
}

// NewCouponRepository creates a new PostgreSQL-backed coupon repository.
func NewCouponRepository(pool database.DBTX) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// Create inserts a new coupon into the database.
func (r *CouponRepository) Create(ctx context.Context, c *domain.Coupon) error {
	query := `
		INSERT INTO coupons (id, code, description, discount_type, discount_value, minimum_purchase, max_uses, used_count, is_active, start_date, expiry_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.pool.Exec(ctx, query,
		c.ID,
		c.Code,
		c.Description,
		c.DiscountType,
		c.DiscountValue,
		c.MinimumPurchase,
		c.MaxUses,
		c.UsedCount,
		c.IsActive,
		c.StartDate,
		c.ExpiryDate,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("coupon", "code", c.Code)
		}
		return fmt.Errorf("insert coupon: %w", err)
	}

	return nil
}

// GetByCode retrieves a coupon by its code.
func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	query := `
		SELECT id, code, description, discount_type, discount_value, minimum_purchase, max_uses, used_count, is_active, start_date, expiry_date, created_at, updated_at
		FROM coupons
		WHERE code = $1`

	var c domain.Coupon

	err := r.pool.QueryRow(ctx, query, code).Scan(
		&c.ID,
		&c.Code,
		&c.Description,
		&c.DiscountType,
		&c.DiscountValue,
		&c.MinimumPurchase,
		&c.MaxUses,
		&c.UsedCount,
		&c.IsActive,
		&c.StartDate,
		&c.ExpiryDate,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan coupon: %w", err)
	}

	return &c, nil
}

// List returns paginated coupons with the total count.
func (r *CouponRepository) List(ctx context.Context, page, perPage int) ([]domain.Coupon, int, error) {
	limit := perPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * limit
	}

	query := `
		SELECT id, code, description, discount_type, discount_value, minimum_purchase, max_uses, used_count, is_active, start_date, expiry_date, created_at, updated_at,
		       count(*) OVER() AS total_count
		FROM coupons
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list coupons: %w", err)
	}
	defer rows.Close()

	var (
		coupons    []domain.Coupon
		totalCount int
	)

	for rows.Next() {
		var c domain.Coupon

		if err := rows.Scan(
			&c.ID,
			&c.Code,
			&c.Description,
			&c.DiscountType,
			&c.DiscountValue,
			&c.MinimumPurchase,
			&c.MaxUses,
			&c.UsedCount,
			&c.IsActive,
			&c.StartDate,
			&c.ExpiryDate,
			&c.CreatedAt,
			&c.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan coupon row: %w", err)
		}

		coupons = append(coupons, c)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate coupon rows: %w", err)
	}

	if coupons == nil {
		coupons = []domain.Coupon{}
	}

	return coupons, totalCount, nil
}

// Update modifies an existing coupon in the database.
func (r *CouponRepository) Update(ctx context.Context, c *domain.Coupon) error {
	c.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE coupons
		SET description = $1, discount_type = $2, discount_value = $3, minimum_purchase = $4,
		    max_uses = $5, is_active = $6, start_date = $7, expiry_date = $8, updated_at = $9
		WHERE id = $10`

	ct, err := r.pool.Exec(ctx, query,
		c.Description,
		c.DiscountType,
		c.DiscountValue,
		c.MinimumPurchase,
		c.MaxUses,
		c.IsActive,
		c.StartDate,
		c.ExpiryDate,
		c.UpdatedAt,
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("update coupon: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("coupon", c.ID)
	}

	return nil
}

// Delete removes a coupon from the database by its ID.
func (r *CouponRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM coupons WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete coupon: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("coupon", id)
	}

	return nil
}

// IncrementUsage atomically bumps the coupon's used count while the usage
// limit has not been reached. The guard keeps concurrent applications of a
// nearly exhausted coupon from exceeding max_uses.
func (r *CouponRepository) IncrementUsage(ctx context.Context, id string) error {
	query := `
		UPDATE coupons
		SET used_count = used_count + 1, updated_at = $2
		WHERE id = $1 AND (max_uses IS NULL OR used_count < max_uses)`

	ct, err := r.pool.Exec(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("increment coupon usage: %w", err)
	}

	if ct.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM coupons WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("check coupon existence: %w", err)
		}
		if !exists {
			return apperrors.NotFound("coupon", id)
		}
		return apperrors.Conflict("coupon usage limit reached")
	}

	return nil
}
