package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oakmart/shopcore/internal/domain"
	"github.com/oakmart/shopcore/internal/repository"
	"github.com/oakmart/shopcore/pkg/database"
	apperrors "github.com/oakmart/shopcore/pkg/errors"
)

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
//
// Every mutation runs in a transaction that also recomputes the owning
// product's rating and review_count columns, so the cached summary can never
// drift from the live review set.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// Create inserts a review and refreshes the product summary atomically.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO reviews (id, product_id, user_id, rating, comment, verified_purchase, helpful, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = tx.Exec(ctx, query,
		review.ID,
		review.ProductID,
		review.UserID,
		review.Rating,
		review.Comment,
		review.VerifiedPurchase,
		review.Helpful,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("user has already reviewed this product")
		}
		return fmt.Errorf("insert review: %w", err)
	}

	if err := refreshProductSummary(ctx, tx, review.ProductID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a review by its ID.
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	query := `
		SELECT id, product_id, user_id, rating, comment, verified_purchase, helpful, created_at, updated_at
		FROM reviews
		WHERE id = $1`

	var rv domain.Review

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rv.ID,
		&rv.ProductID,
		&rv.UserID,
		&rv.Rating,
		&rv.Comment,
		&rv.VerifiedPurchase,
		&rv.Helpful,
		&rv.CreatedAt,
		&rv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan review: %w", err)
	}

	return &rv, nil
}

// ListByProductID returns paginated reviews for a product with the total count.
func (r *ReviewRepository) ListByProductID(ctx context.Context, productID string, filter repository.ReviewFilter) ([]domain.Review, int, error) {
	limit := filter.PerPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	ratingClause := ""
	args := []any{productID}
	argIndex := 2

	if filter.Rating != nil {
		ratingClause = fmt.Sprintf("AND rating = $%d", argIndex)
		args = append(args, *filter.Rating)
		argIndex++
	}

	query := fmt.Sprintf(`
		SELECT id, product_id, user_id, rating, comment, verified_purchase, helpful, created_at, updated_at,
		       count(*) OVER() AS total_count
		FROM reviews
		WHERE product_id = $1 %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		ratingClause, reviewOrderBy(filter.Sort), argIndex, argIndex+1,
	)

	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var (
		reviews    []domain.Review
		totalCount int
	)

	for rows.Next() {
		var rv domain.Review

		if err := rows.Scan(
			&rv.ID,
			&rv.ProductID,
			&rv.UserID,
			&rv.Rating,
			&rv.Comment,
			&rv.VerifiedPurchase,
			&rv.Helpful,
			&rv.CreatedAt,
			&rv.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan review row: %w", err)
		}

		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate review rows: %w", err)
	}

	if reviews == nil {
		reviews = []domain.Review{}
	}

	return reviews, totalCount, nil
}

// Update modifies a review and refreshes the product summary atomically.
func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	review.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE reviews
		SET rating = $1, comment = $2, updated_at = $3
		WHERE id = $4`

	ct, err := tx.Exec(ctx, query,
		review.Rating,
		review.Comment,
		review.UpdatedAt,
		review.ID,
	)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("review", review.ID)
	}

	if err := refreshProductSummary(ctx, tx, review.ProductID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Delete removes a review and refreshes the product summary atomically. When
// the last review goes, the product summary resets to zero.
func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var productID string

	err = tx.QueryRow(ctx, `DELETE FROM reviews WHERE id = $1 RETURNING product_id`, id).Scan(&productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("review", id)
		}
		return fmt.Errorf("delete review: %w", err)
	}

	if err := refreshProductSummary(ctx, tx, productID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetStats returns aggregate statistics over a product's live review set.
func (r *ReviewRepository) GetStats(ctx context.Context, productID string) (*domain.ReviewStats, error) {
	stats := &domain.ReviewStats{
		Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}

	query := `
		SELECT rating, COUNT(*)
		FROM reviews
		WHERE product_id = $1
		GROUP BY rating`

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("review stats: %w", err)
	}
	defer rows.Close()

	var sum int

	for rows.Next() {
		var rating, count int

		if err := rows.Scan(&rating, &count); err != nil {
			return nil, fmt.Errorf("scan stats row: %w", err)
		}

		stats.Distribution[rating] = count
		stats.Total += count
		sum += rating * count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stats rows: %w", err)
	}

	if stats.Total > 0 {
		stats.Average = domain.RoundAverage(float64(sum) / float64(stats.Total))
	}

	return stats, nil
}

// IncrementHelpful bumps a review's helpful counter by one.
func (r *ReviewRepository) IncrementHelpful(ctx context.Context, id string) error {
	query := `
		UPDATE reviews
		SET helpful = helpful + 1, updated_at = $2
		WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("increment helpful: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("review", id)
	}

	return nil
}

// refreshProductSummary recomputes a product's rating and review_count from
// its live review set inside the caller's transaction. An empty review set
// resets both columns to zero.
func refreshProductSummary(ctx context.Context, tx pgx.Tx, productID string) error {
	var (
		avg   float64
		count int
	)

	err := tx.QueryRow(ctx,
		`SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM reviews WHERE product_id = $1`,
		productID,
	).Scan(&avg, &count)
	if err != nil {
		return fmt.Errorf("compute review summary: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE products SET rating = $1, review_count = $2, updated_at = $3 WHERE id = $4`,
		domain.RoundAverage(avg), count, time.Now().UTC(), productID,
	)
	if err != nil {
		return fmt.Errorf("update product summary: %w", err)
	}

	return nil
}

// reviewOrderBy maps a sort key to a safe ORDER BY clause.
func reviewOrderBy(sort string) string {
	switch sort {
	case "oldest":
		return "created_at ASC"
	case "highest":
		return "rating DESC, created_at DESC"
	case "lowest":
		return "rating ASC, created_at DESC"
	case "helpful":
		return "helpful DESC, created_at DESC"
	default:
		return "created_at DESC"
	}
}
