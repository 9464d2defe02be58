package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakmart/shopcore/internal/domain"
	"github.com/oakmart/shopcore/pkg/database"
	apperrors "github.com/oakmart/shopcore/pkg/errors"
)

func setupCouponRepo(t *testing.T) (*CouponRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewCouponRepository(mock)
	return repo, mock
}

func sampleCoupon() *domain.Coupon {
	maxUses := 100
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Coupon{
		ID:              "coup-001",
		Code:            "SAVE10",
		Description:     "10% off orders over $50",
		DiscountType:    domain.CouponTypePercentage,
		DiscountValue:   10,
		MinimumPurchase: 5000,
		MaxUses:         &maxUses,
		UsedCount:       42,
		IsActive:        true,
		StartDate:       now,
		ExpiryDate:      now.Add(30 * 24 * time.Hour),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func couponColumns() []string {
	return []string{
		"id", "code", "description", "discount_type", "discount_value",
		"minimum_purchase", "max_uses", "used_count", "is_active",
		"start_date", "expiry_date", "created_at", "updated_at",
	}
}

func couponRow(c *domain.Coupon) *pgxmock.Rows {
	return pgxmock.NewRows(couponColumns()).
		AddRow(
			c.ID, c.Code, c.Description, c.DiscountType, c.DiscountValue,
			c.MinimumPurchase, c.MaxUses, c.UsedCount, c.IsActive,
			c.StartDate, c.ExpiryDate, c.CreatedAt, c.UpdatedAt,
		)
}

// ---------------------------------------------------------------------------
// Create / GetByCode
// ---------------------------------------------------------------------------

func TestCouponRepository_Create_UniqueViolation(t *testing.T) {
	repo, mock := setupCouponRepo(t)
	defer mock.Close()

	c := sampleCoupon()

	mock.ExpectExec("INSERT INTO coupons").
		WithArgs(
			c.ID, c.Code, c.Description, c.DiscountType, c.DiscountValue,
			c.MinimumPurchase, c.MaxUses, c.UsedCount, c.IsActive,
			c.StartDate, c.ExpiryDate, c.CreatedAt, c.UpdatedAt,
		).
		WillReturnError(errors.New("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)"))

	err := repo.Create(context.Background(), c)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCouponRepository_GetByCode_Success(t *testing.T) {
	repo, mock := setupCouponRepo(t)
	defer mock.Close()

	c := sampleCoupon()

	mock.ExpectQuery("SELECT .+ FROM coupons WHERE code").
		WithArgs(c.Code).
		WillReturnRows(couponRow(c))

	result, err := repo.GetByCode(context.Background(), c.Code)
	require.NoError(t, err)
	assert.Equal(t, c.ID, result.ID)
	assert.Equal(t, c.Code, result.Code)
	require.NotNil(t, result.MaxUses)
	assert.Equal(t, 100, *result.MaxUses)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCouponRepository_GetByCode_NotFound(t *testing.T) {
	repo, mock := setupCouponRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM coupons WHERE code").
		WithArgs("MISSING").
		WillReturnError(pgx.ErrNoRows)

	result, err := repo.GetByCode(context.Background(), "MISSING")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// IncrementUsage
// ---------------------------------------------------------------------------

func TestCouponRepository_IncrementUsage_Success(t *testing.T) {
	repo, mock := setupCouponRepo(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE coupons").
		WithArgs("coup-001", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.IncrementUsage(context.Background(), "coup-001")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCouponRepository_IncrementUsage_MaxedOut(t *testing.T) {
	repo, mock := setupCouponRepo(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE coupons").
		WithArgs("coup-001", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("coup-001").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	err := repo.IncrementUsage(context.Background(), "coup-001")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCouponRepository_IncrementUsage_NotFound(t *testing.T) {
	repo, mock := setupCouponRepo(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE coupons").
		WithArgs("nonexistent-id", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("nonexistent-id").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	err := repo.IncrementUsage(context.Background(), "nonexistent-id")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
