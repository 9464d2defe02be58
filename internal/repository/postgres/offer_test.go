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

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func setupOfferRepo(t *testing.T) (*OfferRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewOfferRepository(mock)
	return repo, mock
}

func sampleOffer() *domain.Offer {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Offer{
		ID:                "offer-001",
		ProductID:         "prod-001",
		Name:              "Flash Sale",
		DiscountPercent:   25,
		StartDate:         now,
		EndDate:           now.Add(72 * time.Hour),
		TotalQuantity:     100,
		RemainingQuantity: 100,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func offerColumns() []string {
	return []string{
		"id", "product_id", "name", "discount_percent", "start_date",
		"end_date", "total_quantity", "remaining_quantity", "created_at", "updated_at",
	}
}

func offerRow(o *domain.Offer) *pgxmock.Rows {
	return pgxmock.NewRows(offerColumns()).
		AddRow(
			o.ID, o.ProductID, o.Name, o.DiscountPercent, o.StartDate,
			o.EndDate, o.TotalQuantity, o.RemainingQuantity, o.CreatedAt, o.UpdatedAt,
		)
}

// ---------------------------------------------------------------------------
// Create / GetByID
// ---------------------------------------------------------------------------

func TestOfferRepository_Create_Success(t *testing.T) {
	repo, mock := setupOfferRepo(t)
	defer mock.Close()

	o := sampleOffer()

	mock.ExpectExec("INSERT INTO offers").
		WithArgs(
			o.ID, o.ProductID, o.Name, o.DiscountPercent, o.StartDate,
			o.EndDate, o.TotalQuantity, o.RemainingQuantity, o.CreatedAt, o.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), o)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOfferRepository_GetByID_Success(t *testing.T) {
	repo, mock := setupOfferRepo(t)
	defer mock.Close()

	o := sampleOffer()

	mock.ExpectQuery("SELECT .+ FROM offers WHERE id").
		WithArgs(o.ID).
		WillReturnRows(offerRow(o))

	result, err := repo.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, result.ID)
	assert.Equal(t, o.ProductID, result.ProductID)
	assert.Equal(t, 25, result.DiscountPercent)
	assert.Equal(t, 100, result.RemainingQuantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOfferRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := setupOfferRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM offers WHERE id").
		WithArgs("nonexistent-id").
		WillReturnError(pgx.ErrNoRows)

	result, err := repo.GetByID(context.Background(), "nonexistent-id")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Redeem
// ---------------------------------------------------------------------------

func TestOfferRepository_Redeem_Success(t *testing.T) {
	repo, mock := setupOfferRepo(t)
	defer mock.Close()

	mock.ExpectQuery("UPDATE offers SET remaining_quantity = remaining_quantity - 1").
		WithArgs("offer-001", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"remaining_quantity"}).AddRow(99))

	remaining, err := repo.Redeem(context.Background(), "offer-001")
	require.NoError(t, err)
	assert.Equal(t, 99, remaining)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOfferRepository_Redeem_LastUnit(t *testing.T) {
	repo, mock := setupOfferRepo(t)
	defer mock.Close()

	mock.ExpectQuery("UPDATE offers SET remaining_quantity = remaining_quantity - 1").
		WithArgs("offer-001", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"remaining_quantity"}).AddRow(0))

	remaining, err := repo.Redeem(context.Background(), "offer-001")
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOfferRepository_Redeem_SoldOut(t *testing.T) {
	repo, mock := setupOfferRepo(t)
	defer mock.Close()

	mock.ExpectQuery("UPDATE offers SET remaining_quantity = remaining_quantity - 1").
		WithArgs("offer-001", pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("offer-001").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := repo.Redeem(context.Background(), "offer-001")
	assert.ErrorIs(t, err, apperrors.ErrOutOfStock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOfferRepository_Redeem_NotFound(t *testing.T) {
	repo, mock := setupOfferRepo(t)
	defer mock.Close()

	mock.ExpectQuery("UPDATE offers SET remaining_quantity = remaining_quantity - 1").
		WithArgs("nonexistent-id", pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("nonexistent-id").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	_, err := repo.Redeem(context.Background(), "nonexistent-id")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOfferRepository_Redeem_QueryError(t *testing.T) {
	repo, mock := setupOfferRepo(t)
	defer mock.Close()

	mock.ExpectQuery("UPDATE offers SET remaining_quantity = remaining_quantity - 1").
		WithArgs("offer-001", pgxmock.AnyArg()).
		WillReturnError(errors.New("connection refused"))

	_, err := repo.Redeem(context.Background(), "offer-001")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "redeem offer")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// ListActive
// ---------------------------------------------------------------------------

func TestOfferRepository_ListActive_ComputesPresentation(t *testing.T) {
	repo, mock := setupOfferRepo(t)
	defer mock.Close()

	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	endDate := now.Add(49 * time.Hour)

	rows := pgxmock.NewRows([]string{
		"id", "name", "product_id", "product_name", "image_url", "price",
		"discount_percent", "remaining_quantity", "total_quantity",
		"start_date", "end_date", "total_count",
	}).AddRow(
		"offer-001", "Flash Sale", "prod-001", "Widget", "https://img.example.com/w.jpg", int64(10000),
		25, 40, 100,
		now.Add(-24*time.Hour), endDate, 1,
	)

	mock.ExpectQuery("SELECT .+ FROM offers o").
		WithArgs(now, 20, 0).
		WillReturnRows(rows)

	offers, total, err := repo.ListActive(context.Background(), now, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, offers, 1)

	assert.Equal(t, int64(7500), offers[0].DiscountedPrice)
	assert.Equal(t, "2d 1h", offers[0].TimeLeft)
	assert.Equal(t, "Widget", offers[0].ProductName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOfferRepository_ListActive_Empty(t *testing.T) {
	repo, mock := setupOfferRepo(t)
	defer mock.Close()

	now := time.Now().UTC()

	mock.ExpectQuery("SELECT .+ FROM offers o").
		WithArgs(now, 20, 0).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "name", "product_id", "product_name", "image_url", "price",
			"discount_percent", "remaining_quantity", "total_quantity",
			"start_date", "end_date", "total_count",
		}))

	offers, total, err := repo.ListActive(context.Background(), now, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.NotNil(t, offers)
	assert.Empty(t, offers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestOfferRepository_Delete_NotFound(t *testing.T) {
	repo, mock := setupOfferRepo(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM offers").
		WithArgs("nonexistent-id").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "nonexistent-id")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
