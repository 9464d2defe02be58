package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/oakmart/shopcore/pkg/errors"

	"github.com/oakmart/shopcore/internal/domain"
	"github.com/oakmart/shopcore/internal/repository"
)

const testReviewID = "2d3e4f5a-6b7c-4d8e-9f0a-1b2c3d4e5f6a"

func sampleReview() *domain.Review {
	return &domain.Review{
		ID:        testReviewID,
		ProductID: testProductID,
		UserID:    testUserID,
		Rating:    4,
		Comment:   "Works well",
	}
}

// ============================================================================
// POST /api/v1/products/{id}/reviews
// ============================================================================

func TestCreateReview_Success(t *testing.T) {
	repos := newTestRepos()
	router := newTestRouter(repos)

	repos.products.On("GetByID", mock.Anything, testProductID).Return(sampleProduct(), nil)
	repos.reviews.On("Create", mock.Anything, mock.MatchedBy(func(rv *domain.Review) bool {
		return rv.ProductID == testProductID && rv.UserID == testUserID && rv.Rating == 4
	})).Return(nil)

	body := `{"rating":3.6,"comment":"Works well"}`
	rec := doJSON(router, http.MethodPost, "/api/v1/products/"+testProductID+"/reviews", body, testUserID, "")

	assert.Equal(t, http.StatusCreated, rec.Code)
	repos.reviews.AssertExpectations(t)
}

func TestCreateReview_MissingUserID(t *testing.T) {
	repos := newTestRepos()
	router := newTestRouter(repos)

	body := `{"rating":4}`
	rec := doJSON(router, http.MethodPost, "/api/v1/products/"+testProductID+"/reviews", body, "", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	repos.reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateReview_RatingOutOfRange(t *testing.T) {
	repos := newTestRepos()
	router := newTestRouter(repos)

	body := `{"rating":6}`
	rec := doJSON(router, http.MethodPost, "/api/v1/products/"+testProductID+"/reviews", body, testUserID, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

func TestCreateReview_Duplicate(t *testing.T) {
	repos := newTestRepos()
	router := newTestRouter(repos)

	repos.products.On("GetByID", mock.Anything, testProductID).Return(sampleProduct(), nil)
	repos.reviews.On("Create", mock.Anything, mock.AnythingOfType("*domain.Review")).
		Return(apperrors.Conflict("user has already reviewed this product"))

	body := `{"rating":4}`
	rec := doJSON(router, http.MethodPost, "/api/v1/products/"+testProductID+"/reviews", body, testUserID, "")

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "CONFLICT", resp.Error.Code)
}

// ============================================================================
// GET /api/v1/products/{id}/reviews
// ============================================================================

func TestListReviews_FilterPassthrough(t *testing.T) {
	repos := newTestRepos()
	router := newTestRouter(repos)

	repos.reviews.On("ListByProductID", mock.Anything, testProductID, mock.MatchedBy(func(f repository.ReviewFilter) bool {
		return f.Rating != nil && *f.Rating == 5 && f.Sort == "helpful"
	})).Return([]domain.Review{*sampleReview()}, 1, nil)

	rec := doJSON(router, http.MethodGet, "/api/v1/products/"+testProductID+"/reviews?rating=5&sort=helpful", "", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	repos.reviews.AssertExpectations(t)
}

// ============================================================================
// GET /api/v1/products/{id}/reviews/stats
// ============================================================================

func TestGetReviewStats_Success(t *testing.T) {
	repos := newTestRepos()
	router := newTestRouter(repos)

	repos.products.On("GetByID", mock.Anything, testProductID).Return(sampleProduct(), nil)
	repos.reviews.On("GetStats", mock.Anything, testProductID).Return(&domain.ReviewStats{
		Average:      4.3,
		Total:        3,
		Distribution: map[int]int{1: 0, 2: 0, 3: 1, 4: 0, 5: 2},
	}, nil)

	rec := doJSON(router, http.MethodGet, "/api/v1/products/"+testProductID+"/reviews/stats", "", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	repos.reviews.AssertExpectations(t)
}

// ============================================================================
// PUT / DELETE /api/v1/reviews/{id}
// ============================================================================

func TestUpdateReview_AuthorOnly(t *testing.T) {
	repos := newTestRepos()
	router := newTestRouter(repos)

	repos.reviews.On("GetByID", mock.Anything, testReviewID).Return(sampleReview(), nil)

	body := `{"comment":"Edited"}`
	rec := doJSON(router, http.MethodPut, "/api/v1/reviews/"+testReviewID, body, "someone-else", "")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	repos.reviews.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteReview_AdminOverride(t *testing.T) {
	repos := newTestRepos()
	router := newTestRouter(repos)

	repos.reviews.On("GetByID", mock.Anything, testReviewID).Return(sampleReview(), nil)
	repos.reviews.On("Delete", mock.Anything, testReviewID).Return(nil)

	rec := doJSON(router, http.MethodDelete, "/api/v1/reviews/"+testReviewID, "", "moderator-1", "admin")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	repos.reviews.AssertExpectations(t)
}

// ============================================================================
// POST /api/v1/reviews/{id}/helpful
// ============================================================================

func TestMarkHelpful_Success(t *testing.T) {
	repos := newTestRepos()
	router := newTestRouter(repos)

	repos.reviews.On("IncrementHelpful", mock.Anything, testReviewID).Return(nil)

	rec := doJSON(router, http.MethodPost, "/api/v1/reviews/"+testReviewID+"/helpful", "", "", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	repos.reviews.AssertExpectations(t)
}

func TestMarkHelpful_NotFound(t *testing.T) {
	repos := newTestRepos()
	router := newTestRouter(repos)

	repos.reviews.On("IncrementHelpful", mock.Anything, testReviewID).
		Return(apperrors.NotFound("review", testReviewID))

	rec := doJSON(router, http.MethodPost, "/api/v1/reviews/"+testReviewID+"/helpful", "", "", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
