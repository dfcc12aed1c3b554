package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/marketplace/internal/domain"
	apperrors "github.com/utafrali/marketplace/pkg/errors"
	"github.com/utafrali/marketplace/pkg/pagination"
)

func newTestReviewService(store *mockStore) (*ReviewService, *stubPublisher, *stubCache) {
	pub := &stubPublisher{}
	cache := newStubCache()
	return NewReviewService(store, pub, cache, newTestLogger()), pub, cache
}

func activeReview() *domain.Review {
	return &domain.Review{
		ID:          "review-1",
		ProductID:   "prod-1",
		BuyerID:     "buyer-1",
		Grade:       4,
		Comment:     "Solid.",
		CommentDate: time.Now().UTC(),
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}
}

// --- CreateReview ---

func TestCreateReview_BuyerSuccess_RecomputesRating(t *testing.T) {
	store := newMockStore()
	svc, pub, cache := newTestReviewService(store)
	ctx := context.Background()

	store.products.On("GetByID", ctx, "prod-1").Return(ownedProduct(), nil)
	store.reviews.On("ExistsActiveForBuyer", ctx, "prod-1", "buyer-1").Return(false, nil)
	store.reviews.On("Create", ctx, mock.AnythingOfType("*domain.Review")).Return(nil)
	store.products.On("RecomputeRating", ctx, "prod-1").Return(10.0/3.0, nil)

	input := &domain.CreateReviewInput{ProductID: "prod-1", Grade: 4, Comment: "Nice"}

	review, err := svc.CreateReview(ctx, buyerPrincipal, input)

	require.NoError(t, err)
	assert.NotEmpty(t, review.ID)
	assert.Equal(t, "buyer-1", review.BuyerID)
	assert.Equal(t, 4, review.Grade)
	assert.True(t, review.IsActive)
	assert.Equal(t, 1, pub.reviewCreated)
	assert.InDelta(t, 3.3333, pub.lastRating, 0.001)
	assert.Contains(t, cache.invalidated, "prod-1")
	store.assertExpectations(t)
}

func TestCreateReview_SellerForbidden(t *testing.T) {
	store := newMockStore()
	svc, pub, _ := newTestReviewService(store)

	input := &domain.CreateReviewInput{ProductID: "prod-1", Grade: 5}

	review, err := svc.CreateReview(context.Background(), sellerPrincipal, input)

	assert.Nil(t, review)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Equal(t, 0, pub.reviewCreated)
	store.assertExpectations(t)
}

func TestCreateReview_AdminForbidden(t *testing.T) {
	store := newMockStore()
	svc, _, _ := newTestReviewService(store)

	input := &domain.CreateReviewInput{ProductID: "prod-1", Grade: 5}

	_, err := svc.CreateReview(context.Background(), adminPrincipal, input)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestCreateReview_GradeOutOfRange(t *testing.T) {
	store := newMockStore()
	svc, _, _ := newTestReviewService(store)
	ctx := context.Background()

	for _, grade := range []int{0, 6, -1} {
		input := &domain.CreateReviewInput{ProductID: "prod-1", Grade: grade}
		_, err := svc.CreateReview(ctx, buyerPrincipal, input)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput, "grade %d", grade)
	}
}

func TestCreateReview_ProductMissingOrInactive(t *testing.T) {
	store := newMockStore()
	svc, pub, _ := newTestReviewService(store)
	ctx := context.Background()

	store.products.On("GetByID", ctx, "prod-gone").Return(nil, apperrors.ErrNotFound)

	input := &domain.CreateReviewInput{ProductID: "prod-gone", Grade: 3}

	review, err := svc.CreateReview(ctx, buyerPrincipal, input)

	assert.Nil(t, review)
	assert.ErrorIs(t, err, apperrors.ErrReferential)
	assert.Equal(t, 0, pub.reviewCreated)
	store.assertExpectations(t)
}

func TestCreateReview_DuplicateForBuyer(t *testing.T) {
	store := newMockStore()
	svc, _, _ := newTestReviewService(store)
	ctx := context.Background()

	store.products.On("GetByID", ctx, "prod-1").Return(ownedProduct(), nil)
	store.reviews.On("ExistsActiveForBuyer", ctx, "prod-1", "buyer-1").Return(true, nil)

	input := &domain.CreateReviewInput{ProductID: "prod-1", Grade: 5}

	review, err := svc.CreateReview(ctx, buyerPrincipal, input)

	assert.Nil(t, review)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	store.assertExpectations(t)
}

// --- DeleteReview ---

func TestDeleteReview_AdminSuccess_RecomputesRating(t *testing.T) {
	store := newMockStore()
	svc, pub, cache := newTestReviewService(store)
	ctx := context.Background()

	store.reviews.On("GetByID", ctx, "review-1").Return(activeReview(), nil)
	store.reviews.On("SoftDelete", ctx, "review-1").Return(nil)
	store.products.On("RecomputeRating", ctx, "prod-1").Return(3.0, nil)

	deleted, err := svc.DeleteReview(ctx, adminPrincipal, "review-1")

	require.NoError(t, err)
	assert.False(t, deleted.IsActive)
	assert.Equal(t, 1, pub.reviewDeleted)
	assert.Equal(t, 3.0, pub.lastRating)
	assert.Contains(t, cache.invalidated, "prod-1")
	store.assertExpectations(t)
}

func TestDeleteReview_BuyerForbidden_EvenOwnReview(t *testing.T) {
	store := newMockStore()
	svc, pub, _ := newTestReviewService(store)
	ctx := context.Background()

	// The review belongs to buyer-1, who is also the caller. Deletion is
	// still admin-only.
	store.reviews.On("GetByID", ctx, "review-1").Return(activeReview(), nil)

	_, err := svc.DeleteReview(ctx, buyerPrincipal, "review-1")

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Equal(t, 0, pub.reviewDeleted)
	store.assertExpectations(t)
}

func TestDeleteReview_SellerForbidden(t *testing.T) {
	store := newMockStore()
	svc, _, _ := newTestReviewService(store)
	ctx := context.Background()

	store.reviews.On("GetByID", ctx, "review-1").Return(activeReview(), nil)

	_, err := svc.DeleteReview(ctx, sellerPrincipal, "review-1")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestDeleteReview_AlreadyInactive(t *testing.T) {
	store := newMockStore()
	svc, pub, _ := newTestReviewService(store)
	ctx := context.Background()

	store.reviews.On("GetByID", ctx, "review-1").Return(nil, apperrors.ErrNotFound)

	_, err := svc.DeleteReview(ctx, adminPrincipal, "review-1")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, 0, pub.reviewDeleted)
	store.assertExpectations(t)
}

// --- Listing ---

func TestListReviews_Success(t *testing.T) {
	store := newMockStore()
	svc, _, _ := newTestReviewService(store)
	ctx := context.Background()

	store.reviews.On("List", ctx, 20, 0).
		Return([]domain.Review{*activeReview()}, 1, nil)

	reviews, total, err := svc.ListReviews(ctx, pagination.Params{Page: 1, PageSize: 20})

	require.NoError(t, err)
	assert.Len(t, reviews, 1)
	assert.Equal(t, 1, total)
	store.assertExpectations(t)
}

func TestListProductReviews_ProductMissing(t *testing.T) {
	store := newMockStore()
	svc, _, _ := newTestReviewService(store)
	ctx := context.Background()

	store.products.On("GetByID", ctx, "prod-gone").Return(nil, apperrors.ErrNotFound)

	_, _, err := svc.ListProductReviews(ctx, "prod-gone", pagination.Params{Page: 1, PageSize: 20})

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	store.assertExpectations(t)
}

func TestListProductReviews_Success(t *testing.T) {
	store := newMockStore()
	svc, _, _ := newTestReviewService(store)
	ctx := context.Background()

	store.products.On("GetByID", ctx, "prod-1").Return(ownedProduct(), nil)
	store.reviews.On("ListByProduct", ctx, "prod-1", 2, 2).
		Return([]domain.Review{*activeReview()}, 5, nil)

	reviews, total, err := svc.ListProductReviews(ctx, "prod-1", pagination.Params{Page: 2, PageSize: 2})

	require.NoError(t, err)
	assert.Len(t, reviews, 1)
	assert.Equal(t, 5, total)
	store.assertExpectations(t)
}
