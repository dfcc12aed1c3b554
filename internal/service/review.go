package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/marketplace/internal/domain"
	"github.com/utafrali/marketplace/internal/event"
	"github.com/utafrali/marketplace/internal/policy"
	"github.com/utafrali/marketplace/internal/repository"
	apperrors "github.com/utafrali/marketplace/pkg/errors"
	"github.com/utafrali/marketplace/pkg/pagination"
)

// ReviewService orchestrates review mutations. Every review write and the
// rating recompute it triggers commit as one transaction, so a crash between
// them can never leave a persisted review with a stale product rating.
type ReviewService struct {
	store    repository.Store
	producer event.Publisher
	cache    ProductCache
	logger   *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(store repository.Store, producer event.Publisher, cache ProductCache, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		store:    store,
		producer: producer,
		cache:    cache,
		logger:   logger,
	}
}

// CreateReview creates a review by the calling buyer and recomputes the
// product rating in the same transaction. The product must be active; one
// active review per buyer per product is enforced.
func (s *ReviewService) CreateReview(ctx context.Context, principal policy.Principal, input *domain.CreateReviewInput) (*domain.Review, error) {
	if d := policy.Decide(policy.ActionCreateReview, principal, nil); !d.Allowed {
		return nil, apperrors.Forbidden(d.Reason)
	}

	if input.Grade < domain.MinGrade || input.Grade > domain.MaxGrade {
		return nil, apperrors.InvalidInput(fmt.Sprintf("grade must be between %d and %d", domain.MinGrade, domain.MaxGrade))
	}

	now := time.Now().UTC()
	review := &domain.Review{
		ID:          uuid.New().String(),
		ProductID:   input.ProductID,
		BuyerID:     principal.ID,
		Grade:       input.Grade,
		Comment:     input.Comment,
		CommentDate: now,
		IsActive:    true,
		CreatedAt:   now,
	}

	var newRating float64
	err := s.store.WithTx(ctx, func(st repository.Store) error {
		if _, err := st.Products().GetByID(ctx, input.ProductID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.Referential("product not found or inactive")
			}
			return fmt.Errorf("resolve product: %w", err)
		}

		exists, err := st.Reviews().ExistsActiveForBuyer(ctx, input.ProductID, principal.ID)
		if err != nil {
			return fmt.Errorf("check existing review: %w", err)
		}
		if exists {
			return apperrors.AlreadyExists("review", "product_id", input.ProductID)
		}

		if err := st.Reviews().Create(ctx, review); err != nil {
			return fmt.Errorf("create review: %w", err)
		}

		newRating, err = st.Products().RecomputeRating(ctx, input.ProductID)
		if err != nil {
			return fmt.Errorf("recompute rating: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, input.ProductID)

	if err := s.producer.ReviewCreated(ctx, review, newRating); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.created event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review created",
		slog.String("review_id", review.ID),
		slog.String("product_id", review.ProductID),
		slog.Float64("new_rating", newRating),
	)

	return review, nil
}

// DeleteReview soft-deletes a review (admin only) and recomputes the product
// rating over the remaining active reviews in the same transaction.
func (s *ReviewService) DeleteReview(ctx context.Context, principal policy.Principal, id string) (*domain.Review, error) {
	var (
		review    *domain.Review
		newRating float64
	)

	err := s.store.WithTx(ctx, func(st repository.Store) error {
		var err error
		review, err = st.Reviews().GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get review for delete: %w", err)
		}

		if d := policy.Decide(policy.ActionDeleteReview, principal, nil); !d.Allowed {
			return apperrors.Forbidden(d.Reason)
		}

		if err := st.Reviews().SoftDelete(ctx, id); err != nil {
			return fmt.Errorf("soft delete review: %w", err)
		}
		review.IsActive = false

		newRating, err = st.Products().RecomputeRating(ctx, review.ProductID)
		if err != nil {
			return fmt.Errorf("recompute rating: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, review.ProductID)

	if err := s.producer.ReviewDeleted(ctx, review, newRating); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.deleted event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review deleted",
		slog.String("review_id", review.ID),
		slog.String("product_id", review.ProductID),
		slog.Float64("new_rating", newRating),
	)

	return review, nil
}

// ListReviews returns all active reviews, newest first.
func (s *ReviewService) ListReviews(ctx context.Context, params pagination.Params) ([]domain.Review, int, error) {
	reviews, total, err := s.store.Reviews().List(ctx, params.Limit(), params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, total, nil
}

// ListProductReviews returns the active reviews of an active product,
// newest first. A missing or inactive product reports not found.
func (s *ReviewService) ListProductReviews(ctx context.Context, productID string, params pagination.Params) ([]domain.Review, int, error) {
	if _, err := s.store.Products().GetByID(ctx, productID); err != nil {
		return nil, 0, fmt.Errorf("resolve product: %w", err)
	}

	reviews, total, err := s.store.Reviews().ListByProduct(ctx, productID, params.Limit(), params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list product reviews: %w", err)
	}
	return reviews, total, nil
}
