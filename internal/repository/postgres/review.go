package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/marketplace/internal/domain"
	"github.com/utafrali/marketplace/pkg/database"
	apperrors "github.com/utafrali/marketplace/pkg/errors"
)

const reviewColumns = "id, product_id, buyer_id, grade, comment, comment_date, is_active, created_at"

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	db database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(db database.DBTX) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a new review into the database.
func (r *ReviewRepository) Create(ctx context.Context, rev *domain.Review) error {
	query := `
		INSERT INTO reviews (id, product_id, buyer_id, grade, comment, comment_date, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, query,
		rev.ID,
		rev.ProductID,
		rev.BuyerID,
		rev.Grade,
		rev.Comment,
		rev.CommentDate,
		rev.IsActive,
		rev.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("review", "product_id", rev.ProductID)
		}
		return fmt.Errorf("insert review: %w", err)
	}

	return nil
}

// GetByID retrieves an active review by its ID.
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM reviews WHERE id = $1 AND is_active = TRUE`, reviewColumns)
	return r.scanReview(ctx, query, id)
}

// GetAnyByID retrieves a review by its ID regardless of the active flag.
func (r *ReviewRepository) GetAnyByID(ctx context.Context, id string) (*domain.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM reviews WHERE id = $1`, reviewColumns)
	return r.scanReview(ctx, query, id)
}

// ListByProduct returns active reviews for a product, newest first.
func (r *ReviewRepository) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]domain.Review, int, error) {
	query := fmt.Sprintf(`
		SELECT %s,
			   count(*) OVER() AS total_count
		FROM reviews
		WHERE product_id = $1 AND is_active = TRUE
		ORDER BY comment_date DESC
		LIMIT $2 OFFSET $3`, reviewColumns)

	return r.listReviews(ctx, query, productID, limit, offset)
}

// List returns all active reviews, newest first.
func (r *ReviewRepository) List(ctx context.Context, limit, offset int) ([]domain.Review, int, error) {
	query := fmt.Sprintf(`
		SELECT %s,
			   count(*) OVER() AS total_count
		FROM reviews
		WHERE is_active = TRUE
		ORDER BY comment_date DESC
		LIMIT $1 OFFSET $2`, reviewColumns)

	return r.listReviews(ctx, query, limit, offset)
}

// ExistsActiveForBuyer reports whether the buyer already reviewed the product.
func (r *ReviewRepository) ExistsActiveForBuyer(ctx context.Context, productID, buyerID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM reviews
			WHERE product_id = $1 AND buyer_id = $2 AND is_active = TRUE
		)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, productID, buyerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check existing review: %w", err)
	}

	return exists, nil
}

// SoftDelete marks a review inactive. A row that is missing or already
// inactive affects nothing and reports not found.
func (r *ReviewRepository) SoftDelete(ctx context.Context, id string) error {
	query := `UPDATE reviews SET is_active = FALSE WHERE id = $1 AND is_active = TRUE`

	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("soft delete review: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("review", id)
	}

	return nil
}

func (r *ReviewRepository) listReviews(ctx context.Context, query string, args ...any) ([]domain.Review, int, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var (
		reviews    []domain.Review
		totalCount int
	)

	for rows.Next() {
		var rev domain.Review
		if err := rows.Scan(
			&rev.ID,
			&rev.ProductID,
			&rev.BuyerID,
			&rev.Grade,
			&rev.Comment,
			&rev.CommentDate,
			&rev.IsActive,
			&rev.CreatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, rev)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate review rows: %w", err)
	}

	if reviews == nil {
		reviews = []domain.Review{}
	}

	return reviews, totalCount, nil
}

func (r *ReviewRepository) scanReview(ctx context.Context, query string, args ...any) (*domain.Review, error) {
	var rev domain.Review
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&rev.ID,
		&rev.ProductID,
		&rev.BuyerID,
		&rev.Grade,
		&rev.Comment,
		&rev.CommentDate,
		&rev.IsActive,
		&rev.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan review: %w", err)
	}

	return &rev, nil
}
