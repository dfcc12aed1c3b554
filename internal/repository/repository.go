package repository

import (
	"context"

	"github.com/utafrali/marketplace/internal/domain"
)

// ProductFilter defines filter criteria for listing products. Nil fields
// are not applied. InStock selects stock > 0 when true and stock = 0 when
// false.
type ProductFilter struct {
	CategoryID *string
	SellerID   *string
	MinPrice   *int64
	MaxPrice   *int64
	InStock    *bool
	Page       int
	PageSize   int
}

// ProductRepository defines the interface for product persistence operations.
// Read methods return only active rows unless stated otherwise.
type ProductRepository interface {
	// Create inserts a new product.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves an active product by id.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// GetAnyByID retrieves a product regardless of its active flag.
	// Soft-deleted rows stay addressable this way for audit purposes.
	GetAnyByID(ctx context.Context, id string) (*domain.Product, error)

	// GetBySlug retrieves an active product by its URL-friendly slug.
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)

	// List returns active products matching the filter with the total count.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)

	// Update modifies an existing active product.
	Update(ctx context.Context, product *domain.Product) error

	// SoftDelete flips is_active to false. Deleting a row that is missing
	// or already inactive reports not found.
	SoftDelete(ctx context.Context, id string) error

	// RecomputeRating sets the product rating to the mean grade over its
	// active reviews (0 when none exist) and returns the new value.
	RecomputeRating(ctx context.Context, productID string) (float64, error)
}

// ReviewRepository defines the interface for review persistence operations.
type ReviewRepository interface {
	// Create inserts a new review.
	Create(ctx context.Context, review *domain.Review) error

	// GetByID retrieves an active review by id.
	GetByID(ctx context.Context, id string) (*domain.Review, error)

	// GetAnyByID retrieves a review regardless of its active flag.
	GetAnyByID(ctx context.Context, id string) (*domain.Review, error)

	// ListByProduct returns active reviews for a product, newest first,
	// with the total count.
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]domain.Review, int, error)

	// List returns all active reviews, newest first, with the total count.
	List(ctx context.Context, limit, offset int) ([]domain.Review, int, error)

	// ExistsActiveForBuyer reports whether the buyer already has an active
	// review for the product.
	ExistsActiveForBuyer(ctx context.Context, productID, buyerID string) (bool, error)

	// SoftDelete flips is_active to false. Deleting a row that is missing
	// or already inactive reports not found.
	SoftDelete(ctx context.Context, id string) error
}

// CategoryRepository defines the interface for category persistence operations.
type CategoryRepository interface {
	// Create inserts a new category.
	Create(ctx context.Context, category *domain.Category) error

	// GetByID retrieves a category regardless of its active flag. Callers
	// enforcing referential preconditions check IsActive themselves.
	GetByID(ctx context.Context, id string) (*domain.Category, error)

	// GetBySlug retrieves an active category by slug.
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)

	// List returns all active categories ordered by name.
	List(ctx context.Context) ([]domain.Category, error)

	// Update modifies an existing category.
	Update(ctx context.Context, category *domain.Category) error

	// SoftDelete flips is_active to false. Deleting a row that is missing
	// or already inactive reports not found.
	SoftDelete(ctx context.Context, id string) error
}

// UserRepository defines the interface for account persistence operations.
type UserRepository interface {
	// Create inserts a new user.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves an active user by id.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves an active user by email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Store bundles the repositories behind a single transactional boundary.
// WithTx runs fn against a store whose repositories share one database
// transaction; returning an error rolls everything back.
type Store interface {
	Products() ProductRepository
	Reviews() ReviewRepository
	Categories() CategoryRepository
	Users() UserRepository
	WithTx(ctx context.Context, fn func(Store) error) error
}
