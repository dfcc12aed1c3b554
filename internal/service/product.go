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
	"github.com/utafrali/marketplace/pkg/slug"
)

// ProductCache is the cache surface the product service depends on.
type ProductCache interface {
	Get(ctx context.Context, id string) (*domain.Product, bool)
	Set(ctx context.Context, p *domain.Product)
	Invalidate(ctx context.Context, id string)
}

// ProductService orchestrates product mutations: policy check, referential
// validation, and the write run as one transactional unit.
type ProductService struct {
	store    repository.Store
	producer event.Publisher
	cache    ProductCache
	logger   *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(store repository.Store, producer event.Publisher, cache ProductCache, logger *slog.Logger) *ProductService {
	return &ProductService{
		store:    store,
		producer: producer,
		cache:    cache,
		logger:   logger,
	}
}

// CreateProduct creates a product owned by the calling seller. The category
// must be active at write time; resolution and insert share one transaction
// so a concurrent category deactivation cannot slip between them.
func (s *ProductService) CreateProduct(ctx context.Context, principal policy.Principal, input *domain.CreateProductInput) (*domain.Product, error) {
	if d := policy.Decide(policy.ActionCreateProduct, principal, nil); !d.Allowed {
		return nil, apperrors.Forbidden(d.Reason)
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:          uuid.New().String(),
		SellerID:    principal.ID,
		CategoryID:  input.CategoryID,
		Name:        input.Name,
		Slug:        slug.Generate(input.Name) + "-" + shortID(),
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Rating:      0,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.store.WithTx(ctx, func(st repository.Store) error {
		if err := s.requireActiveCategory(ctx, st, input.CategoryID); err != nil {
			return err
		}
		if err := st.Products().Create(ctx, product); err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.producer.ProductCreated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("seller_id", product.SellerID),
	)

	return product, nil
}

// GetProduct retrieves an active product by its ID, cache first.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if p, ok := s.cache.Get(ctx, id); ok {
		return p, nil
	}

	product, err := s.store.Products().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}

	s.cache.Set(ctx, product)
	return product, nil
}

// GetProductBySlug retrieves an active product by its slug.
func (s *ProductService) GetProductBySlug(ctx context.Context, productSlug string) (*domain.Product, error) {
	product, err := s.store.Products().GetBySlug(ctx, productSlug)
	if err != nil {
		return nil, fmt.Errorf("get product by slug: %w", err)
	}

	s.cache.Set(ctx, product)
	return product, nil
}

// ListProducts returns a filtered, paginated list of active products.
// An inverted price range is rejected before any query runs.
func (s *ProductService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return nil, 0, apperrors.InvalidInput("min_price must not exceed max_price")
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}

	products, total, err := s.store.Products().List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	return products, total, nil
}

// UpdateProduct applies a partial update to a product the caller owns.
// Unset fields are left untouched. A changed category must be active.
func (s *ProductService) UpdateProduct(ctx context.Context, principal policy.Principal, id string, input *domain.UpdateProductInput) (*domain.Product, error) {
	var product *domain.Product

	err := s.store.WithTx(ctx, func(st repository.Store) error {
		var err error
		product, err = st.Products().GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get product for update: %w", err)
		}

		if d := policy.Decide(policy.ActionUpdateProduct, principal, &policy.Target{OwnerID: product.SellerID}); !d.Allowed {
			return apperrors.Forbidden(d.Reason)
		}

		if input.CategoryID != nil && *input.CategoryID != product.CategoryID {
			if err := s.requireActiveCategory(ctx, st, *input.CategoryID); err != nil {
				return err
			}
			product.CategoryID = *input.CategoryID
		}

		if input.Name != nil {
			product.Name = *input.Name
			product.Slug = slug.Generate(*input.Name) + "-" + shortID()
		}
		if input.Description != nil {
			product.Description = *input.Description
		}
		if input.Price != nil {
			product.Price = *input.Price
		}
		if input.Stock != nil {
			product.Stock = *input.Stock
		}

		if err := st.Products().Update(ctx, product); err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, product.ID)

	if err := s.producer.ProductUpdated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", product.ID),
	)

	return product, nil
}

// DeleteProduct soft-deletes a product the caller owns. Deleting a product
// that is missing or already inactive reports not found.
func (s *ProductService) DeleteProduct(ctx context.Context, principal policy.Principal, id string) (*domain.Product, error) {
	var product *domain.Product

	err := s.store.WithTx(ctx, func(st repository.Store) error {
		var err error
		product, err = st.Products().GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get product for delete: %w", err)
		}

		if d := policy.Decide(policy.ActionDeleteProduct, principal, &policy.Target{OwnerID: product.SellerID}); !d.Allowed {
			return apperrors.Forbidden(d.Reason)
		}

		if err := st.Products().SoftDelete(ctx, id); err != nil {
			return fmt.Errorf("soft delete product: %w", err)
		}
		product.IsActive = false
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, id)

	if err := s.producer.ProductDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id),
	)

	return product, nil
}

// requireActiveCategory fails with a referential error when the category is
// missing or inactive. A missing category is deliberately not a 404: the
// category is a precondition of the write, not its target.
func (s *ProductService) requireActiveCategory(ctx context.Context, st repository.Store, categoryID string) error {
	category, err := st.Categories().GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.Referential("category not found or inactive")
		}
		return fmt.Errorf("resolve category: %w", err)
	}
	if !category.IsActive {
		return apperrors.Referential("category not found or inactive")
	}
	return nil
}

// shortID returns an 8-character uniqueness suffix for generated slugs.
func shortID() string {
	return uuid.New().String()[:8]
}
