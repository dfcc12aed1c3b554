package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/marketplace/internal/domain"
	"github.com/utafrali/marketplace/internal/policy"
	"github.com/utafrali/marketplace/internal/repository"
	apperrors "github.com/utafrali/marketplace/pkg/errors"
	"github.com/utafrali/marketplace/pkg/slug"
)

// CategoryService implements category management. Mutations are admin-only;
// reads are public.
type CategoryService struct {
	store  repository.Store
	logger *slog.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(store repository.Store, logger *slog.Logger) *CategoryService {
	return &CategoryService{
		store:  store,
		logger: logger,
	}
}

// CreateCategory creates a new active category.
func (s *CategoryService) CreateCategory(ctx context.Context, principal policy.Principal, input *domain.CreateCategoryInput) (*domain.Category, error) {
	if d := policy.Decide(policy.ActionCreateCategory, principal, nil); !d.Allowed {
		return nil, apperrors.Forbidden(d.Reason)
	}

	now := time.Now().UTC()
	category := &domain.Category{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Slug:        slug.Generate(input.Name),
		Description: input.Description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.Categories().Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.logger.InfoContext(ctx, "category created",
		slog.String("category_id", category.ID),
		slog.String("slug", category.Slug),
	)

	return category, nil
}

// GetCategory retrieves an active category by ID.
func (s *CategoryService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	category, err := s.store.Categories().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category by id: %w", err)
	}
	if !category.IsActive {
		return nil, apperrors.NotFound("category", id)
	}
	return category, nil
}

// GetCategoryBySlug retrieves an active category by its slug.
func (s *CategoryService) GetCategoryBySlug(ctx context.Context, categorySlug string) (*domain.Category, error) {
	category, err := s.store.Categories().GetBySlug(ctx, categorySlug)
	if err != nil {
		return nil, fmt.Errorf("get category by slug: %w", err)
	}
	return category, nil
}

// ListCategories returns all active categories.
func (s *CategoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.store.Categories().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// UpdateCategory applies a partial update to a category (admin only).
func (s *CategoryService) UpdateCategory(ctx context.Context, principal policy.Principal, id string, input *domain.UpdateCategoryInput) (*domain.Category, error) {
	if d := policy.Decide(policy.ActionUpdateCategory, principal, nil); !d.Allowed {
		return nil, apperrors.Forbidden(d.Reason)
	}

	var category *domain.Category
	err := s.store.WithTx(ctx, func(st repository.Store) error {
		var err error
		category, err = st.Categories().GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get category for update: %w", err)
		}
		if !category.IsActive {
			return apperrors.NotFound("category", id)
		}

		if input.Name != nil {
			category.Name = *input.Name
			category.Slug = slug.Generate(*input.Name)
		}
		if input.Description != nil {
			category.Description = input.Description
		}

		if err := st.Categories().Update(ctx, category); err != nil {
			return fmt.Errorf("update category: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "category updated",
		slog.String("category_id", category.ID),
	)

	return category, nil
}

// DeleteCategory soft-deletes a category (admin only). Existing products
// keep their reference; the category simply stops accepting new products.
func (s *CategoryService) DeleteCategory(ctx context.Context, principal policy.Principal, id string) error {
	if d := policy.Decide(policy.ActionDeleteCategory, principal, nil); !d.Allowed {
		return apperrors.Forbidden(d.Reason)
	}

	if err := s.store.Categories().SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("soft delete category: %w", err)
	}

	s.logger.InfoContext(ctx, "category deleted",
		slog.String("category_id", id),
	)

	return nil
}
