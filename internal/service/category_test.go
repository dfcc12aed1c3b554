package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/marketplace/internal/domain"
	apperrors "github.com/utafrali/marketplace/pkg/errors"
)

func newTestCategoryService(store *mockStore) *CategoryService {
	return NewCategoryService(store, newTestLogger())
}

func TestCreateCategory_AdminSuccess(t *testing.T) {
	store := newMockStore()
	svc := newTestCategoryService(store)
	ctx := context.Background()

	store.categories.On("Create", ctx, mock.AnythingOfType("*domain.Category")).Return(nil)

	category, err := svc.CreateCategory(ctx, adminPrincipal, &domain.CreateCategoryInput{Name: "Home & Garden"})

	require.NoError(t, err)
	assert.NotEmpty(t, category.ID)
	assert.Equal(t, "home-garden", category.Slug)
	assert.True(t, category.IsActive)
	store.assertExpectations(t)
}

func TestCreateCategory_NonAdminForbidden(t *testing.T) {
	store := newMockStore()
	svc := newTestCategoryService(store)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, sellerPrincipal, &domain.CreateCategoryInput{Name: "Toys"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.CreateCategory(ctx, buyerPrincipal, &domain.CreateCategoryInput{Name: "Toys"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	store.assertExpectations(t)
}

func TestGetCategory_InactiveReportsNotFound(t *testing.T) {
	store := newMockStore()
	svc := newTestCategoryService(store)
	ctx := context.Background()

	inactive := activeCategory()
	inactive.IsActive = false
	store.categories.On("GetByID", ctx, "cat-1").Return(inactive, nil)

	_, err := svc.GetCategory(ctx, "cat-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	store.assertExpectations(t)
}

func TestGetCategoryBySlug_Success(t *testing.T) {
	store := newMockStore()
	svc := newTestCategoryService(store)
	ctx := context.Background()

	store.categories.On("GetBySlug", ctx, "electronics").Return(activeCategory(), nil)

	category, err := svc.GetCategoryBySlug(ctx, "electronics")

	require.NoError(t, err)
	assert.Equal(t, "cat-1", category.ID)
	store.assertExpectations(t)
}

func TestUpdateCategory_AdminSuccess_RegeneratesSlug(t *testing.T) {
	store := newMockStore()
	svc := newTestCategoryService(store)
	ctx := context.Background()

	store.categories.On("GetByID", ctx, "cat-1").Return(activeCategory(), nil)
	store.categories.On("Update", ctx, mock.AnythingOfType("*domain.Category")).Return(nil)

	name := "Consumer Electronics"
	updated, err := svc.UpdateCategory(ctx, adminPrincipal, "cat-1", &domain.UpdateCategoryInput{Name: &name})

	require.NoError(t, err)
	assert.Equal(t, "Consumer Electronics", updated.Name)
	assert.Equal(t, "consumer-electronics", updated.Slug)
	store.assertExpectations(t)
}

func TestUpdateCategory_InactiveNotFound(t *testing.T) {
	store := newMockStore()
	svc := newTestCategoryService(store)
	ctx := context.Background()

	inactive := activeCategory()
	inactive.IsActive = false
	store.categories.On("GetByID", ctx, "cat-1").Return(inactive, nil)

	name := "Renamed"
	_, err := svc.UpdateCategory(ctx, adminPrincipal, "cat-1", &domain.UpdateCategoryInput{Name: &name})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	store.assertExpectations(t)
}

func TestDeleteCategory_AdminSuccess(t *testing.T) {
	store := newMockStore()
	svc := newTestCategoryService(store)
	ctx := context.Background()

	store.categories.On("SoftDelete", ctx, "cat-1").Return(nil)

	err := svc.DeleteCategory(ctx, adminPrincipal, "cat-1")
	assert.NoError(t, err)
	store.assertExpectations(t)
}

func TestDeleteCategory_NonAdminForbidden(t *testing.T) {
	store := newMockStore()
	svc := newTestCategoryService(store)

	err := svc.DeleteCategory(context.Background(), sellerPrincipal, "cat-1")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	store.assertExpectations(t)
}

func TestListCategories_Success(t *testing.T) {
	store := newMockStore()
	svc := newTestCategoryService(store)
	ctx := context.Background()

	store.categories.On("List", ctx).Return([]domain.Category{*activeCategory()}, nil)

	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 1)
	store.assertExpectations(t)
}
