package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/utafrali/marketplace/internal/domain"
)

func TestCreateCategoryEndpoint_AdminSuccess(t *testing.T) {
	env := newTestEnv()
	token := env.tokenFor(t, "admin-1", domain.RoleAdmin)

	env.store.categories.On("Create", mock.Anything, mock.AnythingOfType("*domain.Category")).Return(nil)

	rec := doJSON(t, env, http.MethodPost, "/api/v1/categories", token, CreateCategoryRequest{Name: "Electronics"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	envelope := decodeEnvelope(t, rec)
	data := envelope["data"].(map[string]any)
	assert.Equal(t, "electronics", data["slug"])
	env.store.assertExpectations(t)
}

func TestCreateCategoryEndpoint_SellerForbidden(t *testing.T) {
	env := newTestEnv()
	token := env.tokenFor(t, "seller-1", domain.RoleSeller)

	rec := doJSON(t, env, http.MethodPost, "/api/v1/categories", token, CreateCategoryRequest{Name: "Electronics"})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	env.store.assertExpectations(t)
}

func TestListCategoriesEndpoint_Public(t *testing.T) {
	env := newTestEnv()

	env.store.categories.On("List", mock.Anything).Return([]domain.Category{*sampleCategory()}, nil)

	rec := doJSON(t, env, http.MethodGet, "/api/v1/categories", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	env.store.assertExpectations(t)
}

func TestGetCategoryEndpoint_Success(t *testing.T) {
	env := newTestEnv()

	env.store.categories.On("GetByID", mock.Anything, testCategoryID).Return(sampleCategory(), nil)

	rec := doJSON(t, env, http.MethodGet, "/api/v1/categories/"+testCategoryID, "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	env.store.assertExpectations(t)
}

func TestGetCategoryBySlugEndpoint_Success(t *testing.T) {
	env := newTestEnv()

	env.store.categories.On("GetBySlug", mock.Anything, "electronics").Return(sampleCategory(), nil)

	rec := doJSON(t, env, http.MethodGet, "/api/v1/categories/slug/electronics", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	data := envelope["data"].(map[string]any)
	assert.Equal(t, testCategoryID, data["id"])
	env.store.assertExpectations(t)
}

func TestDeleteCategoryEndpoint_AdminSuccess(t *testing.T) {
	env := newTestEnv()
	token := env.tokenFor(t, "admin-1", domain.RoleAdmin)

	env.store.categories.On("SoftDelete", mock.Anything, testCategoryID).Return(nil)

	rec := doJSON(t, env, http.MethodDelete, "/api/v1/categories/"+testCategoryID, token, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	env.store.assertExpectations(t)
}

func TestUpdateCategoryEndpoint_NoToken(t *testing.T) {
	env := newTestEnv()

	name := "Renamed"
	rec := doJSON(t, env, http.MethodPut, "/api/v1/categories/"+testCategoryID, "", UpdateCategoryRequest{Name: &name})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
