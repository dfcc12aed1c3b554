package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/utafrali/marketplace/internal/auth"
	"github.com/utafrali/marketplace/internal/domain"
	"github.com/utafrali/marketplace/internal/repository"
	"github.com/utafrali/marketplace/internal/service"
	"github.com/utafrali/marketplace/pkg/health"
	"github.com/utafrali/marketplace/pkg/middleware"
)

const (
	testCategoryID = "3f7d1a52-9c41-4a8e-b7d0-1f2e3a4b5c6d"
	testProductID  = "7a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d"
	testReviewID   = "9e8d7c6b-5a4f-4e3d-b2c1-0a9b8c7d6e5f"
	testUserID     = "1c2d3e4f-5a6b-4c7d-8e9f-0a1b2c3d4e5f"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Mock repositories ---

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepo) GetAnyByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func (m *mockProductRepo) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProductRepo) RecomputeRating(ctx context.Context, productID string) (float64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(float64), args.Error(1)
}

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) Create(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewRepo) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepo) GetAnyByID(ctx context.Context, id string) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]domain.Review, int, error) {
	args := m.Called(ctx, productID, limit, offset)
	return args.Get(0).([]domain.Review), args.Int(1), args.Error(2)
}

func (m *mockReviewRepo) List(ctx context.Context, limit, offset int) ([]domain.Review, int, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]domain.Review), args.Int(1), args.Error(2)
}

func (m *mockReviewRepo) ExistsActiveForBuyer(ctx context.Context, productID, buyerID string) (bool, error) {
	args := m.Called(ctx, productID, buyerID)
	return args.Bool(0), args.Error(1)
}

func (m *mockReviewRepo) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockCategoryRepo struct {
	mock.Mock
}

func (m *mockCategoryRepo) Create(ctx context.Context, category *domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *mockCategoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *mockCategoryRepo) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *mockCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *mockCategoryRepo) Update(ctx context.Context, category *domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *mockCategoryRepo) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- Mock store ---

type mockStore struct {
	products   *mockProductRepo
	reviews    *mockReviewRepo
	categories *mockCategoryRepo
	users      *mockUserRepo
}

func newMockStore() *mockStore {
	return &mockStore{
		products:   new(mockProductRepo),
		reviews:    new(mockReviewRepo),
		categories: new(mockCategoryRepo),
		users:      new(mockUserRepo),
	}
}

func (m *mockStore) Products() repository.ProductRepository    { return m.products }
func (m *mockStore) Reviews() repository.ReviewRepository      { return m.reviews }
func (m *mockStore) Categories() repository.CategoryRepository { return m.categories }
func (m *mockStore) Users() repository.UserRepository          { return m.users }

func (m *mockStore) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	return fn(m)
}

func (m *mockStore) assertExpectations(t *testing.T) {
	t.Helper()
	m.products.AssertExpectations(t)
	m.reviews.AssertExpectations(t)
	m.categories.AssertExpectations(t)
	m.users.AssertExpectations(t)
}

// --- Stubs ---

type stubPublisher struct{}

func (stubPublisher) ProductCreated(context.Context, *domain.Product) error        { return nil }
func (stubPublisher) ProductUpdated(context.Context, *domain.Product) error        { return nil }
func (stubPublisher) ProductDeleted(context.Context, string) error                 { return nil }
func (stubPublisher) ReviewCreated(context.Context, *domain.Review, float64) error { return nil }
func (stubPublisher) ReviewDeleted(context.Context, *domain.Review, float64) error { return nil }
func (stubPublisher) UserRegistered(context.Context, *domain.User) error           { return nil }

type stubCache struct{}

func (stubCache) Get(context.Context, string) (*domain.Product, bool) { return nil, false }
func (stubCache) Set(context.Context, *domain.Product)                {}
func (stubCache) Invalidate(context.Context, string)                  {}

// --- Router under test ---

type testEnv struct {
	store  *mockStore
	router http.Handler
	jwt    *auth.JWTManager
}

func newTestEnv() *testEnv {
	store := newMockStore()
	logger := newTestLogger()
	jwt := auth.NewJWTManager("test-secret", 15*time.Minute, 24*time.Hour)
	pub := stubPublisher{}
	cache := stubCache{}

	router := NewRouter(RouterConfig{
		Products:   service.NewProductService(store, pub, cache, logger),
		Reviews:    service.NewReviewService(store, pub, cache, logger),
		Categories: service.NewCategoryService(store, logger),
		Accounts:   service.NewAccountService(store, jwt, pub, logger),
		JWT:        jwt,
		Health:     health.NewHandler(),
		Logger:     logger,
		CORS:       middleware.CORSConfig{Environment: "development"},
	})

	return &testEnv{store: store, router: router, jwt: jwt}
}

func (e *testEnv) tokenFor(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := e.jwt.GenerateAccessToken(userID, userID+"@example.com", role)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func int64Ptr(v int64) *int64 { return &v }

// Sample entities.

func sampleCategory() *domain.Category {
	now := time.Now().UTC()
	return &domain.Category{
		ID:        testCategoryID,
		Name:      "Electronics",
		Slug:      "electronics",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func sampleProduct() *domain.Product {
	now := time.Now().UTC()
	return &domain.Product{
		ID:         testProductID,
		SellerID:   "seller-1",
		CategoryID: testCategoryID,
		Name:       "Headphones",
		Slug:       "headphones-abc12345",
		Price:      4999,
		Stock:      10,
		Rating:     4.5,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func sampleReview() *domain.Review {
	now := time.Now().UTC()
	return &domain.Review{
		ID:          testReviewID,
		ProductID:   testProductID,
		BuyerID:     "buyer-1",
		Grade:       4,
		Comment:     "Works well.",
		CommentDate: now,
		IsActive:    true,
		CreatedAt:   now,
	}
}
