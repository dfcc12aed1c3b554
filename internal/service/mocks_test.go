package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/utafrali/marketplace/internal/domain"
	"github.com/utafrali/marketplace/internal/policy"
	"github.com/utafrali/marketplace/internal/repository"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Principals ---

var (
	sellerPrincipal = policy.Principal{ID: "seller-1", Role: domain.RoleSeller}
	buyerPrincipal  = policy.Principal{ID: "buyer-1", Role: domain.RoleBuyer}
	adminPrincipal  = policy.Principal{ID: "admin-1", Role: domain.RoleAdmin}
)

// --- Mock Store ---

// mockStore satisfies repository.Store. WithTx simply runs fn against the
// same mocks, which mirrors the nested-transaction behavior of the real
// store closely enough for orchestration tests.
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

// --- Mock Product Repository ---

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

// --- Mock Review Repository ---

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

// --- Mock Category Repository ---

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

// --- Mock User Repository ---

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

// --- Stub Publisher ---

// stubPublisher records published events without touching Kafka.
type stubPublisher struct {
	productCreated int
	productUpdated int
	productDeleted int
	reviewCreated  int
	reviewDeleted  int
	userRegistered int
	lastRating     float64
}

func (p *stubPublisher) ProductCreated(ctx context.Context, product *domain.Product) error {
	p.productCreated++
	return nil
}

func (p *stubPublisher) ProductUpdated(ctx context.Context, product *domain.Product) error {
	p.productUpdated++
	return nil
}

func (p *stubPublisher) ProductDeleted(ctx context.Context, id string) error {
	p.productDeleted++
	return nil
}

func (p *stubPublisher) ReviewCreated(ctx context.Context, review *domain.Review, newRating float64) error {
	p.reviewCreated++
	p.lastRating = newRating
	return nil
}

func (p *stubPublisher) ReviewDeleted(ctx context.Context, review *domain.Review, newRating float64) error {
	p.reviewDeleted++
	p.lastRating = newRating
	return nil
}

func (p *stubPublisher) UserRegistered(ctx context.Context, user *domain.User) error {
	p.userRegistered++
	return nil
}

// --- Stub Cache ---

// stubCache is a miss-always cache that records invalidations.
type stubCache struct {
	entries     map[string]*domain.Product
	invalidated []string
	sets        int
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]*domain.Product)}
}

func (c *stubCache) Get(ctx context.Context, id string) (*domain.Product, bool) {
	p, ok := c.entries[id]
	return p, ok
}

func (c *stubCache) Set(ctx context.Context, p *domain.Product) {
	c.sets++
	c.entries[p.ID] = p
}

func (c *stubCache) Invalidate(ctx context.Context, id string) {
	c.invalidated = append(c.invalidated, id)
	delete(c.entries, id)
}
