package postgres

import (
	"context"

	"github.com/utafrali/marketplace/internal/repository"
	"github.com/utafrali/marketplace/pkg/database"
)

// Store implements repository.Store over PostgreSQL. Outside a transaction
// its repositories run against the pool; WithTx hands fn a store whose
// repositories share a single pgx transaction.
type Store struct {
	db      database.DBTX
	starter database.TxStarter
}

// NewStore creates a store backed by the given connection source.
func NewStore(db database.TxStarter) *Store {
	return &Store{db: db, starter: db}
}

// Products returns the product repository bound to the current connection.
func (s *Store) Products() repository.ProductRepository {
	return NewProductRepository(s.db)
}

// Reviews returns the review repository bound to the current connection.
func (s *Store) Reviews() repository.ReviewRepository {
	return NewReviewRepository(s.db)
}

// Categories returns the category repository bound to the current connection.
func (s *Store) Categories() repository.CategoryRepository {
	return NewCategoryRepository(s.db)
}

// Users returns the user repository bound to the current connection.
func (s *Store) Users() repository.UserRepository {
	return NewUserRepository(s.db)
}

// WithTx runs fn against a transactional copy of the store. Nested calls
// reuse the surrounding transaction rather than opening a new one.
func (s *Store) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	if s.starter == nil {
		return fn(s)
	}

	return database.WithTx(ctx, s.starter, func(tx database.DBTX) error {
		return fn(&Store{db: tx})
	})
}
