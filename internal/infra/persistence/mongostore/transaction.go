package mongostore

import (
	"context"

	"storefront/internal/domain/repository"

	"github.com/pkg/errors"
)

type transactionManager struct {
	store *Store
}

// repositoryFactory hands out ordinary repositories. They join the transaction
// through the session carried by the context passed to the callback.
type repositoryFactory struct {
	store *Store
}

func (f *repositoryFactory) UserRepo() repository.UserRepository {
	return NewUserRepository(f.store)
}

func (f *repositoryFactory) CategoryRepo() repository.CategoryRepository {
	return NewCategoryRepository(f.store)
}

func (f *repositoryFactory) ProductRepo() repository.ProductRepository {
	return NewProductRepository(f.store)
}

func (f *repositoryFactory) OrderRepo() repository.OrderRepository {
	return NewOrderRepository(f.store)
}

// NewTransactionManager is the constructor for the session-based transaction manager.
func NewTransactionManager(store *Store) repository.TransactionManager {
	return &transactionManager{store: store}
}

// Execute runs fn inside a session transaction. The driver retries fn on transient
// transaction errors, so fn must not have side effects outside the database.
func (tm *transactionManager) Execute(ctx context.Context, fn func(ctx context.Context, txRepoFactory repository.RepositoryFactory) error) error {
	session, err := tm.store.client.StartSession()
	if err != nil {
		return errors.Wrap(err, "failed to start MongoDB session")
	}
	defer session.EndSession(ctx)

	factory := &repositoryFactory{store: tm.store}
	_, err = session.WithTransaction(ctx, func(txCtx context.Context) (any, error) {
		return nil, fn(txCtx, factory)
	})

	return err
}
