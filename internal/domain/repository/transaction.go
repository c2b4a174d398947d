package repository

import "context"

// TransactionManager defines the interface for managing database transactions.
// This allows the use case layer to handle transactions without depending on a specific DB driver like GORM.
type TransactionManager interface {
	// Execute runs a function within a database transaction.
	// If the function returns an error, the transaction is rolled back. Otherwise, it's committed.
	// The function must use the context and repositories it is given so every call joins the transaction.
	Execute(ctx context.Context, fn func(ctx context.Context, txRepoFactory RepositoryFactory) error) error
}

// RepositoryFactory provides a way to get repository instances that are bound to a specific transaction.
// This ensures all repository operations within a transaction use the same database connection.
type RepositoryFactory interface {
	UserRepo() UserRepository

	CategoryRepo() CategoryRepository

	ProductRepo() ProductRepository

	OrderRepo() OrderRepository
}

// SchemaMigrator prepares the backing store: tables and indexes for SQL, indexes for documents.
type SchemaMigrator interface {
	Migrate(ctx context.Context) error
}
