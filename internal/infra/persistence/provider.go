// Package persistence selects the storage backend configured under storage.driver
// and exposes its repositories to the application.
package persistence

import (
	"log/slog"

	"storefront/config"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/metrics"
	"storefront/internal/infra/persistence/mongostore"
	"storefront/internal/infra/persistence/postgres"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config  *config.Config
	Logger  *slog.Logger
	Metrics *metrics.Metrics `optional:"true"`
}

// Result is every repository of the selected backend.
type Result struct {
	fx.Out

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	CategoryRepo repository.CategoryRepository
	ProductRepo  repository.ProductRepository
	OrderRepo    repository.OrderRepository
	Migrator     repository.SchemaMigrator
}

// New opens only the configured backend; its connection lifecycle is tied to the fx lifecycle.
func New(params Params) (Result, error) {
	switch params.Config.Storage.Driver {
	case config.StorageDriverMongo:
		store, err := mongostore.New(mongostore.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return Result{}, err
		}

		return Result{
			TxManager:    mongostore.NewTransactionManager(store),
			UserRepo:     mongostore.NewUserRepository(store),
			CategoryRepo: mongostore.NewCategoryRepository(store),
			ProductRepo:  mongostore.NewProductRepository(store),
			OrderRepo:    mongostore.NewOrderRepository(store),
			Migrator:     mongostore.NewSchemaMigrator(store),
		}, nil

	case config.StorageDriverPostgres, "":
		if params.Config.Postgres == nil {
			return Result{}, errors.New("postgres configuration must be provided")
		}

		db, err := postgres.New(postgres.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
			Metrics:   params.Metrics,
		})
		if err != nil {
			return Result{}, err
		}

		return Result{
			TxManager:    postgres.NewTransactionManager(db),
			UserRepo:     postgres.NewUserRepository(db),
			CategoryRepo: postgres.NewCategoryRepository(db),
			ProductRepo:  postgres.NewProductRepository(db),
			OrderRepo:    postgres.NewOrderRepository(db),
			Migrator:     postgres.NewSchemaMigrator(db),
		}, nil

	default:
		return Result{}, errors.Errorf("unknown storage driver: %q", params.Config.Storage.Driver)
	}
}
