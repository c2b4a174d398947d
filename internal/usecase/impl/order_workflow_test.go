package impl

import (
	"context"
	"testing"

	"storefront/config"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/metrics"
	"storefront/internal/infra/persistence/postgres"
	mockSvc "storefront/internal/mocks/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

type orderWorkflow struct {
	orders   usecase.OrderUsecase
	users    repository.UserRepository
	catalog  repository.CategoryRepository
	products repository.ProductRepository
}

// newOrderWorkflow wires the order service to the GORM repositories over an in-memory SQLite database.
func newOrderWorkflow(t *testing.T) orderWorkflow {
	t.Helper()

	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	require.NoError(t, postgres.NewSchemaMigrator(db).Migrate(context.Background()))

	wf := orderWorkflow{
		users:    postgres.NewUserRepository(db),
		catalog:  postgres.NewCategoryRepository(db),
		products: postgres.NewProductRepository(db),
	}
	wf.orders = NewOrderService(OrderServiceParams{
		TxManager:   postgres.NewTransactionManager(db),
		OrderRepo:   postgres.NewOrderRepository(db),
		ProductRepo: wf.products,
		UserRepo:    wf.users,
		Metrics:     metrics.NewBusinessMetrics(metrics.New(&config.Config{})),
		Logger:      newDiscardLogger(),
	})

	return wf
}

func (wf orderWorkflow) seedProduct(t *testing.T, name string, price float64, stock int) *entity.Product {
	t.Helper()
	ctx := context.Background()

	category := entity.NewCategory("Category "+uuid.NewString()[:8], "Seeded")
	require.NoError(t, wf.catalog.Create(ctx, category))

	product := entity.NewProduct(name, "Seeded product", price, category.ID, stock, "")
	require.NoError(t, wf.products.Create(ctx, product))

	return product
}

// productUsecase builds the product service over repo, which may wrap wf.products.
func (wf orderWorkflow) productUsecase(t *testing.T, repo repository.ProductRepository) usecase.ProductUsecase {
	t.Helper()

	return NewProductService(ProductServiceParams{
		ProductRepo:  repo,
		CategoryRepo: wf.catalog,
		Media:        mockSvc.NewMockMediaStorage(t),
		Logger:       newDiscardLogger(),
	})
}

// interleavedProductRepository runs beforeUpdate ahead of every Update, standing in for a
// concurrent writer that commits between the service's read and its write.
type interleavedProductRepository struct {
	repository.ProductRepository
	beforeUpdate func(ctx context.Context)
}

func (repo interleavedProductRepository) Update(ctx context.Context, product *entity.Product, fields []repository.ProductField) error {
	repo.beforeUpdate(ctx)

	return repo.ProductRepository.Update(ctx, product, fields)
}

func (wf orderWorkflow) stockOf(t *testing.T, id uuid.UUID) int {
	t.Helper()

	product, err := wf.products.FindByID(context.Background(), id)
	require.NoError(t, err)

	return product.Stock
}

func TestOrderWorkflow_PlaceShipAndReject(t *testing.T) {
	wf := newOrderWorkflow(t)
	ctx := context.Background()

	customer := entity.NewUser("Jane", "jane@example.com", entity.RoleCustomer)
	customer.PasswordHash = "hashed"
	require.NoError(t, wf.users.Create(ctx, customer))
	requester := usecase.Requester{UserID: customer.ID, Role: entity.RoleCustomer}

	mug := wf.seedProduct(t, "Mug", 10, 5)

	placed, err := wf.orders.CreateOrder(ctx, requester, usecase.CreateOrderInput{
		Items: []usecase.OrderItemInput{{ProductID: mug.ID.String(), Quantity: 3}},
	})
	require.NoError(t, err)
	assert.InDelta(t, 30.0, placed.Order.Total, 0.0001)
	assert.Equal(t, 2, wf.stockOf(t, mug.ID))
	require.NotNil(t, placed.Owner)
	assert.Equal(t, "jane@example.com", placed.Owner.Email)

	shipped, err := wf.orders.UpdateOrderStatus(ctx, placed.Order.ID, "shipped")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusShipped, shipped.Order.Status)

	_, err = wf.orders.CreateOrder(ctx, requester, usecase.CreateOrderInput{
		Items: []usecase.OrderItemInput{{ProductID: mug.ID.String(), Quantity: 4}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInsufficientStock))
	assert.Equal(t, 2, wf.stockOf(t, mug.ID))

	mine, err := wf.orders.ListMyOrders(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Mug", mine[0].Products[mug.ID].Name)
}

func TestOrderWorkflow_FailedLineLeavesStockUntouched(t *testing.T) {
	wf := newOrderWorkflow(t)
	ctx := context.Background()

	mug := wf.seedProduct(t, "Mug", 10, 5)
	lamp := wf.seedProduct(t, "Lamp", 40, 1)

	_, err := wf.orders.CreateGuestOrder(ctx, usecase.CreateOrderInput{
		Items: []usecase.OrderItemInput{
			{ProductID: mug.ID.String(), Quantity: 2},
			{ProductID: lamp.ID.String(), Quantity: 2},
		},
		CustomerInfo: &entity.CustomerInfo{Name: "Walk In", Phone: "555", Address: "1 Main St"},
	})

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Insufficient stock for Lamp", appErr.Message())
	assert.Equal(t, 5, wf.stockOf(t, mug.ID))
	assert.Equal(t, 1, wf.stockOf(t, lamp.ID))

	orders, err := wf.orders.ListOrders(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderWorkflow_RepeatedLinesShareStock(t *testing.T) {
	wf := newOrderWorkflow(t)
	ctx := context.Background()

	mug := wf.seedProduct(t, "Mug", 10, 3)

	_, err := wf.orders.CreateGuestOrder(ctx, usecase.CreateOrderInput{
		Items: []usecase.OrderItemInput{
			{ProductID: mug.ID.String(), Quantity: 2},
			{ProductID: mug.ID.String(), Quantity: 2},
		},
		CustomerInfo: &entity.CustomerInfo{Name: "Walk In", Phone: "555", Address: "1 Main St"},
	})

	assert.True(t, errors.Is(err, domainerrors.ErrInsufficientStock))
	assert.Equal(t, 3, wf.stockOf(t, mug.ID))
}

func TestOrderWorkflow_ProductEditKeepsConcurrentStockDebit(t *testing.T) {
	wf := newOrderWorkflow(t)
	ctx := context.Background()

	mug := wf.seedProduct(t, "Mug", 10, 5)
	products := wf.productUsecase(t, interleavedProductRepository{
		ProductRepository: wf.products,
		beforeUpdate: func(ctx context.Context) {
			_, err := wf.orders.CreateGuestOrder(ctx, usecase.CreateOrderInput{
				Items:        []usecase.OrderItemInput{{ProductID: mug.ID.String(), Quantity: 3}},
				CustomerInfo: &entity.CustomerInfo{Name: "Walk In", Phone: "555", Address: "1 Main St"},
			})
			require.NoError(t, err)
		},
	})

	updated, err := products.UpdateProduct(ctx, mug.ID, usecase.ProductInput{Name: ptr("Stoneware Mug")})

	require.NoError(t, err)
	assert.Equal(t, "Stoneware Mug", updated.Product.Name)
	assert.Equal(t, 2, updated.Product.Stock)
	assert.Equal(t, 2, wf.stockOf(t, mug.ID))
}

func TestOrderWorkflow_PriceEditLeavesPlacedOrderUnchanged(t *testing.T) {
	wf := newOrderWorkflow(t)
	ctx := context.Background()

	customer := entity.NewUser("Jane", "jane@example.com", entity.RoleCustomer)
	customer.PasswordHash = "hashed"
	require.NoError(t, wf.users.Create(ctx, customer))
	requester := usecase.Requester{UserID: customer.ID, Role: entity.RoleCustomer}

	mug := wf.seedProduct(t, "Mug", 10, 5)
	lamp := wf.seedProduct(t, "Lamp", 40, 2)

	placed, err := wf.orders.CreateOrder(ctx, requester, usecase.CreateOrderInput{
		Items: []usecase.OrderItemInput{
			{ProductID: mug.ID.String(), Quantity: 2},
			{ProductID: lamp.ID.String(), Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.InDelta(t, 60.0, placed.Order.Total, 0.0001)

	products := wf.productUsecase(t, wf.products)
	_, err = products.UpdateProduct(ctx, mug.ID, usecase.ProductInput{Price: ptr(25.0)})
	require.NoError(t, err)
	_, err = products.UpdateProduct(ctx, lamp.ID, usecase.ProductInput{Price: ptr(5.0)})
	require.NoError(t, err)

	got, err := wf.orders.GetOrder(ctx, requester, placed.Order.ID)
	require.NoError(t, err)
	mine, err := wf.orders.ListMyOrders(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	for _, detail := range []*usecase.OrderDetail{got, mine[0]} {
		assert.InDelta(t, 60.0, detail.Order.Total, 0.0001)
		require.Len(t, detail.Order.Items, 2)
		prices := map[uuid.UUID]float64{}
		for _, item := range detail.Order.Items {
			prices[item.ProductID] = item.Price
		}
		assert.InDelta(t, 10.0, prices[mug.ID], 0.0001)
		assert.InDelta(t, 40.0, prices[lamp.ID], 0.0001)

		require.Contains(t, detail.Products, mug.ID)
		assert.InDelta(t, 25.0, detail.Products[mug.ID].Price, 0.0001)
		require.Contains(t, detail.Products, lamp.ID)
		assert.InDelta(t, 5.0, detail.Products[lamp.ID].Price, 0.0001)
	}
}
