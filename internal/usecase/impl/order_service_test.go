package impl

import (
	"context"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	mockRepo "storefront/internal/mocks/repository"
	mockSvc "storefront/internal/mocks/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const txFuncType = "func(context.Context, repository.RepositoryFactory) error"

type orderServiceFixtures struct {
	service     usecase.OrderUsecase
	txManager   *mockRepo.MockTransactionManager
	orderRepo   *mockRepo.MockOrderRepository
	productRepo *mockRepo.MockProductRepository
	userRepo    *mockRepo.MockUserRepository
	metrics     *mockSvc.MockBusinessMetrics
}

func createTestOrderService(t *testing.T) orderServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	orderRepo := mockRepo.NewMockOrderRepository(t)
	productRepo := mockRepo.NewMockProductRepository(t)
	userRepo := mockRepo.NewMockUserRepository(t)
	metrics := mockSvc.NewMockBusinessMetrics(t)

	return orderServiceFixtures{
		service: NewOrderService(OrderServiceParams{
			TxManager:   txManager,
			OrderRepo:   orderRepo,
			ProductRepo: productRepo,
			UserRepo:    userRepo,
			Metrics:     metrics,
			Logger:      newDiscardLogger(),
		}),
		txManager:   txManager,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		metrics:     metrics,
	}
}

// expectTransaction runs the transactional callback against the given transaction-bound repositories.
func (fx orderServiceFixtures) expectTransaction(t *testing.T, txProducts *mockRepo.MockProductRepository, txOrders *mockRepo.MockOrderRepository) {
	fx.txManager.EXPECT().
		Execute(mock.Anything, mock.AnythingOfType(txFuncType)).
		RunAndReturn(func(ctx context.Context, fn func(context.Context, repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockFactory.EXPECT().ProductRepo().Return(txProducts)
			if txOrders != nil {
				mockFactory.EXPECT().OrderRepo().Return(txOrders)
			}

			return fn(ctx, mockFactory)
		})
}

func TestOrderService_CreateOrder_Success(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()

	customer := entity.NewUser("Jane", "jane@example.com", entity.RoleCustomer)
	product := entity.NewProduct("Mug", "Ceramic", 10, uuid.New(), 5, "")

	txProducts := mockRepo.NewMockProductRepository(t)
	txOrders := mockRepo.NewMockOrderRepository(t)
	fx.expectTransaction(t, txProducts, txOrders)

	txProducts.EXPECT().FindByID(ctx, product.ID).Return(product, nil)
	txProducts.EXPECT().DecrementStock(ctx, product.ID, 3).Return(nil)
	txOrders.EXPECT().Create(ctx, mock.AnythingOfType("*entity.Order")).Return(nil)
	fx.metrics.EXPECT().OrderCreated("website", 30.0).Return()
	fx.userRepo.EXPECT().FindByID(ctx, customer.ID).Return(customer, nil)

	detail, err := fx.service.CreateOrder(ctx,
		usecase.Requester{UserID: customer.ID, Role: entity.RoleCustomer},
		usecase.CreateOrderInput{Items: []usecase.OrderItemInput{{ProductID: product.ID.String(), Quantity: 3}}},
	)

	require.NoError(t, err)
	assert.InDelta(t, 30.0, detail.Order.Total, 0.0001)
	assert.Equal(t, entity.OrderStatusPending, detail.Order.Status)
	assert.Equal(t, entity.OrderSourceWebsite, detail.Order.Source)
	require.Len(t, detail.Order.Items, 1)
	assert.InDelta(t, 10.0, detail.Order.Items[0].Price, 0.0001)
	assert.Equal(t, customer, detail.Owner)
	assert.Equal(t, 2, detail.Products[product.ID].Stock)
}

func TestOrderService_CreateOrder_InsufficientStock(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()

	product := entity.NewProduct("Mug", "Ceramic", 10, uuid.New(), 2, "")
	txProducts := mockRepo.NewMockProductRepository(t)
	fx.expectTransaction(t, txProducts, nil)

	txProducts.EXPECT().FindByID(ctx, product.ID).Return(product, nil)
	fx.metrics.EXPECT().OrderRejected("insufficient_stock").Return()

	_, err := fx.service.CreateOrder(ctx,
		usecase.Requester{UserID: uuid.New(), Role: entity.RoleCustomer},
		usecase.CreateOrderInput{Items: []usecase.OrderItemInput{{ProductID: product.ID.String(), Quantity: 3}}},
	)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInsufficientStock))

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Insufficient stock for Mug", appErr.Message())
}

func TestOrderService_CreateOrder_UnknownProduct(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()

	txProducts := mockRepo.NewMockProductRepository(t)
	fx.expectTransaction(t, txProducts, nil)
	fx.metrics.EXPECT().OrderRejected("product_not_found").Return()

	_, err := fx.service.CreateOrder(ctx,
		usecase.Requester{UserID: uuid.New(), Role: entity.RoleCustomer},
		usecase.CreateOrderInput{Items: []usecase.OrderItemInput{{ProductID: "not-a-uuid", Quantity: 1}}},
	)

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 404, appErr.HTTPCode())
	assert.Equal(t, "Product not found: not-a-uuid", appErr.Message())
}

func TestOrderService_CreateOrder_InputValidation(t *testing.T) {
	requester := usecase.Requester{UserID: uuid.New(), Role: entity.RoleCustomer}

	tests := []struct {
		name  string
		input usecase.CreateOrderInput
		want  error
	}{
		{
			name:  "no items",
			input: usecase.CreateOrderInput{},
			want:  domainerrors.ErrEmptyOrder,
		},
		{
			name:  "zero quantity",
			input: usecase.CreateOrderInput{Items: []usecase.OrderItemInput{{ProductID: uuid.NewString(), Quantity: 0}}},
			want:  domainerrors.ErrInvalidQuantity,
		},
		{
			name:  "unknown source",
			input: usecase.CreateOrderInput{Items: []usecase.OrderItemInput{{ProductID: uuid.NewString(), Quantity: 1}}, Source: "fax"},
			want:  domainerrors.ErrInvalidOrderSource,
		},
		{
			name:  "admin source from customer",
			input: usecase.CreateOrderInput{Items: []usecase.OrderItemInput{{ProductID: uuid.NewString(), Quantity: 1}}, Source: "admin"},
			want:  domainerrors.ErrAdminOnly,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestOrderService(t)
			fx.metrics.EXPECT().OrderRejected("invalid_input").Return()

			_, err := fx.service.CreateOrder(context.Background(), requester, tt.input)

			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestOrderService_CreateGuestOrder_RequiresCustomerInfo(t *testing.T) {
	fx := createTestOrderService(t)
	fx.metrics.EXPECT().OrderRejected("invalid_input").Return()

	_, err := fx.service.CreateGuestOrder(context.Background(), usecase.CreateOrderInput{
		Items:        []usecase.OrderItemInput{{ProductID: uuid.NewString(), Quantity: 1}},
		CustomerInfo: &entity.CustomerInfo{Name: "Walk In", Phone: "555"},
		Source:       "whatsapp",
	})

	assert.True(t, errors.Is(err, domainerrors.ErrMissingCustomerInfo))
}

func TestOrderService_CreateGuestOrder_Success(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()

	product := entity.NewProduct("Mug", "Ceramic", 7.5, uuid.New(), 5, "")
	txProducts := mockRepo.NewMockProductRepository(t)
	txOrders := mockRepo.NewMockOrderRepository(t)
	fx.expectTransaction(t, txProducts, txOrders)

	txProducts.EXPECT().FindByID(ctx, product.ID).Return(product, nil)
	txProducts.EXPECT().DecrementStock(ctx, product.ID, 2).Return(nil)
	txOrders.EXPECT().Create(ctx, mock.AnythingOfType("*entity.Order")).Return(nil)
	fx.metrics.EXPECT().OrderCreated("whatsapp", 15.0).Return()

	detail, err := fx.service.CreateGuestOrder(ctx, usecase.CreateOrderInput{
		Items:        []usecase.OrderItemInput{{ProductID: product.ID.String(), Quantity: 2}},
		CustomerInfo: &entity.CustomerInfo{Name: " Walk In ", Phone: "555", Address: "1 Main St"},
		Source:       "WhatsApp",
	})

	require.NoError(t, err)
	assert.True(t, detail.Order.IsGuest())
	assert.Nil(t, detail.Owner)
	assert.Equal(t, "Walk In", detail.Order.CustomerInfo.Name)
	assert.Equal(t, entity.OrderSourceWhatsApp, detail.Order.Source)
}

func TestOrderService_GetOrder_AccessControl(t *testing.T) {
	owner := entity.NewUser("Jane", "jane@example.com", entity.RoleCustomer)
	product := entity.NewProduct("Mug", "Ceramic", 10, uuid.New(), 5, "")
	order := entity.NewOrder(&owner.ID, []entity.OrderItem{{ProductID: product.ID, Quantity: 1, Price: 10}}, nil, entity.OrderSourceWebsite)

	t.Run("stranger is denied", func(t *testing.T) {
		fx := createTestOrderService(t)
		ctx := context.Background()

		fx.orderRepo.EXPECT().FindByID(ctx, order.ID).Return(order, nil)

		_, err := fx.service.GetOrder(ctx, usecase.Requester{UserID: uuid.New(), Role: entity.RoleCustomer}, order.ID)

		assert.True(t, errors.Is(err, domainerrors.ErrOrderAccessDenied))
	})

	t.Run("admin sees populated order", func(t *testing.T) {
		fx := createTestOrderService(t)
		ctx := context.Background()

		fx.orderRepo.EXPECT().FindByID(ctx, order.ID).Return(order, nil)
		fx.userRepo.EXPECT().FindByIDs(ctx, []uuid.UUID{owner.ID}).Return([]*entity.User{owner}, nil)
		fx.productRepo.EXPECT().FindByIDs(ctx, []uuid.UUID{product.ID}).Return([]*entity.Product{product}, nil)

		detail, err := fx.service.GetOrder(ctx, usecase.Requester{UserID: uuid.New(), Role: entity.RoleAdmin}, order.ID)

		require.NoError(t, err)
		assert.Equal(t, owner, detail.Owner)
		assert.Equal(t, product, detail.Products[product.ID])
	})

	t.Run("missing order", func(t *testing.T) {
		fx := createTestOrderService(t)
		ctx := context.Background()
		id := uuid.New()

		fx.orderRepo.EXPECT().FindByID(ctx, id).Return(nil, repository.ErrOrderNotFound)

		_, err := fx.service.GetOrder(ctx, usecase.Requester{UserID: owner.ID, Role: entity.RoleCustomer}, id)

		assert.True(t, errors.Is(err, domainerrors.ErrOrderNotFound))
	})
}

func TestOrderService_ListOrders_StatusFilter(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()
	shipped := entity.OrderStatusShipped

	fx.orderRepo.EXPECT().List(ctx, entity.OrderFilter{Status: &shipped}).Return([]*entity.Order{}, nil)

	details, err := fx.service.ListOrders(ctx, "shipped")

	require.NoError(t, err)
	assert.Empty(t, details)

	_, err = fx.service.ListOrders(ctx, "lost")
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidOrderStatus))
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	newOrder := func(status entity.OrderStatus) *entity.Order {
		order := entity.NewOrder(nil, nil, &entity.CustomerInfo{Name: "A", Phone: "1", Address: "X"}, entity.OrderSourceWebsite)
		order.Status = status

		return order
	}

	t.Run("forward move", func(t *testing.T) {
		fx := createTestOrderService(t)
		ctx := context.Background()
		order := newOrder(entity.OrderStatusPending)

		fx.orderRepo.EXPECT().FindByID(ctx, order.ID).Return(order, nil)
		fx.orderRepo.EXPECT().UpdateStatus(ctx, order.ID, entity.OrderStatusShipped).Return(nil)
		fx.metrics.EXPECT().OrderStatusChanged("pending", "shipped").Return()

		detail, err := fx.service.UpdateOrderStatus(ctx, order.ID, "shipped")

		require.NoError(t, err)
		assert.Equal(t, entity.OrderStatusShipped, detail.Order.Status)
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		fx := createTestOrderService(t)
		ctx := context.Background()
		order := newOrder(entity.OrderStatusProcessing)

		fx.orderRepo.EXPECT().FindByID(ctx, order.ID).Return(order, nil)

		detail, err := fx.service.UpdateOrderStatus(ctx, order.ID, "processing")

		require.NoError(t, err)
		assert.Equal(t, entity.OrderStatusProcessing, detail.Order.Status)
	})

	t.Run("terminal status cannot change", func(t *testing.T) {
		fx := createTestOrderService(t)
		ctx := context.Background()
		order := newOrder(entity.OrderStatusDelivered)

		fx.orderRepo.EXPECT().FindByID(ctx, order.ID).Return(order, nil)

		_, err := fx.service.UpdateOrderStatus(ctx, order.ID, "cancelled")

		assert.True(t, errors.Is(err, domainerrors.ErrInvalidStatusTransition))
	})

	t.Run("validation happens before lookup", func(t *testing.T) {
		fx := createTestOrderService(t)
		ctx := context.Background()

		_, err := fx.service.UpdateOrderStatus(ctx, uuid.New(), "")
		assert.True(t, errors.Is(err, domainerrors.ErrMissingOrderStatus))

		_, err = fx.service.UpdateOrderStatus(ctx, uuid.New(), "lost")
		assert.True(t, errors.Is(err, domainerrors.ErrInvalidOrderStatus))
	})

	t.Run("unknown order", func(t *testing.T) {
		fx := createTestOrderService(t)
		ctx := context.Background()
		id := uuid.New()

		fx.orderRepo.EXPECT().FindByID(ctx, id).Return(nil, repository.ErrOrderNotFound)

		_, err := fx.service.UpdateOrderStatus(ctx, id, "shipped")

		assert.True(t, errors.Is(err, domainerrors.ErrOrderNotFound))
	})
}
