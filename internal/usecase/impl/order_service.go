package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Rejection reasons reported to BusinessMetrics.
const (
	rejectReasonInvalidInput      = "invalid_input"
	rejectReasonProductNotFound   = "product_not_found"
	rejectReasonInsufficientStock = "insufficient_stock"
	rejectReasonInternal          = "internal"
)

type orderService struct {
	txManager   repository.TransactionManager
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	metrics     service.BusinessMetrics
	logger      *slog.Logger
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	OrderRepo   repository.OrderRepository
	ProductRepo repository.ProductRepository
	UserRepo    repository.UserRepository
	Metrics     service.BusinessMetrics
	Logger      *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		txManager:   params.TxManager,
		orderRepo:   params.OrderRepo,
		productRepo: params.ProductRepo,
		userRepo:    params.UserRepo,
		metrics:     params.Metrics,
		logger:      params.Logger,
	}
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateOrder places an order owned by the requester. Only admins may record admin orders.
func (srv *orderService) CreateOrder(ctx context.Context, requester usecase.Requester, input usecase.CreateOrderInput) (*usecase.OrderDetail, error) {
	source, err := parseOrderSource(input.Source)
	if err != nil {
		srv.metrics.OrderRejected(rejectReasonInvalidInput)

		return nil, err
	}
	if source == entity.OrderSourceAdmin && !requester.Role.IsAdmin() {
		srv.metrics.OrderRejected(rejectReasonInvalidInput)

		return nil, domainerrors.ErrAdminOnly.WithMessage("Only admins can record admin orders")
	}

	userID := requester.UserID
	info := trimCustomerInfo(input.CustomerInfo)

	return srv.place(ctx, &userID, input.Items, info, source)
}

// CreateGuestOrder places an order with no owning account. The delivery contact is mandatory.
func (srv *orderService) CreateGuestOrder(ctx context.Context, input usecase.CreateOrderInput) (*usecase.OrderDetail, error) {
	source, err := parseOrderSource(input.Source)
	if err == nil && source == entity.OrderSourceAdmin {
		err = domainerrors.ErrInvalidOrderSource.WithMessage("Guest orders cannot use the admin source")
	}
	if err == nil && !input.CustomerInfo.IsComplete() {
		err = domainerrors.ErrMissingCustomerInfo
	}
	if err != nil {
		srv.metrics.OrderRejected(rejectReasonInvalidInput)

		return nil, err
	}

	return srv.place(ctx, nil, input.Items, trimCustomerInfo(input.CustomerInfo), source)
}

// place validates every line, snapshots prices, decrements stock and stores the order
// in one transaction. Any failing line aborts the whole order.
func (srv *orderService) place(
	ctx context.Context,
	userID *uuid.UUID,
	lines []usecase.OrderItemInput,
	info *entity.CustomerInfo,
	source entity.OrderSource,
) (*usecase.OrderDetail, error) {
	if len(lines) == 0 {
		srv.metrics.OrderRejected(rejectReasonInvalidInput)

		return nil, domainerrors.ErrEmptyOrder
	}
	for _, line := range lines {
		if line.Quantity < 1 {
			srv.metrics.OrderRejected(rejectReasonInvalidInput)

			return nil, domainerrors.ErrInvalidQuantity
		}
	}

	var (
		order    *entity.Order
		products map[uuid.UUID]*entity.Product
	)

	err := srv.txManager.Execute(ctx, func(ctx context.Context, repos repository.RepositoryFactory) error {
		productRepo := repos.ProductRepo()
		items := make([]entity.OrderItem, 0, len(lines))
		products = make(map[uuid.UUID]*entity.Product, len(lines))

		for _, line := range lines {
			product, err := srv.lockProduct(ctx, productRepo, line)
			if err != nil {
				return err
			}

			items = append(items, entity.OrderItem{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				Price:     product.Price,
			})
			product.Stock -= line.Quantity
			products[product.ID] = product
		}

		order = entity.NewOrder(userID, items, info, source)

		return repos.OrderRepo().Create(ctx, order)
	})
	if err != nil {
		srv.metrics.OrderRejected(rejectionReason(err))

		var appErr domainerrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}

		return nil, errors.Wrap(err, "failed to place order")
	}

	srv.metrics.OrderCreated(string(order.Source), order.Total)
	srv.log(ctx).Info("Order placed",
		slog.Any("orderID", order.ID),
		slog.Bool("guest", order.IsGuest()),
		slog.String("source", string(order.Source)),
		slog.Float64("total", order.Total),
	)

	detail := &usecase.OrderDetail{Order: order, Products: products}
	if userID != nil {
		owner, err := srv.userRepo.FindByID(ctx, *userID)
		if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(err, "failed to load order owner")
		}
		detail.Owner = owner
	}

	return detail, nil
}

// lockProduct checks one order line and takes its quantity from stock.
func (srv *orderService) lockProduct(ctx context.Context, products repository.ProductRepository, line usecase.OrderItemInput) (*entity.Product, error) {
	notFound := domainerrors.ErrProductNotFound.WithMessagef("Product not found: %s", line.ProductID)

	id, err := uuid.Parse(strings.TrimSpace(line.ProductID))
	if err != nil {
		return nil, notFound
	}

	product, err := products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, notFound
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	insufficient := domainerrors.ErrInsufficientStock.WithMessagef("Insufficient stock for %s", product.Name)
	if !product.HasStock(line.Quantity) {
		return nil, insufficient
	}

	if err := products.DecrementStock(ctx, id, line.Quantity); err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientStock):
			return nil, insufficient
		case errors.Is(err, repository.ErrProductNotFound):
			return nil, notFound
		}

		return nil, errors.Wrap(err, "failed to decrement stock")
	}

	return product, nil
}

// GetOrder returns the order if the requester owns it or is an admin.
func (srv *orderService) GetOrder(ctx context.Context, requester usecase.Requester, id uuid.UUID) (*usecase.OrderDetail, error) {
	order, err := srv.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.CanBeViewedBy(requester.UserID, requester.Role) {
		return nil, domainerrors.ErrOrderAccessDenied
	}

	details, err := srv.populate(ctx, []*entity.Order{order})
	if err != nil {
		return nil, err
	}

	return details[0], nil
}

// ListOrders returns every order, newest first, optionally narrowed to one status.
func (srv *orderService) ListOrders(ctx context.Context, status string) ([]*usecase.OrderDetail, error) {
	var filter entity.OrderFilter
	if strings.TrimSpace(status) != "" {
		parsed, ok := entity.ParseOrderStatus(status)
		if !ok {
			return nil, domainerrors.ErrInvalidOrderStatus
		}
		filter.Status = &parsed
	}

	orders, err := srv.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return srv.populate(ctx, orders)
}

func (srv *orderService) ListMyOrders(ctx context.Context, userID uuid.UUID) ([]*usecase.OrderDetail, error) {
	orders, err := srv.orderRepo.List(ctx, entity.OrderFilter{UserID: &userID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list user orders")
	}

	return srv.populate(ctx, orders)
}

// UpdateOrderStatus moves an order along its lifecycle. Setting the current status again is a no-op.
func (srv *orderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) (*usecase.OrderDetail, error) {
	if strings.TrimSpace(status) == "" {
		return nil, domainerrors.ErrMissingOrderStatus
	}

	next, ok := entity.ParseOrderStatus(status)
	if !ok {
		return nil, domainerrors.ErrInvalidOrderStatus
	}

	order, err := srv.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := order.Status
	if previous != next {
		if !previous.CanTransitionTo(next) {
			return nil, domainerrors.ErrInvalidStatusTransition.WithMessagef(
				"Cannot change order status from %s to %s", previous, next)
		}

		if err := srv.orderRepo.UpdateStatus(ctx, id, next); err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return nil, domainerrors.ErrOrderNotFound
			}

			return nil, errors.Wrap(err, "failed to update order status")
		}

		order.Status = next
		srv.metrics.OrderStatusChanged(string(previous), string(next))
		srv.log(ctx).Info("Order status changed",
			slog.Any("orderID", id),
			slog.String("from", string(previous)),
			slog.String("to", string(next)),
		)
	}

	details, err := srv.populate(ctx, []*entity.Order{order})
	if err != nil {
		return nil, err
	}

	return details[0], nil
}

func (srv *orderService) findOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := srv.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, domainerrors.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order")
	}

	return order, nil
}

// populate resolves the owners and products referenced by orders with one batch lookup each.
// Deleted users or products are left out of the maps.
func (srv *orderService) populate(ctx context.Context, orders []*entity.Order) ([]*usecase.OrderDetail, error) {
	details := make([]*usecase.OrderDetail, 0, len(orders))
	if len(orders) == 0 {
		return details, nil
	}

	userIDs := make([]uuid.UUID, 0, len(orders))
	seenUsers := make(map[uuid.UUID]struct{}, len(orders))
	productIDs := make([]uuid.UUID, 0)
	seenProducts := make(map[uuid.UUID]struct{})
	for _, order := range orders {
		if order.UserID != nil {
			if _, ok := seenUsers[*order.UserID]; !ok {
				seenUsers[*order.UserID] = struct{}{}
				userIDs = append(userIDs, *order.UserID)
			}
		}
		for _, productID := range order.ProductIDs() {
			if _, ok := seenProducts[productID]; !ok {
				seenProducts[productID] = struct{}{}
				productIDs = append(productIDs, productID)
			}
		}
	}

	users := make(map[uuid.UUID]*entity.User, len(userIDs))
	if len(userIDs) > 0 {
		found, err := srv.userRepo.FindByIDs(ctx, userIDs)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load order owners")
		}
		for _, user := range found {
			users[user.ID] = user
		}
	}

	products := make(map[uuid.UUID]*entity.Product, len(productIDs))
	if len(productIDs) > 0 {
		found, err := srv.productRepo.FindByIDs(ctx, productIDs)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load order products")
		}
		for _, product := range found {
			products[product.ID] = product
		}
	}

	for _, order := range orders {
		detail := &usecase.OrderDetail{
			Order:    order,
			Products: make(map[uuid.UUID]*entity.Product, len(order.Items)),
		}
		if order.UserID != nil {
			detail.Owner = users[*order.UserID]
		}
		for _, productID := range order.ProductIDs() {
			if product, ok := products[productID]; ok {
				detail.Products[productID] = product
			}
		}
		details = append(details, detail)
	}

	return details, nil
}

func parseOrderSource(raw string) (entity.OrderSource, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return entity.OrderSourceWebsite, nil
	}

	source := entity.OrderSource(raw)
	if !source.IsValid() {
		return "", domainerrors.ErrInvalidOrderSource
	}

	return source, nil
}

func trimCustomerInfo(info *entity.CustomerInfo) *entity.CustomerInfo {
	if info == nil {
		return nil
	}

	trimmed := &entity.CustomerInfo{
		Name:    strings.TrimSpace(info.Name),
		Phone:   strings.TrimSpace(info.Phone),
		Address: strings.TrimSpace(info.Address),
		Notes:   strings.TrimSpace(info.Notes),
	}
	if *trimmed == (entity.CustomerInfo{}) {
		return nil
	}

	return trimmed
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domainerrors.ErrInsufficientStock):
		return rejectReasonInsufficientStock
	case errors.Is(err, domainerrors.ErrProductNotFound):
		return rejectReasonProductNotFound
	default:
		return rejectReasonInternal
	}
}
