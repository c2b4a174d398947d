package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// Requester is the authenticated caller of an order operation.
type Requester struct {
	UserID uuid.UUID
	Role   entity.Role
}

// OrderItemInput is one requested line. ProductID is the raw identifier as sent by the client.
type OrderItemInput struct {
	ProductID string
	Quantity  int
}

// CreateOrderInput defines the data required to place an order.
type CreateOrderInput struct {
	Items        []OrderItemInput
	CustomerInfo *entity.CustomerInfo
	// Source defaults to website when empty.
	Source string
}

// OrderDetail is an order with its owner and the products of its lines resolved.
// Owner is nil for guest orders; products that were deleted since are missing from Products.
type OrderDetail struct {
	Order    *entity.Order
	Owner    *entity.User
	Products map[uuid.UUID]*entity.Product
}

// OrderUsecase defines the order workflow.
type OrderUsecase interface {
	CreateOrder(ctx context.Context, requester Requester, input CreateOrderInput) (*OrderDetail, error)
	CreateGuestOrder(ctx context.Context, input CreateOrderInput) (*OrderDetail, error)
	GetOrder(ctx context.Context, requester Requester, id uuid.UUID) (*OrderDetail, error)

	// ListOrders returns every order, optionally narrowed to a raw status value.
	ListOrders(ctx context.Context, status string) ([]*OrderDetail, error)
	ListMyOrders(ctx context.Context, userID uuid.UUID) ([]*OrderDetail, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) (*OrderDetail, error)
}
