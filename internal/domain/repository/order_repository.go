package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrOrderNotFound is returned when no order matches the identifier.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository persists orders together with their line items.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// List returns orders matching filter, newest first.
	List(ctx context.Context, filter entity.OrderFilter) ([]*entity.Order, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) error
}
