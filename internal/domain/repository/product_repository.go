package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
	// ErrInsufficientStock is returned by DecrementStock when fewer units are on hand than requested.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductField names a product attribute that Update writes.
type ProductField string

const (
	ProductFieldName        ProductField = "name"
	ProductFieldDescription ProductField = "description"
	ProductFieldPrice       ProductField = "price"
	ProductFieldImage       ProductField = "image"
	ProductFieldCategory    ProductField = "category_id"
	ProductFieldStock       ProductField = "stock"
)

// ProductRepository persists catalog products.
type ProductRepository interface {
	// List returns products matching filter, newest first.
	List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error)

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Product, error)

	// ListByCategory returns the products referencing categoryID, newest first.
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*entity.Product, error)

	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)

	Create(ctx context.Context, product *entity.Product) error

	// Update writes only the listed fields of product, so columns changed concurrently
	// by other writers (stock debits in particular) are left alone.
	Update(ctx context.Context, product *entity.Product, fields []ProductField) error

	Delete(ctx context.Context, id uuid.UUID) error

	// DecrementStock atomically takes quantity units from the product's stock.
	// It returns ErrInsufficientStock instead of letting stock go negative.
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error
}
