package usecase

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"

	"github.com/google/uuid"
)

// CreateCategoryInput defines the data required to create a category.
type CreateCategoryInput struct {
	Name        string
	Description string
}

// UpdateCategoryInput is a partial update; nil fields are left unchanged.
type UpdateCategoryInput struct {
	Name        *string
	Description *string
}

// CategoryDetail is a category with the products that reference it.
type CategoryDetail struct {
	Category *entity.Category
	Products []*entity.Product
}

// CategoryUsecase defines the catalog category operations.
type CategoryUsecase interface {
	ListCategories(ctx context.Context) ([]*entity.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*CategoryDetail, error)
	CreateCategory(ctx context.Context, input CreateCategoryInput) (*entity.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*entity.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

// ProductInput carries product fields for create and update. On update, nil fields are left unchanged.
// CategoryID is the raw identifier as sent by the client.
type ProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	CategoryID  *string
	Stock       *int
	Image       *service.MediaUpload
}

// ProductDetail is a product with its category resolved. Category is nil when it no longer exists.
type ProductDetail struct {
	Product  *entity.Product
	Category *entity.Category
}

// ProductUsecase defines the catalog product operations.
type ProductUsecase interface {
	ListProducts(ctx context.Context, filter entity.ProductFilter) ([]*ProductDetail, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDetail, error)
	CreateProduct(ctx context.Context, input ProductInput) (*ProductDetail, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*ProductDetail, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}
