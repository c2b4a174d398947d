package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	// ErrDuplicateCategory is returned when another category already uses the name.
	ErrDuplicateCategory = errors.New("category name already exists")
)

// CategoryRepository persists catalog categories.
type CategoryRepository interface {
	// List returns every category, newest first.
	List(ctx context.Context) ([]*entity.Category, error)

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)

	// FindByName matches the trimmed name exactly.
	FindByName(ctx context.Context, name string) (*entity.Category, error)

	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Category, error)

	Create(ctx context.Context, category *entity.Category) error

	Update(ctx context.Context, category *entity.Category) error

	Delete(ctx context.Context, id uuid.UUID) error
}
