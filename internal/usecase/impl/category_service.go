package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type categoryService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	logger       *slog.Logger
}

// CategoryServiceParams holds dependencies for CategoryService, injected by Fx.
type CategoryServiceParams struct {
	fx.In

	CategoryRepo repository.CategoryRepository
	ProductRepo  repository.ProductRepository
	Logger       *slog.Logger
}

func NewCategoryService(params CategoryServiceParams) usecase.CategoryUsecase {
	return &categoryService{
		categoryRepo: params.CategoryRepo,
		productRepo:  params.ProductRepo,
		logger:       params.Logger,
	}
}

func (srv *categoryService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *categoryService) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	categories, err := srv.categoryRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}

	return categories, nil
}

// GetCategory returns the category together with the products currently assigned to it.
func (srv *categoryService) GetCategory(ctx context.Context, id uuid.UUID) (*usecase.CategoryDetail, error) {
	category, err := srv.findCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	products, err := srv.productRepo.ListByCategory(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list category products")
	}

	return &usecase.CategoryDetail{Category: category, Products: products}, nil
}

func (srv *categoryService) CreateCategory(ctx context.Context, input usecase.CreateCategoryInput) (*entity.Category, error) {
	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)
	if name == "" || description == "" {
		return nil, domainerrors.ErrMissingCategoryFields
	}

	if err := srv.ensureNameAvailable(ctx, name, uuid.Nil); err != nil {
		return nil, err
	}

	category := entity.NewCategory(name, description)
	if err := srv.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicateCategory) {
			return nil, domainerrors.ErrCategoryAlreadyExists
		}

		return nil, errors.Wrap(err, "failed to create category")
	}

	srv.log(ctx).Info("Category created", slog.Any("categoryID", category.ID), slog.String("name", category.Name))

	return category, nil
}

// UpdateCategory applies only the fields present in input.
func (srv *categoryService) UpdateCategory(ctx context.Context, id uuid.UUID, input usecase.UpdateCategoryInput) (*entity.Category, error) {
	category, err := srv.findCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domainerrors.ErrMissingCategoryFields.WithMessage("Category name cannot be empty")
		}
		if name != category.Name {
			if err := srv.ensureNameAvailable(ctx, name, category.ID); err != nil {
				return nil, err
			}
		}
		category.Name = name
	}

	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return nil, domainerrors.ErrMissingCategoryFields.WithMessage("Category description cannot be empty")
		}
		category.Description = description
	}

	if err := srv.categoryRepo.Update(ctx, category); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateCategory):
			return nil, domainerrors.ErrCategoryAlreadyExists
		case errors.Is(err, repository.ErrCategoryNotFound):
			return nil, domainerrors.ErrCategoryNotFound
		}

		return nil, errors.Wrap(err, "failed to update category")
	}

	return category, nil
}

// DeleteCategory refuses to remove a category that still has products.
func (srv *categoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := srv.findCategory(ctx, id); err != nil {
		return err
	}

	count, err := srv.productRepo.CountByCategory(ctx, id)
	if err != nil {
		return errors.Wrap(err, "failed to count category products")
	}
	if count > 0 {
		return domainerrors.ErrCategoryInUse.WithMessagef(
			"Cannot delete category. It has %d product(s). Please delete or reassign products first.", count)
	}

	if err := srv.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return domainerrors.ErrCategoryNotFound
		}

		return errors.Wrap(err, "failed to delete category")
	}

	srv.log(ctx).Info("Category deleted", slog.Any("categoryID", id))

	return nil
}

func (srv *categoryService) findCategory(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	category, err := srv.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, domainerrors.ErrCategoryNotFound
		}

		return nil, errors.Wrap(err, "failed to find category")
	}

	return category, nil
}

// ensureNameAvailable fails when another category than self already uses name.
func (srv *categoryService) ensureNameAvailable(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := srv.categoryRepo.FindByName(ctx, name)
	switch {
	case errors.Is(err, repository.ErrCategoryNotFound):
		return nil
	case err != nil:
		return errors.Wrap(err, "failed to check category name")
	case existing.ID != self:
		return domainerrors.ErrCategoryAlreadyExists
	}

	return nil
}
