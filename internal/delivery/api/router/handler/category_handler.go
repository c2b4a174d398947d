package handler

import (
	"net/http"

	"storefront/internal/delivery/api/response"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// CategoryHandlerParams holds dependencies for CategoryHandler, injected by Fx.
type CategoryHandlerParams struct {
	fx.In

	CategoryUC usecase.CategoryUsecase
}

// CategoryHandler serves the category endpoints
type CategoryHandler struct {
	categoryUC usecase.CategoryUsecase
}

func NewCategoryHandler(params CategoryHandlerParams) *CategoryHandler {
	return &CategoryHandler{categoryUC: params.CategoryUC}
}

type CreateCategoryRequest struct {
	Name        string `json:"name" form:"name" validate:"max=100"`
	Description string `json:"description" form:"description" validate:"max=1000"`
}

// UpdateCategoryRequest carries only the fields to change.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

func (h *CategoryHandler) ListCategories(c echo.Context) error {
	categories, err := h.categoryUC.ListCategories(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.List(c, toCategoryViews(categories), len(categories))
}

func (h *CategoryHandler) GetCategory(c echo.Context) error {
	id, err := pathID(c, domainerrors.ErrCategoryNotFound)
	if err != nil {
		return err
	}

	detail, err := h.categoryUC.GetCategory(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toCategoryDetailView(detail))
}

func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req CreateCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	category, err := h.categoryUC.CreateCategory(c.Request().Context(), usecase.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toCategoryView(category))
}

func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	id, err := pathID(c, domainerrors.ErrCategoryNotFound)
	if err != nil {
		return err
	}

	var req UpdateCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	category, err := h.categoryUC.UpdateCategory(c.Request().Context(), id, usecase.UpdateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toCategoryView(category))
}

func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, err := pathID(c, domainerrors.ErrCategoryNotFound)
	if err != nil {
		return err
	}

	if err := h.categoryUC.DeleteCategory(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, http.StatusOK, "Category deleted successfully")
}
