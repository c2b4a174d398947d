package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"storefront/internal/delivery/api/response"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const imageFormField = "image"

// ProductHandlerParams holds dependencies for ProductHandler, injected by Fx.
type ProductHandlerParams struct {
	fx.In

	ProductUC usecase.ProductUsecase
	Logger    *slog.Logger
}

// ProductHandler serves the product endpoints
type ProductHandler struct {
	productUC usecase.ProductUsecase
	logger    *slog.Logger
}

func NewProductHandler(params ProductHandlerParams) *ProductHandler {
	return &ProductHandler{
		productUC: params.ProductUC,
		logger:    params.Logger,
	}
}

// ListProductsQuery holds the optional listing filters
type ListProductsQuery struct {
	Category string `query:"category" validate:"omitempty,uuid"`
	Search   string `query:"search" validate:"max=200"`
	MinPrice string `query:"minPrice" validate:"omitempty,numeric"`
	MaxPrice string `query:"maxPrice" validate:"omitempty,numeric"`
}

// productPayload is the JSON form of a product create or update. Numbers may also arrive as numeric strings.
type productPayload struct {
	Name        *string      `json:"name"`
	Description *string      `json:"description"`
	Price       *json.Number `json:"price"`
	Category    *string      `json:"category"`
	Stock       *json.Number `json:"stock"`
}

func (h *ProductHandler) ListProducts(c echo.Context) error {
	var query ListProductsQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &query); err != nil {
		return domainerrors.ErrValidationFailed.WithMessage("Invalid query parameters").WithDetails(err.Error())
	}
	if err := c.Validate(&query); err != nil {
		return errors.WithStack(err)
	}

	filter := entity.ProductFilter{Search: query.Search}
	if query.Category != "" {
		id := uuid.MustParse(query.Category)
		filter.CategoryID = &id
	}
	var err error
	if filter.MinPrice, err = parsePriceBound("minPrice", query.MinPrice); err != nil {
		return err
	}
	if filter.MaxPrice, err = parsePriceBound("maxPrice", query.MaxPrice); err != nil {
		return err
	}

	products, err := h.productUC.ListProducts(c.Request().Context(), filter)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.List(c, toProductViews(products), len(products))
}

// parsePriceBound reads an optional price filter. Values outside the float64 range are rejected.
func parsePriceBound(name, raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, domainerrors.ErrValidationFailed.WithMessage(name + " must be a number").WithDetails(err.Error())
	}

	return &value, nil
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := pathID(c, domainerrors.ErrProductNotFound)
	if err != nil {
		return err
	}

	product, err := h.productUC.GetProduct(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toProductView(product, true))
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	input, err := readProductInput(c)
	if err != nil {
		return err
	}

	product, err := h.productUC.CreateProduct(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toProductView(product, true))
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := pathID(c, domainerrors.ErrProductNotFound)
	if err != nil {
		return err
	}

	input, err := readProductInput(c)
	if err != nil {
		return err
	}

	product, err := h.productUC.UpdateProduct(c.Request().Context(), id, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toProductView(product, true))
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := pathID(c, domainerrors.ErrProductNotFound)
	if err != nil {
		return err
	}

	if err := h.productUC.DeleteProduct(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, http.StatusOK, "Product deleted successfully")
}

// readProductInput accepts a JSON body, a urlencoded form or a multipart form with an optional image file.
func readProductInput(c echo.Context) (usecase.ProductInput, error) {
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEApplicationJSON) {
		var payload productPayload
		if err := (&echo.DefaultBinder{}).BindBody(c, &payload); err != nil {
			return usecase.ProductInput{}, domainerrors.ErrValidationFailed.WithMessage("Invalid request body").WithDetails(err.Error())
		}

		return payload.toInput()
	}

	form, err := c.FormParams()
	if err != nil {
		return usecase.ProductInput{}, domainerrors.ErrValidationFailed.WithMessage("Invalid form data").WithDetails(err.Error())
	}

	input, err := formToInput(form)
	if err != nil {
		return usecase.ProductInput{}, err
	}

	if strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		upload, err := readImage(c)
		if err != nil {
			return usecase.ProductInput{}, err
		}
		input.Image = upload
	}

	return input, nil
}

func (p productPayload) toInput() (usecase.ProductInput, error) {
	input := usecase.ProductInput{
		Name:        p.Name,
		Description: p.Description,
		CategoryID:  p.Category,
	}

	var err error
	if p.Price != nil {
		if input.Price, err = parsePrice(p.Price.String()); err != nil {
			return usecase.ProductInput{}, err
		}
	}
	if p.Stock != nil {
		if input.Stock, err = parseStock(p.Stock.String()); err != nil {
			return usecase.ProductInput{}, err
		}
	}

	return input, nil
}

func formToInput(form url.Values) (usecase.ProductInput, error) {
	var input usecase.ProductInput
	input.Name = formField(form, "name")
	input.Description = formField(form, "description")
	input.CategoryID = formField(form, "category")

	var err error
	if raw := formField(form, "price"); raw != nil {
		if input.Price, err = parsePrice(*raw); err != nil {
			return usecase.ProductInput{}, err
		}
	}
	if raw := formField(form, "stock"); raw != nil {
		if input.Stock, err = parseStock(*raw); err != nil {
			return usecase.ProductInput{}, err
		}
	}

	return input, nil
}

// formField returns nil when the field was not submitted at all.
func formField(form url.Values, key string) *string {
	if !form.Has(key) {
		return nil
	}
	value := form.Get(key)

	return &value
}

// parsePrice treats a blank value as absent so the usecase reports it as a missing field.
func parsePrice(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, domainerrors.ErrInvalidProductField.WithMessage("Price must be a number")
	}

	return &price, nil
}

func parseStock(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	stock, err := strconv.Atoi(raw)
	if err != nil {
		return nil, domainerrors.ErrInvalidProductField.WithMessage("Stock must be a whole number")
	}

	return &stock, nil
}

func readImage(c echo.Context) (*service.MediaUpload, error) {
	header, err := c.FormFile(imageFormField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, domainerrors.ErrInvalidImage.WithDetails(err.Error())
	}

	file, err := header.Open()
	if err != nil {
		return nil, errors.Wrap(err, "open uploaded image")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.Wrap(err, "read uploaded image")
	}

	return &service.MediaUpload{Filename: header.Filename, Data: data}, nil
}
