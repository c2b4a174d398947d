package handler

import (
	"log/slog"
	"net/http"

	"storefront/internal/delivery/api/middleware"
	"storefront/internal/delivery/api/response"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// OrderHandlerParams holds dependencies for OrderHandler, injected by Fx.
type OrderHandlerParams struct {
	fx.In

	OrderUC usecase.OrderUsecase
	Logger  *slog.Logger
}

// OrderHandler serves the order endpoints
type OrderHandler struct {
	orderUC usecase.OrderUsecase
	logger  *slog.Logger
}

func NewOrderHandler(params OrderHandlerParams) *OrderHandler {
	return &OrderHandler{
		orderUC: params.OrderUC,
		logger:  params.Logger,
	}
}

type OrderItemRequest struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

type CustomerInfoRequest struct {
	Name    string `json:"name" validate:"max=100"`
	Phone   string `json:"phone" validate:"max=32"`
	Address string `json:"address" validate:"max=500"`
	Notes   string `json:"notes" validate:"max=1000"`
}

// CreateOrderRequest is the body of both the authenticated and the guest order endpoints
type CreateOrderRequest struct {
	Items        []OrderItemRequest   `json:"items" validate:"dive"`
	CustomerInfo *CustomerInfoRequest `json:"customerInfo"`
	OrderSource  string               `json:"orderSource" validate:"max=20"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"max=20"`
}

func (r CreateOrderRequest) toInput() usecase.CreateOrderInput {
	input := usecase.CreateOrderInput{
		Items:  make([]usecase.OrderItemInput, 0, len(r.Items)),
		Source: r.OrderSource,
	}
	for _, item := range r.Items {
		input.Items = append(input.Items, usecase.OrderItemInput{
			ProductID: item.Product,
			Quantity:  item.Quantity,
		})
	}
	if r.CustomerInfo != nil {
		input.CustomerInfo = &entity.CustomerInfo{
			Name:    r.CustomerInfo.Name,
			Phone:   r.CustomerInfo.Phone,
			Address: r.CustomerInfo.Address,
			Notes:   r.CustomerInfo.Notes,
		}
	}

	return input
}

// requester builds the caller identity set by the authentication middleware.
func requester(c echo.Context) (usecase.Requester, error) {
	user, ok := middleware.GetUser(c)
	if !ok {
		return usecase.Requester{}, errors.WithStack(domainerrors.ErrUnauthorized)
	}

	return usecase.Requester{UserID: user.ID, Role: user.Role}, nil
}

// ListOrders returns every order, optionally narrowed by ?status=
func (h *OrderHandler) ListOrders(c echo.Context) error {
	orders, err := h.orderUC.ListOrders(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.List(c, toOrderViews(orders), len(orders))
}

// CreateOrder places an order for the authenticated caller
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	caller, err := requester(c)
	if err != nil {
		return err
	}

	var req CreateOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.orderUC.CreateOrder(c.Request().Context(), caller, req.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toOrderView(order))
}

// CreateGuestOrder places an order without an account
func (h *OrderHandler) CreateGuestOrder(c echo.Context) error {
	var req CreateOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.orderUC.CreateGuestOrder(c.Request().Context(), req.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toOrderView(order))
}

// ListMyOrders returns the caller's own orders
func (h *OrderHandler) ListMyOrders(c echo.Context) error {
	caller, err := requester(c)
	if err != nil {
		return err
	}

	orders, err := h.orderUC.ListMyOrders(c.Request().Context(), caller.UserID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.List(c, toOrderViews(orders), len(orders))
}

// GetOrder returns one order to its owner or an admin
func (h *OrderHandler) GetOrder(c echo.Context) error {
	caller, err := requester(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, domainerrors.ErrOrderNotFound)
	if err != nil {
		return err
	}

	order, err := h.orderUC.GetOrder(c.Request().Context(), caller, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toOrderView(order))
}

// UpdateOrderStatus moves an order through its fulfilment states
func (h *OrderHandler) UpdateOrderStatus(c echo.Context) error {
	id, err := pathID(c, domainerrors.ErrOrderNotFound)
	if err != nil {
		return err
	}

	var req UpdateOrderStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.orderUC.UpdateOrderStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toOrderView(order))
}
