// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"storefront/internal/delivery/api/middleware"
	"storefront/internal/delivery/api/router/handler"
	"storefront/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler     *handler.AuthHandler
	CategoryHandler *handler.CategoryHandler
	ProductHandler  *handler.ProductHandler
	OrderHandler    *handler.OrderHandler
	SystemHandler   *handler.SystemHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler     *handler.AuthHandler
	categoryHandler *handler.CategoryHandler
	productHandler  *handler.ProductHandler
	orderHandler    *handler.OrderHandler
	systemHandler   *handler.SystemHandler
	authMiddleware  *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:     params.AuthHandler,
		categoryHandler: params.CategoryHandler,
		productHandler:  params.ProductHandler,
		orderHandler:    params.OrderHandler,
		systemHandler:   params.SystemHandler,
		authMiddleware:  params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/", r.systemHandler.Welcome)
	e.GET("/health", r.systemHandler.HealthCheck)
	e.GET("/media/*", r.systemHandler.Media)
	if r.systemHandler.MetricsEnabled() {
		e.GET("/metrics", r.systemHandler.Metrics)
	}

	authenticated := r.authMiddleware.Authenticate
	adminOnly := r.authMiddleware.RequireRole(entity.RoleAdmin)

	api := e.Group("/api")

	// Auth routes
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.GET("/me", r.authHandler.Me, authenticated)
	}

	// Catalog reads are public, writes need an admin
	categoriesGroup := api.Group("/categories")
	{
		categoriesGroup.GET("", r.categoryHandler.ListCategories)
		categoriesGroup.GET("/:id", r.categoryHandler.GetCategory)
		categoriesGroup.POST("", r.categoryHandler.CreateCategory, authenticated, adminOnly)
		categoriesGroup.PUT("/:id", r.categoryHandler.UpdateCategory, authenticated, adminOnly)
		categoriesGroup.DELETE("/:id", r.categoryHandler.DeleteCategory, authenticated, adminOnly)
	}

	productsGroup := api.Group("/products")
	{
		productsGroup.GET("", r.productHandler.ListProducts)
		productsGroup.GET("/:id", r.productHandler.GetProduct)
		productsGroup.POST("", r.productHandler.CreateProduct, authenticated, adminOnly)
		productsGroup.PUT("/:id", r.productHandler.UpdateProduct, authenticated, adminOnly)
		productsGroup.DELETE("/:id", r.productHandler.DeleteProduct, authenticated, adminOnly)
	}

	ordersGroup := api.Group("/orders")
	{
		ordersGroup.POST("/guest", r.orderHandler.CreateGuestOrder)
		ordersGroup.GET("/my-orders", r.orderHandler.ListMyOrders, authenticated)
		ordersGroup.POST("", r.orderHandler.CreateOrder, authenticated)
		ordersGroup.GET("/:id", r.orderHandler.GetOrder, authenticated)
		ordersGroup.GET("", r.orderHandler.ListOrders, authenticated, adminOnly)
		ordersGroup.PUT("/:id", r.orderHandler.UpdateOrderStatus, authenticated, adminOnly)
	}

	// Anything else is reported through the error handler as "Not Found - <path>"
	e.RouteNotFound("/*", func(c echo.Context) error {
		return echo.ErrNotFound
	})
}
