package handler

import (
	"net/http"

	"storefront/internal/delivery/api/response"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const apiVersion = "1.0.0"

// SystemHandlerParams holds dependencies for SystemHandler, injected by Fx.
type SystemHandlerParams struct {
	fx.In

	Media   service.MediaStorage
	Metrics *metrics.Metrics
}

// SystemHandler serves the endpoints outside the /api tree: the index, health, hosted images and metrics.
type SystemHandler struct {
	media   service.MediaStorage
	metrics *metrics.Metrics
}

func NewSystemHandler(params SystemHandlerParams) *SystemHandler {
	return &SystemHandler{
		media:   params.Media,
		metrics: params.Metrics,
	}
}

type welcomeView struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// Welcome describes the API and its route prefixes
func (h *SystemHandler) Welcome(c echo.Context) error {
	return c.JSON(http.StatusOK, welcomeView{
		Message: "Welcome to eCommerce API",
		Version: apiVersion,
		Endpoints: map[string]string{
			"auth":       "/api/auth",
			"categories": "/api/categories",
			"products":   "/api/products",
			"orders":     "/api/orders",
		},
	})
}

// HealthCheck handles the health check request.
func (h *SystemHandler) HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}

// Media streams a hosted product image.
func (h *SystemHandler) Media(c echo.Context) error {
	object, err := h.media.Read(c.Request().Context(), c.Param("*"))
	if errors.Is(err, service.ErrMediaNotFound) {
		return domainerrors.ErrNotFound.WithMessage("Image not found")
	}
	if err != nil {
		return errors.WithStack(err)
	}

	c.Response().Header().Set("Cache-Control", "public, max-age=86400")

	return c.Blob(http.StatusOK, object.ContentType, object.Data)
}

// MetricsEnabled reports whether the Prometheus endpoint should be mounted.
func (h *SystemHandler) MetricsEnabled() bool {
	return h.metrics != nil && h.metrics.Enabled()
}

// Metrics serves the Prometheus exposition.
func (h *SystemHandler) Metrics(c echo.Context) error {
	h.metrics.Handler().ServeHTTP(c.Response(), c.Request())

	return nil
}
