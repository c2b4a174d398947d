package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"storefront/config"
	"storefront/internal/delivery/api/response"
	deliverycontext "storefront/internal/delivery/context"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/errors"

	"github.com/labstack/echo/v4"
)

// ErrorMiddleware handles errors in the HTTP pipeline
type ErrorMiddleware struct {
	logger     *slog.Logger
	production bool
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger, cfg *config.Config) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger:     logger,
		production: cfg != nil && cfg.IsProduction(),
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, message := m.resolve(err, c)
	if status >= http.StatusInternalServerError {
		deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).Error("Request failed",
			slog.Any("error", err),
			slog.String("path", c.Request().URL.Path),
			slog.String("method", c.Request().Method),
			slog.Int("status", status),
		)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)

		return
	}

	stack := ""
	if !m.production {
		stack = errors.StackTrace(err)
	}

	_ = response.Error(c, status, message, stack)
}

// resolve maps err to the status and client-facing message.
func (m *ErrorMiddleware) resolve(err error, c echo.Context) (int, string) {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPCode(), appErr.Message()
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Code == http.StatusNotFound {
			return http.StatusNotFound, fmt.Sprintf("Not Found - %s", c.Request().URL.RequestURI())
		}

		message := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok && msg != "" {
			message = msg
		}

		return httpErr.Code, message
	}

	if m.production {
		return http.StatusInternalServerError, "Internal server error, please try again later"
	}

	return http.StatusInternalServerError, err.Error()
}
