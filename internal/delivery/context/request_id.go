// Package context carries request-scoped values (request id, logger, authenticated user)
// on echo.Context and on the request's context.Context.
package context

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	// KeyRequestID is the key for storing request ID in context.
	KeyRequestID ContextKey = "request_id"

	// KeyLogger is the key for storing request-scoped logger in context.
	KeyLogger ContextKey = "logger"

	// HeaderXRequestID is the HTTP header name for request ID.
	HeaderXRequestID = "X-Request-Id"

	// MaxRequestIDLength caps client-supplied request ids before they reach logs and headers.
	MaxRequestIDLength = 128
)

// AcceptRequestID returns the client's request id when it is short printable ASCII,
// and a fresh UUIDv7 otherwise.
func AcceptRequestID(raw string) string {
	if raw == "" || len(raw) > MaxRequestIDLength {
		return uuid.Must(uuid.NewV7()).String()
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < 0x21 || raw[i] > 0x7e {
			return uuid.Must(uuid.NewV7()).String()
		}
	}

	return raw
}

// GetRequestID returns the request ID stored on echo.Context, or "" outside the request id middleware.
func GetRequestID(c echo.Context) string {
	id, _ := c.Get(string(KeyRequestID)).(string)

	return id
}

// SetRequestID sets the request ID in echo.Context.
func SetRequestID(c echo.Context, requestID string) {
	c.Set(string(KeyRequestID), requestID)
}

// GetRequestIDFromContext extracts the request ID from standard context.Context.
// If not found, returns empty string.
func GetRequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(KeyRequestID).(string); ok {
		return id
	}

	return ""
}

// WithRequestScope returns ctx carrying the request id and the logger bound to it.
// Use cases read the logger back through GetLoggerOrDefault.
func WithRequestScope(ctx context.Context, requestID string, logger *slog.Logger) context.Context {
	ctx = context.WithValue(ctx, KeyRequestID, requestID)

	return context.WithValue(ctx, KeyLogger, logger)
}

// WithLogger replaces the request-scoped logger, e.g. once the caller is authenticated.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, KeyLogger, logger)
}

// GetLogger extracts the request-scoped logger from context.Context, or nil.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(KeyLogger).(*slog.Logger); ok {
		return logger
	}

	return nil
}

// GetLoggerOrDefault is GetLogger falling back to the given logger.
func GetLoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger := GetLogger(ctx); logger != nil {
		return logger
	}

	return fallback
}
