// Package response renders the uniform JSON envelope returned by every API endpoint.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Data    any    `json:"data,omitempty"`
	Stack   string `json:"stack,omitempty"` // Only rendered outside production.
}

// Success returns a successful response carrying data
func Success(c echo.Context, statusCode int, data any) error {
	return c.JSON(statusCode, Envelope{
		Success: true,
		Data:    data,
	})
}

// SuccessWithMessage returns a successful response carrying a message and data
func SuccessWithMessage(c echo.Context, statusCode int, message string, data any) error {
	return c.JSON(statusCode, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// List returns a 200 response for a collection; count is always present, even when zero
func List(c echo.Context, data any, count int) error {
	return c.JSON(http.StatusOK, Envelope{
		Success: true,
		Count:   &count,
		Data:    data,
	})
}

// Message returns a successful response without data
func Message(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, Envelope{
		Success: true,
		Message: message,
	})
}

// Error returns an error response. stack is omitted when empty.
func Error(c echo.Context, statusCode int, message, stack string) error {
	return c.JSON(statusCode, Envelope{
		Success: false,
		Message: message,
		Stack:   stack,
	})
}
