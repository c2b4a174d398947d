package context

import (
	"storefront/internal/domain/entity"

	"github.com/labstack/echo/v4"
)

// KeyUser is the key for storing the authenticated user in echo.Context.
const KeyUser ContextKey = "user"

// SetUser stores the authenticated user in echo.Context.
func SetUser(c echo.Context, user *entity.User) {
	c.Set(string(KeyUser), user)
}

// GetUser extracts the authenticated user from echo.Context.
func GetUser(c echo.Context) (*entity.User, bool) {
	user, ok := c.Get(string(KeyUser)).(*entity.User)

	return user, ok && user != nil
}
