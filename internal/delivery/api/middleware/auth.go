package middleware

import (
	"log/slog"
	"strings"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthMiddleware provides middleware for bearer token authentication and role checks.
type AuthMiddleware struct {
	authUC usecase.AuthUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(authUC usecase.AuthUsecase) *AuthMiddleware {
	return &AuthMiddleware{authUC: authUC}
}

// Authenticate resolves the bearer token to a stored user and attaches it to the request.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return errors.WithStack(domainerrors.ErrMissingToken)
		}

		ctx := c.Request().Context()
		user, err := m.authUC.Authenticate(ctx, token)
		if err != nil {
			return errors.WithStack(err)
		}

		deliverycontext.SetUser(c, user)

		reqLogger := deliverycontext.GetLogger(ctx)
		if reqLogger != nil {
			ctx = deliverycontext.WithLogger(ctx, reqLogger.With(slog.Any("user_id", user.ID)))
			c.SetRequest(c.Request().WithContext(ctx))
		}

		return next(c)
	}
}

// RequireRole rejects authenticated users without the given role.
// It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireRole(role entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := deliverycontext.GetUser(c)
			if !ok {
				return errors.WithStack(domainerrors.ErrUnauthorized)
			}

			if user.Role != role {
				if role.IsAdmin() {
					return errors.WithStack(domainerrors.ErrAdminOnly)
				}

				return errors.WithStack(domainerrors.ErrForbidden)
			}

			return next(c)
		}
	}
}

// GetUser returns the user attached by Authenticate.
func GetUser(c echo.Context) (*entity.User, bool) {
	return deliverycontext.GetUser(c)
}

// GetUserID returns the id of the user attached by Authenticate.
func GetUserID(c echo.Context) (uuid.UUID, bool) {
	user, ok := deliverycontext.GetUser(c)
	if !ok {
		return uuid.Nil, false
	}

	return user.ID, true
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)

	return token, token != ""
}
