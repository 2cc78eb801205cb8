package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"noteboard-backend/internal/models"
)

// Context keys for storing request-scoped auth data
const (
	ContextKeyIdentity = "identity"
)

// LoginPath is where unauthenticated requests to protected routes are sent
const LoginPath = "/login"

// LoadIdentity middleware resolves the request's identity once, before any
// protected logic runs, and stores it in the request context. Every route
// sees the same snapshot for the request's duration.
func LoadIdentity(authSvc *Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := authSvc.ResolveIdentity(c)
			if err != nil {
				c.Logger().Error("resolve identity: ", err)
				return c.JSON(http.StatusInternalServerError, map[string]string{
					"error": "failed to resolve identity",
				})
			}

			c.Set(ContextKeyIdentity, identity)

			return next(c)
		}
	}
}

// RequireLogin middleware guards a protected handler: anonymous requests are
// redirected to the login page and the handler never runs. Authenticated
// requests pass through unchanged, with the user reachable via
// UserFromContext. Must be used after LoadIdentity.
func RequireLogin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := IdentityFromContext(c)
			if !identity.IsAuthenticated() {
				return c.Redirect(http.StatusSeeOther, LoginPath)
			}

			return next(c)
		}
	}
}

// IdentityFromContext retrieves the resolved identity from the context.
// Anonymous if LoadIdentity has not run.
func IdentityFromContext(c echo.Context) models.Identity {
	identity, ok := c.Get(ContextKeyIdentity).(models.Identity)
	if !ok {
		return models.Anonymous()
	}
	return identity
}

// UserFromContext retrieves the authenticated user from the context, nil for
// anonymous requests
func UserFromContext(c echo.Context) *models.User {
	return IdentityFromContext(c).User
}
