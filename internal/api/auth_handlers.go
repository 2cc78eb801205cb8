package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"noteboard-backend/internal/auth"
	"noteboard-backend/internal/models"
)

var authService *auth.Service

// InitAuthService initializes the auth service (call after database is ready)
func InitAuthService() {
	authService = auth.NewService()
}

// registerHandler handles POST /api/auth/register
func registerHandler(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	user, err := authService.Register(req.Username, req.Password)
	if err != nil {
		var validationErr *auth.ValidationError
		var conflictErr *auth.ConflictError
		switch {
		case errors.As(err, &validationErr):
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": validationErr.Message,
			})
		case errors.As(err, &conflictErr):
			return c.JSON(http.StatusConflict, map[string]string{
				"error": conflictErr.Message,
			})
		default:
			c.Logger().Error("register error: ", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "registration failed",
			})
		}
	}

	// No auto-login: the new credentials must come back through login
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"user":  user,
		"login": auth.LoginPath,
	})
}

// loginHandler handles POST /api/auth/login
func loginHandler(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	user, err := authService.Login(c, req.Username, req.Password)
	if err != nil {
		var authErr *auth.AuthenticationError
		if errors.As(err, &authErr) {
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": authErr.Message,
			})
		}
		c.Logger().Error("login error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "authentication failed",
		})
	}

	return c.JSON(http.StatusOK, models.LoginResponse{
		User:      *user,
		CSRFToken: auth.CSRF.GenerateToken(user.ID),
	})
}

// logoutHandler handles POST /api/auth/logout
func logoutHandler(c echo.Context) error {
	if user := auth.UserFromContext(c); user != nil {
		auth.CSRF.InvalidateUser(user.ID)
	}

	if err := authService.Logout(c); err != nil {
		c.Logger().Error("logout error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "logout failed",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "logged out successfully",
	})
}

// getCurrentIdentity handles GET /api/auth/me
func getCurrentIdentity(c echo.Context) error {
	identity := auth.IdentityFromContext(c)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"authenticated": identity.IsAuthenticated(),
		"user":          identity.User,
	})
}
