package api

import (
	"github.com/labstack/echo/v4"

	"noteboard-backend/internal/auth"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(api *echo.Group, authSvc *auth.Service) {
	// Initialize services
	InitAuthService()
	InitNoteRepo()

	// Store authSvc for use in handlers
	authService = authSvc

	// Identity is resolved once per request, before any protected logic
	api.Use(auth.LoadIdentity(authSvc))
	api.Use(auth.CSRF.Middleware())

	// Health check (public)
	api.GET("/health", healthCheck)

	// Auth routes (public - no auth required for register/login)
	authGroup := api.Group("/auth")
	authGroup.POST("/register", registerHandler)
	authGroup.POST("/login", loginHandler)
	authGroup.POST("/logout", logoutHandler)
	authGroup.GET("/me", getCurrentIdentity)

	// Note routes (reads public, writes require login)
	notes := api.Group("/notes")
	notes.GET("", listNotesHandler)
	notes.GET("/:id", getNoteHandler)

	notesProtected := notes.Group("")
	notesProtected.Use(auth.RequireLogin())
	notesProtected.POST("", createNoteHandler)
	notesProtected.DELETE("/:id", deleteNoteHandler)
}
