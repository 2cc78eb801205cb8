package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"noteboard-backend/internal/api"
	"noteboard-backend/internal/auth"
	"noteboard-backend/internal/database"
)

func main() {
	// Get database path from environment or default
	dbPath := os.Getenv("NOTEBOARD_DB_PATH")
	if dbPath == "" {
		// Default to current directory for development
		dbPath = "./noteboard.db"
	}

	// Ensure absolute path
	if !filepath.IsAbs(dbPath) {
		cwd, _ := os.Getwd()
		dbPath = filepath.Join(cwd, dbPath)
	}

	// Initialize database
	log.Printf("Initializing database at %s", dbPath)
	if err := database.Open(database.Config{Path: dbPath}); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Initialize auth service
	authSvc := auth.NewService()

	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-CSRF-Token"},
		AllowCredentials: true,
	}))

	// API routes
	apiGroup := e.Group("/api")
	api.RegisterRoutes(apiGroup, authSvc)

	// Get port from environment or default
	port := os.Getenv("NOTEBOARD_PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting noteboard backend on port %s", port)
	e.Logger.Fatal(e.Start(":" + port))
}
