package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"visitor-backend/config"
	"visitor-backend/controllers"
	"visitor-backend/middleware"
	"visitor-backend/routes"
	"visitor-backend/services"
	"visitor-backend/utils"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("❌ ERROR: JWT_SECRET environment variable is not set. Cannot issue admin sessions.")
	}

	db, err := config.ConnectDatabase()
	if err != nil {
		log.Fatalf("❌ Database connect failed: %v", err)
	}
	log.Println("✅ Database connection established and migrations applied")

	middleware.InitMetrics()

	// Initialize services
	uploadDir := utils.EnvOrDefault("UPLOAD_DIR", "uploads")
	visitorService := services.NewVisitorService(db)
	reportService := services.NewReportService(db)
	imageService := services.NewImageService(uploadDir)
	authService := services.NewAuthService(db, jwtSecret)

	// Initialize controllers
	visitorController := controllers.NewVisitorController(visitorService, reportService)
	imageController := controllers.NewImageController(imageService)
	authController := controllers.NewAuthController(authService)

	// Build router
	router := routes.SetupRouter(visitorController, imageController, authController, authService, uploadDir)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
		// useful timeouts
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with timeout
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
