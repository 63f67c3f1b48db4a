package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"visitor-backend/controllers"
	"visitor-backend/middleware"
	"visitor-backend/services"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires the kiosk and dashboard endpoints. Kiosk routes are
// public; everything the dashboard reads or mutates sits behind the admin
// session guard. uploadDir is the same directory the image service writes
// to, served under /uploads.
func SetupRouter(
	vc *controllers.VisitorController,
	ic *controllers.ImageController,
	ac *controllers.AuthController,
	authSvc *services.AuthService,
	uploadDir string,
) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger(), gin.Recovery(), middleware.PrometheusMiddleware())
	r.Static("/uploads", uploadDir)

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		// Kiosk flow: photo capture, then check-in / checkout by mobile.
		api.POST("/checkin", vc.CheckIn)
		api.POST("/checkout", vc.CheckOut)
		api.POST("/images", ic.SaveImage)

		auth := api.Group("/auth")
		{
			auth.POST("/login", ac.Login)
		}

		visitors := api.Group("/visitors")
		visitors.Use(middleware.RequireAdmin(authSvc))
		{
			visitors.GET("", vc.GetVisitors)

			// Fixed paths must come before /:id.
			visitors.GET("/active", vc.GetActiveVisitors)
			visitors.GET("/stats", vc.GetStats)
			visitors.GET("/export", vc.ExportVisitorsCSV)

			visitors.GET("/:id", vc.GetVisitorByID)
			visitors.PATCH("/:id", vc.UpdateVisitorIDDetails)
			visitors.POST("/:id/checkout", vc.CheckOutVisitorByID)
		}
	}

	return r
}
