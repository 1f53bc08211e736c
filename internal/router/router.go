package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/merolabs/meroview-backend/internal/config"
	"github.com/merolabs/meroview-backend/internal/handler"
	"github.com/merolabs/meroview-backend/internal/middleware"
	"github.com/merolabs/meroview-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Live    *handler.LiveHandler
	Exam    *handler.ExamHandler
	Student *handler.StudentHandler
	Profile *handler.ProfileHandler
	Auth    *handler.AuthHandler
	WS      *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response carries one.
	router.Use(response.RequestIDMiddleware())

	// Health check. No artificial latency here: orchestration probes
	// should not pay the mock delay.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── Auth (Rate Limited) ───────────────────────────────────────────
	authLimiter := middleware.NewRateLimiter(30, time.Minute)
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/login", handlers.Auth.Login)
	}

	// ─── Mock API (Artificial Latency + No Caching) ────────────────────
	api := router.Group("/api/v1")
	api.Use(
		middleware.Latency(cfg.MockLatencyMin, cfg.MockLatencyMax),
		middleware.NoStore(),
	)
	{
		api.GET("/live", handlers.Live.GetLive)
		api.GET("/exams", handlers.Exam.ListExams)
		api.GET("/students", handlers.Student.ListStudents)
		api.GET("/profile", handlers.Profile.GetProfile)
		api.PUT("/profile", handlers.Profile.UpdateProfile)
	}

	// ─── Live Stream (WebSocket, no latency middleware) ────────────────
	router.GET("/api/v1/live/stream", handlers.WS.LiveStream)

	return router
}
