package api

import (
	"net/http"
	"time"

	"github.com/blog-platform-api/internal/config"
	"github.com/blog-platform-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const requestIDKey = "request_id"

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	r := newResponder(log, cfg.App.IsDevelopment())

	// Middleware
	router.Use(requestIDMiddleware())
	router.Use(recoveryMiddleware(log, r))
	router.Use(loggingMiddleware(log))
	router.Use(metricsMiddleware())
	router.Use(corsMiddleware(cfg.CORS.AllowedOrigin))

	// Handlers
	authHandler := NewAuthHandler(services, cfg, r, log)
	profileHandler := NewProfileHandler(services, r, log)
	userHandler := NewUserHandler(services, r, log)
	articleHandler := NewArticleHandler(services, r, log)
	tagHandler := NewTagHandler(services, r, log)
	articleTagHandler := NewArticleTagHandler(services, r, log)

	// Operational endpoints
	router.GET("/health", healthCheck(services))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"message": "route not found",
			"path":    c.Request.URL.Path,
		})
	})

	requireAuth := authMiddleware(services.Auth, cfg.Auth.CookieName, r)

	base := router.Group(cfg.App.APIPrefix)
	{
		// Auth endpoints
		auth := base.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)

			profile := auth.Group("/profile", requireAuth)
			profile.GET("", profileHandler.Get)
			profile.PUT("", profileHandler.Update)
			profile.POST("/avatar", profileHandler.AvatarUpload)
		}

		// Admin user management
		users := base.Group("/users", requireAuth)
		{
			users.GET("", userHandler.List)
			users.GET("/:id", userHandler.Get)
			users.PUT("/:id", userHandler.Update)
			users.DELETE("/:id", userHandler.Delete)
		}

		// Article endpoints
		articles := base.Group("/articles", requireAuth)
		{
			articles.POST("", articleHandler.Create)
			articles.GET("", articleHandler.List)
			articles.GET("/user/me", articleHandler.ListMine)
			articles.GET("/user/:id", articleHandler.GetMine)
			articles.GET("/:id", articleHandler.Get)
			articles.PUT("/:id", articleHandler.Update)
			articles.DELETE("/:id", articleHandler.Delete)
		}

		// Tag endpoints
		tags := base.Group("/tags", requireAuth)
		{
			tags.POST("", tagHandler.Create)
			tags.GET("", tagHandler.List)
			tags.GET("/:id", tagHandler.Get)
			tags.PUT("/:id", tagHandler.Update)
			tags.DELETE("/:id", tagHandler.Delete)
		}

		// Article-tag relation endpoints
		relations := base.Group("/articles-tags", requireAuth)
		{
			relations.POST("", articleTagHandler.Attach)
			relations.DELETE("/:id", articleTagHandler.Detach)
		}
	}

	return router
}

// healthCheck returns the health status, including database reachability
func healthCheck(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		database := "up"
		if err := services.Health.Check(c.Request.Context()); err != nil {
			status, code = "unhealthy", http.StatusServiceUnavailable
			database = "down"
		}

		c.JSON(code, gin.H{
			"status":    status,
			"database":  database,
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   "blog-platform-api",
		})
	}
}

// requestIDMiddleware propagates or assigns an X-Request-ID
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger, r *responder) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Interface("error", err).
					Str("request_id", c.GetString(requestIDKey)).
					Msg("Panic recovered")

				body := gin.H{"message": "internal server error"}
				if r.debug {
					body["error"] = err
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, body)
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString(requestIDKey)).
			Msg("Request completed")
	}
}

// corsMiddleware allows the configured frontend origin to send credentials
func corsMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		c.Writer.Header().Add("Vary", "Origin")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
