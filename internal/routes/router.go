package routes

import (
	"context"
	"time"

	"ecommerce-backend/internal/config"
	"ecommerce-backend/internal/delivery/http/handler"
	"ecommerce-backend/internal/logger"
	"ecommerce-backend/internal/middleware"
	"ecommerce-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Handlers groups the HTTP handlers mounted by SetupRoutes.
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Catalog *handler.CatalogHandler
	Cart    *handler.CartHandler
	Health  *handler.HealthHandler
}

// SetupRoutes builds the engine. ctx bounds background work started here.
func SetupRoutes(ctx context.Context, cfg *config.Config, tokens *utils.TokenIssuer, h Handlers) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	limiter := middleware.NewRateLimiter(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst)
	go limiter.Cleanup(ctx, 10*time.Minute)

	// Order: recovery, request ID, logging, security headers, CORS, size limit, rate limit
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))
	router.Use(middleware.RateLimitMiddleware(limiter))

	router.GET("/health", h.Health.Health)

	v1 := router.Group("/api/v1")
	{
		h.Auth.RegisterRoutes(v1)
		h.Catalog.RegisterRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(tokens))
		{
			h.User.RegisterProfileRoutes(protected)
			h.Cart.RegisterRoutes(protected)

			admin := protected.Group("/admin")
			{
				catalogAdmin := admin.Group("")
				catalogAdmin.Use(middleware.AdminOnly())
				h.Catalog.RegisterAdminRoutes(catalogAdmin)

				superAdmin := admin.Group("")
				superAdmin.Use(middleware.SuperAdminOnly(cfg.Security.SuperAdminEmails))
				h.User.RegisterSuperAdminRoutes(superAdmin)
			}
		}
	}

	logger.Info("All routes initialized")
	return router
}
