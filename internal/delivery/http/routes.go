package http

import (
	"github.com/gin-gonic/gin"
	"github.com/mapalengke/backend/config"
	"github.com/mapalengke/backend/internal/domain"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the Gin router.
// verifier may be nil, in which case bearer tokens are ignored and
// session-only routes answer 401.
func SetupRouter(cfg *config.Config, handler *Handler, verifier domain.SessionVerifier, logger *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	httpLogger := logger.Named("http")

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware(httpLogger))
	router.Use(LoggerMiddleware(httpLogger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	v1.Use(SessionMiddleware(verifier, httpLogger))
	{
		v1.GET("/categories", handler.ListCategories)
		v1.GET("/categories/:category/vendors", handler.BrowseCategory)
		v1.GET("/vendors/:id", handler.VendorDetails)

		me := v1.Group("/me")
		me.Use(RequireSession())
		{
			me.GET("/dashboard", handler.Dashboard)
		}
	}

	return router
}
