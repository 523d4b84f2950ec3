package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SwapHands/item_trading_app/internal/core/services"
	"github.com/SwapHands/item_trading_app/internal/middleware"
	"github.com/SwapHands/item_trading_app/pkg/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// through the service container.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, svcs *services.Container) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Public authentication routes
	registerAuthRoutes(r, svcs.User)

	// Everything else sits behind the auth middleware.
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerUserRoutes(v1, svcs.User)
	registerItemRoutes(v1, svcs.Item, svcs.Command)
	registerTransactionRoutes(v1, svcs.Transaction, svcs.User, svcs.Command)
	registerMeetingRoutes(v1, svcs.Meeting)
	registerAnalyticsRoutes(v1, svcs.Transaction)
	registerAdminRoutes(v1, svcs.User, svcs.Item, svcs.Alert, svcs.Command, svcs.Config)
}
