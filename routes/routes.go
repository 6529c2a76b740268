package routes

import (
	"net/http"
	"time"

	"policyangel/config"
	"policyangel/handlers"
	"policyangel/middleware"
	"policyangel/services/dispatch"
	"policyangel/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers collects everything the router needs.
type Handlers struct {
	Notification *handlers.NotificationHandler
	Opportunity  *handlers.OpportunityHandler
	Device       *handlers.DeviceHandler
	Demo         *handlers.DemoHandler
	Registry     dispatch.DeviceRegistry
}

// RegisterNotificationRoutes registers the notification list and
// preferences endpoints.
func RegisterNotificationRoutes(r *gin.Engine, h *Handlers) {
	api := r.Group("/api")
	api.Use(middleware.DeviceAuthMiddleware(h.Registry))
	{
		api.GET("/notifications", h.Notification.ListHandler)
		api.GET("/notifications/unread-count", h.Notification.UnreadCountHandler)
		api.GET("/notifications/stream", h.Notification.StreamHandler)
		api.POST("/notifications", h.Notification.SendHandler)
		api.PUT("/notifications/read-all", h.Notification.MarkAllReadHandler)
		api.PUT("/notifications/:id/read", h.Notification.MarkReadHandler)
		api.DELETE("/notifications/:id", h.Notification.DeleteHandler)
		api.DELETE("/notifications", h.Notification.ClearHandler)

		api.GET("/preferences", h.Notification.GetPreferencesHandler)
		api.PATCH("/preferences", h.Notification.UpdatePreferencesHandler)
	}
}

// RegisterOpportunityRoutes registers the opportunity snapshot endpoints.
func RegisterOpportunityRoutes(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/opportunity")
	api.Use(middleware.DeviceAuthMiddleware(h.Registry))
	{
		api.PUT("", h.Opportunity.UpsertHandler)
		api.POST("/evaluate", h.Opportunity.EvaluateHandler)
	}
}

// RegisterDeviceRoutes registers device registration (public: this is how
// a device obtains its session token).
func RegisterDeviceRoutes(r *gin.Engine, h *Handlers) {
	r.POST("/api/devices/register", h.Device.RegisterHandler)
}

// RegisterDemoRoutes registers the seeding endpoints outside production.
func RegisterDemoRoutes(r *gin.Engine, h *Handlers) {
	if config.IsProduction() {
		return
	}
	api := r.Group("/api/demo")
	api.Use(middleware.DeviceAuthMiddleware(h.Registry))
	{
		api.POST("/seed", h.Demo.SeedHandler)
		api.POST("/simulate", h.Demo.SimulateHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "services": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, h *Handlers) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterDeviceRoutes(r, h)
	RegisterNotificationRoutes(r, h)
	RegisterOpportunityRoutes(r, h)
	RegisterDemoRoutes(r, h)
	RegisterHealthRoute(r)
}
