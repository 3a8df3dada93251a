package routes

import (
	"time"

	"tabeza/handlers"
	"tabeza/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterTabRoutes registers tab lifecycle endpoints.
func RegisterTabRoutes(r *gin.Engine, th *handlers.TabHandler) {
	api := r.Group("/api/tabs")
	api.Use(middleware.RateLimitMiddleware())
	{
		api.POST("", th.OpenTab)
		api.GET("/:id", th.GetTab)
		api.POST("/:id/close", th.CloseTab)
	}
	r.GET("/api/venues/:id/tabs", middleware.RateLimitMiddleware(), th.ListVenueTabs)
}

// RegisterOrderRoutes registers order creation and the dual-party
// confirmation endpoints.
func RegisterOrderRoutes(r *gin.Engine, oh *handlers.OrderHandler) {
	api := r.Group("/api/orders")
	api.Use(middleware.RateLimitMiddleware())
	{
		api.POST("", oh.CreateOrder)
		api.POST("/:id/approve", oh.ApproveOrder)
		api.POST("/:id/reject", oh.RejectOrder)
	}
}

// RegisterPaymentRoutes registers payment initiation plus the gateway
// webhook.
func RegisterPaymentRoutes(r *gin.Engine, ph *handlers.PaymentHandler) {
	// The webhook takes no rate limiting: the gateway treats any
	// non-2xx, 429 included, as a cue to retry.
	r.POST("/api/payments/mpesa/callback", ph.MpesaCallback)

	api := r.Group("/api/payments")
	api.Use(middleware.RateLimitMiddleware())
	{
		api.POST("/mpesa", ph.InitiateMpesa)
		api.POST("/record", ph.RecordPayment)
	}
}

// SetupCORS configures cross-origin access for the customer and staff
// web clients.
func SetupCORS(r *gin.Engine) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
}
