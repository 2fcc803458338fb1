// Package routes wires the HTTP surface onto a gin engine.
package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/homeservices/booking-api/config"
	"github.com/homeservices/booking-api/controllers"
	"github.com/homeservices/booking-api/middleware"
)

// SetupRouter builds the engine with every route under /api/v1
func SetupRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	auth := middleware.EnsureValidToken(cfg)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", controllers.HealthCheck)
		v1.GET("/database/status", controllers.DatabaseStatus)

		// public
		public := v1.Group("", limiter.RateLimit())
		public.POST("/auth/register", controllers.Register)
		public.POST("/auth/login", controllers.Login)
		public.GET("/locations/check", controllers.CheckLocation)
		public.GET("/services", controllers.ListServices)
		public.GET("/services/:id", controllers.GetService)
		public.GET("/reviews/latest", controllers.LatestReviews)

		// signature-verified, not token-authenticated
		v1.POST("/payments/webhook", controllers.PaymentWebhook)

		// authenticated
		authed := v1.Group("", auth)
		authed.GET("/users/me", controllers.GetMyProfile)
		authed.PATCH("/users/me", controllers.UpdateMyProfile)
		authed.POST("/orders", controllers.CreateOrder)
		authed.GET("/orders", controllers.ListMyOrders)
		authed.GET("/orders/:id", controllers.GetOrder)
		authed.GET("/orders/:id/payments", controllers.ListOrderPayments)
		authed.POST("/reviews", controllers.SubmitReview)
		authed.POST("/uploads", controllers.UploadImage)
		authed.POST("/payments/intent", controllers.CreatePaymentIntent)

		admin := v1.Group("/admin", auth, middleware.RequireAdmin())
		admin.GET("/stats", controllers.GetDashboardStats)

		admin.GET("/orders", controllers.ListAllOrders)
		admin.PATCH("/orders/:id/status", controllers.UpdateOrderStatus)

		admin.GET("/services", controllers.ListAllServices)
		admin.POST("/services", controllers.CreateService)
		admin.PATCH("/services/:id", controllers.UpdateService)
		admin.DELETE("/services/:id", controllers.DeleteService)

		admin.GET("/locations", controllers.ListLocations)
		admin.POST("/locations", controllers.CreateLocation)
		admin.PATCH("/locations/:id", controllers.UpdateLocation)
		admin.DELETE("/locations/:id", controllers.DeleteLocation)

		admin.GET("/users", controllers.ListUsers)
		admin.PATCH("/users/:id", controllers.UpdateUser)
		admin.DELETE("/users/:id", controllers.DeleteUser)

		admin.DELETE("/uploads", controllers.DeleteImage)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}
