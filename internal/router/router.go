package router

import (
	"fmt"
	"strings"

	"github.com/Asadullah378/OmniValio-Junction2025/internal/cache"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/config"
	adminhandlers "github.com/Asadullah378/OmniValio-Junction2025/internal/http/handlers/admin"
	publichandlers "github.com/Asadullah378/OmniValio-Junction2025/internal/http/handlers/public"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/logger"
	"github.com/Asadullah378/OmniValio-Junction2025/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter initializes the routes.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "ov"
	}
	redisClient := cache.Client()
	orderWriteRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:order_write", redisPrefix),
		WindowSeconds: cfg.Security.WriteRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.WriteRateLimit.MaxAttempts,
		Message:       "too many orders placed",
	}
	claimWriteRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:claim_write", redisPrefix),
		WindowSeconds: cfg.Security.WriteRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.WriteRateLimit.MaxAttempts,
		Message:       "too many claims filed",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// Claim attachment files.
	r.Static("/uploads", "./uploads")

	apiV1 := r.Group("/api/v1")
	{
		// Customer-facing surface.
		public := apiV1.Group("/public")
		public.Use(ActorMiddleware("customer"))
		{
			public.GET("/products", publicHandler.ListProducts)
			public.POST("/products/search", publicHandler.SearchProducts)

			public.POST("/orders", RateLimitMiddleware(redisClient, orderWriteRule, KeyByIP), publicHandler.CreateOrder)
			public.GET("/orders", publicHandler.ListOrders)
			public.GET("/orders/:order_no", publicHandler.GetOrder)
			public.POST("/orders/:order_no/cancel", publicHandler.CancelOrder)
			public.GET("/orders/:order_no/tracking", publicHandler.GetOrderTracking)
			public.GET("/orders/:order_no/invoices", publicHandler.GetOrderInvoices)
			public.GET("/orders/:order_no/messages", publicHandler.ListOrderMessages)
			public.POST("/orders/:order_no/messages", publicHandler.PostOrderMessage)

			public.POST("/claims", RateLimitMiddleware(redisClient, claimWriteRule, KeyByIP), publicHandler.CreateClaim)
			public.GET("/claims", publicHandler.ListClaims)
			public.GET("/claims/:claim_no", publicHandler.GetClaim)
			public.GET("/claims/:claim_no/messages", publicHandler.ListClaimMessages)
			public.POST("/claims/:claim_no/messages", publicHandler.PostClaimMessage)
		}

		// Back-office surface.
		admin := apiV1.Group("/admin")
		admin.Use(ActorMiddleware("admin"))
		{
			admin.GET("/orders", adminHandler.AdminListOrders)
			admin.GET("/orders/:order_no", adminHandler.AdminGetOrder)
			admin.PATCH("/orders/:order_no/status", adminHandler.AdminUpdateOrderStatus)
			admin.POST("/orders/:order_no/lines/:line_id/substitute", adminHandler.AdminResolveSubstitution)
			admin.GET("/orders/:order_no/changes", adminHandler.AdminListOrderChanges)
			admin.GET("/orders/:order_no/invoices", adminHandler.AdminListOrderInvoices)
			admin.POST("/orders/:order_no/assess-risk", adminHandler.AdminAssessOrderRisk)

			admin.GET("/claims", adminHandler.AdminListClaims)
			admin.GET("/claims/:claim_no", adminHandler.AdminGetClaim)
			admin.POST("/claims/:claim_no/approve", adminHandler.AdminApproveClaim)
			admin.POST("/claims/:claim_no/reject", adminHandler.AdminRejectClaim)
			admin.POST("/claims/:claim_no/resolve", adminHandler.AdminResolveClaim)
			admin.GET("/claims/:claim_no/invoices", adminHandler.AdminListClaimInvoices)
			admin.POST("/claims/:claim_no/messages", adminHandler.AdminPostClaimMessage)

			admin.GET("/invoices/:invoice_no", adminHandler.AdminGetInvoice)
			admin.POST("/invoices/:invoice_no/verify", adminHandler.AdminVerifyInvoice)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
