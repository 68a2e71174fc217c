// Package server assembles the HTTP API.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "budgettool/internal/docs" // Import swagger docs
	"budgettool/internal/handlers"
	"budgettool/internal/middleware"
	"budgettool/internal/services"
)

// Services bundles the business logic the router dispatches to.
type Services struct {
	Users   services.UserServicer
	Vendors services.VendorServicer
	Budgets services.BudgetServicer
	Charges services.ChargeServicer

	// BudgetYear returns the year seeded for vendors created without one.
	BudgetYear func() int
}

// NewRouter builds the gin engine with middleware and all API routes.
func NewRouter(svc Services) *gin.Engine {
	authHandler := handlers.NewAuthHandler(svc.Users)
	vendorHandler := handlers.NewVendorHandler(svc.Vendors, svc.BudgetYear)
	budgetHandler := handlers.NewBudgetHandler(svc.Budgets)
	chargeHandler := handlers.NewChargeHandler(svc.Charges)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/signup", authHandler.SignUp)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/auth/session", authHandler.Session)

	vendors := protected.Group("/vendors")
	vendors.GET("", vendorHandler.ListVendors)
	vendors.POST("", vendorHandler.CreateVendor)
	vendors.GET("/:id", vendorHandler.GetVendor)
	vendors.PATCH("/:id", vendorHandler.UpdateVendorContact)
	vendors.DELETE("/:id", vendorHandler.DeleteVendor)
	vendors.GET("/:id/budgets/:year/:budget_type", budgetHandler.GetBudget)
	vendors.PUT("/:id/budgets/:year/:budget_type", budgetHandler.UpsertBudget)
	vendors.GET("/:id/charges", chargeHandler.ListCharges)
	vendors.POST("/:id/charges", chargeHandler.CreateCharge)

	protected.DELETE("/charges/:id", chargeHandler.DeleteCharge)

	return router
}
