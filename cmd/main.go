package main

import (
	"github.com/Oscarts/backery2-app-sub002/internal/handler"
	"github.com/Oscarts/backery2-app-sub002/internal/middleware"
	"github.com/Oscarts/backery2-app-sub002/pkg/config"
	"github.com/Oscarts/backery2-app-sub002/pkg/database"
	"github.com/Oscarts/backery2-app-sub002/pkg/jwtutil"
	"github.com/Oscarts/backery2-app-sub002/pkg/logger"
	"github.com/Oscarts/backery2-app-sub002/prometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting bakery service...", zap.String("environment", cfg.Server.Env))

	// Initialize database; this also installs the tenant scoping plugin
	if err := database.Initialize(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes - run with no tenant bound (bootstrap path)
	auth := e.Group("/auth")
	auth.POST("/login", handler.Login)
	auth.POST("/register", handler.Register)

	// API routes - every request passes the tenant boundary first
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)

	// Tenant administration
	tenants := api.Group("/tenants")
	tenants.POST("", handler.CreateTenant)
	tenants.GET("", handler.ListTenants)
	tenants.GET("/:id", handler.GetTenant)

	// Customer orders
	orders := api.Group("/orders")
	orders.POST("", handler.CreateOrder)
	orders.GET("", handler.ListOrders)
	orders.GET("/:id", handler.GetOrder)
	orders.PATCH("/:id/status", handler.UpdateOrderStatus)
	orders.DELETE("/:id", handler.DeleteOrder)

	// Products and categories
	products := api.Group("/products")
	products.POST("", handler.CreateProduct)
	products.GET("", handler.ListProducts)
	products.GET("/:id", handler.GetProduct)

	categories := api.Group("/categories")
	categories.POST("", handler.CreateCategory)
	categories.GET("", handler.ListCategories)

	// Materials
	materials := api.Group("/materials")
	materials.POST("", handler.CreateMaterial)
	materials.POST("/batch", handler.BatchCreateMaterials)
	materials.GET("", handler.ListMaterials)
	materials.PUT("/:id", handler.UpdateMaterial)
	materials.DELETE("/:id", handler.DeleteMaterial)

	// Start server
	log.Info("Starting bakery service on port " + cfg.Server.Port)
	e.Logger.Fatal(e.Start(":" + cfg.Server.Port))
}
