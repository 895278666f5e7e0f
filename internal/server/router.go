// Package server assembles the HTTP router from configuration and a
// database handle.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"spendbook/internal/config"
	"spendbook/internal/handlers"
	"spendbook/internal/metrics"
	"spendbook/internal/middleware"
	"spendbook/internal/reporting"
	"spendbook/internal/services"

	_ "spendbook/internal/docs" // Import swagger docs
)

// NewRouter wires services and handlers onto a gin engine. The validator
// must already be registered.
func NewRouter(cfg *config.Config, db *gorm.DB, m *metrics.Metrics, reportOpts ...services.ReportOption) *gin.Engine {
	// Services
	engine := reporting.NewEngine(db, reporting.WithFillGaps(cfg.ReportFillGaps))
	auditService := services.NewAuditService(db)
	authService := services.NewAuthService(cfg.OwnerPasswordHash)
	categoryService := services.NewCategoryService(db)
	expenseService := services.NewExpenseService(db)
	reportService := services.NewReportService(engine, m, reportOpts...)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, auditService)
	reportHandler := handlers.NewReportHandler(reportService)
	settingsHandler := handlers.NewSettingsHandler(cfg.Theme)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(m.Middleware())
	router.Use(middleware.ErrorHandler())
	router.Use(cors())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Prometheus scrape endpoint
	router.GET("/metrics", middleware.APIKeyMiddleware(cfg.MetricsAPIKey), gin.WrapH(m.Handler()))

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	v1.POST("/auth/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg.AuthEnabled))

	protected.GET("/reports", reportHandler.GetReport)

	expenses := protected.Group("/expenses")
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("/:id", expenseHandler.GetExpenseByID)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	categories := protected.Group("/categories")
	categories.GET("", categoryHandler.GetCategories)
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	protected.GET("/settings/appearance", settingsHandler.GetAppearance)

	return router
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
