// Package server assembles the gin engine: middleware, public routes, the
// bearer-protected API and the API-key protected pipeline jobs.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"fintrack/internal/config"
	"fintrack/internal/entryparser"
	"fintrack/internal/handlers"
	"fintrack/internal/metrics"
	"fintrack/internal/middleware"
	"fintrack/internal/services"

	_ "fintrack/internal/docs" // swagger docs
)

// Services bundles the service layer the router dispatches to.
type Services struct {
	Users        services.UserServicer
	Transactions services.TransactionServicer
	Goals        services.GoalServicer
	Budgets      services.BudgetServicer
	Analytics    services.AnalyticsServicer
	Audit        services.AuditServicer
}

// NewServices wires every service against one database handle.
func NewServices(db *gorm.DB, parser entryparser.Parser, defaultCurrency string) Services {
	budgets := services.NewBudgetService(db)
	return Services{
		Users:        services.NewUserService(db),
		Transactions: services.NewTransactionService(db, budgets, parser, defaultCurrency),
		Goals:        services.NewGoalService(db),
		Budgets:      budgets,
		Analytics:    services.NewAnalyticsService(db),
		Audit:        services.NewAuditService(db),
	}
}

// NewRouter builds the HTTP handler tree.
func NewRouter(cfg *config.Config, db *gorm.DB, svc Services, tokens *middleware.TokenManager) *gin.Engine {
	authHandler := handlers.NewAuthHandler(svc.Users, svc.Audit, tokens)
	categoryHandler := handlers.NewCategoryHandler()
	transactionHandler := handlers.NewTransactionHandler(svc.Transactions, svc.Analytics, svc.Audit)
	goalHandler := handlers.NewGoalHandler(svc.Goals, svc.Audit)
	budgetHandler := handlers.NewBudgetHandler(svc.Budgets, svc.Audit)
	analyticsHandler := handlers.NewAnalyticsHandler(svc.Analytics)
	pipelineHandler := handlers.NewPipelineHandler(svc.Budgets, svc.Audit)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(metrics.Middleware())

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/api/health", healthCheck(db))

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Scheduled jobs
	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(cfg.PipelineAPIKey))
	pipeline.POST("/budgets/rollover", pipelineHandler.RolloverBudgets)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(tokens))

	protected.GET("/profile", authHandler.GetProfile)
	protected.GET("/categories", categoryHandler.GetCategories)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.POST("/quick", transactionHandler.QuickEntry)
	transactions.POST("/parse", transactionHandler.ParseEntry)
	transactions.GET("/export", transactionHandler.ExportTransactions)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	goals := protected.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.GetGoals)
	goals.GET("/:id", goalHandler.GetGoalByID)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)
	goals.POST("/:id/contribute", goalHandler.Contribute)
	goals.GET("/:id/progress", goalHandler.GetGoalProgress)

	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/progress", budgetHandler.GetBudgetProgress)

	protected.GET("/dashboard", analyticsHandler.GetDashboard)
	analytics := protected.Group("/analytics")
	analytics.GET("/overview", analyticsHandler.GetOverview)
	analytics.GET("/metrics", analyticsHandler.GetMetrics)
	analytics.GET("/insights", analyticsHandler.GetInsights)
	analytics.GET("/budgets", analyticsHandler.GetBudgetAnalysis)
	analytics.GET("/charts", analyticsHandler.GetCharts)

	return router
}

// healthCheck reports ok when the database answers a ping.
func healthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
	}
}
