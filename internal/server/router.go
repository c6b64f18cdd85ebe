// Package server wires services, handlers and middleware into the HTTP router.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "civicbudget/internal/docs" // swagger docs
	"civicbudget/internal/handlers"
	"civicbudget/internal/middleware"
	"civicbudget/internal/services"
)

// Options configures the router.
type Options struct {
	JWTSecret          string
	EvaluatorAPIKey    string
	InvestmentsPerPage int
	// Swagger mounts the API docs at /swagger.
	Swagger bool
}

// NewRouter builds the API router backed by db.
func NewRouter(db *gorm.DB, opts Options) *gin.Engine {
	auditService := services.NewAuditService(db)
	catalogService := services.NewCatalogService(db)
	ballotService := services.NewBallotService(db)
	queryService := services.NewInvestmentQueryService(db, opts.InvestmentsPerPage)
	investmentService := services.NewInvestmentService(db, ballotService)
	classificationService := services.NewClassificationService(db, ballotService, auditService)
	phaseService := services.NewPhaseService(db, auditService)

	budgetHandler := handlers.NewBudgetHandler(catalogService)
	investmentHandler := handlers.NewInvestmentHandler(queryService, investmentService)
	ballotHandler := handlers.NewBallotHandler(ballotService)
	adminHandler := handlers.NewAdminHandler(classificationService, phaseService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Session-ID, X-API-Key")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Session-ID, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	if opts.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	v1.GET("/phases/:phase/capabilities", budgetHandler.GetCapabilities)

	public := v1.Group("/budgets/:budget", middleware.Session())
	public.GET("", budgetHandler.GetBudget)
	public.GET("/headings", budgetHandler.GetHeadings)
	public.GET("/investments", investmentHandler.ListInvestments)
	public.GET("/investments/suggest", investmentHandler.SuggestInvestments)
	public.GET("/investments/:id", investmentHandler.GetInvestment)

	protected := v1.Group("/budgets/:budget", middleware.AuthMiddleware(opts.JWTSecret))
	protected.POST("/investments", investmentHandler.CreateInvestment)
	protected.PUT("/investments/:id", investmentHandler.UpdateInvestment)
	protected.DELETE("/investments/:id", investmentHandler.DeleteInvestment)
	protected.GET("/ballot", ballotHandler.GetBallot)
	protected.POST("/ballot/lines", ballotHandler.AddLine)
	protected.DELETE("/ballot/lines/:investment_id", ballotHandler.RemoveLine)

	admin := v1.Group("/admin", middleware.EvaluatorAuth(opts.EvaluatorAPIKey))
	admin.PUT("/investments/:id/classification", adminHandler.UpdateClassification)
	admin.PUT("/investments/:id/heading", adminHandler.ReassignHeading)
	admin.PUT("/investments/:id/confidence_score", adminHandler.UpdateConfidenceScore)
	admin.POST("/budgets/:budget/phase/advance", adminHandler.AdvancePhase)
	admin.PUT("/budgets/:budget/phase", adminHandler.SetPhase)

	return router
}
