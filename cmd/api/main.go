package main

import (
	"fmt"

	"civicbudget/internal/config"
	"civicbudget/internal/database"
	"civicbudget/internal/logger"
	"civicbudget/internal/server"
	"civicbudget/internal/validator"
)

// @title           Civic Budget API
// @version         1.0
// @description     Participatory budgeting: phased investment proposals, evaluation and balloting.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

func main() {
	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Init(appConfig.Env)
	defer logger.Sync()
	log := logger.Get()

	if appConfig.IsProduction() && appConfig.JWTSecret == config.DevJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	router := server.NewRouter(dbManager.DB(), server.Options{
		JWTSecret:          appConfig.JWTSecret,
		EvaluatorAPIKey:    appConfig.EvaluatorAPIKey,
		InvestmentsPerPage: appConfig.InvestmentsPerPage,
		Swagger:            !appConfig.IsProduction(),
	})
	if appConfig.EvaluatorAPIKey == "" {
		log.Warn("EVALUATOR_API_KEY is not set; evaluator endpoints will refuse every request")
	}

	log.Infof("Starting civic budget server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
