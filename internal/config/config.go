package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults and bounds for the investment listing page size.
const (
	DefaultInvestmentsPerPage = 10
	MaxInvestmentsPerPage     = 100
)

// DevJWTSecret is the signing secret used when JWT_SECRET is unset.
const DevJWTSecret = "fallback-secret-key-for-dev-only"

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Evaluator pipeline
	EvaluatorAPIKey string

	// Listings
	InvestmentsPerPage int
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Get values from environment variables with defaults
	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "civicbudget"),
		DBPassword: getEnv("DB_PASSWORD", "civicbudget"),
		DBName:     getEnv("DB_NAME", "civicbudget"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", DevJWTSecret),

		EvaluatorAPIKey: os.Getenv("EVALUATOR_API_KEY"),
	}

	// Parse JWT expiration duration
	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	config.InvestmentsPerPage = parsePageSize(getEnv("INVESTMENTS_PER_PAGE", ""))

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func parsePageSize(raw string) int {
	if raw == "" {
		return DefaultInvestmentsPerPage
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		log.Printf("Warning: invalid INVESTMENTS_PER_PAGE value '%s', falling back to %d\n", raw, DefaultInvestmentsPerPage)
		return DefaultInvestmentsPerPage
	}
	return min(n, MaxInvestmentsPerPage)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
