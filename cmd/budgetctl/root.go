// Command budgetctl administers budgets from the command line: seeding the
// catalog from YAML, moving phases and minting access tokens.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"civicbudget/internal/config"
	"civicbudget/internal/database"
	"civicbudget/internal/logger"
	"civicbudget/internal/services"
)

const cliAddress = "cli"

var flagMigrate bool

var rootCmd = &cobra.Command{
	Use:           "budgetctl",
	Short:         "Civic budget administration",
	Long:          "Seed budgets, advance phases and issue access tokens against the configured database.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// environment holds what a command needs to talk to the database.
type environment struct {
	cfg *config.Config
	db  *gorm.DB
}

// openEnvironment is replaced in tests.
var openEnvironment = func() (*environment, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Init(cfg.Env)

	manager, err := database.NewManager(database.NewConfig(cfg))
	if err != nil {
		return nil, err
	}
	if flagMigrate {
		if err := manager.RunMigrations(); err != nil {
			return nil, err
		}
	}
	return &environment{cfg: cfg, db: manager.DB()}, nil
}

func cliActor() services.Actor {
	return services.Actor{IPAddress: cliAddress}
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "budgetctl: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagMigrate, "migrate", false, "Apply pending migrations before running")
}
