// Package testutil provides test helpers for setting up in-memory databases,
// creating fixtures, and making assertions.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"civicbudget/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// AllModels is the list of all GORM models to auto-migrate in tests.
var AllModels = []interface{}{
	&models.User{},
	&models.Budget{},
	&models.BudgetPhase{},
	&models.Group{},
	&models.Heading{},
	&models.Investment{},
	&models.BallotLine{},
	&models.BallotGroupChoice{},
	&models.AuditLog{},
}

var dbCounter atomic.Int64

// OpenTestDB opens an in-memory SQLite database unique to the caller with all
// models migrated. The pool holds a single connection so concurrent writers
// queue instead of failing with table-locked errors.
func OpenTestDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:civictest%d?mode=memory&cache=shared", dbCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open test database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get underlying DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(AllModels...); err != nil {
		return nil, fmt.Errorf("migrate test database: %w", err)
	}
	return db, nil
}

// SetupTestDB creates an in-memory SQLite database with all models migrated.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := OpenTestDB()
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	return db
}

// TeardownTestDB closes the underlying database connection.
func TeardownTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()

	sqlDB, err := db.DB()
	if err != nil {
		t.Errorf("failed to get underlying DB for teardown: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Errorf("failed to close test database: %v", err)
	}
}
