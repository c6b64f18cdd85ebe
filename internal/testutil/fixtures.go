package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"civicbudget/internal/models"
	"civicbudget/internal/phase"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a citizen with a unique username.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithLevel(t, db, 0)
}

// CreateTestUserWithLevel creates a user holding the given official level.
func CreateTestUserWithLevel(t *testing.T, db *gorm.DB, level int) *models.User {
	t.Helper()

	user := &models.User{
		Username:      fmt.Sprintf("user%d", nextID()),
		OfficialLevel: level,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestBudget creates a budget in the given phase with an enabled
// timeline record for every phase.
func CreateTestBudget(t *testing.T, db *gorm.DB, kind phase.Kind) *models.Budget {
	t.Helper()

	n := nextID()
	budget := &models.Budget{
		Name:  fmt.Sprintf("Test Budget %d", n),
		Slug:  fmt.Sprintf("test-budget-%d", n),
		Phase: kind,
	}
	for _, k := range phase.Sequence {
		budget.Phases = append(budget.Phases, models.BudgetPhase{Kind: k, Enabled: true})
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// SetTestBudgetPhase moves a budget straight to kind.
func SetTestBudgetPhase(t *testing.T, db *gorm.DB, budget *models.Budget, kind phase.Kind) {
	t.Helper()

	if err := db.Model(budget).Update("phase", kind).Error; err != nil {
		t.Fatalf("failed to set budget phase: %v", err)
	}
	budget.Phase = kind
}

// SetTestPhaseEnd sets the ends_at of one of the budget's timeline records.
func SetTestPhaseEnd(t *testing.T, db *gorm.DB, budgetID uint, kind phase.Kind, endsAt time.Time) {
	t.Helper()

	err := db.Model(&models.BudgetPhase{}).
		Where("budget_id = ? AND kind = ?", budgetID, kind).
		Update("ends_at", endsAt).Error
	if err != nil {
		t.Fatalf("failed to set phase end: %v", err)
	}
}

// CreateTestGroup creates a group in the budget.
func CreateTestGroup(t *testing.T, db *gorm.DB, budgetID uint, name string) *models.Group {
	t.Helper()

	group := &models.Group{
		BudgetID: budgetID,
		Name:     name,
		Slug:     fmt.Sprintf("group-%d", nextID()),
	}
	if err := db.Create(group).Error; err != nil {
		t.Fatalf("failed to create test group: %v", err)
	}
	return group
}

// CreateTestHeading creates a heading with the given allocation ceiling.
func CreateTestHeading(t *testing.T, db *gorm.DB, groupID uint, name string, price int64) *models.Heading {
	t.Helper()

	heading := &models.Heading{
		GroupID: groupID,
		Name:    name,
		Slug:    fmt.Sprintf("heading-%d", nextID()),
		Price:   price,
	}
	if err := db.Create(heading).Error; err != nil {
		t.Fatalf("failed to create test heading: %v", err)
	}
	return heading
}

// InvestmentOption customizes a fixture investment before it is saved.
type InvestmentOption func(*models.Investment)

// Feasible marks the investment feasible with a finished valuation.
func Feasible() InvestmentOption {
	return func(inv *models.Investment) {
		inv.Feasibility = models.FeasibilityFeasible
		inv.ValuationFinished = true
	}
}

// Unfeasible marks the investment unfeasible with a finished valuation.
func Unfeasible() InvestmentOption {
	return func(inv *models.Investment) {
		inv.Feasibility = models.FeasibilityUnfeasible
		inv.ValuationFinished = true
		inv.UnfeasibilityExplanation = "Out of municipal competence"
	}
}

// Selected marks the investment feasible, selected and priced.
func Selected(price int64) InvestmentOption {
	return func(inv *models.Investment) {
		Feasible()(inv)
		inv.Selected = true
		inv.Price = &price
		inv.PriceExplanation = "Contractor estimate"
	}
}

// Winner marks a selected investment as a winner.
func Winner(price int64) InvestmentOption {
	return func(inv *models.Investment) {
		Selected(price)(inv)
		inv.Winner = true
	}
}

// WithConfidence sets the confidence score.
func WithConfidence(score int64) InvestmentOption {
	return func(inv *models.Investment) {
		inv.ConfidenceScore = score
	}
}

// WithTitle sets the title.
func WithTitle(title string) InvestmentOption {
	return func(inv *models.Investment) {
		inv.Title = title
	}
}

// WithCreatedAt sets the creation timestamp.
func WithCreatedAt(at time.Time) InvestmentOption {
	return func(inv *models.Investment) {
		inv.CreatedAt = at
	}
}

// CreateTestInvestment creates an investment under heading. The heading's
// group must belong to budgetID.
func CreateTestInvestment(t *testing.T, db *gorm.DB, budgetID uint, heading *models.Heading, authorID uint, opts ...InvestmentOption) *models.Investment {
	t.Helper()

	inv := &models.Investment{
		BudgetID:    budgetID,
		HeadingID:   heading.ID,
		AuthorID:    authorID,
		Title:       fmt.Sprintf("Test Investment %d", nextID()),
		Description: "A proposal created for tests",
		Feasibility: models.FeasibilityUndecided,
	}
	for _, opt := range opts {
		opt(inv)
	}
	if err := db.Create(inv).Error; err != nil {
		t.Fatalf("failed to create test investment: %v", err)
	}
	return inv
}

// Catalog is a ready-made budget used by service and integration tests: a
// city-wide single-heading group and a districts group with two headings.
type Catalog struct {
	Budget    *models.Budget
	CityGroup *models.Group
	City      *models.Heading
	Districts *models.Group
	North     *models.Heading
	South     *models.Heading
}

// CreateTestCatalog builds a Catalog in the given phase. Every heading gets
// a ceiling of 1,000,000.
func CreateTestCatalog(t *testing.T, db *gorm.DB, kind phase.Kind) *Catalog {
	t.Helper()

	budget := CreateTestBudget(t, db, kind)
	cityGroup := CreateTestGroup(t, db, budget.ID, "City")
	districts := CreateTestGroup(t, db, budget.ID, "Districts")
	return &Catalog{
		Budget:    budget,
		CityGroup: cityGroup,
		City:      CreateTestHeading(t, db, cityGroup.ID, "Entire city", 1000000),
		Districts: districts,
		North:     CreateTestHeading(t, db, districts.ID, "North", 1000000),
		South:     CreateTestHeading(t, db, districts.ID, "South", 1000000),
	}
}
