package services

import (
	"time"

	"gorm.io/gorm"

	"civicbudget/internal/models"
	"civicbudget/internal/pagination"
	"civicbudget/internal/phase"
)

// Actor identifies who triggered an administrative or evaluator operation,
// for the audit trail. UserID is zero for API-key callers.
type Actor struct {
	UserID    uint
	IPAddress string
}

// UserServicer defines the contract for reading and registering participants.
type UserServicer interface {
	GetUserByID(id uint) (*models.User, error)
	UpsertUser(username string, officialLevel int) (*models.User, error)
}

// HeadingSummary describes a heading inside a budget overview.
type HeadingSummary struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	Price          *int64 `json:"price,omitempty"`
	HasCoordinates bool   `json:"has_coordinates"`
}

// GroupSummary describes a group and its headings inside a budget overview.
type GroupSummary struct {
	ID            uint             `json:"id"`
	Name          string           `json:"name"`
	Slug          string           `json:"slug"`
	SingleHeading bool             `json:"single_heading"`
	Headings      []HeadingSummary `json:"headings"`
}

// BudgetOverview is the public description of a budget.
type BudgetOverview struct {
	ID           uint                 `json:"id"`
	Name         string               `json:"name"`
	Slug         string               `json:"slug"`
	Phase        phase.Kind           `json:"phase"`
	HideMoney    bool                 `json:"hide_money"`
	Capabilities phase.Capabilities   `json:"capabilities"`
	Phases       []models.BudgetPhase `json:"phases"`
	Groups       []GroupSummary       `json:"groups"`
}

// HeadingOption is one entry of the heading picker.
type HeadingOption struct {
	ID    uint   `json:"id"`
	Label string `json:"label"`
}

// CatalogServicer defines the contract for the read-only budget hierarchy.
type CatalogServicer interface {
	ResolveBudget(ref string) (*models.Budget, error)
	ResolveHeading(budget *models.Budget, ref string) (*models.Heading, error)
	GetBudgetOverview(ref string) (*BudgetOverview, error)
	HeadingOptions(ref string) ([]HeadingOption, error)
}

// PhaseServicer defines the contract for administrative phase transitions.
type PhaseServicer interface {
	Advance(actor Actor, budgetRef string) (*models.Budget, error)
	SetPhase(actor Actor, budgetRef string, kind phase.Kind) (*models.Budget, error)
}

// InvestmentQuery holds the parameters of an investment listing. Irregular
// values are normalized rather than rejected.
type InvestmentQuery struct {
	BudgetRef     string
	HeadingRef    string
	Filter        phase.Filter
	Sort          phase.Sort
	Page          pagination.PageRequest
	RandomSeed    string
	SessionKey    string
	Search        string
	OfficialLevel int
	DateMin       string
	DateFrom      string
	DateTo        string
}

// AppliedQuery reports the filter, sort and randomization key actually used.
type AppliedQuery struct {
	Filter phase.Filter `json:"filter"`
	Sort   phase.Sort   `json:"sort"`
	Seed   string       `json:"random_seed,omitempty"`
}

// InvestmentPage is one page of a listing together with the applied parameters.
type InvestmentPage struct {
	pagination.PageResponse[InvestmentView]
	Applied AppliedQuery `json:"applied"`
}

// InvestmentQueryServicer defines the contract for filtered, ordered listings.
type InvestmentQueryServicer interface {
	Query(q InvestmentQuery) (*InvestmentPage, error)
}

// InvestmentInput carries the author-editable fields of a new investment.
type InvestmentInput struct {
	HeadingID        *uint
	Title            string
	Description      string
	Location         string
	OrganizationName string
	EstimatedPrice   *int64
}

// InvestmentUpdate carries a partial author edit. Nil fields are unchanged.
type InvestmentUpdate struct {
	HeadingID        *uint
	Title            *string
	Description      *string
	Location         *string
	OrganizationName *string
	EstimatedPrice   *int64
}

// Suggestions lists matching titles for the "similar investments" hint.
type Suggestions struct {
	Investments []InvestmentView `json:"investments"`
	Total       int64            `json:"total"`
}

// InvestmentServicer defines the contract for authoring and showing investments.
type InvestmentServicer interface {
	CreateInvestment(authorID uint, budgetRef string, input InvestmentInput) (*InvestmentView, error)
	UpdateInvestment(authorID uint, budgetRef string, investmentID uint, input InvestmentUpdate) (*InvestmentView, error)
	DestroyInvestment(authorID uint, budgetRef string, investmentID uint) error
	GetInvestment(budgetRef string, investmentID uint, headingRef string) (*InvestmentView, error)
	Suggest(budgetRef, term string) (*Suggestions, error)
}

// ClassificationPatch is an evaluator's partial update. Nil fields are unchanged.
type ClassificationPatch struct {
	Feasibility              *models.Feasibility
	Selected                 *bool
	Winner                   *bool
	ValuationFinished        *bool
	FeasibilityExplanation   *string
	UnfeasibilityExplanation *string
	Price                    *int64
	PriceExplanation         *string
}

// ClassificationServicer defines the contract for evaluator mutations.
type ClassificationServicer interface {
	UpdateClassification(actor Actor, investmentID uint, patch ClassificationPatch) (*models.Investment, error)
	ReassignHeading(actor Actor, investmentID, headingID uint) (*models.Investment, error)
	UpdateConfidenceScore(actor Actor, investmentID uint, score int64) (*models.Investment, error)
}

// BallotLineView is one chosen investment inside a ballot group.
type BallotLineView struct {
	InvestmentID uint   `json:"investment_id"`
	Title        string `json:"title"`
	Price        *int64 `json:"price,omitempty"`
}

// BallotGroupView summarizes a user's lines in one group.
type BallotGroupView struct {
	GroupID     uint             `json:"group_id"`
	GroupName   string           `json:"group_name"`
	HeadingID   uint             `json:"heading_id"`
	HeadingName string           `json:"heading_name"`
	Ceiling     *int64           `json:"ceiling,omitempty"`
	Spent       *int64           `json:"spent,omitempty"`
	Available   *int64           `json:"available,omitempty"`
	Lines       []BallotLineView `json:"lines"`
}

// BallotView is a user's ballot for one budget.
type BallotView struct {
	BudgetID        uint              `json:"budget_id"`
	BallotOpen      bool              `json:"ballot_open"`
	ChangeableUntil *time.Time        `json:"changeable_until,omitempty"`
	LinesCount      int               `json:"lines_count"`
	Groups          []BallotGroupView `json:"groups"`
}

// BallotServicer defines the contract for a user's ballot.
type BallotServicer interface {
	AddLine(userID uint, budgetRef string, investmentID uint) (*models.BallotLine, error)
	RemoveLine(userID uint, budgetRef string, investmentID uint) error
	Reclassify(tx *gorm.DB, investmentID uint) (int64, error)
	BallotFor(userID uint, budgetRef string) (*BallotView, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
