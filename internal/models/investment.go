package models

// Feasibility is the evaluator's verdict on an investment.
type Feasibility string

const (
	FeasibilityUndecided  Feasibility = "undecided"
	FeasibilityFeasible   Feasibility = "feasible"
	FeasibilityUnfeasible Feasibility = "unfeasible"
)

// Investment is a citizen-proposed spending item.
type Investment struct {
	Base
	BudgetID                 uint        `gorm:"not null;index" json:"budget_id"`
	HeadingID                uint        `gorm:"not null;index" json:"heading_id"`
	AuthorID                 uint        `gorm:"not null;index" json:"author_id"`
	Title                    string      `gorm:"not null" json:"title"`
	Description              string      `gorm:"type:text;not null" json:"description"`
	Location                 string      `json:"location,omitempty"`
	OrganizationName         string      `json:"organization_name,omitempty"`
	EstimatedPrice           *int64      `gorm:"type:bigint" json:"estimated_price,omitempty"`
	ConfidenceScore          int64       `gorm:"type:bigint;not null;default:0;index" json:"confidence_score"`
	Feasibility              Feasibility `gorm:"type:varchar(16);not null;default:'undecided';index" json:"feasibility"`
	Selected                 bool        `gorm:"not null;default:false" json:"selected"`
	Winner                   bool        `gorm:"not null;default:false" json:"winner"`
	ValuationFinished        bool        `gorm:"not null;default:false" json:"valuation_finished"`
	FeasibilityExplanation   string      `gorm:"type:text" json:"feasibility_explanation,omitempty"`
	UnfeasibilityExplanation string      `gorm:"type:text" json:"unfeasibility_explanation,omitempty"`
	Price                    *int64      `gorm:"type:bigint" json:"price,omitempty"`
	PriceExplanation         string      `gorm:"type:text" json:"price_explanation,omitempty"`
	SupportsCount            int64       `gorm:"not null;default:0" json:"supports_count"`
	BallotLinesCount         int64       `gorm:"not null;default:0" json:"ballot_lines_count"`

	// Relationships
	Heading Heading `gorm:"foreignKey:HeadingID" json:"-"`
	Author  User    `gorm:"foreignKey:AuthorID" json:"-"`
}

// BallotEligible reports whether the investment's classification allows it
// on a ballot. The phase gate is checked separately.
func (i *Investment) BallotEligible() bool {
	return i.Selected && i.Feasibility == FeasibilityFeasible
}
