package services

import (
	"time"

	"civicbudget/internal/models"
	"civicbudget/internal/phase"
)

// Notices shown next to an investment.
const (
	NoticeWinner      = "winner"
	NoticeUnfeasible  = "unfeasible"
	NoticeSelected    = "selected"
	NoticeNotSelected = "not_selected"
)

// InvestmentView is the phase-aware public projection of an investment.
// Attributes the current phase does not publish are omitted.
type InvestmentView struct {
	ID                       uint               `json:"id"`
	BudgetID                 uint               `json:"budget_id"`
	HeadingID                uint               `json:"heading_id"`
	HeadingName              string             `json:"heading_name,omitempty"`
	HeadingPrice             *int64             `json:"heading_price,omitempty"`
	AuthorID                 uint               `json:"author_id"`
	Title                    string             `json:"title"`
	Description              string             `json:"description"`
	Location                 string             `json:"location,omitempty"`
	OrganizationName         string             `json:"organization_name,omitempty"`
	EstimatedPrice           *int64             `json:"estimated_price,omitempty"`
	ConfidenceScore          int64              `json:"confidence_score"`
	Feasibility              models.Feasibility `json:"feasibility"`
	Selected                 bool               `json:"selected"`
	ValuationFinished        bool               `json:"valuation_finished"`
	Winner                   *bool              `json:"winner,omitempty"`
	Price                    *int64             `json:"price,omitempty"`
	PriceExplanation         string             `json:"price_explanation,omitempty"`
	FeasibilityExplanation   string             `json:"feasibility_explanation,omitempty"`
	UnfeasibilityExplanation string             `json:"unfeasibility_explanation,omitempty"`
	SupportsCount            int64              `json:"supports_count"`
	BallotLinesCount         int64              `json:"ballot_lines_count"`
	Notice                   string             `json:"notice,omitempty"`
	CreatedAt                time.Time          `json:"created_at"`
}

// NewInvestmentView projects inv for presentation under the budget's current
// phase. The investment's Heading should be preloaded for heading details.
func NewInvestmentView(inv *models.Investment, budget *models.Budget) InvestmentView {
	caps := budget.Capabilities()

	view := InvestmentView{
		ID:                inv.ID,
		BudgetID:          inv.BudgetID,
		HeadingID:         inv.HeadingID,
		AuthorID:          inv.AuthorID,
		Title:             inv.Title,
		Description:       inv.Description,
		Location:          inv.Location,
		OrganizationName:  inv.OrganizationName,
		ConfidenceScore:   inv.ConfidenceScore,
		Feasibility:       inv.Feasibility,
		Selected:          inv.Selected,
		ValuationFinished: inv.ValuationFinished,
		SupportsCount:     inv.SupportsCount,
		BallotLinesCount:  inv.BallotLinesCount,
		CreatedAt:         inv.CreatedAt,
	}

	if inv.Heading.ID == inv.HeadingID {
		view.HeadingName = inv.Heading.Name
		if !budget.HideMoney {
			price := inv.Heading.Price
			view.HeadingPrice = &price
		}
	}
	if !budget.HideMoney && inv.EstimatedPrice != nil {
		estimate := *inv.EstimatedPrice
		view.EstimatedPrice = &estimate
	}

	if caps.WinnerVisible {
		winner := inv.Winner
		view.Winner = &winner
	}
	if caps.PricesPublished && inv.Selected && !budget.HideMoney && inv.Price != nil {
		price := *inv.Price
		view.Price = &price
		view.PriceExplanation = inv.PriceExplanation
	}
	if inv.ValuationFinished {
		view.FeasibilityExplanation = inv.FeasibilityExplanation
		view.UnfeasibilityExplanation = inv.UnfeasibilityExplanation
	}

	view.Notice = noticeFor(inv, caps)
	return view
}

func noticeFor(inv *models.Investment, caps phase.Capabilities) string {
	switch {
	case caps.WinnerVisible && inv.Winner:
		return NoticeWinner
	case inv.ValuationFinished && inv.Feasibility == models.FeasibilityUnfeasible:
		return NoticeUnfeasible
	case inv.ValuationFinished && inv.Selected:
		return NoticeSelected
	case caps.BallotOpen && inv.ValuationFinished && inv.Feasibility == models.FeasibilityFeasible:
		return NoticeNotSelected
	}
	return ""
}
