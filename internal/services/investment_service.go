package services

import (
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	apperrors "civicbudget/internal/errors"
	"civicbudget/internal/models"
)

// Title length bounds for investments.
const (
	MinTitleLength = 4
	MaxTitleLength = 80

	maxSuggestions = 5
)

// investmentService handles authoring and showing investments.
type investmentService struct {
	db     *gorm.DB
	ballot BallotServicer
}

// NewInvestmentService creates a new InvestmentServicer.
func NewInvestmentService(db *gorm.DB, ballot BallotServicer) InvestmentServicer {
	return &investmentService{db: db, ballot: ballot}
}

func validateTitle(title string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(title))
	if n < MinTitleLength || n > MaxTitleLength {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "title must be between 4 and 80 characters")
	}
	return nil
}

// defaultHeading returns the budget's only heading, or an input error when
// the budget has several.
func defaultHeading(db *gorm.DB, budgetID uint) (*models.Heading, error) {
	var headings []models.Heading
	if err := headingsOf(db, budgetID).Limit(2).Find(&headings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(headings) != 1 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "heading is required")
	}
	return &headings[0], nil
}

// CreateInvestment proposes a new investment while the budget accepts them.
func (s *investmentService) CreateInvestment(authorID uint, budgetRef string, input InvestmentInput) (*InvestmentView, error) {
	budget, err := findBudget(s.db, budgetRef)
	if err != nil {
		return nil, err
	}
	if !budget.Capabilities().InvestmentsCreatable {
		return nil, apperrors.ErrPhaseForbidsAction
	}

	if err := validateTitle(input.Title); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	if input.EstimatedPrice != nil && *input.EstimatedPrice < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "estimated price must not be negative")
	}

	if err := s.db.First(&models.User{}, authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var heading *models.Heading
	if input.HeadingID != nil {
		heading, err = findHeading(s.db, budget.ID, uintRef(*input.HeadingID))
	} else {
		heading, err = defaultHeading(s.db, budget.ID)
	}
	if err != nil {
		return nil, err
	}

	inv := &models.Investment{
		BudgetID:         budget.ID,
		HeadingID:        heading.ID,
		AuthorID:         authorID,
		Title:            strings.TrimSpace(input.Title),
		Description:      input.Description,
		Location:         input.Location,
		OrganizationName: input.OrganizationName,
		EstimatedPrice:   input.EstimatedPrice,
		Feasibility:      models.FeasibilityUndecided,
	}
	if err := s.db.Create(inv).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	inv.Heading = *heading
	view := NewInvestmentView(inv, budget)
	return &view, nil
}

// authoredInvestment loads an investment of the budget and checks authorID wrote it.
func authoredInvestment(db *gorm.DB, budget *models.Budget, authorID, investmentID uint) (*models.Investment, error) {
	inv, err := findInvestment(db, budget.ID, investmentID)
	if err != nil {
		return nil, err
	}
	if inv.AuthorID != authorID {
		return nil, apperrors.ErrForbidden
	}
	return inv, nil
}

// UpdateInvestment edits an investment. Only its author may edit, and only
// while the phase allows editing.
func (s *investmentService) UpdateInvestment(authorID uint, budgetRef string, investmentID uint, input InvestmentUpdate) (*InvestmentView, error) {
	budget, err := findBudget(s.db, budgetRef)
	if err != nil {
		return nil, err
	}
	if !budget.Capabilities().InvestmentsEditable {
		return nil, apperrors.ErrPhaseForbidsAction
	}

	var inv *models.Investment
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		inv, err = authoredInvestment(tx, budget, authorID, investmentID)
		if err != nil {
			return err
		}

		updates := make(map[string]interface{})
		if input.Title != nil {
			if err := validateTitle(*input.Title); err != nil {
				return err
			}
			inv.Title = strings.TrimSpace(*input.Title)
			updates["title"] = inv.Title
		}
		if input.Description != nil {
			if strings.TrimSpace(*input.Description) == "" {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
			}
			inv.Description = *input.Description
			updates["description"] = inv.Description
		}
		if input.Location != nil {
			inv.Location = *input.Location
			updates["location"] = inv.Location
		}
		if input.OrganizationName != nil {
			inv.OrganizationName = *input.OrganizationName
			updates["organization_name"] = inv.OrganizationName
		}
		if input.EstimatedPrice != nil {
			if *input.EstimatedPrice < 0 {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, "estimated price must not be negative")
			}
			estimate := *input.EstimatedPrice
			inv.EstimatedPrice = &estimate
			updates["estimated_price"] = estimate
		}

		headingChanged := false
		if input.HeadingID != nil && *input.HeadingID != inv.HeadingID {
			heading, err := findHeading(tx, budget.ID, uintRef(*input.HeadingID))
			if err != nil {
				return err
			}
			inv.HeadingID = heading.ID
			inv.Heading = *heading
			updates["heading_id"] = heading.ID
			headingChanged = true
		}

		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(inv).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if headingChanged {
			if _, err := s.ballot.Reclassify(tx, inv.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	view := NewInvestmentView(inv, budget)
	return &view, nil
}

// DestroyInvestment deletes an investment. Only its author may delete it,
// and only while the budget accepts investments.
func (s *investmentService) DestroyInvestment(authorID uint, budgetRef string, investmentID uint) error {
	budget, err := findBudget(s.db, budgetRef)
	if err != nil {
		return err
	}
	if !budget.Capabilities().InvestmentsCreatable {
		return apperrors.ErrPhaseForbidsAction
	}

	inv, err := authoredInvestment(s.db, budget, authorID, investmentID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(inv).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetInvestment shows one investment. When headingRef is given the
// investment must belong to that heading.
func (s *investmentService) GetInvestment(budgetRef string, investmentID uint, headingRef string) (*InvestmentView, error) {
	budget, err := findBudget(s.db, budgetRef)
	if err != nil {
		return nil, err
	}

	var heading *models.Heading
	if headingRef != "" {
		heading, err = findHeading(s.db, budget.ID, headingRef)
		if err != nil {
			return nil, err
		}
	}

	inv, err := findInvestment(s.db, budget.ID, investmentID)
	if err != nil {
		return nil, err
	}
	if heading != nil && inv.HeadingID != heading.ID {
		return nil, apperrors.ErrInvestmentNotFound
	}

	view := NewInvestmentView(inv, budget)
	return &view, nil
}

// Suggest lists up to five investments of the budget whose title contains term.
func (s *investmentService) Suggest(budgetRef, term string) (*Suggestions, error) {
	budget, err := findBudget(s.db, budgetRef)
	if err != nil {
		return nil, err
	}

	result := &Suggestions{Investments: []InvestmentView{}}
	term = strings.TrimSpace(term)
	if term == "" {
		return result, nil
	}

	base := s.db.Model(&models.Investment{}).
		Where("budget_id = ? AND LOWER(title) LIKE ?", budget.ID, "%"+strings.ToLower(term)+"%").
		Session(&gorm.Session{})

	if err := base.Count(&result.Total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var investments []models.Investment
	if err := base.Preload("Heading").Order("id DESC").Limit(maxSuggestions).Find(&investments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for i := range investments {
		result.Investments = append(result.Investments, NewInvestmentView(&investments[i], budget))
	}
	return result, nil
}
