package services

import (
	"errors"
	"sort"
	"strconv"

	"gorm.io/gorm"

	apperrors "civicbudget/internal/errors"
	"civicbudget/internal/models"
)

// catalogService serves the budget, group and heading hierarchy.
type catalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a new CatalogServicer.
func NewCatalogService(db *gorm.DB) CatalogServicer {
	return &catalogService{db: db}
}

// findBudget resolves a budget by numeric id or slug using db, which may be
// a transaction.
func findBudget(db *gorm.DB, ref string) (*models.Budget, error) {
	if ref == "" {
		return nil, apperrors.ErrBudgetNotFound
	}

	var budget models.Budget
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		err := db.First(&budget, uint(id)).Error
		if err == nil {
			return &budget, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	if err := db.Where("slug = ?", ref).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// uintRef formats a numeric id as a lookup reference.
func uintRef(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// headingsOf returns a query over the headings belonging to budgetID.
func headingsOf(db *gorm.DB, budgetID uint) *gorm.DB {
	return db.Model(&models.Heading{}).
		Where("group_id IN (?)", db.Model(&models.Group{}).Select("id").Where("budget_id = ?", budgetID))
}

// findHeading resolves a heading of budgetID by numeric id or slug.
func findHeading(db *gorm.DB, budgetID uint, ref string) (*models.Heading, error) {
	if ref == "" {
		return nil, apperrors.ErrHeadingNotFound
	}

	var heading models.Heading
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		err := headingsOf(db, budgetID).Preload("Group").Where("id = ?", uint(id)).First(&heading).Error
		if err == nil {
			return &heading, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	if err := headingsOf(db, budgetID).Preload("Group").Where("slug = ?", ref).First(&heading).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHeadingNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &heading, nil
}

// findInvestment loads an investment of budgetID with its heading.
func findInvestment(db *gorm.DB, budgetID, investmentID uint) (*models.Investment, error) {
	var inv models.Investment
	err := db.Preload("Heading").
		Where("id = ? AND budget_id = ?", investmentID, budgetID).
		First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvestmentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &inv, nil
}

// ResolveBudget finds a budget by id or slug.
func (s *catalogService) ResolveBudget(ref string) (*models.Budget, error) {
	return findBudget(s.db, ref)
}

// ResolveHeading finds a heading of the budget by id or slug.
func (s *catalogService) ResolveHeading(budget *models.Budget, ref string) (*models.Heading, error) {
	return findHeading(s.db, budget.ID, ref)
}

// loadStructure loads the budget's groups with their headings and its phase
// timeline in sequence order.
func (s *catalogService) loadStructure(budget *models.Budget) error {
	err := s.db.
		Preload("Phases").
		Preload("Groups", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC, id ASC") }).
		Preload("Groups.Headings", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC, id ASC") }).
		First(budget, budget.ID).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	sortPhases(budget.Phases)
	return nil
}

// GetBudgetOverview describes a budget, its current capabilities and its hierarchy.
func (s *catalogService) GetBudgetOverview(ref string) (*BudgetOverview, error) {
	budget, err := findBudget(s.db, ref)
	if err != nil {
		return nil, err
	}
	if err := s.loadStructure(budget); err != nil {
		return nil, err
	}

	overview := &BudgetOverview{
		ID:           budget.ID,
		Name:         budget.Name,
		Slug:         budget.Slug,
		Phase:        budget.Capabilities().Phase,
		HideMoney:    budget.HideMoney,
		Capabilities: budget.Capabilities(),
		Phases:       budget.Phases,
		Groups:       make([]GroupSummary, 0, len(budget.Groups)),
	}
	if overview.Phases == nil {
		overview.Phases = []models.BudgetPhase{}
	}

	for _, g := range budget.Groups {
		group := GroupSummary{
			ID:            g.ID,
			Name:          g.Name,
			Slug:          g.Slug,
			SingleHeading: len(g.Headings) == 1,
			Headings:      make([]HeadingSummary, 0, len(g.Headings)),
		}
		for _, h := range g.Headings {
			summary := HeadingSummary{
				ID:             h.ID,
				Name:           h.Name,
				Slug:           h.Slug,
				HasCoordinates: h.HasCoordinates(),
			}
			if !budget.HideMoney {
				price := h.Price
				summary.Price = &price
			}
			group.Headings = append(group.Headings, summary)
		}
		overview.Groups = append(overview.Groups, group)
	}

	return overview, nil
}

// HeadingOptions lists the budget's headings for a picker: groups by name
// descending, headings by name ascending. Labels carry the group name unless
// the budget has a single group.
func (s *catalogService) HeadingOptions(ref string) ([]HeadingOption, error) {
	budget, err := findBudget(s.db, ref)
	if err != nil {
		return nil, err
	}
	if err := s.loadStructure(budget); err != nil {
		return nil, err
	}

	groups := budget.Groups
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Name > groups[j].Name })

	options := []HeadingOption{}
	for _, g := range groups {
		for _, h := range g.Headings {
			label := h.Name
			if len(groups) > 1 {
				label = g.Name + ": " + h.Name
			}
			options = append(options, HeadingOption{ID: h.ID, Label: label})
		}
	}
	return options, nil
}
