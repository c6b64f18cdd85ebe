package services

import (
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "civicbudget/internal/errors"
	"civicbudget/internal/logger"
	"civicbudget/internal/models"
	"civicbudget/internal/phase"
)

// phaseService moves budgets through their phase sequence.
type phaseService struct {
	db    *gorm.DB
	audit AuditServicer
	now   func() time.Time
}

// NewPhaseService creates a new PhaseServicer.
func NewPhaseService(db *gorm.DB, audit AuditServicer) PhaseServicer {
	return &phaseService{db: db, audit: audit, now: time.Now}
}

// sortPhases orders timeline records by their position in the phase sequence.
func sortPhases(phases []models.BudgetPhase) {
	sort.SliceStable(phases, func(i, j int) bool {
		return phase.Index(phases[i].Kind) < phase.Index(phases[j].Kind)
	})
}

// Advance moves the budget to the next enabled phase.
func (s *phaseService) Advance(actor Actor, budgetRef string) (*models.Budget, error) {
	var budget *models.Budget
	var from phase.Kind

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		budget, err = lockBudget(tx, budgetRef)
		if err != nil {
			return err
		}
		from = budget.Phase

		var records []models.BudgetPhase
		if err := tx.Where("budget_id = ?", budget.ID).Find(&records).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		// Phases without a timeline record count as enabled.
		disabled := make(map[phase.Kind]bool, len(records))
		for _, r := range records {
			if !r.Enabled {
				disabled[r.Kind] = true
			}
		}

		next, ok := phase.Next(phase.Normalize(budget.Phase), func(k phase.Kind) bool { return !disabled[k] })
		if !ok {
			return apperrors.ErrPhaseTerminal
		}
		return s.transition(tx, budget, next)
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("budget phase advanced", "budget_id", budget.ID, "from", from, "to", budget.Phase)
	logAudit(s.audit, actor, AuditActionPhaseAdvance, "budget", budget.ID, map[string]any{
		"from": from,
		"to":   budget.Phase,
	})
	return budget, nil
}

// SetPhase moves the budget directly to kind without ordering checks.
func (s *phaseService) SetPhase(actor Actor, budgetRef string, kind phase.Kind) (*models.Budget, error) {
	if !phase.Valid(kind) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown phase "+string(kind))
	}

	var budget *models.Budget
	var from phase.Kind

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		budget, err = lockBudget(tx, budgetRef)
		if err != nil {
			return err
		}
		from = budget.Phase
		if from == kind {
			return nil
		}
		return s.transition(tx, budget, kind)
	})
	if err != nil {
		return nil, err
	}
	if from == kind {
		return budget, nil
	}

	logger.Get().Infow("budget phase set", "budget_id", budget.ID, "from", from, "to", budget.Phase)
	logAudit(s.audit, actor, AuditActionPhaseSet, "budget", budget.ID, map[string]any{
		"from": from,
		"to":   budget.Phase,
	})
	return budget, nil
}

// lockBudget resolves the budget and takes its row lock for the rest of tx.
func lockBudget(tx *gorm.DB, ref string) (*models.Budget, error) {
	budget, err := findBudget(tx, ref)
	if err != nil {
		return nil, err
	}
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(budget, budget.ID).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

// transition closes the current timeline record, opens the next one and
// stores the new phase. Timestamps already set are kept.
func (s *phaseService) transition(tx *gorm.DB, budget *models.Budget, to phase.Kind) error {
	now := s.now()

	err := tx.Model(&models.BudgetPhase{}).
		Where("budget_id = ? AND kind = ? AND ends_at IS NULL", budget.ID, budget.Phase).
		Update("ends_at", now).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	err = tx.Model(&models.BudgetPhase{}).
		Where("budget_id = ? AND kind = ? AND starts_at IS NULL", budget.ID, to).
		Update("starts_at", now).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := tx.Model(budget).Update("phase", to).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	budget.Phase = to
	return nil
}
