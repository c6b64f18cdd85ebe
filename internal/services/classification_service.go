package services

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "civicbudget/internal/errors"
	"civicbudget/internal/logger"
	"civicbudget/internal/models"
)

// classificationService applies evaluator decisions to investments and keeps
// ballots consistent with them.
type classificationService struct {
	db     *gorm.DB
	ballot BallotServicer
	audit  AuditServicer
}

// NewClassificationService creates a new ClassificationServicer.
func NewClassificationService(db *gorm.DB, ballot BallotServicer, audit AuditServicer) ClassificationServicer {
	return &classificationService{db: db, ballot: ballot, audit: audit}
}

// lockInvestment loads an investment holding its row write lock for the rest of tx.
func lockInvestment(tx *gorm.DB, investmentID uint) (*models.Investment, error) {
	var inv models.Investment
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&inv, investmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvestmentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &inv, nil
}

// applyClassification returns the columns to update for patch on inv, after
// enforcing the selection rules. inv is updated in place.
func applyClassification(inv *models.Investment, patch ClassificationPatch) (map[string]interface{}, error) {
	updates := make(map[string]interface{})

	if patch.Feasibility != nil {
		switch *patch.Feasibility {
		case models.FeasibilityUndecided, models.FeasibilityFeasible, models.FeasibilityUnfeasible:
		default:
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown feasibility "+string(*patch.Feasibility))
		}
		inv.Feasibility = *patch.Feasibility
		updates["feasibility"] = inv.Feasibility
		// Leaving feasible drops the downstream decisions unless the patch
		// sets them explicitly, in which case the checks below reject it.
		if inv.Feasibility != models.FeasibilityFeasible {
			if patch.Selected == nil {
				inv.Selected = false
				updates["selected"] = false
			}
			if patch.Winner == nil {
				inv.Winner = false
				updates["winner"] = false
			}
		}
	}
	if patch.Selected != nil {
		inv.Selected = *patch.Selected
		updates["selected"] = inv.Selected
		if !inv.Selected && patch.Winner == nil {
			inv.Winner = false
			updates["winner"] = false
		}
	}
	if patch.Winner != nil {
		inv.Winner = *patch.Winner
		updates["winner"] = inv.Winner
	}

	if inv.Selected && inv.Feasibility != models.FeasibilityFeasible {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidClassification, "only feasible investments can be selected")
	}
	if inv.Winner && !inv.Selected {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidClassification, "only selected investments can win")
	}

	if patch.ValuationFinished != nil {
		inv.ValuationFinished = *patch.ValuationFinished
		updates["valuation_finished"] = inv.ValuationFinished
	}
	if patch.FeasibilityExplanation != nil {
		inv.FeasibilityExplanation = *patch.FeasibilityExplanation
		updates["feasibility_explanation"] = inv.FeasibilityExplanation
	}
	if patch.UnfeasibilityExplanation != nil {
		inv.UnfeasibilityExplanation = *patch.UnfeasibilityExplanation
		updates["unfeasibility_explanation"] = inv.UnfeasibilityExplanation
	}
	if patch.Price != nil {
		if *patch.Price < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "price must not be negative")
		}
		price := *patch.Price
		inv.Price = &price
		updates["price"] = price
	}
	if patch.PriceExplanation != nil {
		inv.PriceExplanation = *patch.PriceExplanation
		updates["price_explanation"] = inv.PriceExplanation
	}
	return updates, nil
}

// UpdateClassification applies an evaluator's classification patch. Ballot
// lines for the investment are removed when it stops being ballot eligible.
func (s *classificationService) UpdateClassification(actor Actor, investmentID uint, patch ClassificationPatch) (*models.Investment, error) {
	var inv *models.Investment
	var removed int64
	var updates map[string]interface{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		inv, err = lockInvestment(tx, investmentID)
		if err != nil {
			return err
		}

		updates, err = applyClassification(inv, patch)
		if err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(inv).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if !inv.BallotEligible() {
			removed, err = s.ballot.Reclassify(tx, inv.ID)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		logger.Get().Infow("investment classification updated",
			"investment_id", inv.ID,
			"feasibility", inv.Feasibility,
			"selected", inv.Selected,
			"winner", inv.Winner,
			"ballot_lines_removed", removed,
		)
		logAudit(s.audit, actor, AuditActionClassificationUpdate, "investment", inv.ID, updates)
	}
	return inv, nil
}

// ReassignHeading moves an investment to another heading of its budget and
// removes it from every ballot.
func (s *classificationService) ReassignHeading(actor Actor, investmentID, headingID uint) (*models.Investment, error) {
	var inv *models.Investment
	var from uint
	var removed int64

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		inv, err = lockInvestment(tx, investmentID)
		if err != nil {
			return err
		}
		from = inv.HeadingID

		heading, err := findHeading(tx, inv.BudgetID, uintRef(headingID))
		if err != nil {
			return err
		}
		if heading.ID == inv.HeadingID {
			return nil
		}

		if err := tx.Model(inv).Update("heading_id", heading.ID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		inv.HeadingID = heading.ID

		removed, err = s.ballot.Reclassify(tx, inv.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if from != inv.HeadingID {
		logger.Get().Infow("investment heading reassigned",
			"investment_id", inv.ID,
			"from", from,
			"to", inv.HeadingID,
			"ballot_lines_removed", removed,
		)
		logAudit(s.audit, actor, AuditActionHeadingReassign, "investment", inv.ID, map[string]any{
			"from": from,
			"to":   inv.HeadingID,
		})
	}
	return inv, nil
}

// UpdateConfidenceScore stores the score computed by the scoring collaborator.
func (s *classificationService) UpdateConfidenceScore(actor Actor, investmentID uint, score int64) (*models.Investment, error) {
	var inv models.Investment
	if err := s.db.First(&inv, investmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvestmentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(&inv).Update("confidence_score", score).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	inv.ConfidenceScore = score

	logAudit(s.audit, actor, AuditActionConfidenceScoreUpdate, "investment", inv.ID, map[string]any{
		"confidence_score": score,
	})
	return &inv, nil
}
