package services

import (
	"errors"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "civicbudget/internal/errors"
	"civicbudget/internal/logger"
	"civicbudget/internal/models"
	"civicbudget/internal/phase"
)

// ballotService maintains users' ballots. Writes for one (user, group) are
// serialized on the user's BallotGroupChoice row for that group.
type ballotService struct {
	db *gorm.DB
}

// NewBallotService creates a new BallotServicer.
func NewBallotService(db *gorm.DB) BallotServicer {
	return &ballotService{db: db}
}

// AddLine puts an investment on the user's ballot. Adding an investment that
// is already on the ballot returns the existing line.
func (s *ballotService) AddLine(userID uint, budgetRef string, investmentID uint) (*models.BallotLine, error) {
	var line *models.BallotLine

	err := s.db.Transaction(func(tx *gorm.DB) error {
		budget, err := findBudget(tx, budgetRef)
		if err != nil {
			return err
		}
		if !budget.Capabilities().BallotOpen {
			return apperrors.ErrBallotClosed
		}

		if err := tx.First(&models.User{}, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrUserNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		// Shared lock: a concurrent reclassification of this investment
		// either commits first or waits for this transaction.
		var inv models.Investment
		err = tx.Clauses(clause.Locking{Strength: "SHARE"}).
			Where("id = ? AND budget_id = ?", investmentID, budget.ID).
			First(&inv).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrInvestmentNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if !inv.BallotEligible() {
			return apperrors.ErrInvestmentNotEligible
		}

		var heading models.Heading
		if err := tx.First(&heading, inv.HeadingID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		var existing models.BallotLine
		err = tx.Where("user_id = ? AND investment_id = ?", userID, inv.ID).First(&existing).Error
		if err == nil {
			line = &existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		choice, err := claimGroup(tx, userID, heading)
		if err != nil {
			return err
		}
		if choice.HeadingID != heading.ID {
			return apperrors.ErrDuplicateGroup
		}

		spent, err := spentInHeading(tx, userID, heading.ID)
		if err != nil {
			return err
		}
		if spent+priceOf(&inv) > heading.Price {
			return apperrors.ErrInsufficientFunds
		}

		line = &models.BallotLine{
			UserID:       userID,
			InvestmentID: inv.ID,
			BudgetID:     budget.ID,
			GroupID:      heading.GroupID,
			HeadingID:    heading.ID,
		}
		if err := tx.Create(line).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

// claimGroup inserts the user's choice for the heading's group unless one
// exists, then returns the stored choice under an update lock.
func claimGroup(tx *gorm.DB, userID uint, heading models.Heading) (*models.BallotGroupChoice, error) {
	claim := models.BallotGroupChoice{UserID: userID, GroupID: heading.GroupID, HeadingID: heading.ID}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&claim).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var choice models.BallotGroupChoice
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND group_id = ?", userID, heading.GroupID).
		First(&choice).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &choice, nil
}

// spentInHeading sums the prices of the user's lines in a heading.
func spentInHeading(tx *gorm.DB, userID, headingID uint) (int64, error) {
	var spent int64
	err := tx.Model(&models.Investment{}).
		Select("COALESCE(SUM(price), 0)").
		Where("id IN (?)", tx.Model(&models.BallotLine{}).Select("investment_id").Where("user_id = ? AND heading_id = ?", userID, headingID)).
		Scan(&spent).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return spent, nil
}

func priceOf(inv *models.Investment) int64 {
	if inv.Price == nil {
		return 0
	}
	return *inv.Price
}

// RemoveLine takes an investment off the user's ballot. Missing lines and
// closed ballots are a no-op.
func (s *ballotService) RemoveLine(userID uint, budgetRef string, investmentID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		budget, err := findBudget(tx, budgetRef)
		if err != nil {
			return err
		}
		if !budget.Capabilities().BallotOpen {
			return nil
		}

		var line models.BallotLine
		err = tx.Where("user_id = ? AND investment_id = ? AND budget_id = ?", userID, investmentID, budget.ID).
			First(&line).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		var choice models.BallotGroupChoice
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND group_id = ?", userID, line.GroupID).
			First(&choice).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Delete(&line).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return releaseEmptyGroups(tx, line.GroupID, []uint{userID})
	})
}

// releaseEmptyGroups deletes the group choices of userIDs in groupID that no
// longer back any line.
func releaseEmptyGroups(tx *gorm.DB, groupID uint, userIDs []uint) error {
	if len(userIDs) == 0 {
		return nil
	}
	remaining := tx.Model(&models.BallotLine{}).Select("1").
		Where("ballot_lines.user_id = ballot_group_choices.user_id AND ballot_lines.group_id = ballot_group_choices.group_id")
	err := tx.Where("group_id = ? AND user_id IN ? AND NOT EXISTS (?)", groupID, userIDs, remaining).
		Delete(&models.BallotGroupChoice{}).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Reclassify removes every ballot line referencing the investment and the
// group choices left empty by that. It must run inside the transaction that
// changed the investment's heading or eligibility.
func (s *ballotService) Reclassify(tx *gorm.DB, investmentID uint) (int64, error) {
	var lines []models.BallotLine
	if err := tx.Where("investment_id = ?", investmentID).Find(&lines).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(lines) == 0 {
		return 0, nil
	}

	result := tx.Where("investment_id = ?", investmentID).Delete(&models.BallotLine{})
	if result.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}

	usersByGroup := make(map[uint][]uint)
	for _, l := range lines {
		usersByGroup[l.GroupID] = append(usersByGroup[l.GroupID], l.UserID)
	}
	for groupID, userIDs := range usersByGroup {
		if err := releaseEmptyGroups(tx, groupID, userIDs); err != nil {
			return 0, err
		}
	}

	logger.Get().Infow("ballot lines reclassified",
		"investment_id", investmentID,
		"removed", result.RowsAffected,
	)
	return result.RowsAffected, nil
}

// BallotFor summarizes the user's ballot for a budget.
func (s *ballotService) BallotFor(userID uint, budgetRef string) (*BallotView, error) {
	budget, err := findBudget(s.db, budgetRef)
	if err != nil {
		return nil, err
	}

	var lines []models.BallotLine
	err = s.db.Preload("Investment").
		Where("user_id = ? AND budget_id = ?", userID, budget.ID).
		Order("id ASC").
		Find(&lines).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	view := &BallotView{
		BudgetID:   budget.ID,
		BallotOpen: budget.Capabilities().BallotOpen,
		LinesCount: len(lines),
		Groups:     []BallotGroupView{},
	}

	var record models.BudgetPhase
	err = s.db.Where("budget_id = ? AND kind = ?", budget.ID, phase.Balloting).First(&record).Error
	if err == nil {
		view.ChangeableUntil = record.EndsAt
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if len(lines) == 0 {
		return view, nil
	}

	var headingIDs []uint
	for _, l := range lines {
		headingIDs = append(headingIDs, l.HeadingID)
	}
	var headings []models.Heading
	if err := s.db.Preload("Group").Where("id IN ?", headingIDs).Find(&headings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	headingByID := make(map[uint]models.Heading, len(headings))
	for _, h := range headings {
		headingByID[h.ID] = h
	}

	groups := make(map[uint]*BallotGroupView)
	for _, l := range lines {
		h := headingByID[l.HeadingID]
		g, ok := groups[l.GroupID]
		if !ok {
			g = &BallotGroupView{
				GroupID:     l.GroupID,
				GroupName:   h.Group.Name,
				HeadingID:   h.ID,
				HeadingName: h.Name,
				Lines:       []BallotLineView{},
			}
			if !budget.HideMoney {
				ceiling, spent, available := h.Price, int64(0), h.Price
				g.Ceiling, g.Spent, g.Available = &ceiling, &spent, &available
			}
			groups[l.GroupID] = g
		}

		lv := BallotLineView{InvestmentID: l.InvestmentID, Title: l.Investment.Title}
		if !budget.HideMoney {
			price := priceOf(&l.Investment)
			lv.Price = &price
			*g.Spent += price
			*g.Available -= price
		}
		g.Lines = append(g.Lines, lv)
	}

	for _, g := range groups {
		view.Groups = append(view.Groups, *g)
	}
	sort.Slice(view.Groups, func(i, j int) bool {
		if view.Groups[i].GroupName != view.Groups[j].GroupName {
			return view.Groups[i].GroupName < view.Groups[j].GroupName
		}
		return view.Groups[i].GroupID < view.Groups[j].GroupID
	})
	return view, nil
}
