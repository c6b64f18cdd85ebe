package services

import (
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "civicbudget/internal/errors"
	"civicbudget/internal/config"
	"civicbudget/internal/models"
	"civicbudget/internal/ordering"
	"civicbudget/internal/pagination"
	"civicbudget/internal/phase"
)

// Advanced search date presets.
const (
	DateMinLastDay   = "last_day"
	DateMinLastWeek  = "last_week"
	DateMinLastMonth = "last_month"
	DateMinLastYear  = "last_year"
	DateMinCustom    = "custom"
)

var customDateLayouts = []string{"2006-01-02", "02/01/2006", time.RFC3339}

// investmentQueryService lists investments for the public listing.
type investmentQueryService struct {
	db      *gorm.DB
	perPage int
	now     func() time.Time
}

// NewInvestmentQueryService creates a new InvestmentQueryServicer. perPage is
// the default page size; values below one fall back to the configured default.
func NewInvestmentQueryService(db *gorm.DB, perPage int) InvestmentQueryServicer {
	if perPage < 1 {
		perPage = config.DefaultInvestmentsPerPage
	}
	return &investmentQueryService{db: db, perPage: perPage, now: time.Now}
}

// NormalizeFilter picks the filter a listing applies under caps. Finished
// budgets always list winners; otherwise unknown filters and winners without
// visible results fall back to the phase default.
func NormalizeFilter(caps phase.Capabilities, requested phase.Filter) phase.Filter {
	if caps.Phase == phase.Finished {
		return phase.FilterWinners
	}
	if !phase.ValidFilter(requested) {
		return caps.DefaultFilter
	}
	if requested == phase.FilterWinners && !caps.ResultsVisible {
		return caps.DefaultFilter
	}
	return requested
}

// NormalizeSort picks the ordering a listing applies under caps and filter.
// Rejected classifications are always shown in random order.
func NormalizeSort(caps phase.Capabilities, filter phase.Filter, requested phase.Sort) phase.Sort {
	if filter == phase.FilterUnfeasible || filter == phase.FilterUnselected {
		return phase.SortRandom
	}
	if !caps.AllowsSort(requested) {
		return caps.DefaultSort
	}
	return requested
}

// filterScope restricts a listing to the classification named by filter.
func filterScope(filter phase.Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch filter {
		case phase.FilterFeasible:
			return db.Where("investments.feasibility = ?", models.FeasibilityFeasible)
		case phase.FilterUnfeasible:
			return db.Where("investments.feasibility = ?", models.FeasibilityUnfeasible)
		case phase.FilterSelected:
			return db.Where("investments.selected = ? AND investments.feasibility = ?", true, models.FeasibilityFeasible)
		case phase.FilterUnselected:
			return db.Where("investments.selected = ? AND investments.feasibility = ?", false, models.FeasibilityFeasible)
		case phase.FilterWinners:
			return db.Where("investments.winner = ?", true)
		default:
			return db.Where("investments.feasibility <> ?", models.FeasibilityUnfeasible)
		}
	}
}

// orderClause returns the SQL ordering of a non-random sort.
func orderClause(sort phase.Sort) string {
	switch sort {
	case phase.SortConfidenceScore:
		return "investments.confidence_score DESC, investments.id DESC"
	case phase.SortPrice:
		return "COALESCE(investments.price, 0) DESC, investments.confidence_score DESC, investments.id DESC"
	default:
		return "investments.created_at DESC, investments.id DESC"
	}
}

// dateRange resolves the advanced-search date parameters. ok is false when
// no date restriction applies, including for invalid custom ranges.
func dateRange(now time.Time, dateMin, from, to string) (start, end time.Time, ok bool) {
	switch dateMin {
	case DateMinLastDay:
		return now.AddDate(0, 0, -1), now, true
	case DateMinLastWeek:
		return now.AddDate(0, 0, -7), now, true
	case DateMinLastMonth:
		return now.AddDate(0, -1, 0), now, true
	case DateMinLastYear:
		return now.AddDate(-1, 0, 0), now, true
	case DateMinCustom:
		start, okFrom := parseSearchDate(from, now.Location())
		end, okTo := parseSearchDate(to, now.Location())
		if !okFrom && !okTo {
			return time.Time{}, time.Time{}, false
		}
		if !okFrom {
			start = time.Time{}
		}
		if okTo {
			// Inclusive of the whole end day.
			end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
		} else {
			end = now
		}
		if end.Before(start) {
			return time.Time{}, time.Time{}, false
		}
		return start, end, true
	}
	return time.Time{}, time.Time{}, false
}

// parseSearchDate reads a date in any accepted layout as midnight in loc.
func parseSearchDate(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range customDateLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			t = t.In(loc)
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), true
		}
	}
	return time.Time{}, false
}

// searchScope applies the advanced-search refinements.
func (s *investmentQueryService) searchScope(q InvestmentQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if term := strings.TrimSpace(q.Search); term != "" {
			like := "%" + strings.ToLower(term) + "%"
			db = db.Where("(LOWER(investments.title) LIKE ? OR LOWER(investments.description) LIKE ?)", like, like)
		}
		if q.OfficialLevel >= 1 && q.OfficialLevel <= 5 {
			db = db.Where("investments.author_id IN (?)",
				s.db.Model(&models.User{}).Select("id").Where("official_level = ?", q.OfficialLevel))
		}
		if start, end, ok := dateRange(s.now(), q.DateMin, q.DateFrom, q.DateTo); ok {
			db = db.Where("investments.created_at BETWEEN ? AND ?", start, end)
		}
		return db
	}
}

// Query lists one page of a budget's investments.
func (s *investmentQueryService) Query(q InvestmentQuery) (*InvestmentPage, error) {
	budget, err := findBudget(s.db, q.BudgetRef)
	if err != nil {
		return nil, err
	}

	caps := budget.Capabilities()
	filter := NormalizeFilter(caps, q.Filter)
	sort := NormalizeSort(caps, filter, q.Sort)

	page := q.Page
	page.Normalize(s.perPage, config.MaxInvestmentsPerPage)

	base := s.db.Model(&models.Investment{}).Where("investments.budget_id = ?", budget.ID)
	if q.HeadingRef != "" {
		heading, err := findHeading(s.db, budget.ID, q.HeadingRef)
		if err != nil {
			return nil, err
		}
		base = base.Where("investments.heading_id = ?", heading.ID)
	}
	base = base.Scopes(filterScope(filter), s.searchScope(q)).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	applied := AppliedQuery{Filter: filter, Sort: sort}
	var investments []models.Investment

	if sort == phase.SortRandom {
		applied.Seed = q.RandomSeed
		if applied.Seed == "" {
			applied.Seed = q.SessionKey
		}
		investments, err = s.randomPage(base, applied.Seed, page)
	} else {
		err = base.Preload("Heading").
			Order(orderClause(sort)).
			Scopes(pagination.Paginate(page)).
			Find(&investments).Error
		if err != nil {
			err = apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	if err != nil {
		return nil, err
	}

	views := make([]InvestmentView, len(investments))
	for i := range investments {
		views[i] = NewInvestmentView(&investments[i], budget)
	}

	return &InvestmentPage{
		PageResponse: pagination.NewPageResponse(views, page.Page, page.PageSize, total),
		Applied:      applied,
	}, nil
}

// randomPage cuts a page out of the keyed permutation of every candidate id.
func (s *investmentQueryService) randomPage(base *gorm.DB, key string, page pagination.PageRequest) ([]models.Investment, error) {
	var ids []uint
	if err := base.Pluck("investments.id", &ids).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	window := ordering.Window(ordering.Permute(key, ids), page.Page, page.PageSize)
	if len(window) == 0 {
		return nil, nil
	}

	var rows []models.Investment
	if err := s.db.Preload("Heading").Where("id IN ?", window).Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	byID := make(map[uint]models.Investment, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}
	ordered := make([]models.Investment, 0, len(window))
	for _, id := range window {
		if r, ok := byID[id]; ok {
			ordered = append(ordered, r)
		}
	}
	return ordered, nil
}
