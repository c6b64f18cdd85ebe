package services

import (
	"math"
	"testing"
	"time"

	"gorm.io/gorm"

	"civicbudget/internal/models"
	"civicbudget/internal/pagination"
	"civicbudget/internal/phase"
	"civicbudget/internal/testutil"
)

func viewIDs(views []InvestmentView) []uint {
	ids := make([]uint, len(views))
	for i, v := range views {
		ids[i] = v.ID
	}
	return ids
}

func seedInvestments(t *testing.T, db *gorm.DB, cat *testutil.Catalog, n int, opts ...testutil.InvestmentOption) []*models.Investment {
	t.Helper()
	author := testutil.CreateTestUser(t, db)
	out := make([]*models.Investment, n)
	for i := range out {
		out[i] = testutil.CreateTestInvestment(t, db, cat.Budget.ID, cat.North, author.ID, opts...)
	}
	return out
}

func TestNormalizeFilter(t *testing.T) {
	tests := []struct {
		name      string
		kind      phase.Kind
		results   bool
		requested phase.Filter
		want      phase.Filter
	}{
		{"empty_uses_default", phase.Accepting, false, "", phase.FilterNotUnfeasible},
		{"unknown_uses_default", phase.Valuating, false, "bogus", phase.FilterNotUnfeasible},
		{"explicit_kept", phase.Valuating, false, phase.FilterUnfeasible, phase.FilterUnfeasible},
		{"winners_before_results", phase.Balloting, true, phase.FilterWinners, phase.FilterSelected},
		{"finished_forces_winners", phase.Finished, true, phase.FilterFeasible, phase.FilterWinners},
		{"finished_without_results", phase.Finished, false, phase.FilterSelected, phase.FilterWinners},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := phase.CapabilitiesFor(tt.kind, tt.results)
			if got := NormalizeFilter(caps, tt.requested); got != tt.want {
				t.Errorf("NormalizeFilter = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNormalizeSort(t *testing.T) {
	tests := []struct {
		name      string
		kind      phase.Kind
		filter    phase.Filter
		requested phase.Sort
		want      phase.Sort
	}{
		{"default", phase.Selecting, phase.FilterNotUnfeasible, "", phase.SortConfidenceScore},
		{"legal_kept", phase.Selecting, phase.FilterNotUnfeasible, phase.SortMostRecent, phase.SortMostRecent},
		{"price_outside_balloting", phase.Valuating, phase.FilterSelected, phase.SortPrice, phase.SortConfidenceScore},
		{"price_in_balloting", phase.Balloting, phase.FilterSelected, phase.SortPrice, phase.SortPrice},
		{"unfeasible_forces_random", phase.Valuating, phase.FilterUnfeasible, phase.SortConfidenceScore, phase.SortRandom},
		{"unselected_forces_random", phase.Balloting, phase.FilterUnselected, phase.SortPrice, phase.SortRandom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := phase.CapabilitiesFor(tt.kind, false)
			if got := NormalizeSort(caps, tt.filter, tt.requested); got != tt.want {
				t.Errorf("NormalizeSort = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestQueryPagination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewInvestmentQueryService(db, 10)
	cat := testutil.CreateTestCatalog(t, db, phase.Informing)
	all := seedInvestments(t, db, cat, 23)

	t.Run("pages_cover_every_item_once", func(t *testing.T) {
		seen := make(map[uint]int)
		for page := 1; page <= 3; page++ {
			result, err := svc.Query(InvestmentQuery{
				BudgetRef:  cat.Budget.Slug,
				SessionKey: "visitor-1",
				Page:       pagination.PageRequest{Page: page},
			})
			testutil.AssertNoError(t, err)
			if result.TotalItems != 23 {
				t.Errorf("expected total 23, got %d", result.TotalItems)
			}
			for _, v := range result.Data {
				seen[v.ID]++
			}
		}
		if len(seen) != len(all) {
			t.Errorf("expected %d distinct items, got %d", len(all), len(seen))
		}
		for id, n := range seen {
			if n != 1 {
				t.Errorf("item %d appeared %d times", id, n)
			}
		}
	})

	t.Run("page_past_end_is_empty", func(t *testing.T) {
		result, err := svc.Query(InvestmentQuery{
			BudgetRef:  cat.Budget.Slug,
			SessionKey: "visitor-1",
			Page:       pagination.PageRequest{Page: 4},
		})
		testutil.AssertNoError(t, err)
		if len(result.Data) != 0 {
			t.Errorf("expected empty page, got %d items", len(result.Data))
		}
		if result.TotalPages != 3 {
			t.Errorf("expected 3 pages, got %d", result.TotalPages)
		}
	})

	t.Run("huge_page_is_empty_not_a_failure", func(t *testing.T) {
		accepting := testutil.CreateTestCatalog(t, db, phase.Accepting)
		seedInvestments(t, db, accepting, 3)

		cases := []struct {
			name   string
			budget string
			sort   phase.Sort
		}{
			{"random", cat.Budget.Slug, phase.SortRandom},
			{"most_recent", accepting.Budget.Slug, phase.SortMostRecent},
		}
		for _, tc := range cases {
			result, err := svc.Query(InvestmentQuery{
				BudgetRef:  tc.budget,
				Sort:       tc.sort,
				SessionKey: "visitor-1",
				Page:       pagination.PageRequest{Page: math.MaxInt64},
			})
			testutil.AssertNoError(t, err)
			if result.Applied.Sort != tc.sort {
				t.Errorf("%s: expected sort %s, got %s", tc.name, tc.sort, result.Applied.Sort)
			}
			if len(result.Data) != 0 {
				t.Errorf("%s: expected empty page, got %d items", tc.name, len(result.Data))
			}
		}
	})

	t.Run("irregular_page_values_are_normalized", func(t *testing.T) {
		result, err := svc.Query(InvestmentQuery{
			BudgetRef:  cat.Budget.Slug,
			SessionKey: "visitor-1",
			Page:       pagination.PageRequest{Page: -2, PageSize: 1000},
		})
		testutil.AssertNoError(t, err)
		if result.Page != 1 || result.PageSize != 100 {
			t.Errorf("expected page 1 size 100, got page %d size %d", result.Page, result.PageSize)
		}
		if len(result.Data) != 23 {
			t.Errorf("expected all 23 items, got %d", len(result.Data))
		}
	})
}

func TestQueryRandomOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewInvestmentQueryService(db, 100)
	cat := testutil.CreateTestCatalog(t, db, phase.Informing)
	seedInvestments(t, db, cat, 20)

	query := func(session, seed string) []uint {
		t.Helper()
		result, err := svc.Query(InvestmentQuery{BudgetRef: cat.Budget.Slug, SessionKey: session, RandomSeed: seed})
		testutil.AssertNoError(t, err)
		if result.Applied.Sort != phase.SortRandom {
			t.Fatalf("expected random sort, got %s", result.Applied.Sort)
		}
		return viewIDs(result.Data)
	}

	t.Run("stable_per_session", func(t *testing.T) {
		testutil.AssertIDs(t, query("alice", ""), query("alice", ""))
	})

	t.Run("distinct_sessions_differ", func(t *testing.T) {
		a, b := query("alice", ""), query("bob", "")
		same := true
		for i := range a {
			if a[i] != b[i] {
				same = false
				break
			}
		}
		if same {
			t.Error("expected different orders for different sessions")
		}
	})

	t.Run("explicit_seed_wins", func(t *testing.T) {
		testutil.AssertIDs(t, query("alice", "shared"), query("bob", "shared"))
	})

	t.Run("applied_seed_reported", func(t *testing.T) {
		result, err := svc.Query(InvestmentQuery{BudgetRef: cat.Budget.Slug, SessionKey: "carol"})
		testutil.AssertNoError(t, err)
		if result.Applied.Seed != "carol" {
			t.Errorf("expected session key as seed, got %q", result.Applied.Seed)
		}
	})
}

func TestQueryFilters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewInvestmentQueryService(db, 100)
	cat := testutil.CreateTestCatalog(t, db, phase.Valuating)
	author := testutil.CreateTestUser(t, db)

	undecided := testutil.CreateTestInvestment(t, db, cat.Budget.ID, cat.North, author.ID)
	feasible := testutil.CreateTestInvestment(t, db, cat.Budget.ID, cat.North, author.ID, testutil.Feasible())
	unfeasible := testutil.CreateTestInvestment(t, db, cat.Budget.ID, cat.North, author.ID, testutil.Unfeasible())
	selected := testutil.CreateTestInvestment(t, db, cat.Budget.ID, cat.North, author.ID, testutil.Selected(100))

	tests := []struct {
		filter phase.Filter
		want   []*models.Investment
	}{
		{phase.FilterNotUnfeasible, []*models.Investment{undecided, feasible, selected}},
		{phase.FilterFeasible, []*models.Investment{feasible, selected}},
		{phase.FilterUnfeasible, []*models.Investment{unfeasible}},
		{phase.FilterSelected, []*models.Investment{selected}},
		{phase.FilterUnselected, []*models.Investment{feasible}},
	}
	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			result, err := svc.Query(InvestmentQuery{BudgetRef: cat.Budget.Slug, Filter: tt.filter, SessionKey: "k"})
			testutil.AssertNoError(t, err)
			if result.Applied.Filter != tt.filter {
				t.Errorf("expected applied filter %s, got %s", tt.filter, result.Applied.Filter)
			}
			got := make(map[uint]bool)
			for _, v := range result.Data {
				got[v.ID] = true
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d items, got %d", len(tt.want), len(got))
			}
			for _, inv := range tt.want {
				if !got[inv.ID] {
					t.Errorf("expected investment %d in results", inv.ID)
				}
			}
		})
	}

	t.Run("forced_random_on_rejected", func(t *testing.T) {
		sorted, err := svc.Query(InvestmentQuery{BudgetRef: cat.Budget.Slug, Filter: phase.FilterUnfeasible, Sort: phase.SortConfidenceScore, SessionKey: "k"})
		testutil.AssertNoError(t, err)
		random, err := svc.Query(InvestmentQuery{BudgetRef: cat.Budget.Slug, Filter: phase.FilterUnfeasible, Sort: phase.SortRandom, SessionKey: "k"})
		testutil.AssertNoError(t, err)
		if sorted.Applied.Sort != phase.SortRandom {
			t.Errorf("expected forced random sort, got %s", sorted.Applied.Sort)
		}
		testutil.AssertIDs(t, viewIDs(sorted.Data), viewIDs(random.Data))
	})
}

func TestQuerySorts(t *testing.T) {
	t.Run("confidence_score_ties_by_id_desc", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewInvestmentQueryService(db, 10)
		cat := testutil.CreateTestCatalog(t, db, phase.Selecting)
		author := testutil.CreateTestUser(t, db)
		low := testutil.CreateTestInvestment(t, db, cat.Budget.ID, cat.North, author.ID, testutil.WithConfidence(1))
		tieA := testutil.CreateTestInvestment(t, db, cat.Budget.ID, cat.North, author.ID, testutil.WithConfidence(5))
		tieB := testutil.CreateTestInvestment(t, db, cat.Budget.ID, cat.North, author.ID, testutil.WithConfidence(5))
		high := testutil.CreateTestInvestment(t, db, cat.Budget.ID, cat.North, author.ID, testutil.WithConfidence(9))

		result, err := svc.Query(InvestmentQuery{BudgetRef: cat.Budget.Slug})
		testutil.AssertNoError(t, err)
		if result.Applied.Sort != phase.SortConfidenceScore {
			t.Fatalf("expected default confidence_score sort, got %s", result.Applied.Sort)
		}
		testutil.AssertIDs(t, viewIDs(result.Data), []uint{high.ID, tieB.ID, tieA.ID, low.ID})
	})

	t.Run("price_in_balloting", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewInvestmentQueryService(db, 10)
		cat := testutil.CreateTestCatalog(t, db, phase.Balloting)
		author := testutil.CreateTestUser(t, db)
		cheap := testutil.CreateTestInvestment(t, db, cat.Budget.ID, cat.North, author.ID, testutil.Selected(100))
		pricey := testutil.CreateTestInvestment(t, db, cat.Budget.ID, cat.North, author.ID, testutil.Selected(900))
		midLow := testutil.CreateTestInvestment(t, db, cat.Budget.ID, cat.North, author.ID, testutil.Selected(500), testutil.WithConfidence(1))
		midHigh := testutil.CreateTestInvestment(t, db, cat.Budget.ID, cat.North, author.ID, testutil.Selected(500), testutil.WithConfidence(3))

		result, err := svc.Query(InvestmentQuery{BudgetRef: cat.Budget.Slug, Sort: phase.SortPrice})
		testutil.AssertNoError(t, err)
		if result.Applied.Sort != phase.SortPrice {
			t.Fatalf("expected price sort, got %s", result.Applied.Sort)
		}
		testutil.AssertIDs(t, viewIDs(result.Data), []uint{pricey.ID, midHigh.ID, midLow.ID, cheap.ID})
	})

	t.Run("most_recent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewInvestmentQueryService(db, 10)
		cat := testutil.CreateTestCatalog(t, db, phase.Accepting)
		author := testutil.CreateTestUser(t, db)
		now := time.Now()
		old := testutil.CreateTestInvestment(t, db, cat.Budget.ID, cat.North, author.ID, testutil.WithCreatedAt(now.Add(-2*time.Hour)))
		recent := testutil.CreateTestInvestment(t, db, cat.Budget.ID, cat.North, author.ID, testutil.WithCreatedAt(now.Add(-time.Minute)))
		middle := testutil.CreateTestInvestment(t, db, cat.Budget.ID, cat.North, author.ID, testutil.WithCreatedAt(now.Add(-time.Hour)))

		result, err := svc.Query(InvestmentQuery{BudgetRef: cat.Budget.Slug})
		testutil.AssertNoError(t, err)
		if result.Applied.Sort != phase.SortMostRecent {
			t.Fatalf("expected most_recent default in accepting, got %s", result.Applied.Sort)
		}
		testutil.AssertIDs(t, viewIDs(result.Data), []uint{recent.ID, middle.ID, old.ID})
	})
}

func TestQueryWinnerVisibility(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewInvestmentQueryService(db, 10)
	cat := testutil.CreateTestCatalog(t, db, phase.Balloting)
	author := testutil.CreateTestUser(t, db)
	winner := testutil.CreateTestInvestment(t, db, cat.Budget.ID, cat.North, author.ID, testutil.Winner(100))
	testutil.CreateTestInvestment(t, db, cat.Budget.ID, cat.North, author.ID, testutil.Selected(100))
	db.Model(cat.Budget).Update("results_enabled", true)

	t.Run("hidden_before_finished", func(t *testing.T) {
		result, err := svc.Query(InvestmentQuery{BudgetRef: cat.Budget.Slug, Filter: phase.FilterWinners, SessionKey: "k"})
		testutil.AssertNoError(t, err)
		if result.Applied.Filter != phase.FilterSelected {
			t.Errorf("expected fallback to selected, got %s", result.Applied.Filter)
		}
		for _, v := range result.Data {
			if v.Winner != nil {
				t.Errorf("winner flag leaked for investment %d", v.ID)
			}
		}
	})

	t.Run("listed_once_finished", func(t *testing.T) {
		testutil.SetTestBudgetPhase(t, db, cat.Budget, phase.Finished)
		result, err := svc.Query(InvestmentQuery{BudgetRef: cat.Budget.Slug, Filter: phase.FilterFeasible, SessionKey: "k"})
		testutil.AssertNoError(t, err)
		if result.Applied.Filter != phase.FilterWinners {
			t.Errorf("expected winners filter, got %s", result.Applied.Filter)
		}
		testutil.AssertIDs(t, viewIDs(result.Data), []uint{winner.ID})
		if result.Data[0].Winner == nil || !*result.Data[0].Winner {
			t.Error("expected winner flag to be visible")
		}
		if result.Data[0].Notice != NoticeWinner {
			t.Errorf("expected winner notice, got %q", result.Data[0].Notice)
		}
	})
}

func TestQueryScope(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewInvestmentQueryService(db, 10)
	cat := testutil.CreateTestCatalog(t, db, phase.Informing)
	other := testutil.CreateTestCatalog(t, db, phase.Informing)
	author := testutil.CreateTestUser(t, db)
	north := testutil.CreateTestInvestment(t, db, cat.Budget.ID, cat.North, author.ID)
	testutil.CreateTestInvestment(t, db, cat.Budget.ID, cat.South, author.ID)
	testutil.CreateTestInvestment(t, db, other.Budget.ID, other.North, author.ID)

	t.Run("heading", func(t *testing.T) {
		result, err := svc.Query(InvestmentQuery{BudgetRef: cat.Budget.Slug, HeadingRef: cat.North.Slug})
		testutil.AssertNoError(t, err)
		testutil.AssertIDs(t, viewIDs(result.Data), []uint{north.ID})
	})

	t.Run("budget_only", func(t *testing.T) {
		result, err := svc.Query(InvestmentQuery{BudgetRef: cat.Budget.Slug})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 2 {
			t.Errorf("expected 2 items, got %d", result.TotalItems)
		}
	})

	t.Run("heading_of_other_budget", func(t *testing.T) {
		_, err := svc.Query(InvestmentQuery{BudgetRef: cat.Budget.Slug, HeadingRef: other.North.Slug})
		testutil.AssertAppError(t, err, "HEADING_NOT_FOUND")
	})

	t.Run("unknown_budget", func(t *testing.T) {
		_, err := svc.Query(InvestmentQuery{BudgetRef: "nope"})
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}

func TestQueryAdvancedSearch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewInvestmentQueryService(db, 10).(*investmentQueryService)
	now := time.Now()
	svc.now = func() time.Time { return now }
	cat := testutil.CreateTestCatalog(t, db, phase.Informing)
	citizen := testutil.CreateTestUser(t, db)
	mayor := testutil.CreateTestUserWithLevel(t, db, 1)

	park := testutil.CreateTestInvestment(t, db, cat.Budget.ID, cat.North, citizen.ID,
		testutil.WithTitle("New Park benches"), testutil.WithCreatedAt(now.Add(-48*time.Hour)))
	library := testutil.CreateTestInvestment(t, db, cat.Budget.ID, cat.North, mayor.ID,
		testutil.WithTitle("Library hours"), testutil.WithCreatedAt(now.Add(-10*24*time.Hour)))
	old := testutil.CreateTestInvestment(t, db, cat.Budget.ID, cat.North, citizen.ID,
		testutil.WithTitle("Old fountain"), testutil.WithCreatedAt(now.AddDate(-2, 0, 0)))

	search := func(q InvestmentQuery) map[uint]bool {
		t.Helper()
		q.BudgetRef = cat.Budget.Slug
		q.SessionKey = "k"
		result, err := svc.Query(q)
		testutil.AssertNoError(t, err)
		out := make(map[uint]bool)
		for _, v := range result.Data {
			out[v.ID] = true
		}
		return out
	}

	t.Run("text_is_case_insensitive", func(t *testing.T) {
		got := search(InvestmentQuery{Search: "park"})
		if len(got) != 1 || !got[park.ID] {
			t.Errorf("expected only the park, got %v", got)
		}
	})

	t.Run("official_level", func(t *testing.T) {
		got := search(InvestmentQuery{OfficialLevel: 1})
		if len(got) != 1 || !got[library.ID] {
			t.Errorf("expected only the mayor's investment, got %v", got)
		}
	})

	t.Run("out_of_range_level_ignored", func(t *testing.T) {
		if got := search(InvestmentQuery{OfficialLevel: 9}); len(got) != 3 {
			t.Errorf("expected all 3 investments, got %d", len(got))
		}
	})

	t.Run("last_week", func(t *testing.T) {
		got := search(InvestmentQuery{DateMin: DateMinLastWeek})
		if len(got) != 1 || !got[park.ID] {
			t.Errorf("expected only the park, got %v", got)
		}
	})

	t.Run("last_year", func(t *testing.T) {
		got := search(InvestmentQuery{DateMin: DateMinLastYear})
		if len(got) != 2 || got[old.ID] {
			t.Errorf("expected park and library, got %v", got)
		}
	})

	t.Run("custom_range", func(t *testing.T) {
		from := now.AddDate(0, 0, -15).Format("2006-01-02")
		to := now.AddDate(0, 0, -5).Format("02/01/2006")
		got := search(InvestmentQuery{DateMin: DateMinCustom, DateFrom: from, DateTo: to})
		if len(got) != 1 || !got[library.ID] {
			t.Errorf("expected only the library, got %v", got)
		}
	})

	t.Run("invalid_custom_range_ignored", func(t *testing.T) {
		got := search(InvestmentQuery{DateMin: DateMinCustom, DateFrom: "2024-05-10", DateTo: "2024-05-01"})
		if len(got) != 3 {
			t.Errorf("expected all 3 investments, got %d", len(got))
		}
		got = search(InvestmentQuery{DateMin: DateMinCustom, DateFrom: "yesterday", DateTo: "soon"})
		if len(got) != 3 {
			t.Errorf("expected all 3 investments, got %d", len(got))
		}
	})
}
