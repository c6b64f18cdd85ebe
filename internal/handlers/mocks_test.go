package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"civicbudget/internal/middleware"
	"civicbudget/internal/models"
	"civicbudget/internal/pagination"
	"civicbudget/internal/phase"
	"civicbudget/internal/services"
	"civicbudget/internal/validator"
)

// --- mock services ---

type mockCatalogService struct {
	resolveBudgetFn     func(ref string) (*models.Budget, error)
	resolveHeadingFn    func(budget *models.Budget, ref string) (*models.Heading, error)
	getBudgetOverviewFn func(ref string) (*services.BudgetOverview, error)
	headingOptionsFn    func(ref string) ([]services.HeadingOption, error)
}

func (m *mockCatalogService) ResolveBudget(ref string) (*models.Budget, error) {
	if m.resolveBudgetFn != nil {
		return m.resolveBudgetFn(ref)
	}
	return &models.Budget{}, nil
}

func (m *mockCatalogService) ResolveHeading(budget *models.Budget, ref string) (*models.Heading, error) {
	if m.resolveHeadingFn != nil {
		return m.resolveHeadingFn(budget, ref)
	}
	return &models.Heading{}, nil
}

func (m *mockCatalogService) GetBudgetOverview(ref string) (*services.BudgetOverview, error) {
	if m.getBudgetOverviewFn != nil {
		return m.getBudgetOverviewFn(ref)
	}
	return &services.BudgetOverview{}, nil
}

func (m *mockCatalogService) HeadingOptions(ref string) ([]services.HeadingOption, error) {
	if m.headingOptionsFn != nil {
		return m.headingOptionsFn(ref)
	}
	return []services.HeadingOption{}, nil
}

var _ services.CatalogServicer = (*mockCatalogService)(nil)

type mockQueryService struct {
	queryFn func(q services.InvestmentQuery) (*services.InvestmentPage, error)
}

func (m *mockQueryService) Query(q services.InvestmentQuery) (*services.InvestmentPage, error) {
	if m.queryFn != nil {
		return m.queryFn(q)
	}
	return &services.InvestmentPage{
		PageResponse: pagination.NewPageResponse([]services.InvestmentView{}, 1, 10, 0),
	}, nil
}

var _ services.InvestmentQueryServicer = (*mockQueryService)(nil)

type mockInvestmentService struct {
	createFn  func(authorID uint, budgetRef string, input services.InvestmentInput) (*services.InvestmentView, error)
	updateFn  func(authorID uint, budgetRef string, id uint, input services.InvestmentUpdate) (*services.InvestmentView, error)
	destroyFn func(authorID uint, budgetRef string, id uint) error
	getFn     func(budgetRef string, id uint, headingRef string) (*services.InvestmentView, error)
	suggestFn func(budgetRef, term string) (*services.Suggestions, error)
}

func (m *mockInvestmentService) CreateInvestment(authorID uint, budgetRef string, input services.InvestmentInput) (*services.InvestmentView, error) {
	if m.createFn != nil {
		return m.createFn(authorID, budgetRef, input)
	}
	return &services.InvestmentView{}, nil
}

func (m *mockInvestmentService) UpdateInvestment(authorID uint, budgetRef string, id uint, input services.InvestmentUpdate) (*services.InvestmentView, error) {
	if m.updateFn != nil {
		return m.updateFn(authorID, budgetRef, id, input)
	}
	return &services.InvestmentView{}, nil
}

func (m *mockInvestmentService) DestroyInvestment(authorID uint, budgetRef string, id uint) error {
	if m.destroyFn != nil {
		return m.destroyFn(authorID, budgetRef, id)
	}
	return nil
}

func (m *mockInvestmentService) GetInvestment(budgetRef string, id uint, headingRef string) (*services.InvestmentView, error) {
	if m.getFn != nil {
		return m.getFn(budgetRef, id, headingRef)
	}
	return &services.InvestmentView{}, nil
}

func (m *mockInvestmentService) Suggest(budgetRef, term string) (*services.Suggestions, error) {
	if m.suggestFn != nil {
		return m.suggestFn(budgetRef, term)
	}
	return &services.Suggestions{Investments: []services.InvestmentView{}}, nil
}

var _ services.InvestmentServicer = (*mockInvestmentService)(nil)

type mockBallotService struct {
	addLineFn    func(userID uint, budgetRef string, investmentID uint) (*models.BallotLine, error)
	removeLineFn func(userID uint, budgetRef string, investmentID uint) error
	ballotForFn  func(userID uint, budgetRef string) (*services.BallotView, error)
}

func (m *mockBallotService) AddLine(userID uint, budgetRef string, investmentID uint) (*models.BallotLine, error) {
	if m.addLineFn != nil {
		return m.addLineFn(userID, budgetRef, investmentID)
	}
	return &models.BallotLine{}, nil
}

func (m *mockBallotService) RemoveLine(userID uint, budgetRef string, investmentID uint) error {
	if m.removeLineFn != nil {
		return m.removeLineFn(userID, budgetRef, investmentID)
	}
	return nil
}

func (m *mockBallotService) Reclassify(_ *gorm.DB, _ uint) (int64, error) {
	return 0, nil
}

func (m *mockBallotService) BallotFor(userID uint, budgetRef string) (*services.BallotView, error) {
	if m.ballotForFn != nil {
		return m.ballotForFn(userID, budgetRef)
	}
	return &services.BallotView{}, nil
}

var _ services.BallotServicer = (*mockBallotService)(nil)

type mockClassificationService struct {
	updateFn   func(a services.Actor, id uint, patch services.ClassificationPatch) (*models.Investment, error)
	reassignFn func(a services.Actor, id, headingID uint) (*models.Investment, error)
	scoreFn    func(a services.Actor, id uint, score int64) (*models.Investment, error)
}

func (m *mockClassificationService) UpdateClassification(a services.Actor, id uint, patch services.ClassificationPatch) (*models.Investment, error) {
	if m.updateFn != nil {
		return m.updateFn(a, id, patch)
	}
	return &models.Investment{}, nil
}

func (m *mockClassificationService) ReassignHeading(a services.Actor, id, headingID uint) (*models.Investment, error) {
	if m.reassignFn != nil {
		return m.reassignFn(a, id, headingID)
	}
	return &models.Investment{}, nil
}

func (m *mockClassificationService) UpdateConfidenceScore(a services.Actor, id uint, score int64) (*models.Investment, error) {
	if m.scoreFn != nil {
		return m.scoreFn(a, id, score)
	}
	return &models.Investment{}, nil
}

var _ services.ClassificationServicer = (*mockClassificationService)(nil)

type mockPhaseService struct {
	advanceFn  func(a services.Actor, ref string) (*models.Budget, error)
	setPhaseFn func(a services.Actor, ref string, kind phase.Kind) (*models.Budget, error)
}

func (m *mockPhaseService) Advance(a services.Actor, ref string) (*models.Budget, error) {
	if m.advanceFn != nil {
		return m.advanceFn(a, ref)
	}
	return &models.Budget{}, nil
}

func (m *mockPhaseService) SetPhase(a services.Actor, ref string, kind phase.Kind) (*models.Budget, error) {
	if m.setPhaseFn != nil {
		return m.setPhaseFn(a, ref, kind)
	}
	return &models.Budget{}, nil
}

var _ services.PhaseServicer = (*mockPhaseService)(nil)

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func injectUserID(uid uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}
