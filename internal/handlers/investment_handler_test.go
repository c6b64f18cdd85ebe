package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "civicbudget/internal/errors"
	"civicbudget/internal/middleware"
	"civicbudget/internal/phase"
	"civicbudget/internal/services"
)

func setupInvestmentRouter(handler *InvestmentHandler) *gin.Engine {
	r := gin.New()
	public := r.Group("", middleware.Session())
	public.GET("/budgets/:budget/investments", handler.ListInvestments)
	public.GET("/budgets/:budget/investments/suggest", handler.SuggestInvestments)
	public.GET("/budgets/:budget/investments/:id", handler.GetInvestment)

	auth := r.Group("", injectUserID(7))
	auth.POST("/budgets/:budget/investments", handler.CreateInvestment)
	auth.PUT("/budgets/:budget/investments/:id", handler.UpdateInvestment)
	auth.DELETE("/budgets/:budget/investments/:id", handler.DeleteInvestment)
	return r
}

func TestInvestmentHandler_ListInvestments(t *testing.T) {
	t.Run("passes query parameters to service", func(t *testing.T) {
		var captured services.InvestmentQuery
		query := &mockQueryService{
			queryFn: func(q services.InvestmentQuery) (*services.InvestmentPage, error) {
				captured = q
				return &services.InvestmentPage{Applied: services.AppliedQuery{Filter: phase.FilterSelected, Sort: phase.SortRandom, Seed: q.SessionKey}}, nil
			},
		}
		r := setupInvestmentRouter(NewInvestmentHandler(query, &mockInvestmentService{}))

		rec := doRequest(r, "GET", "/budgets/city/investments?heading_id=north&filter=selected&order=price&page=2&page_size=5&random_seed=abc&search=park&official_level=2&date_min=custom&date_from=2026-01-01&date_to=2026-02-01", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if captured.BudgetRef != "city" || captured.HeadingRef != "north" {
			t.Errorf("unexpected refs %q %q", captured.BudgetRef, captured.HeadingRef)
		}
		if captured.Filter != phase.FilterSelected || captured.Sort != phase.SortPrice {
			t.Errorf("unexpected filter/sort %s %s", captured.Filter, captured.Sort)
		}
		if captured.Page.Page != 2 || captured.Page.PageSize != 5 {
			t.Errorf("unexpected page %+v", captured.Page)
		}
		if captured.RandomSeed != "abc" || captured.Search != "park" || captured.OfficialLevel != 2 {
			t.Errorf("unexpected search params %+v", captured)
		}
		if captured.DateMin != "custom" || captured.DateFrom != "2026-01-01" || captured.DateTo != "2026-02-01" {
			t.Errorf("unexpected date params %+v", captured)
		}
		if captured.SessionKey == "" || captured.SessionKey != rec.Header().Get(middleware.SessionHeader) {
			t.Errorf("expected session key from middleware, got %q", captured.SessionKey)
		}
	})

	t.Run("irregular page values are not rejected", func(t *testing.T) {
		var captured services.InvestmentQuery
		query := &mockQueryService{
			queryFn: func(q services.InvestmentQuery) (*services.InvestmentPage, error) {
				captured = q
				return &services.InvestmentPage{}, nil
			},
		}
		r := setupInvestmentRouter(NewInvestmentHandler(query, &mockInvestmentService{}))

		rec := doRequest(r, "GET", "/budgets/city/investments?page=abc&page_size=-4", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if captured.Page.Page != 0 || captured.Page.PageSize != -4 {
			t.Errorf("expected raw values for normalization, got %+v", captured.Page)
		}
	})

	t.Run("returns 404 for unknown heading", func(t *testing.T) {
		query := &mockQueryService{
			queryFn: func(services.InvestmentQuery) (*services.InvestmentPage, error) {
				return nil, apperrors.ErrHeadingNotFound
			},
		}
		r := setupInvestmentRouter(NewInvestmentHandler(query, &mockInvestmentService{}))

		rec := doRequest(r, "GET", "/budgets/city/investments?heading_id=nowhere", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "HEADING_NOT_FOUND")
	})
}

func TestInvestmentHandler_SuggestInvestments(t *testing.T) {
	t.Run("returns suggestions", func(t *testing.T) {
		var capturedTerm string
		svc := &mockInvestmentService{
			suggestFn: func(_ string, term string) (*services.Suggestions, error) {
				capturedTerm = term
				return &services.Suggestions{Investments: []services.InvestmentView{{ID: 1, Title: "Park benches"}}, Total: 9}, nil
			},
		}
		r := setupInvestmentRouter(NewInvestmentHandler(&mockQueryService{}, svc))

		rec := doRequest(r, "GET", "/budgets/city/investments/suggest?term=park", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if capturedTerm != "park" {
			t.Errorf("expected term park, got %q", capturedTerm)
		}
		if parseJSON(t, rec)["total"].(float64) != 9 {
			t.Error("expected total 9")
		}
	})
}

func TestInvestmentHandler_GetInvestment(t *testing.T) {
	t.Run("returns 200", func(t *testing.T) {
		var capturedHeading string
		svc := &mockInvestmentService{
			getFn: func(_ string, id uint, headingRef string) (*services.InvestmentView, error) {
				capturedHeading = headingRef
				return &services.InvestmentView{ID: id, Title: "Benches"}, nil
			},
		}
		r := setupInvestmentRouter(NewInvestmentHandler(&mockQueryService{}, svc))

		rec := doRequest(r, "GET", "/budgets/city/investments/12?heading_id=4", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if capturedHeading != "4" {
			t.Errorf("expected heading ref 4, got %q", capturedHeading)
		}
		inv := parseJSON(t, rec)["investment"].(map[string]interface{})
		if inv["id"].(float64) != 12 {
			t.Errorf("expected id 12, got %v", inv["id"])
		}
	})

	t.Run("returns 400 on invalid ID", func(t *testing.T) {
		r := setupInvestmentRouter(NewInvestmentHandler(&mockQueryService{}, &mockInvestmentService{}))

		rec := doRequest(r, "GET", "/budgets/city/investments/abc", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 404 when heading does not match", func(t *testing.T) {
		svc := &mockInvestmentService{
			getFn: func(string, uint, string) (*services.InvestmentView, error) {
				return nil, apperrors.ErrInvestmentNotFound
			},
		}
		r := setupInvestmentRouter(NewInvestmentHandler(&mockQueryService{}, svc))

		rec := doRequest(r, "GET", "/budgets/city/investments/12?heading_id=9", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVESTMENT_NOT_FOUND")
	})
}

func TestInvestmentHandler_CreateInvestment(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var capturedAuthor uint
		var capturedInput services.InvestmentInput
		svc := &mockInvestmentService{
			createFn: func(authorID uint, _ string, input services.InvestmentInput) (*services.InvestmentView, error) {
				capturedAuthor = authorID
				capturedInput = input
				return &services.InvestmentView{ID: 5, Title: input.Title, AuthorID: authorID}, nil
			},
		}
		r := setupInvestmentRouter(NewInvestmentHandler(&mockQueryService{}, svc))

		rec := doRequest(r, "POST", "/budgets/city/investments",
			`{"heading_id":3,"title":"Community garden","description":"Raised beds","estimated_price":12000}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if capturedAuthor != 7 {
			t.Errorf("expected author 7, got %d", capturedAuthor)
		}
		if capturedInput.HeadingID == nil || *capturedInput.HeadingID != 3 {
			t.Errorf("expected heading 3, got %v", capturedInput.HeadingID)
		}
		if capturedInput.EstimatedPrice == nil || *capturedInput.EstimatedPrice != 12000 {
			t.Errorf("expected estimate 12000, got %v", capturedInput.EstimatedPrice)
		}
	})

	t.Run("returns 400 on short title", func(t *testing.T) {
		r := setupInvestmentRouter(NewInvestmentHandler(&mockQueryService{}, &mockInvestmentService{}))

		rec := doRequest(r, "POST", "/budgets/city/investments", `{"title":"abc","description":"x"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on negative estimate", func(t *testing.T) {
		r := setupInvestmentRouter(NewInvestmentHandler(&mockQueryService{}, &mockInvestmentService{}))

		rec := doRequest(r, "POST", "/budgets/city/investments", `{"title":"Garden","description":"x","estimated_price":-1}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 409 outside accepting", func(t *testing.T) {
		svc := &mockInvestmentService{
			createFn: func(uint, string, services.InvestmentInput) (*services.InvestmentView, error) {
				return nil, apperrors.ErrPhaseForbidsAction
			},
		}
		r := setupInvestmentRouter(NewInvestmentHandler(&mockQueryService{}, svc))

		rec := doRequest(r, "POST", "/budgets/city/investments", `{"title":"Garden","description":"x"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "PHASE_FORBIDS_ACTION")
	})

	t.Run("returns 401 without auth", func(t *testing.T) {
		handler := NewInvestmentHandler(&mockQueryService{}, &mockInvestmentService{})
		r := gin.New()
		r.POST("/budgets/:budget/investments", handler.CreateInvestment)

		rec := doRequest(r, "POST", "/budgets/city/investments", `{"title":"Garden","description":"x"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestInvestmentHandler_UpdateInvestment(t *testing.T) {
	t.Run("passes only given fields", func(t *testing.T) {
		var captured services.InvestmentUpdate
		svc := &mockInvestmentService{
			updateFn: func(_ uint, _ string, id uint, input services.InvestmentUpdate) (*services.InvestmentView, error) {
				captured = input
				return &services.InvestmentView{ID: id}, nil
			},
		}
		r := setupInvestmentRouter(NewInvestmentHandler(&mockQueryService{}, svc))

		rec := doRequest(r, "PUT", "/budgets/city/investments/5", `{"title":"Bigger garden"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if captured.Title == nil || *captured.Title != "Bigger garden" {
			t.Errorf("expected title, got %v", captured.Title)
		}
		if captured.Description != nil || captured.HeadingID != nil {
			t.Error("expected untouched fields to stay nil")
		}
	})

	t.Run("returns 403 for non-author", func(t *testing.T) {
		svc := &mockInvestmentService{
			updateFn: func(uint, string, uint, services.InvestmentUpdate) (*services.InvestmentView, error) {
				return nil, apperrors.ErrForbidden
			},
		}
		r := setupInvestmentRouter(NewInvestmentHandler(&mockQueryService{}, svc))

		rec := doRequest(r, "PUT", "/budgets/city/investments/5", `{"title":"Bigger garden"}`)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "FORBIDDEN")
	})
}

func TestInvestmentHandler_DeleteInvestment(t *testing.T) {
	t.Run("returns 204 on success", func(t *testing.T) {
		var capturedID uint
		svc := &mockInvestmentService{
			destroyFn: func(_ uint, _ string, id uint) error {
				capturedID = id
				return nil
			},
		}
		r := setupInvestmentRouter(NewInvestmentHandler(&mockQueryService{}, svc))

		rec := doRequest(r, "DELETE", "/budgets/city/investments/8", "")

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if capturedID != 8 {
			t.Errorf("expected id 8, got %d", capturedID)
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockInvestmentService{
			destroyFn: func(uint, string, uint) error { return apperrors.ErrInvestmentNotFound },
		}
		r := setupInvestmentRouter(NewInvestmentHandler(&mockQueryService{}, svc))

		rec := doRequest(r, "DELETE", "/budgets/city/investments/8", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
