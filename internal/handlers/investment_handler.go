package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"civicbudget/internal/middleware"
	"civicbudget/internal/pagination"
	"civicbudget/internal/phase"
	"civicbudget/internal/services"
)

// InvestmentHandler handles listing, showing and authoring investments.
type InvestmentHandler struct {
	queryService      services.InvestmentQueryServicer
	investmentService services.InvestmentServicer
}

// NewInvestmentHandler creates a new InvestmentHandler.
func NewInvestmentHandler(queryService services.InvestmentQueryServicer, investmentService services.InvestmentServicer) *InvestmentHandler {
	return &InvestmentHandler{queryService: queryService, investmentService: investmentService}
}

// CreateInvestmentRequest represents the request payload for proposing an investment.
type CreateInvestmentRequest struct {
	HeadingID        *uint  `json:"heading_id"`
	Title            string `json:"title" binding:"required,min=4,max=80"`
	Description      string `json:"description" binding:"required"`
	Location         string `json:"location" binding:"max=255"`
	OrganizationName string `json:"organization_name" binding:"max=255"`
	EstimatedPrice   *int64 `json:"estimated_price" binding:"omitempty,gte=0"`
}

// UpdateInvestmentRequest represents the request payload for editing an investment.
type UpdateInvestmentRequest struct {
	HeadingID        *uint   `json:"heading_id"`
	Title            *string `json:"title" binding:"omitempty,min=4,max=80"`
	Description      *string `json:"description" binding:"omitempty,min=1"`
	Location         *string `json:"location" binding:"omitempty,max=255"`
	OrganizationName *string `json:"organization_name" binding:"omitempty,max=255"`
	EstimatedPrice   *int64  `json:"estimated_price" binding:"omitempty,gte=0"`
}

// ListInvestments handles the filtered, ordered investment listing.
// @Summary     List investments
// @Description List investments of a budget. Irregular filter, order and page values fall back to the phase defaults.
// @Tags        investments
// @Produce     json
// @Param       budget         path   string true  "Budget ID or slug"
// @Param       X-Session-ID   header string false "Visitor session key"
// @Param       heading_id     query  string false "Heading ID or slug"
// @Param       filter         query  string false "Classification filter"
// @Param       order          query  string false "Sort order"
// @Param       page           query  int    false "Page number (default 1)"
// @Param       page_size      query  int    false "Items per page"
// @Param       random_seed    query  string false "Override for the random ordering key"
// @Param       search         query  string false "Title or description text"
// @Param       official_level query  int    false "Author official level"
// @Param       date_min       query  string false "Preset range (last_day, last_week, last_month, last_year or custom)"
// @Param       date_from      query  string false "Custom range start (YYYY-MM-DD)"
// @Param       date_to        query  string false "Custom range end (YYYY-MM-DD)"
// @Success     200 {object} services.InvestmentPage "Investments page"
// @Failure     404 {object} ErrorResponse "Budget or heading not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{budget}/investments [get]
func (h *InvestmentHandler) ListInvestments(c *gin.Context) {
	q := services.InvestmentQuery{
		BudgetRef:     c.Param("budget"),
		HeadingRef:    c.Query("heading_id"),
		Filter:        phase.Filter(c.Query("filter")),
		Sort:          phase.Sort(c.Query("order")),
		Page:          pagination.PageRequest{Page: queryInt(c, "page"), PageSize: queryInt(c, "page_size")},
		RandomSeed:    c.Query("random_seed"),
		SessionKey:    c.GetString(middleware.SessionKey),
		Search:        c.Query("search"),
		OfficialLevel: queryInt(c, "official_level"),
		DateMin:       c.Query("date_min"),
		DateFrom:      c.Query("date_from"),
		DateTo:        c.Query("date_to"),
	}

	page, err := h.queryService.Query(q)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// SuggestInvestments handles the similar-title hint shown while authoring.
// @Summary     Suggest investments
// @Description List up to five investments whose title contains the term
// @Tags        investments
// @Produce     json
// @Param       budget path  string true "Budget ID or slug"
// @Param       term   query string true "Search term"
// @Success     200 {object} services.Suggestions "Suggestions"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{budget}/investments/suggest [get]
func (h *InvestmentHandler) SuggestInvestments(c *gin.Context) {
	result, err := h.investmentService.Suggest(c.Param("budget"), c.Query("term"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetInvestment handles showing one investment.
// @Summary     Get investment
// @Description Get the phase-aware projection of an investment
// @Tags        investments
// @Produce     json
// @Param       budget     path  string true  "Budget ID or slug"
// @Param       id         path  int    true  "Investment ID"
// @Param       heading_id query string false "Heading the investment must belong to"
// @Success     200 {object} services.InvestmentView "Investment"
// @Failure     400 {object} ErrorResponse "Invalid investment ID"
// @Failure     404 {object} ErrorResponse "Investment not found"
// @Router      /budgets/{budget}/investments/{id} [get]
func (h *InvestmentHandler) GetInvestment(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	view, err := h.investmentService.GetInvestment(c.Param("budget"), id, c.Query("heading_id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"investment": view})
}

// CreateInvestment handles proposing an investment.
// @Summary     Create investment
// @Description Propose an investment while the budget accepts them
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       budget  path string                  true "Budget ID or slug"
// @Param       request body CreateInvestmentRequest true "Investment details"
// @Success     201 {object} services.InvestmentView "Investment created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget or heading not found"
// @Failure     409 {object} ErrorResponse "Phase forbids authoring"
// @Router      /budgets/{budget}/investments [post]
func (h *InvestmentHandler) CreateInvestment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	inv, err := h.investmentService.CreateInvestment(userID, c.Param("budget"), services.InvestmentInput{
		HeadingID:        req.HeadingID,
		Title:            req.Title,
		Description:      req.Description,
		Location:         req.Location,
		OrganizationName: req.OrganizationName,
		EstimatedPrice:   req.EstimatedPrice,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"investment": inv})
}

// UpdateInvestment handles editing an investment.
// @Summary     Update investment
// @Description Edit an investment. Only its author may edit, and only while the phase allows it.
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       budget  path string                  true "Budget ID or slug"
// @Param       id      path int                     true "Investment ID"
// @Param       request body UpdateInvestmentRequest true "Changed fields"
// @Success     200 {object} services.InvestmentView "Updated investment"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Not the author"
// @Failure     404 {object} ErrorResponse "Investment not found"
// @Failure     409 {object} ErrorResponse "Phase forbids editing"
// @Router      /budgets/{budget}/investments/{id} [put]
func (h *InvestmentHandler) UpdateInvestment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	inv, err := h.investmentService.UpdateInvestment(userID, c.Param("budget"), id, services.InvestmentUpdate{
		HeadingID:        req.HeadingID,
		Title:            req.Title,
		Description:      req.Description,
		Location:         req.Location,
		OrganizationName: req.OrganizationName,
		EstimatedPrice:   req.EstimatedPrice,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"investment": inv})
}

// DeleteInvestment handles withdrawing an investment.
// @Summary     Delete investment
// @Description Withdraw an investment while the budget accepts investments
// @Tags        investments
// @Produce     json
// @Security    BearerAuth
// @Param       budget path string true "Budget ID or slug"
// @Param       id     path int    true "Investment ID"
// @Success     204 "Deleted"
// @Failure     403 {object} ErrorResponse "Not the author"
// @Failure     404 {object} ErrorResponse "Investment not found"
// @Failure     409 {object} ErrorResponse "Phase forbids deletion"
// @Router      /budgets/{budget}/investments/{id} [delete]
func (h *InvestmentHandler) DeleteInvestment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.investmentService.DestroyInvestment(userID, c.Param("budget"), id); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
