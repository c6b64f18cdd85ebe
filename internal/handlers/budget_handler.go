package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"civicbudget/internal/phase"
	"civicbudget/internal/services"
)

// BudgetHandler serves the public budget hierarchy.
type BudgetHandler struct {
	catalogService services.CatalogServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(catalogService services.CatalogServicer) *BudgetHandler {
	return &BudgetHandler{catalogService: catalogService}
}

// GetBudget handles retrieving a budget overview.
// @Summary     Get budget
// @Description Get a budget with its phases, groups, headings and current capabilities
// @Tags        budgets
// @Produce     json
// @Param       budget path string true "Budget ID or slug"
// @Success     200 {object} services.BudgetOverview "Budget overview"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{budget} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	overview, err := h.catalogService.GetBudgetOverview(c.Param("budget"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"budget": overview})
}

// GetHeadings handles listing the heading picker options of a budget.
// @Summary     List heading options
// @Description List the headings of a budget labelled for selection
// @Tags        budgets
// @Produce     json
// @Param       budget path string true "Budget ID or slug"
// @Success     200 {array}  services.HeadingOption "Heading options"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{budget}/headings [get]
func (h *BudgetHandler) GetHeadings(c *gin.Context) {
	options, err := h.catalogService.HeadingOptions(c.Param("budget"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"headings": options})
}

// GetCapabilities handles describing what a phase allows.
// @Summary     Phase capabilities
// @Description Get the action set of a phase. Unknown phases are reported as informing.
// @Tags        phases
// @Produce     json
// @Param       phase           path  string true  "Phase kind"
// @Param       results_enabled query bool   false "Whether the budget publishes results"
// @Success     200 {object} phase.Capabilities "Capabilities"
// @Router      /phases/{phase}/capabilities [get]
func (h *BudgetHandler) GetCapabilities(c *gin.Context) {
	resultsEnabled := c.Query("results_enabled") == "true"
	c.JSON(http.StatusOK, gin.H{"capabilities": phase.CapabilitiesFor(phase.Kind(c.Param("phase")), resultsEnabled)})
}
