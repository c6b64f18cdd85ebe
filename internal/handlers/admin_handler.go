package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"civicbudget/internal/models"
	"civicbudget/internal/phase"
	"civicbudget/internal/services"
)

// AdminHandler serves the evaluator and administrator endpoints.
type AdminHandler struct {
	classificationService services.ClassificationServicer
	phaseService          services.PhaseServicer
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(classificationService services.ClassificationServicer, phaseService services.PhaseServicer) *AdminHandler {
	return &AdminHandler{classificationService: classificationService, phaseService: phaseService}
}

// ClassificationRequest represents an evaluator's partial classification update.
type ClassificationRequest struct {
	Feasibility              *models.Feasibility `json:"feasibility" binding:"omitempty,feasibility"`
	Selected                 *bool               `json:"selected"`
	Winner                   *bool               `json:"winner"`
	ValuationFinished        *bool               `json:"valuation_finished"`
	FeasibilityExplanation   *string             `json:"feasibility_explanation"`
	UnfeasibilityExplanation *string             `json:"unfeasibility_explanation"`
	Price                    *int64              `json:"price" binding:"omitempty,gte=0"`
	PriceExplanation         *string             `json:"price_explanation"`
}

// ReassignHeadingRequest represents the request payload for moving an investment.
type ReassignHeadingRequest struct {
	HeadingID uint `json:"heading_id" binding:"required"`
}

// ConfidenceScoreRequest represents the score computed by the scoring collaborator.
type ConfidenceScoreRequest struct {
	ConfidenceScore *int64 `json:"confidence_score" binding:"required"`
}

// SetPhaseRequest represents an administrative phase override.
type SetPhaseRequest struct {
	Phase phase.Kind `json:"phase" binding:"required,phase_kind"`
}

// UpdateClassification handles an evaluator's classification patch.
// @Summary     Update classification
// @Description Change feasibility, selection, winner, valuation and price. Investments that stop being eligible leave every ballot.
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id      path int                   true "Investment ID"
// @Param       request body ClassificationRequest true "Changed fields"
// @Success     200 {object} models.Investment "Updated investment"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     404 {object} ErrorResponse "Investment not found"
// @Failure     422 {object} ErrorResponse "Classification violates selection rules"
// @Router      /admin/investments/{id}/classification [put]
func (h *AdminHandler) UpdateClassification(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ClassificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	inv, err := h.classificationService.UpdateClassification(actor(c), id, services.ClassificationPatch{
		Feasibility:              req.Feasibility,
		Selected:                 req.Selected,
		Winner:                   req.Winner,
		ValuationFinished:        req.ValuationFinished,
		FeasibilityExplanation:   req.FeasibilityExplanation,
		UnfeasibilityExplanation: req.UnfeasibilityExplanation,
		Price:                    req.Price,
		PriceExplanation:         req.PriceExplanation,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"investment": inv})
}

// ReassignHeading handles moving an investment to another heading.
// @Summary     Reassign heading
// @Description Move an investment to another heading of its budget. Its ballot lines are removed.
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id      path int                    true "Investment ID"
// @Param       request body ReassignHeadingRequest true "Target heading"
// @Success     200 {object} models.Investment "Updated investment"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Investment or heading not found"
// @Router      /admin/investments/{id}/heading [put]
func (h *AdminHandler) ReassignHeading(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ReassignHeadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	inv, err := h.classificationService.ReassignHeading(actor(c), id, req.HeadingID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"investment": inv})
}

// UpdateConfidenceScore handles storing an investment's confidence score.
// @Summary     Update confidence score
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id      path int                    true "Investment ID"
// @Param       request body ConfidenceScoreRequest true "Score"
// @Success     200 {object} models.Investment "Updated investment"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Investment not found"
// @Router      /admin/investments/{id}/confidence_score [put]
func (h *AdminHandler) UpdateConfidenceScore(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ConfidenceScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	inv, err := h.classificationService.UpdateConfidenceScore(actor(c), id, *req.ConfidenceScore)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"investment": inv})
}

// AdvancePhase handles moving a budget to its next enabled phase.
// @Summary     Advance phase
// @Tags        admin
// @Produce     json
// @Security    ApiKeyAuth
// @Param       budget path string true "Budget ID or slug"
// @Success     200 {object} models.Budget "Budget"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     409 {object} ErrorResponse "Budget already finished"
// @Router      /admin/budgets/{budget}/phase/advance [post]
func (h *AdminHandler) AdvancePhase(c *gin.Context) {
	budget, err := h.phaseService.Advance(actor(c), c.Param("budget"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// SetPhase handles an administrative phase override.
// @Summary     Set phase
// @Description Jump a budget to any phase, backwards included
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       budget  path string          true "Budget ID or slug"
// @Param       request body SetPhaseRequest true "Target phase"
// @Success     200 {object} models.Budget "Budget"
// @Failure     400 {object} ErrorResponse "Invalid phase"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /admin/budgets/{budget}/phase [put]
func (h *AdminHandler) SetPhase(c *gin.Context) {
	var req SetPhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	budget, err := h.phaseService.SetPhase(actor(c), c.Param("budget"), req.Phase)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"budget": budget})
}
