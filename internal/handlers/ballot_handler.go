package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"civicbudget/internal/services"
)

// BallotHandler handles a participant's ballot.
type BallotHandler struct {
	ballotService services.BallotServicer
}

// NewBallotHandler creates a new BallotHandler.
func NewBallotHandler(ballotService services.BallotServicer) *BallotHandler {
	return &BallotHandler{ballotService: ballotService}
}

// AddLineRequest represents the request payload for adding a ballot line.
type AddLineRequest struct {
	InvestmentID uint `json:"investment_id" binding:"required"`
}

// GetBallot handles showing the caller's ballot.
// @Summary     Get ballot
// @Description Get the caller's ballot lines grouped by group, with remaining amounts per heading
// @Tags        ballots
// @Produce     json
// @Security    BearerAuth
// @Param       budget path string true "Budget ID or slug"
// @Success     200 {object} services.BallotView "Ballot"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{budget}/ballot [get]
func (h *BallotHandler) GetBallot(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	view, err := h.ballotService.BallotFor(userID, c.Param("budget"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ballot": view})
}

// AddLine handles adding an investment to the caller's ballot.
// @Summary     Add ballot line
// @Description Add a selected investment to the ballot. Adding an investment already on the ballot is a no-op.
// @Tags        ballots
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       budget  path string         true "Budget ID or slug"
// @Param       request body AddLineRequest true "Investment to add"
// @Success     201 {object} models.BallotLine "Ballot line"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Investment not found"
// @Failure     409 {object} ErrorResponse "Ballot closed"
// @Failure     422 {object} ErrorResponse "Group or funds constraint violated"
// @Router      /budgets/{budget}/ballot/lines [post]
func (h *BallotHandler) AddLine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	line, err := h.ballotService.AddLine(userID, c.Param("budget"), req.InvestmentID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"line": line})
}

// RemoveLine handles removing an investment from the caller's ballot.
// @Summary     Remove ballot line
// @Description Remove an investment from the ballot. Removing a missing line is a no-op.
// @Tags        ballots
// @Produce     json
// @Security    BearerAuth
// @Param       budget        path string true "Budget ID or slug"
// @Param       investment_id path int    true "Investment ID"
// @Success     204 "Removed"
// @Failure     400 {object} ErrorResponse "Invalid investment ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{budget}/ballot/lines/{investment_id} [delete]
func (h *BallotHandler) RemoveLine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	investmentID, err := parsePathID(c, "investment_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.ballotService.RemoveLine(userID, c.Param("budget"), investmentID); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
