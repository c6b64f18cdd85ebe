package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "civicbudget/internal/errors"
	"civicbudget/internal/middleware"
	"civicbudget/internal/services"
)

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (uint, error) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		return 0, apperrors.ErrUnauthorized
	}
	id, ok := userID.(uint)
	if !ok || id == 0 {
		return 0, apperrors.ErrUnauthorized
	}
	return id, nil
}

// parsePathID parses a uint path parameter.
// Returns ErrInvalidInput if the parameter is not a valid positive integer.
func parsePathID(c *gin.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return uint(id), nil
}

// queryInt reads an integer query parameter, returning 0 for missing or
// malformed values so the service can normalize them.
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}

// actor describes the caller of an evaluator endpoint for the audit trail.
func actor(c *gin.Context) services.Actor {
	a := services.Actor{IPAddress: c.ClientIP()}
	if id, err := getUserID(c); err == nil {
		a.UserID = id
	}
	return a
}

// respondWithError writes a consistent JSON error response.
func respondWithError(c *gin.Context, err error) {
	middleware.RenderError(c, err)
}

// bindError converts a binding failure into an INVALID_INPUT error.
func bindError(err error) error {
	return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
}
