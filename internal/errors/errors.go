// Package errors provides custom error types for the civic budget API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import (
	stderrors "errors"
	"net/http"
)

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Code returns the application error code carried by err, or "" when err is
// not an AppError.
func Code(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsConstraint reports whether err is a ballot constraint violation.
func IsConstraint(err error) bool {
	switch Code(err) {
	case ErrDuplicateGroup.Code, ErrInsufficientFunds.Code:
		return true
	}
	return false
}

// IsNotFound reports whether err belongs to the not-found family.
func IsNotFound(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.StatusCode == http.StatusNotFound
}

// Authentication & authorization errors.
var (
	ErrUnauthorized  = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrForbidden     = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrInvalidAPIKey = &AppError{Code: "INVALID_API_KEY", Message: "Invalid or missing API key", StatusCode: http.StatusUnauthorized}

	ErrEvaluatorNotConfigured = &AppError{Code: "EVALUATOR_NOT_CONFIGURED", Message: "Evaluator endpoints are not configured", StatusCode: http.StatusServiceUnavailable}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Catalog errors.
var (
	ErrBudgetNotFound  = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
	ErrHeadingNotFound = &AppError{Code: "HEADING_NOT_FOUND", Message: "Heading not found", StatusCode: http.StatusNotFound}
	ErrUserNotFound    = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
)

// Phase errors.
var (
	ErrPhaseForbidsAction = &AppError{Code: "PHASE_FORBIDS_ACTION", Message: "The current phase does not allow this action", StatusCode: http.StatusConflict}
	ErrPhaseTerminal      = &AppError{Code: "PHASE_TERMINAL", Message: "The budget is already finished", StatusCode: http.StatusConflict}
)

// Investment errors.
var (
	ErrInvestmentNotFound    = &AppError{Code: "INVESTMENT_NOT_FOUND", Message: "Investment not found", StatusCode: http.StatusNotFound}
	ErrInvalidClassification = &AppError{Code: "INVALID_CLASSIFICATION", Message: "Classification violates selection rules", StatusCode: http.StatusUnprocessableEntity}
)

// Ballot errors.
var (
	ErrBallotClosed          = &AppError{Code: "BALLOT_CLOSED", Message: "Balloting is not open for this budget", StatusCode: http.StatusConflict}
	ErrInvestmentNotEligible = &AppError{Code: "INVESTMENT_NOT_ELIGIBLE", Message: "Investment cannot be added to a ballot", StatusCode: http.StatusUnprocessableEntity}
	ErrDuplicateGroup        = &AppError{Code: "DUPLICATE_GROUP", Message: "You have already voted a different heading in this group", StatusCode: http.StatusUnprocessableEntity}
	ErrInsufficientFunds     = &AppError{Code: "INSUFFICIENT_FUNDS", Message: "Not enough money left in this heading", StatusCode: http.StatusUnprocessableEntity}
)
