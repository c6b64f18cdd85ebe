package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	apperrors "civicbudget/internal/errors"
)

// EvaluatorAuth guards the evaluator endpoints with the X-API-Key header.
// With no key configured every request is refused.
func EvaluatorAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			abortWithError(c, apperrors.ErrEvaluatorNotConfigured)
			return
		}
		key := c.GetHeader("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			abortWithError(c, apperrors.ErrInvalidAPIKey)
			return
		}
		c.Next()
	}
}
