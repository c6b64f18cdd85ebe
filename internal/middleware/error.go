package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "civicbudget/internal/errors"
	"civicbudget/internal/logger"
)

// Resolve maps err to the AppError rendered to clients. Binding and
// validation failures become INVALID_INPUT; anything unexpected becomes a
// generic internal error.
func Resolve(err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, verrs.Error())
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

// RenderError writes err as the JSON error envelope and logs internal causes.
func RenderError(c *gin.Context, err error) {
	appErr := Resolve(err)
	if appErr.Internal != nil {
		logger.Get().Errorw("request failed",
			"code", appErr.Code,
			"message", appErr.Message,
			"internal", appErr.Internal.Error(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"request_id", c.GetString(requestIDKey),
		)
	}
	c.JSON(appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}

func abortWithError(c *gin.Context, appErr *apperrors.AppError) {
	c.AbortWithStatusJSON(appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}

// ErrorHandler renders the last error a handler placed on the context with
// c.Error, unless a response has already been written.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		RenderError(c, c.Errors.Last().Err)
	}
}
