package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "spendbook/internal/errors"
	"spendbook/internal/logger"
)

// ErrorHandler renders the last error attached with c.Error, unless the
// handler already wrote a response. Binding errors become INVALID_INPUT.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		last := c.Errors.Last()
		err := last.Err
		if last.IsType(gin.ErrorTypeBind) {
			err = apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
		WriteError(c, err)
	}
}

// WriteError aborts the request with the {"error": {code, message}} body.
// Errors that are not an *AppError are reported as INTERNAL_ERROR. Internal
// causes go to the log together with the request ID and never to the client.
func WriteError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if appErr.Internal != nil {
		logger.Named("http").Errorw("request failed",
			"request_id", c.GetString(requestIDKey),
			"code", appErr.Code,
			"error", appErr.Internal.Error(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
	}

	c.AbortWithStatusJSON(appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}
