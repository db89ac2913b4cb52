package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "finance4all/internal/errors"
	"finance4all/internal/logger"
	"finance4all/internal/reporting"
)

// ErrorResponse is the JSON body written for every failed request.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the error code, message and, for validation failures,
// the offending fields.
type ErrorBody struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Fields  []apperrors.FieldError `json:"fields,omitempty"`
}

// ErrorHandler returns a Gin middleware that converts errors set on the Gin
// context into consistent JSON error responses. In production messages are
// masked and every error is forwarded to the reporter.
func ErrorHandler(production bool, reporter reporting.Reporter, service, env string) gin.HandlerFunc {
	if reporter == nil {
		reporter = reporting.Nop{}
	}

	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		// Process the last error (most relevant in a middleware chain)
		err := c.Errors.Last().Err

		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			logger.Get().Errorw("unexpected error",
				"error", err.Error(),
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
			)
		} else if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"message", appErr.Message,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}

		public := apperrors.Public(err, production)

		if production {
			event := reporting.Event{
				Code:       public.Code,
				Message:    err.Error(),
				Operation:  c.Request.Method + " " + c.FullPath(),
				Path:       c.Request.URL.Path,
				RequestID:  GetRequestID(c),
				UserID:     GetUserID(c),
				Service:    service,
				Env:        env,
				OccurredAt: time.Now().UTC(),
			}
			if public.Internal != nil {
				event.Internal = public.Internal.Error()
			}
			reporter.Report(c.Request.Context(), event)
		}

		if c.Writer.Written() {
			return
		}

		status := public.StatusCode
		if status == 0 {
			status = http.StatusInternalServerError
		}
		c.JSON(status, ErrorResponse{Error: ErrorBody{
			Code:    public.Code,
			Message: public.Message,
			Fields:  public.Fields,
		}})
	}
}
