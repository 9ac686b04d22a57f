package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"tokobayar.com/app/internal/shared/apperr"
)

func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ErrorHandler turns accumulated gin errors into the structured error
// envelope. Internal detail is attached only in development-like
// configurations; callers otherwise see the public message.
func ErrorHandler(l *slog.Logger, development bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := apperr.HTTPStatus(err)
		publicMsg := apperr.PublicMessage(err)
		rid := GetRequestID(c)

		l.LogAttrs(c.Request.Context(), slog.LevelError, "request_failed",
			slog.String("request_id", rid),
			slog.Int("status", status),
			slog.Any("err", err),
		)

		payload := gin.H{
			"status":     "error",
			"message":    publicMsg,
			"request_id": rid,
		}
		if ae, ok := apperr.As(err); ok {
			if len(ae.Fields) > 0 {
				payload["fields"] = ae.Fields
			}
			if development && ae.Err != nil {
				payload["details"] = ae.Err.Error()
			}
		}
		c.AbortWithStatusJSON(status, payload)
	}
}
