package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"hotelbooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

// ErrorLogger logs errors attached to the context and recovers from panics.
func ErrorLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				requestFields(log, c, start).
					WithField("stack", string(debug.Stack())).
					Errorf("panic: %v", recovered)
				response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
				c.Abort()
				return
			}

			for _, err := range c.Errors {
				entry := requestFields(log, c, start).WithField("error_type", fmt.Sprintf("%v", err.Type))
				if err.Meta != nil {
					entry = entry.WithField("meta", err.Meta)
				}
				entry.Error(err.Error())
			}
		}()

		c.Next()
	}
}

// AccessLog writes one line per request.
func AccessLog(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := requestFields(log, c, start)
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Error("request")
		case status >= http.StatusBadRequest:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}

func requestFields(log *logrus.Logger, c *gin.Context, start time.Time) *logrus.Entry {
	fields := logrus.Fields{
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"status":     c.Writer.Status(),
		"client_ip":  c.ClientIP(),
		"latency":    time.Since(start).String(),
		"request_id": c.GetString(requestIDKey),
	}
	if uid := c.GetInt64("user_id"); uid != 0 {
		fields["user_id"] = uid
		fields["role"] = c.GetString("role")
	}
	if sc := trace.SpanContextFromContext(c.Request.Context()); sc.IsValid() {
		fields["trace_id"] = sc.TraceID().String()
	}
	return log.WithFields(fields)
}
