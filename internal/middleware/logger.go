package middleware

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"school-attendance/backend/foundation/web"
)

// RequestIDHeader carries the id of a request in and out of the API.
const RequestIDHeader = "X-Request-ID"

// RequestID keeps the caller's request id or assigns a new one, and echoes
// it in the response.
func RequestID() web.Middleware {
	return func(handler web.Handler) web.Handler {
		return func(c *web.Context) error {
			id := c.GetHeader(RequestIDHeader)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}

			c.Header(RequestIDHeader, id)
			c.Set(RequestIDHeader, id)

			return handler(c)
		}
	}
}

// Logger writes one line per request once it has been answered.
func Logger(log *zap.Logger) web.Middleware {
	return func(handler web.Handler) web.Handler {
		return func(c *web.Context) error {
			start := time.Now()

			err := handler(c)

			fields := []zap.Field{
				zap.String("request_id", c.GetString(RequestIDHeader)),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int("status", c.Writer.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("client_ip", c.ClientIP()),
			}

			switch status := c.Writer.Status(); {
			case status >= 500:
				log.Error("request", fields...)
			case status >= 400:
				log.Warn("request", fields...)
			default:
				log.Info("request", fields...)
			}

			return err
		}
	}
}
