package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestIDHeader carries the request id in and out of the service.
const RequestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an id (reusing a valid incoming one)
// and logs it once it completes.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	log := logger.With().Str("module", "http").Logger()
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)

		c.Next()

		var event *zerolog.Event
		switch status := c.Writer.Status(); {
		case status >= 500:
			event = log.Error().Str("errors", c.Errors.String())
		case status >= 400:
			event = log.Warn()
		default:
			event = log.Info()
		}
		event.
			Str("request_id", id).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request handled")
	}
}
