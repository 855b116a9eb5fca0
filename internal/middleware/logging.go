package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

const TraceIDHeader = "X-Trace-ID"
const TraceParentHeader = "traceparent"

// GetTraceID returns the active span's trace ID, then the traceparent or
// X-Trace-ID header, and otherwise generates a new one.
func GetTraceID(c *gin.Context) string {
	if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
		return sc.TraceID().String()
	}

	// traceparent format: version-trace_id-parent_id-flags
	if traceParent := c.GetHeader(TraceParentHeader); traceParent != "" {
		parts := strings.Split(traceParent, "-")
		if len(parts) >= 2 && parts[1] != "" {
			return parts[1]
		}
	}

	if traceID := c.GetHeader(TraceIDHeader); traceID != "" {
		return traceID
	}

	return generateTraceID()
}

// generateTraceID returns 16 random bytes as 32 hex characters
func generateTraceID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// RequestLogger attaches a trace-scoped zerolog logger to the request context
// and logs every request once it completes.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		traceID := GetTraceID(c)
		c.Set("trace_id", traceID)

		logger := log.With().Str("trace_id", traceID).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))
		c.Header(TraceIDHeader, traceID)

		c.Next()

		statusCode := c.Writer.Status()

		var event *zerolog.Event
		if statusCode >= 400 {
			event = logger.Error()
		} else {
			event = logger.Info()
		}

		if userID, ok := GetUserID(c); ok {
			event = event.Str("user_id", userID)
		}

		event.
			Str("method", method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Msg("HTTP request")
	}
}
