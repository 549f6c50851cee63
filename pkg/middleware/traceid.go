package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"submgmt/pkg/utils"
)

const TraceIDHeader = "X-Trace-ID"

// TraceIDMiddleware tags every request with a trace id, reusing the
// caller's X-Trace-ID when one is supplied. The id rides on the gin
// context for the response envelope and on the request context for
// anything logging below the HTTP layer.
func TraceIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.New().String()
		}
		c.Set("trace_id", traceID)
		c.Writer.Header().Set(TraceIDHeader, traceID)
		c.Request = c.Request.WithContext(utils.WithTraceID(c.Request.Context(), traceID))
		c.Next()
	}
}
