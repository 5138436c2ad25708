package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/segmentio/ksuid"

	"github.com/manzanit0/photon/pkg/logger"
	"github.com/manzanit0/photon/pkg/whttp"
)

// TraceID reuses the caller's X-Trace-Id or generates a new one, stores it in
// the request context and echoes it back in the response.
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(whttp.HeaderTraceID)
		if id == "" {
			id = ksuid.New().String()
		}

		ctx := logger.WithTraceID(c.Request.Context(), id)
		c.Request = c.Request.Clone(ctx)
		c.Header(whttp.HeaderTraceID, id)

		c.Next()
	}
}
