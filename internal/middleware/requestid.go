package middleware

import (
	"time" // Request duration

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/google/uuid"     // Request id generation
	"github.com/sirupsen/logrus" // Structured logging
)

// RequestIDMiddleware tags every request with a uuid, echoes it in the
// X-Request-ID header and logs the request outcome with structured fields.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID") // Honor an id set by a proxy
		if reqID == "" {
			reqID = uuid.NewString() // Otherwise generate one
		}
		c.Set("requestID", reqID)       // Make it available to handlers
		c.Header("X-Request-ID", reqID) // Echo it back to the client
		start := time.Now()             // Track request duration
		c.Next()                        // Run the handler chain
		logrus.WithFields(logrus.Fields{
			"request_id": reqID,                       // Request id
			"method":     c.Request.Method,            // HTTP method
			"path":       c.Request.URL.Path,          // Request path
			"status":     c.Writer.Status(),           // Response status
			"duration":   time.Since(start).String(), // Handler duration
		}).Info("request completed")
	}
}
