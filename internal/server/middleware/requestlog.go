package middleware

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/inference-gateway/internal/analytics"
	"github.com/nulzo/inference-gateway/pkg/api"
)

// RequestLog hands exactly one entry per request to the ingestor, after the
// response status is known.
func RequestLog(ingestor analytics.Ingestor) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		credential := analytics.CredentialFrom(c.GetHeader("x-api-key"), c.GetHeader("Authorization"))
		entry := &analytics.RequestLog{
			Method:         c.Request.Method,
			Endpoint:       c.Request.URL.Path,
			StatusCode:     c.Writer.Status(),
			ResponseTimeMS: time.Since(start).Milliseconds(),
			APIKeyPrefix:   analytics.KeyPrefix(credential),
			UserAgent:      c.Request.UserAgent(),
			IPAddress:      c.ClientIP(),
			Timestamp:      start,
		}
		if last := c.Errors.Last(); last != nil {
			entry.ErrorMessage = errorMessage(last.Err)
		}

		ingestor.Log(entry)
	}
}

func errorMessage(err error) string {
	var problem *api.Problem
	if errors.As(err, &problem) {
		if problem.Detail != "" {
			return problem.Detail
		}
		return problem.Title
	}
	return err.Error()
}
