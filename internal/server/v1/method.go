package v1

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/inference-gateway/pkg/api"
)

// MethodNotAllowed answers with 405, the allowed methods and a sample body.
func MethodNotAllowed(example interface{}, allowed ...string) gin.HandlerFunc {
	allow := strings.Join(allowed, ", ")
	return func(c *gin.Context) {
		c.Header("Allow", allow)
		_ = c.Error(api.MethodNotAllowed(c.Request.Method,
			api.WithExample(example),
			api.WithExtension("allowed_methods", allowed),
		))
	}
}
