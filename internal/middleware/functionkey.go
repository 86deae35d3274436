package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/m1z23r/drift/pkg/drift"
)

// FunctionKey gates the integration endpoints behind a shared key, sent
// either as a Bearer token or in an "apikey" header. An empty key disables
// the check.
func FunctionKey(key string) drift.HandlerFunc {
	return func(c *drift.Context) {
		if key == "" {
			c.Next()
			return
		}

		presented := c.GetHeader("apikey")
		if presented == "" {
			parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
			if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
				presented = parts[1]
			}
		}

		if subtle.ConstantTimeCompare([]byte(presented), []byte(key)) != 1 {
			_ = c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid function key"})
			c.Abort()
			return
		}

		c.Next()
	}
}
