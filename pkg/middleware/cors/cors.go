package cors

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	allowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	allowHeaders = "Authorization, Content-Type, X-Request-ID"
)

// New builds a CORS middleware for the configured origins. An empty list
// allows every origin, which is only sensible outside production.
func New(origins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[normalize(o)] = struct{}{}
	}
	allowAny := len(allowed) == 0

	return func(c *gin.Context) {
		header := c.Writer.Header()
		header.Set("Vary", "Origin")

		origin := c.GetHeader("Origin")
		switch {
		case origin == "" && allowAny:
			header.Set("Access-Control-Allow-Origin", "*")
		case origin != "":
			if _, ok := allowed[normalize(origin)]; ok || allowAny {
				header.Set("Access-Control-Allow-Origin", origin)
				header.Set("Access-Control-Allow-Credentials", "true")
			}
		}

		header.Set("Access-Control-Allow-Methods", allowMethods)
		header.Set("Access-Control-Allow-Headers", allowHeaders)
		header.Set("Access-Control-Max-Age", "600")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func normalize(origin string) string {
	return strings.ToLower(strings.TrimRight(origin, "/"))
}
