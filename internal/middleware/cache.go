package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clubatlas/club-adm-api/internal/service"
)

// InvalidateDashboards drops the cached dashboard summaries after any
// successful mutation, so the next dashboard read rebuilds from the database.
func InvalidateDashboards(dashboards *service.DashboardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == http.MethodGet {
			return
		}
		if c.Writer.Status() >= http.StatusMultipleChoices {
			return
		}
		dashboards.Invalidate(c.Request.Context())
	}
}
