package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/clubatlas/club-adm-api/internal/access"
	"github.com/clubatlas/club-adm-api/internal/models"
	appErrors "github.com/clubatlas/club-adm-api/pkg/errors"
	"github.com/clubatlas/club-adm-api/pkg/response"
)

// ContextScopeKey is the gin context key storing the resolved data scope.
const ContextScopeKey = "currentScope"

// Scope resolves the authenticated principal's data scope and stores it on
// the context. Must run after JWT.
func Scope(resolver *access.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims := claimsValue.(*models.JWTClaims)

		scope, err := resolver.Resolve(c.Request.Context(), claims)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextScopeKey, scope)
		c.Next()
	}
}
