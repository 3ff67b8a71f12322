package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/clubatlas/club-adm-api/internal/access"
	"github.com/clubatlas/club-adm-api/internal/middleware"
	"github.com/clubatlas/club-adm-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func scopeFromContext(c *gin.Context) (access.Scope, bool) {
	value, exists := c.Get(middleware.ContextScopeKey)
	if !exists {
		return access.Scope{}, false
	}
	scope, ok := value.(access.Scope)
	return scope, ok
}
