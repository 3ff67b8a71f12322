package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clubatlas/club-adm-api/internal/service"
	appErrors "github.com/clubatlas/club-adm-api/pkg/errors"
	"github.com/clubatlas/club-adm-api/pkg/response"
)

// DashboardHandler exposes summary endpoints.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Admin godoc
// @Summary Club-wide dashboard
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/admin [get]
func (h *DashboardHandler) Admin(c *gin.Context) {
	scope, ok := scopeFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	summary, err := h.dashboard.AdminSummary(c.Request.Context(), scope)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Player godoc
// @Summary Personal dashboard for a player
// @Tags Dashboard
// @Produce json
// @Param playerId path string true "Player ID"
// @Success 200 {object} response.Envelope
// @Router /dashboard/player/{playerId} [get]
func (h *DashboardHandler) Player(c *gin.Context) {
	scope, ok := scopeFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	playerID := c.Param("playerId")
	if playerID == "" {
		playerID = scope.PlayerID
	}
	summary, err := h.dashboard.PlayerSummary(c.Request.Context(), scope, playerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
