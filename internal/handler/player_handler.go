package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/clubatlas/club-adm-api/internal/models"
	"github.com/clubatlas/club-adm-api/internal/service"
	appErrors "github.com/clubatlas/club-adm-api/pkg/errors"
	"github.com/clubatlas/club-adm-api/pkg/response"
)

// PlayerHandler exposes roster endpoints.
type PlayerHandler struct {
	players *service.PlayerService
}

// NewPlayerHandler constructs PlayerHandler.
func NewPlayerHandler(players *service.PlayerService) *PlayerHandler {
	return &PlayerHandler{players: players}
}

// List godoc
// @Summary List players
// @Tags Players
// @Produce json
// @Param search query string false "Search by name or documento"
// @Param categoria query string false "Filter by category"
// @Param active query bool false "Filter by active state"
// @Success 200 {object} response.Envelope
// @Router /players [get]
func (h *PlayerHandler) List(c *gin.Context) {
	scope, ok := scopeFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var filter models.PlayerFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.Categoria = c.Query("categoria")
	if active := c.Query("active"); active != "" {
		v := active == "true"
		filter.Active = &v
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	players, err := h.players.List(c.Request.Context(), scope, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, players, nil)
}

// Get godoc
// @Summary Get player detail
// @Tags Players
// @Produce json
// @Param id path string true "Player ID"
// @Success 200 {object} response.Envelope
// @Router /players/{id} [get]
func (h *PlayerHandler) Get(c *gin.Context) {
	scope, ok := scopeFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	player, err := h.players.Get(c.Request.Context(), scope, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, player, nil)
}

// Register godoc
// @Summary Register player
// @Description Creates the user account and player profile together
// @Tags Players
// @Accept json
// @Produce json
// @Param payload body service.RegisterPlayerRequest true "Player payload"
// @Success 201 {object} response.Envelope
// @Router /players [post]
func (h *PlayerHandler) Register(c *gin.Context) {
	var req service.RegisterPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	player, err := h.players.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, player)
}

// Update godoc
// @Summary Update player profile
// @Tags Players
// @Accept json
// @Produce json
// @Param id path string true "Player ID"
// @Param payload body service.UpdatePlayerRequest true "Player payload"
// @Success 200 {object} response.Envelope
// @Router /players/{id} [put]
func (h *PlayerHandler) Update(c *gin.Context) {
	scope, ok := scopeFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.UpdatePlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	player, err := h.players.Update(c.Request.Context(), scope, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, player, nil)
}
