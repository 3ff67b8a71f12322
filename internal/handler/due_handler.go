package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/clubatlas/club-adm-api/internal/models"
	"github.com/clubatlas/club-adm-api/internal/service"
	appErrors "github.com/clubatlas/club-adm-api/pkg/errors"
	"github.com/clubatlas/club-adm-api/pkg/response"
)

// DueHandler exposes monthly due endpoints.
type DueHandler struct {
	dues *service.DueService
}

// NewDueHandler constructs DueHandler.
func NewDueHandler(dues *service.DueService) *DueHandler {
	return &DueHandler{dues: dues}
}

func dueFilterFromQuery(c *gin.Context) models.DueFilter {
	var filter models.DueFilter
	filter.PlayerID = c.Query("playerId")
	if estado := c.Query("estado"); estado != "" {
		s := models.DueStatus(estado)
		filter.EstadoPago = &s
	}
	if anio, err := strconv.Atoi(c.Query("anio")); err == nil {
		filter.AnioReferencia = anio
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")
	return filter
}

// List godoc
// @Summary List dues
// @Tags Dues
// @Produce json
// @Param playerId query string false "Filter by player"
// @Param estado query string false "Filter by payment state"
// @Param anio query int false "Filter by reference year"
// @Success 200 {object} response.Envelope
// @Router /dues [get]
func (h *DueHandler) List(c *gin.Context) {
	scope, ok := scopeFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	dues, err := h.dues.List(c.Request.Context(), scope, dueFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dues, nil)
}

// Classified godoc
// @Summary Dues grouped by bucket
// @Description Splits the visible dues into upcoming, pending and paid
// @Tags Dues
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dues/classified [get]
func (h *DueHandler) Classified(c *gin.Context) {
	scope, ok := scopeFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	buckets, err := h.dues.Classify(c.Request.Context(), scope, dueFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, buckets, nil)
}

// Stats godoc
// @Summary Dues aggregates
// @Tags Dues
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dues/stats [get]
func (h *DueHandler) Stats(c *gin.Context) {
	scope, ok := scopeFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	stats, err := h.dues.Stats(c.Request.Context(), scope, dueFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// Get godoc
// @Summary Get due detail
// @Tags Dues
// @Produce json
// @Param id path string true "Due ID"
// @Success 200 {object} response.Envelope
// @Router /dues/{id} [get]
func (h *DueHandler) Get(c *gin.Context) {
	scope, ok := scopeFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	due, err := h.dues.Get(c.Request.Context(), scope, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, due, nil)
}

// Create godoc
// @Summary Create due
// @Tags Dues
// @Accept json
// @Produce json
// @Param payload body service.CreateDueRequest true "Due payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /dues [post]
func (h *DueHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.CreateDueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	due, err := h.dues.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, due)
}

// Update godoc
// @Summary Update due
// @Tags Dues
// @Accept json
// @Produce json
// @Param id path string true "Due ID"
// @Param payload body service.UpdateDueRequest true "Due payload"
// @Success 200 {object} response.Envelope
// @Router /dues/{id} [put]
func (h *DueHandler) Update(c *gin.Context) {
	var req service.UpdateDueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	due, err := h.dues.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, due, nil)
}

// Delete godoc
// @Summary Delete due
// @Tags Dues
// @Produce json
// @Param id path string true "Due ID"
// @Success 204 {object} response.Envelope
// @Router /dues/{id} [delete]
func (h *DueHandler) Delete(c *gin.Context) {
	if err := h.dues.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
