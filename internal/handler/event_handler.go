package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clubatlas/club-adm-api/internal/models"
	"github.com/clubatlas/club-adm-api/internal/service"
	appErrors "github.com/clubatlas/club-adm-api/pkg/errors"
	"github.com/clubatlas/club-adm-api/pkg/response"
)

// EventHandler exposes club fixture endpoints.
type EventHandler struct {
	events *service.EventService
}

// NewEventHandler constructs EventHandler.
func NewEventHandler(events *service.EventService) *EventHandler {
	return &EventHandler{events: events}
}

// List godoc
// @Summary List events
// @Tags Events
// @Produce json
// @Param categoria query string false "Filter by category"
// @Param from query string false "From date YYYY-MM-DD"
// @Param to query string false "To date YYYY-MM-DD"
// @Success 200 {object} response.Envelope
// @Router /events [get]
func (h *EventHandler) List(c *gin.Context) {
	var filter models.EventFilter
	if categoria := c.Query("categoria"); categoria != "" {
		cat := models.EventCategory(categoria)
		filter.Categoria = &cat
	}
	if from, err := time.Parse("2006-01-02", c.Query("from")); err == nil {
		filter.DateFrom = &from
	}
	if to, err := time.Parse("2006-01-02", c.Query("to")); err == nil {
		filter.DateTo = &to
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	events, err := h.events.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, nil)
}

// Upcoming godoc
// @Summary Upcoming events
// @Tags Events
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /events/upcoming [get]
func (h *EventHandler) Upcoming(c *gin.Context) {
	events, err := h.events.Upcoming(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, nil)
}

// Get godoc
// @Summary Get event detail
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /events/{id} [get]
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// Create godoc
// @Summary Schedule event
// @Tags Events
// @Accept json
// @Produce json
// @Param payload body service.EventRequest true "Event payload"
// @Success 201 {object} response.Envelope
// @Router /events [post]
func (h *EventHandler) Create(c *gin.Context) {
	var req service.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	event, err := h.events.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}

// Update godoc
// @Summary Update event
// @Tags Events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param payload body service.EventRequest true "Event payload"
// @Success 200 {object} response.Envelope
// @Router /events/{id} [put]
func (h *EventHandler) Update(c *gin.Context) {
	var req service.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	event, err := h.events.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// Delete godoc
// @Summary Delete event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 204 {object} response.Envelope
// @Router /events/{id} [delete]
func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.events.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
