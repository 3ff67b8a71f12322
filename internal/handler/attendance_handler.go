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

// AttendanceHandler exposes attendance endpoints.
type AttendanceHandler struct {
	attendance *service.AttendanceService
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(attendance *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// List godoc
// @Summary List attendance records
// @Tags Attendance
// @Produce json
// @Param playerId query string false "Filter by player"
// @Param entrenamientoId query string false "Filter by training"
// @Param eventoId query string false "Filter by event"
// @Param estado query string false "Filter by outcome"
// @Param from query string false "From date YYYY-MM-DD"
// @Param to query string false "To date YYYY-MM-DD"
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	scope, ok := scopeFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var filter models.AttendanceFilter
	filter.PlayerID = c.Query("playerId")
	filter.EntrenamientoID = c.Query("entrenamientoId")
	filter.EventoID = c.Query("eventoId")
	if estado := c.Query("estado"); estado != "" {
		s := models.AttendanceStatus(estado)
		filter.Estado = &s
	}
	if from, err := time.Parse("2006-01-02", c.Query("from")); err == nil {
		filter.DateFrom = &from
	}
	if to, err := time.Parse("2006-01-02", c.Query("to")); err == nil {
		filter.DateTo = &to
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	records, err := h.attendance.List(c.Request.Context(), scope, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// Mark godoc
// @Summary Record attendance
// @Description Records a player's outcome for a training or event; re-marking overwrites
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.MarkAttendanceRequest true "Attendance payload"
// @Success 201 {object} response.Envelope
// @Router /attendance [post]
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req service.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	record, err := h.attendance.Mark(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// BulkMark godoc
// @Summary Record attendance for a whole session
// @Description Records every listed player's outcome for one training or event
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.BulkMarkAttendanceRequest true "Bulk attendance payload"
// @Success 201 {object} response.Envelope
// @Router /attendance/bulk [post]
func (h *AttendanceHandler) BulkMark(c *gin.Context) {
	var req service.BulkMarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	records, err := h.attendance.BulkMark(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, records)
}

// Summary godoc
// @Summary Attendance rates for a player
// @Description Per-category and overall rates; unrecorded entries are excluded
// @Tags Attendance
// @Produce json
// @Param playerId path string true "Player ID"
// @Success 200 {object} response.Envelope
// @Router /attendance/summary/{playerId} [get]
func (h *AttendanceHandler) Summary(c *gin.Context) {
	scope, ok := scopeFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	summary, err := h.attendance.Summary(c.Request.Context(), scope, c.Param("playerId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Delete godoc
// @Summary Delete attendance record
// @Tags Attendance
// @Produce json
// @Param id path string true "Record ID"
// @Success 204 {object} response.Envelope
// @Router /attendance/{id} [delete]
func (h *AttendanceHandler) Delete(c *gin.Context) {
	if err := h.attendance.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
