package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clubatlas/club-adm-api/internal/models"
	"github.com/clubatlas/club-adm-api/internal/service"
	appErrors "github.com/clubatlas/club-adm-api/pkg/errors"
	"github.com/clubatlas/club-adm-api/pkg/response"
)

// ReportHandler exposes export endpoints.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Dues godoc
// @Summary Export dues report
// @Tags Reports
// @Produce text/csv
// @Param format query string false "csv or pdf" default(csv)
// @Param playerId query string false "Filter by player"
// @Success 200 {file} binary
// @Router /reports/dues [get]
func (h *ReportHandler) Dues(c *gin.Context) {
	scope, ok := scopeFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	filter := models.DueFilter{PlayerID: c.Query("playerId")}
	format := service.ReportFormat(c.DefaultQuery("format", "csv"))

	data, err := h.reports.DuesReport(c.Request.Context(), scope, filter, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	serveReport(c, data, "mensualidades", format)
}

// Attendance godoc
// @Summary Export attendance report
// @Tags Reports
// @Produce text/csv
// @Param format query string false "csv or pdf" default(csv)
// @Param playerId query string false "Filter by player"
// @Param from query string false "From date YYYY-MM-DD"
// @Param to query string false "To date YYYY-MM-DD"
// @Success 200 {file} binary
// @Router /reports/attendance [get]
func (h *ReportHandler) Attendance(c *gin.Context) {
	scope, ok := scopeFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	filter := models.AttendanceFilter{PlayerID: c.Query("playerId")}
	if from, err := time.Parse("2006-01-02", c.Query("from")); err == nil {
		filter.DateFrom = &from
	}
	if to, err := time.Parse("2006-01-02", c.Query("to")); err == nil {
		filter.DateTo = &to
	}
	format := service.ReportFormat(c.DefaultQuery("format", "csv"))

	data, err := h.reports.AttendanceReport(c.Request.Context(), scope, filter, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	serveReport(c, data, "asistencias", format)
}

func serveReport(c *gin.Context, data []byte, name string, format service.ReportFormat) {
	filename := fmt.Sprintf("%s-%s.%s", name, time.Now().Format("2006-01-02"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, format.ContentType(), data)
}
