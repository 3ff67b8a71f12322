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

// TrainingHandler exposes training schedule endpoints.
type TrainingHandler struct {
	trainings *service.TrainingService
}

// NewTrainingHandler constructs TrainingHandler.
func NewTrainingHandler(trainings *service.TrainingService) *TrainingHandler {
	return &TrainingHandler{trainings: trainings}
}

// List godoc
// @Summary List trainings
// @Tags Trainings
// @Produce json
// @Param coachId query string false "Filter by coach"
// @Param from query string false "From date YYYY-MM-DD"
// @Param to query string false "To date YYYY-MM-DD"
// @Success 200 {object} response.Envelope
// @Router /trainings [get]
func (h *TrainingHandler) List(c *gin.Context) {
	var filter models.TrainingFilter
	filter.CoachID = c.Query("coachId")
	if from, err := time.Parse("2006-01-02", c.Query("from")); err == nil {
		filter.DateFrom = &from
	}
	if to, err := time.Parse("2006-01-02", c.Query("to")); err == nil {
		filter.DateTo = &to
	}
	filter.SortOrder = c.Query("order")

	trainings, err := h.trainings.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trainings, nil)
}

// Upcoming godoc
// @Summary Upcoming trainings
// @Tags Trainings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /trainings/upcoming [get]
func (h *TrainingHandler) Upcoming(c *gin.Context) {
	trainings, err := h.trainings.Upcoming(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trainings, nil)
}

// Get godoc
// @Summary Get training detail
// @Tags Trainings
// @Produce json
// @Param id path string true "Training ID"
// @Success 200 {object} response.Envelope
// @Router /trainings/{id} [get]
func (h *TrainingHandler) Get(c *gin.Context) {
	training, err := h.trainings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, training, nil)
}

// Create godoc
// @Summary Schedule training
// @Tags Trainings
// @Accept json
// @Produce json
// @Param payload body service.TrainingRequest true "Training payload"
// @Success 201 {object} response.Envelope
// @Router /trainings [post]
func (h *TrainingHandler) Create(c *gin.Context) {
	var req service.TrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	training, err := h.trainings.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, training)
}

// Update godoc
// @Summary Update training
// @Tags Trainings
// @Accept json
// @Produce json
// @Param id path string true "Training ID"
// @Param payload body service.TrainingRequest true "Training payload"
// @Success 200 {object} response.Envelope
// @Router /trainings/{id} [put]
func (h *TrainingHandler) Update(c *gin.Context) {
	var req service.TrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	training, err := h.trainings.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, training, nil)
}

// Delete godoc
// @Summary Delete training
// @Tags Trainings
// @Produce json
// @Param id path string true "Training ID"
// @Success 204 {object} response.Envelope
// @Router /trainings/{id} [delete]
func (h *TrainingHandler) Delete(c *gin.Context) {
	if err := h.trainings.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
