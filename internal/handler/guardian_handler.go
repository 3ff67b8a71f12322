package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clubatlas/club-adm-api/internal/service"
	appErrors "github.com/clubatlas/club-adm-api/pkg/errors"
	"github.com/clubatlas/club-adm-api/pkg/response"
)

// GuardianHandler exposes guardian endpoints.
type GuardianHandler struct {
	guardians *service.GuardianService
}

// NewGuardianHandler constructs GuardianHandler.
func NewGuardianHandler(guardians *service.GuardianService) *GuardianHandler {
	return &GuardianHandler{guardians: guardians}
}

// List godoc
// @Summary List guardians
// @Tags Guardians
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /guardians [get]
func (h *GuardianHandler) List(c *gin.Context) {
	guardians, err := h.guardians.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, guardians, nil)
}

// Get godoc
// @Summary Get guardian detail
// @Tags Guardians
// @Produce json
// @Param id path string true "Guardian ID"
// @Success 200 {object} response.Envelope
// @Router /guardians/{id} [get]
func (h *GuardianHandler) Get(c *gin.Context) {
	scope, ok := scopeFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	guardian, err := h.guardians.Get(c.Request.Context(), scope, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, guardian, nil)
}

// Register godoc
// @Summary Register guardian
// @Description Creates the user account and guardian profile linked to a player
// @Tags Guardians
// @Accept json
// @Produce json
// @Param payload body service.RegisterGuardianRequest true "Guardian payload"
// @Success 201 {object} response.Envelope
// @Router /guardians [post]
func (h *GuardianHandler) Register(c *gin.Context) {
	var req service.RegisterGuardianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	guardian, err := h.guardians.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, guardian)
}

// Update godoc
// @Summary Update guardian profile
// @Tags Guardians
// @Accept json
// @Produce json
// @Param id path string true "Guardian ID"
// @Param payload body service.UpdateGuardianRequest true "Guardian payload"
// @Success 200 {object} response.Envelope
// @Router /guardians/{id} [put]
func (h *GuardianHandler) Update(c *gin.Context) {
	var req service.UpdateGuardianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	guardian, err := h.guardians.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, guardian, nil)
}
