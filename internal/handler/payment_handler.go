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

// PaymentHandler exposes settlement endpoints.
type PaymentHandler struct {
	payments *service.PaymentService
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// List godoc
// @Summary List payments
// @Tags Payments
// @Produce json
// @Param playerId query string false "Filter by player"
// @Param metodo query string false "Filter by payment method"
// @Param from query string false "From date YYYY-MM-DD"
// @Param to query string false "To date YYYY-MM-DD"
// @Success 200 {object} response.Envelope
// @Router /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	scope, ok := scopeFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var filter models.PaymentFilter
	filter.PlayerID = c.Query("playerId")
	filter.Metodo = c.Query("metodo")
	if from, err := time.Parse("2006-01-02", c.Query("from")); err == nil {
		filter.DateFrom = &from
	}
	if to, err := time.Parse("2006-01-02", c.Query("to")); err == nil {
		filter.DateTo = &to
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	payments, err := h.payments.List(c.Request.Context(), scope, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payments, nil)
}

// Get godoc
// @Summary Get payment detail
// @Tags Payments
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} response.Envelope
// @Router /payments/{id} [get]
func (h *PaymentHandler) Get(c *gin.Context) {
	scope, ok := scopeFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	payment, err := h.payments.Get(c.Request.Context(), scope, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payment, nil)
}

// Create godoc
// @Summary Register payment
// @Description Registers a payment; a linked due is settled atomically
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body service.CreatePaymentRequest true "Payment payload"
// @Success 201 {object} response.Envelope
// @Router /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	scope, ok := scopeFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	payment, err := h.payments.Create(c.Request.Context(), scope, claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, payment)
}

// Delete godoc
// @Summary Delete payment
// @Description Removes a payment; a linked due reverts to pending
// @Tags Payments
// @Produce json
// @Param id path string true "Payment ID"
// @Success 204 {object} response.Envelope
// @Router /payments/{id} [delete]
func (h *PaymentHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.payments.Delete(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
