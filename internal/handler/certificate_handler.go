package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clubatlas/club-adm-api/internal/models"
	"github.com/clubatlas/club-adm-api/internal/service"
	appErrors "github.com/clubatlas/club-adm-api/pkg/errors"
	"github.com/clubatlas/club-adm-api/pkg/response"
)

// CertificateHandler exposes certificate endpoints.
type CertificateHandler struct {
	certificates *service.CertificateService
}

// NewCertificateHandler constructs CertificateHandler.
func NewCertificateHandler(certificates *service.CertificateService) *CertificateHandler {
	return &CertificateHandler{certificates: certificates}
}

func certificateFilterFromQuery(c *gin.Context) models.CertificateFilter {
	var filter models.CertificateFilter
	filter.PlayerID = c.Query("playerId")
	if tipo := c.Query("tipo"); tipo != "" {
		t := models.CertificateType(tipo)
		filter.Tipo = &t
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")
	return filter
}

// List godoc
// @Summary List certificates
// @Tags Certificates
// @Produce json
// @Param playerId query string false "Filter by player"
// @Param tipo query string false "Filter by type"
// @Success 200 {object} response.Envelope
// @Router /certificates [get]
func (h *CertificateHandler) List(c *gin.Context) {
	scope, ok := scopeFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	certs, err := h.certificates.List(c.Request.Context(), scope, certificateFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, certs, nil)
}

// Classified godoc
// @Summary Certificates grouped by expiry state
// @Tags Certificates
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /certificates/classified [get]
func (h *CertificateHandler) Classified(c *gin.Context) {
	scope, ok := scopeFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	buckets, err := h.certificates.Classify(c.Request.Context(), scope, certificateFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, buckets, nil)
}

// Get godoc
// @Summary Get certificate detail
// @Tags Certificates
// @Produce json
// @Param id path string true "Certificate ID"
// @Success 200 {object} response.Envelope
// @Router /certificates/{id} [get]
func (h *CertificateHandler) Get(c *gin.Context) {
	scope, ok := scopeFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	cert, err := h.certificates.Get(c.Request.Context(), scope, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cert, nil)
}

// Issue godoc
// @Summary Issue certificate
// @Description Expiry is fixed by type: 6 months for integration, 12 otherwise
// @Tags Certificates
// @Accept json
// @Produce json
// @Param payload body service.IssueCertificateRequest true "Certificate payload"
// @Success 201 {object} response.Envelope
// @Router /certificates [post]
func (h *CertificateHandler) Issue(c *gin.Context) {
	var req service.IssueCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	cert, err := h.certificates.Issue(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, cert)
}

// Download godoc
// @Summary Download certificate PDF
// @Tags Certificates
// @Produce application/pdf
// @Param id path string true "Certificate ID"
// @Success 200 {file} binary
// @Router /certificates/{id}/download [get]
func (h *CertificateHandler) Download(c *gin.Context) {
	scope, ok := scopeFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	data, err := h.certificates.Render(c.Request.Context(), scope, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("certificado-%s.pdf", c.Param("id"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

// Delete godoc
// @Summary Delete certificate
// @Tags Certificates
// @Produce json
// @Param id path string true "Certificate ID"
// @Success 204 {object} response.Envelope
// @Router /certificates/{id} [delete]
func (h *CertificateHandler) Delete(c *gin.Context) {
	if err := h.certificates.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
