package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	appErrors "github.com/clubatlas/club-adm-api/pkg/errors"
	"github.com/clubatlas/club-adm-api/pkg/validation"
)

// Envelope represents the common response contract.
type Envelope struct {
	Data   interface{}            `json:"data,omitempty"`
	Error  *appErrors.Error       `json:"error,omitempty"`
	Fields map[string]string      `json:"fields,omitempty"`
	Meta   map[string]interface{} `json:"meta,omitempty"`
}

// JSON sends a success response with optional metadata.
func JSON(c *gin.Context, status int, data interface{}, meta ...map[string]interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	envelope := Envelope{Data: data}
	if len(meta) > 0 && meta[0] != nil {
		envelope.Meta = meta[0]
	}
	c.JSON(status, envelope)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Error sends an error response converting the error to the common structure.
// When the chain carries validator errors the per-field map is included.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")

	envelope := Envelope{Error: appErr}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		envelope.Fields = validation.Map(fieldErrs)
	}
	c.JSON(appErr.Status, envelope)
}

// ValidationError sends a 400 with the per-field error map rendered inline.
func ValidationError(c *gin.Context, fields map[string]string) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(http.StatusBadRequest, Envelope{Error: appErrors.ErrValidation, Fields: fields})
}

// NoContent sends a 204 response. The header is flushed immediately since no
// body write follows to trigger it.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
	c.Writer.WriteHeaderNow()
}
