package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	Email string  `validate:"required,email"`
	Monto float64 `validate:"required,gt=0"`
	Role  string  `validate:"oneof=Admin Coach"`
}

func TestMapValidatorErrors(t *testing.T) {
	validate := validator.New()
	err := validate.Struct(samplePayload{Email: "not-an-email", Monto: -5, Role: "Other"})
	require.Error(t, err)

	fields := Map(err)
	assert.Equal(t, "must be a valid email", fields["email"])
	assert.Equal(t, "must be greater than 0", fields["monto"])
	assert.Equal(t, "must be one of: Admin Coach", fields["role"])
}

func TestMapRequired(t *testing.T) {
	validate := validator.New()
	err := validate.Struct(samplePayload{Role: "Admin"})
	require.Error(t, err)

	fields := Map(err)
	assert.Equal(t, "this field is required", fields["email"])
}

func TestMapNilError(t *testing.T) {
	assert.Nil(t, Map(nil))
}

func TestMapPlainError(t *testing.T) {
	fields := Map(errors.New("boom"))
	assert.Equal(t, FieldErrors{"_": "boom"}, fields)
}
