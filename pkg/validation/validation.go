package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps struct field names to human-readable messages. A submit
// path must never run while this map is non-empty.
type FieldErrors map[string]string

// Map converts validator output into a per-field error map suited for inline
// rendering. Non-validator errors produce a single "_" entry.
func Map(err error) FieldErrors {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"_": err.Error()}
	}

	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		out[fieldName(fe)] = message(fe)
	}
	return out
}

func fieldName(fe validator.FieldError) string {
	// StructNamespace is Type.Field; keep only the leaf, lower-cased to match
	// the JSON convention used across the API.
	name := fe.Field()
	return strings.ToLower(name[:1]) + name[1:]
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be %s or more", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
