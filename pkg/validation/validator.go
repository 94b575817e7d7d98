package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the shared struct-tag validator
var validate *validator.Validate

func init() {
	validate = validator.New()
	// Report yaml names so errors match what users wrote in config files
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}

// Struct validates v against its `validate` struct tags. Every failing
// field is reported.
func Struct(v any) error {
	if v == nil {
		return errors.New("value cannot be nil")
	}
	return formatValidationError(validate.Struct(v))
}

// formatValidationError converts validator errors to readable messages
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	msgs := make([]error, 0, len(validationErrs))
	for _, e := range validationErrs {
		msgs = append(msgs, fieldError(e))
	}
	return errors.Join(msgs...)
}

func fieldError(e validator.FieldError) error {
	field := e.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Errorf("%s: field is required", field)
	case "min", "gte":
		return fmt.Errorf("%s: must be at least %s", field, param)
	case "max", "lte":
		return fmt.Errorf("%s: must not exceed %s", field, param)
	case "gt":
		return fmt.Errorf("%s: must be greater than %s", field, param)
	case "gtefield":
		return fmt.Errorf("%s: must be at least %s", field, param)
	case "oneof":
		return fmt.Errorf("%s: must be one of [%s], got %v", field, param, e.Value())
	default:
		return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
	}
}
