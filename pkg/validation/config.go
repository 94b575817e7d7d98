package validation

import (
	"fmt"
)

// ConfigValidator provides a fluent interface for checks that struct tags
// cannot express. It collects all errors rather than failing on the first.
type ConfigValidator struct {
	errors []error
	name   string
}

// NewConfigValidator creates a validator whose errors are prefixed with configName
func NewConfigValidator(configName string) *ConfigValidator {
	return &ConfigValidator{name: configName}
}

// Struct runs the struct-tag validation of v and collects its errors
func (cv *ConfigValidator) Struct(v any) *ConfigValidator {
	if err := Struct(v); err != nil {
		cv.errors = append(cv.errors, fmt.Errorf("%s: %w", cv.name, err))
	}
	return cv
}

// Required validates that a string field is not empty
func (cv *ConfigValidator) Required(field, value string) *ConfigValidator {
	if value == "" {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: required field is empty", cv.name, field))
	}
	return cv
}

// RangeInt validates that an int field is within [min, max]
func (cv *ConfigValidator) RangeInt(field string, value, min, max int) *ConfigValidator {
	if value < min || value > max {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: value %d is outside range [%d, %d]", cv.name, field, value, min, max))
	}
	return cv
}

// OneOf validates that a string field is one of the allowed values
func (cv *ConfigValidator) OneOf(field, value string, allowed []string) *ConfigValidator {
	for _, a := range allowed {
		if value == a {
			return cv
		}
	}
	cv.errors = append(cv.errors, fmt.Errorf("%s.%s: value %q must be one of %v", cv.name, field, value, allowed))
	return cv
}

// Custom applies a custom validation function
func (cv *ConfigValidator) Custom(field string, fn func() error) *ConfigValidator {
	if err := fn(); err != nil {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: %w", cv.name, field, err))
	}
	return cv
}

// When applies validations only if condition holds
func (cv *ConfigValidator) When(condition bool, validations func(*ConfigValidator)) *ConfigValidator {
	if condition {
		validations(cv)
	}
	return cv
}

// Validate returns nil, the single error, or a combined error naming the
// first failure and the total count.
func (cv *ConfigValidator) Validate() error {
	switch len(cv.errors) {
	case 0:
		return nil
	case 1:
		return cv.errors[0]
	default:
		return fmt.Errorf("%s validation failed with %d errors: %w", cv.name, len(cv.errors), cv.errors[0])
	}
}

// DefaultOrInt returns value if it is positive, otherwise defaultValue
func DefaultOrInt(value, defaultValue int) int {
	if value <= 0 {
		return defaultValue
	}
	return value
}
