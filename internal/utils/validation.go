package utils

import (
	"fmt"
	"regexp"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Validator represents a validation function
type Validator[T any] func(T) error

// NotEmpty validates that a string is not empty
func NotEmpty(field string) Validator[string] {
	return func(value string) error {
		if value == "" {
			return ValidationError{
				Field:   field,
				Value:   value,
				Message: "cannot be empty",
			}
		}
		return nil
	}
}

var pluginNamePattern = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)

// PluginName validates a plugin namespace: a single CamelCase path segment
func PluginName(field string) Validator[string] {
	return func(value string) error {
		if value == "" || pluginNamePattern.MatchString(value) {
			return nil
		}
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: "must be a single CamelCase segment like Blog",
		}
	}
}
