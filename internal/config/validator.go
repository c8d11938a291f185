package config

import (
	"fmt"
	"strings"

	"github.com/opmodel/repo-summary/internal/output"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}

// Validate checks that every set field holds a known value.
func Validate(cfg *Config) error {
	var errs ValidationErrors

	if err := ValidateField("output", cfg.Output); err != nil {
		errs = append(errs, *err)
	}
	if err := ValidateField("sizeUnits", cfg.SizeUnits); err != nil {
		errs = append(errs, *err)
	}
	if err := ValidateField("color", cfg.Color); err != nil {
		errs = append(errs, *err)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ValidateField checks a single string setting by its config key.
// Empty values are valid and mean "use the default".
func ValidateField(key, value string) *ValidationError {
	if value == "" {
		return nil
	}

	var err error
	switch key {
	case "output":
		_, err = output.ParseOutputFormat(value)
	case "sizeUnits":
		_, err = output.ParseSizeUnits(value)
	case "color":
		_, err = output.ParseColorMode(value)
	default:
		return &ValidationError{Field: key, Message: "unknown setting"}
	}
	if err != nil {
		return &ValidationError{Field: key, Message: err.Error()}
	}
	return nil
}
