package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation error(s):\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// HasErrors returns true if there are any validation errors
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validate performs validation on the configuration.
// Store and completion credentials are deliberately not required here: a
// missing Groq key degrades extraction to clarification, and missing store
// credentials fail per request so the demo posture can mask them.
func (c *Config) Validate() error {
	var errors ValidationErrors

	errors = append(errors, c.validateSupabase()...)
	errors = append(errors, c.validateServer()...)
	errors = append(errors, c.validateQuery()...)

	if errors.HasErrors() {
		return errors
	}

	return nil
}

func (c *Config) validateSupabase() []ValidationError {
	var errors []ValidationError

	if c.Supabase.URL != "" && !strings.HasPrefix(c.Supabase.URL, "http") {
		errors = append(errors, ValidationError{
			Field:   "Supabase.URL",
			Message: "must include the protocol (http:// or https://)",
		})
	}

	if c.Supabase.Timeout <= 0 {
		errors = append(errors, ValidationError{
			Field:   "Supabase.Timeout",
			Message: "must be positive",
		})
	}

	return errors
}

func (c *Config) validateServer() []ValidationError {
	var errors []ValidationError

	if c.Server.Port == "" {
		errors = append(errors, ValidationError{
			Field:   "Server.Port",
			Message: "server port is required",
		})
	}

	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		errors = append(errors, ValidationError{
			Field:   "Server.GinMode",
			Message: "must be one of debug, release, test",
		})
	}

	return errors
}

func (c *Config) validateQuery() []ValidationError {
	var errors []ValidationError

	if c.Query.HistorySize < 0 {
		errors = append(errors, ValidationError{
			Field:   "Query.HistorySize",
			Message: "must not be negative",
		})
	}

	return errors
}
