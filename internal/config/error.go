package config

import (
	"fmt"
	"strings"
)

// ConfigError aggregates configuration validation errors.
type ConfigError struct {
	Errors []string
}

func (e *ConfigError) Error() string {
	if len(e.Errors) == 0 {
		return ""
	}
	parts := make([]string, 0, len(e.Errors)+1)
	parts = append(parts, "invalid configuration:")
	for _, err := range e.Errors {
		parts = append(parts, fmt.Sprintf("  - %s", err))
	}
	return strings.Join(parts, "\n")
}

// HasErrors reports whether any validation errors were recorded.
func (e *ConfigError) HasErrors() bool {
	return len(e.Errors) > 0
}
