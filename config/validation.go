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

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks if the loaded configuration meets the requirements
// for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()

	var errors []string

	// Settings every environment must resolve
	required := []struct {
		name  string
		value string
	}{
		{"server port", cfg.ServerPort},
		{"server host", cfg.ServerHost},
		{"database host", cfg.DBHost},
		{"database port", cfg.DBPort},
		{"database user", cfg.DBUser},
		{"database name", cfg.DBName},
		{"database ssl mode", cfg.DBSSLMode},
		{"redis host", cfg.RedisHost},
		{"redis port", cfg.RedisPort},
		{"jwt secret", cfg.JWTSecret},
	}
	for _, r := range required {
		if r.value == "" {
			errors = append(errors, fmt.Sprintf("required setting %s is not set", r.name))
		}
	}

	// Sensitive values must not fall back to development defaults outside
	// of development machines
	if env == Production || env == CI {
		if cfg.DBPassword == "" {
			errors = append(errors, "database password is required")
		}
		if cfg.JWTSecret == "dev-only-jwt-secret" {
			errors = append(errors, "jwt secret must not use the development default")
		}
	}

	if cfg.ImageWorkerCount < 1 {
		errors = append(errors, fmt.Sprintf("image worker count must be positive, got %d", cfg.ImageWorkerCount))
	}
	if cfg.ImageQueueSize < 1 {
		errors = append(errors, fmt.Sprintf("image queue size must be positive, got %d", cfg.ImageQueueSize))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
